package middleware

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the JSON shape of every API response, success or failure.
type Envelope struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success writes a successful envelope. data may be nil.
func Success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{
		Message: message,
		Success: true,
		Data:    data,
	})
}

// SuccessWithToken writes a successful envelope carrying a bearer token.
func SuccessWithToken(c echo.Context, status int, message string, data any, token string) error {
	return c.JSON(status, Envelope{
		Message: message,
		Success: true,
		Data:    data,
		Token:   token,
	})
}

// Failure writes an error envelope. errType is the machine-readable error
// classifier and is omitted when empty.
func Failure(c echo.Context, status int, message, errType string) error {
	return c.JSON(status, Envelope{
		Message: message,
		Success: false,
		Error:   errType,
	})
}
