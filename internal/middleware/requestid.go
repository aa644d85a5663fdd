package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// contextKeyRequestID is the Echo context key for the per-request trace id.
const contextKeyRequestID = "request_id"

// maxRequestIDLen caps client-supplied ids so logs can't be flooded.
const maxRequestIDLen = 128

// RequestID returns middleware that propagates the caller's X-Request-ID or
// assigns a new UUID, echoes it on the response, and stores it for logging.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}

			c.Set(contextKeyRequestID, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// GetRequestID returns the id assigned by RequestID, or "" if it did not run.
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(contextKeyRequestID).(string)
	return id
}
