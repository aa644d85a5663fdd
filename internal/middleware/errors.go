package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/apperror"
)

// ErrorHandler is the Echo HTTPErrorHandler. It maps domain errors
// (AppError) and Echo's own HTTP errors onto the JSON envelope. Anything
// else becomes a generic 500; the cause is logged, never sent.
func ErrorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := apperror.InternalMessage
	errType := apperror.TypeInternal

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		errType = appErr.Type

		if appErr.Internal != nil {
			level := slog.LevelDebug
			if code >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.Log(c.Request().Context(), level, "request failed",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
				slog.String("request_id", GetRequestID(c)),
			)
		}

	case errors.As(err, &echoErr):
		// Router 404/405, binder errors, and other framework errors.
		code = echoErr.Code
		message = http.StatusText(code)
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			message = msg
		}
		errType = typeForStatus(code)
		if code >= http.StatusInternalServerError {
			message = apperror.InternalMessage
			slog.Error("framework error",
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
				slog.String("request_id", GetRequestID(c)),
			)
		}

	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("request_id", GetRequestID(c)),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if werr := Failure(c, code, message, errType); werr != nil {
		slog.Error("writing error response", slog.Any("error", werr))
	}
}

// typeForStatus picks the error type for errors that are not AppErrors.
func typeForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return apperror.TypeBadRequest
	case http.StatusUnauthorized:
		return apperror.TypeUnauthorized
	case http.StatusForbidden:
		return apperror.TypeForbidden
	case http.StatusNotFound:
		return apperror.TypeNotFound
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return apperror.TypePayloadTooLarge
	default:
		if code >= http.StatusInternalServerError {
			return apperror.TypeInternal
		}
		return apperror.TypeBadRequest
	}
}
