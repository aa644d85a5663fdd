package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/apperror"
)

// Recovery returns middleware that recovers from panics, logs the stack
// trace, and answers with the generic 500 envelope so a single panicking
// handler cannot take the process down.
func Recovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic recovered",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", c.Request().Method),
						slog.String("path", c.Request().URL.Path),
						slog.String("request_id", GetRequestID(c)),
					)

					if c.Response().Committed {
						return
					}
					returnErr = Failure(c, http.StatusInternalServerError,
						apperror.InternalMessage, apperror.TypeInternal)
				}
			}()

			return next(c)
		}
	}
}
