package media

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/apperror"
)

// RegisterRoutes mounts POST /upload. maxUploadSize also bounds the whole
// request body so oversized payloads are refused before being read.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc, maxUploadSize int64) {
	// 10% margin above maxUploadSize for multipart encoding overhead.
	bodyLimit := bodyLimitMiddleware(maxUploadSize + maxUploadSize/10)

	e.POST("/upload", h.Upload, requireAuth, bodyLimit)
}

// bodyLimitMiddleware returns middleware that rejects request bodies exceeding
// the given size in bytes. Applied before the handler reads the body into memory.
func bodyLimitMiddleware(maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().ContentLength > maxBytes {
				return apperror.NewPayloadTooLarge(msgFileTooLarge)
			}
			c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBytes)
			return next(c)
		}
	}
}
