package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/validate"
)

// RegisterRoutes sets up the public account routes. RequireAuth is exported
// separately for other plugins to use on their route groups.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/auth")
	g.POST("/register", h.Register, validate.Body(registerRules))
	g.POST("/login", h.Login, validate.Body(loginRules))
}
