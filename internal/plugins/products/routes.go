package products

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/validate"
)

// RegisterRoutes mounts the catalog under /products. requireAuth runs
// before body validation, so unauthenticated callers get 401 whatever
// they send.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc) {
	g := e.Group("/products", requireAuth)
	g.GET("", h.List)
	g.POST("", h.Create, validate.Body(productRules))
	g.PUT("/:id", h.Update, validate.Body(productRules))
	g.DELETE("/:id", h.Delete)
}
