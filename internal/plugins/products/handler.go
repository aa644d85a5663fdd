package products

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/apperror"
	"github.com/keyxmakerx/stockroom/internal/middleware"
	"github.com/keyxmakerx/stockroom/internal/plugins/auth"
	"github.com/keyxmakerx/stockroom/internal/validate"
)

// Handler handles HTTP requests for the product catalog.
type Handler struct {
	service ProductService
}

// NewHandler creates a new product handler.
func NewHandler(service ProductService) *Handler {
	return &Handler{service: service}
}

// List returns every product (GET /products).
func (h *Handler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return middleware.Success(c, http.StatusOK, "Products fetched successfully", products)
}

// Create adds a product (POST /products).
func (h *Handler) Create(c echo.Context) error {
	userID := auth.GetUserID(c)
	req := validate.Bound[ProductRequest](c)
	if userID == "" || req == nil {
		return apperror.NewMissingContext()
	}

	p, err := h.service.Create(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return err
	}
	return middleware.Success(c, http.StatusCreated, "Product created successfully", p)
}

// Update replaces a product's fields (PUT /products/:id).
func (h *Handler) Update(c echo.Context) error {
	req := validate.Bound[ProductRequest](c)
	if req == nil {
		return apperror.NewMissingContext()
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return middleware.Success(c, http.StatusOK, "Product updated successfully", p)
}

// Delete removes a product and returns it (DELETE /products/:id).
func (h *Handler) Delete(c echo.Context) error {
	p, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return middleware.Success(c, http.StatusOK, "Product deleted successfully", p)
}
