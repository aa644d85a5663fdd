package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/apperror"
	"github.com/keyxmakerx/stockroom/internal/middleware"
	"github.com/keyxmakerx/stockroom/internal/validate"
)

// Handler handles HTTP requests for account registration and login.
// Handlers are thin: they read the validated body, call the service, and
// render the envelope. No business logic lives here.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// Register creates an account (POST /auth/register).
func (h *Handler) Register(c echo.Context) error {
	req := validate.Bound[RegisterRequest](c)
	if req == nil {
		return apperror.NewMissingContext()
	}

	user, token, err := h.service.Register(c.Request().Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return middleware.SuccessWithToken(c, http.StatusCreated, "User registered successfully", user, token)
}

// Login exchanges credentials for a token (POST /auth/login).
func (h *Handler) Login(c echo.Context) error {
	req := validate.Bound[LoginRequest](c)
	if req == nil {
		return apperror.NewMissingContext()
	}

	token, _, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return middleware.SuccessWithToken(c, http.StatusOK, "Login successful", nil, token)
}
