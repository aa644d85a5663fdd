package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/stockroom/internal/apperror"
)

// Context keys for storing verified identity in Echo context. Other plugins
// use these keys (via the exported getter functions below) to access the
// authenticated user's information.
const (
	contextKeyClaims = "auth_claims"
	contextKeyUserID = "auth_user_id"
)

// bearerPrefix is the required Authorization scheme, including the space.
const bearerPrefix = "Bearer "

// RequireAuth returns middleware that verifies the bearer token and injects
// its claims into the request context. Every rejection is the same 401.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return apperror.NewUnauthorized(msgUnauthorized)
			}

			claims, err := service.VerifyToken(token)
			if err != nil {
				return err
			}

			c.Set(contextKeyClaims, claims)
			c.Set(contextKeyUserID, claims.UserID)

			return next(c)
		}
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// --- Exported getters for other plugins ---

// GetClaims retrieves the verified token claims from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetClaims(c echo.Context) *Claims {
	claims, ok := c.Get(contextKeyClaims).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetUserID retrieves the authenticated user's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}
