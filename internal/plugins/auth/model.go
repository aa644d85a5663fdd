// Package auth handles account registration, login, and bearer-token
// authorization for Stockroom. Passwords are hashed with bcrypt and clients
// authenticate with HS256 JWTs carried in the Authorization header.
//
// The package exports RequireAuth for other plugins to guard their routes.
package auth

import (
	"time"

	"github.com/keyxmakerx/stockroom/internal/validate"
)

// User is a registered account. Database scanning and JSON marshaling use
// this struct directly.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time `json:"createdAt"`
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validation messages returned to clients.
const (
	msgNameRequired  = "Name is required"
	msgEmailInvalid  = "Valid email is required"
	msgPasswordShort = "Password must be at least 6 characters"
	msgNameTooLong   = "Name must be at most 255 characters"
	msgEmailTooLong  = "Email must be at most 255 characters"
)

const (
	// minPasswordLen is the shortest accepted password.
	minPasswordLen = 6

	// maxNameLen and maxEmailLen match the users table columns.
	maxNameLen  = 255
	maxEmailLen = 255
)

// registerRules lists the register checks in reporting order.
func registerRules(r *RegisterRequest) []validate.Rule {
	return []validate.Rule{
		validate.String("name", r.Name, validate.NotEmpty, msgNameRequired),
		validate.String("name", r.Name, validate.MaxLength(maxNameLen), msgNameTooLong),
		validate.String("email", r.Email, validate.Email, msgEmailInvalid),
		validate.String("email", r.Email, validate.MaxLength(maxEmailLen), msgEmailTooLong),
		validate.String("password", r.Password, validate.MinLength(minPasswordLen), msgPasswordShort),
	}
}

// loginRules lists the login checks in reporting order.
func loginRules(r *LoginRequest) []validate.Rule {
	return []validate.Rule{
		validate.String("email", r.Email, validate.Email, msgEmailInvalid),
		validate.String("password", r.Password, validate.MinLength(minPasswordLen), msgPasswordShort),
	}
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is the validated input for authenticating an account.
type LoginInput struct {
	Email    string
	Password string
}
