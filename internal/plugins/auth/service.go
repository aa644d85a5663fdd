package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/keyxmakerx/stockroom/internal/apperror"
	"github.com/keyxmakerx/stockroom/internal/sanitize"
)

// Client-facing messages for account errors.
const (
	msgUserExists         = "User already exists"
	msgUserNotFound       = "User not found"
	msgInvalidCredentials = "Invalid credentials"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgUnauthorized       = "Unauthorized"
)

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (user *User, token string, err error)
	Login(ctx context.Context, input LoginInput) (token string, user *User, err error)
	VerifyToken(token string) (*Claims, error)
}

// authService implements AuthService with bcrypt hashing and stateless JWTs.
type authService struct {
	repo   UserRepository
	hasher PasswordHasher
	tokens *TokenIssuer
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, hasher PasswordHasher, tokens *TokenIssuer) AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new account and returns it with a fresh token. The
// email is normalized before the uniqueness check and the name is stripped
// of markup.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, string, error) {
	email := normalizeEmail(input.Email)

	// Check if email is already taken before doing expensive hashing.
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, "", apperror.NewConflict(msgUserExists)
	}

	name := sanitize.Text(input.Name)
	if name == "" {
		return nil, "", apperror.NewValidation(msgNameRequired)
	}

	hash, err := s.hasher.Hash(input.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, "", apperror.NewValidation(msgPasswordTooLong)
	}
	if err != nil {
		return nil, "", apperror.NewInternal(err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, "", appErr
		}
		return nil, "", apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", apperror.NewInternal(err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Login authenticates by email and password and returns a fresh token. An
// unknown email and a wrong password are reported separately.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", nil, apperror.NewNotFound(msgUserNotFound)
		}
		return "", nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return "", nil, apperror.NewInternal(err)
	}
	if !ok {
		return "", nil, apperror.NewUnauthorized(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, apperror.NewInternal(err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return token, user, nil
}

// VerifyToken validates a bearer token. Every failure collapses into the
// same 401 so callers cannot tell expired tokens from forged ones.
func (s *authService) VerifyToken(token string) (*Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		appErr := apperror.NewUnauthorized(msgUnauthorized)
		appErr.Internal = err
		return nil, appErr
	}
	return claims, nil
}

// normalizeEmail lowercases and trims an address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
