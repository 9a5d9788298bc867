// Package service contains the business logic for the Wayfarer API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL and no HTTP live here — services depend on repo interfaces,
// not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tbellamy/wayfarer/backend/internal/domain"
	"github.com/tbellamy/wayfarer/backend/internal/repo"
)

// TokenStore persists opaque session tokens. The production implementation
// is Redis-backed (see session.go); tests use an in-memory map.
type TokenStore interface {
	// Save associates token with userID for the store's TTL.
	Save(ctx context.Context, token string, userID uuid.UUID) error

	// Lookup resolves token to a user ID and refreshes the TTL (sliding
	// expiry). Returns domain.ErrUnauthenticated for unknown or expired
	// tokens.
	Lookup(ctx context.Context, token string) (uuid.UUID, error)

	// Delete removes the token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// AuthService implements account registration, login, and session handling.
type AuthService struct {
	users    repo.UserRepo
	sessions TokenStore
}

// NewAuthService constructs an AuthService backed by the provided repo and
// token store.
func NewAuthService(users repo.UserRepo, sessions TokenStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register validates the input, hashes the password, and creates the account.
// Returns domain.ErrValidation for rule violations and domain.ErrConflict
// when the email or username is already taken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := validateRegister(in); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: hash: %w", err)
	}

	user := domain.User{
		Name:         strings.TrimSpace(in.Name),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	created.PasswordHash = ""
	return created, nil
}

// Login checks the credentials and, on success, mints a session token.
// Wrong email and wrong password are indistinguishable to the caller: both
// return domain.ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthenticated)
		}
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthenticated)
	}

	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, user.ID); err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: session: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Logout deletes the session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	return nil
}

// UserFromToken resolves a session token to its full user record.
// Returns domain.ErrUnauthenticated for unknown or expired tokens.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (domain.User, error) {
	userID, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.UserFromToken: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Token outlived the account — treat like an expired session.
			return domain.User{}, fmt.Errorf("service.AuthService.UserFromToken: %w", domain.ErrUnauthenticated)
		}
		return domain.User{}, fmt.Errorf("service.AuthService.UserFromToken: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// validateRegister enforces the account creation rules.
func validateRegister(in RegisterInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email is malformed", domain.ErrValidation)
	}
	if len(in.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	return nil
}
