// Package user provides account registration, authentication and lookup.
package user

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pinshare/internal/utils/platformerrors"
)

// User models a registered account. PasswordHash is a salted bcrypt digest
// and is never exposed through the API.
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines storage operations for users.
type Repository interface {
	Create(ctx context.Context, usr *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// Service registers and authenticates users.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register validates the supplied credentials, hashes the password and
// persists a new account. Duplicate username or email surfaces as a conflict.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	if len(username) < 3 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"username must be at least 3 characters", nil, "8f1c9a42-0d6e-4b35-9a71-3c2de08f5b11")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"a valid email address is required", nil, "2b7d4e91-6f3a-4c88-b5d2-91a0c4e7f326")
	}
	if len(password) < 6 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"password must be at least 6 characters", nil, "c4a81f5d-72b9-4e06-8c3f-d95b6a120e47")
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"user with this email or username already exists", nil, "6e9d2c50-1a4b-4f77-93e8-b02f5d71a683")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to hash password", err, "f3b60e84-5c27-49d1-a6f9-8e14d7023c5a")
	}

	return s.repo.Create(ctx, &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
}

// Authenticate verifies email and password. The error never reveals which
// of the two was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)

	invalid := platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
		"invalid credentials", nil, "a1e57b93-48d0-4c62-bf36-72c9e08d514f")

	usr, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, invalid
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, invalid
	}
	return usr, nil
}

// Profile returns the account for the given id.
func (s *Service) Profile(ctx context.Context, id uint) (*User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if usr == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"user not found", nil, "0d82f4a6-9b15-4e30-87c2-5f6a1d93e0b8")
	}
	return usr, nil
}

// NormalizeEmail lowercases and trims the address, matching the stored form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
