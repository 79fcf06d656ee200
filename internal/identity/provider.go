// Package identity is the login-account backend: users, password hashes,
// custom role claims and the ID tokens that carry them.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists        = errors.New("identity: email already exists")
	ErrUserNotFound       = errors.New("identity: user not found")
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	ErrWeakPassword       = errors.New("identity: password must be at least 6 characters")
	ErrInvalidToken       = errors.New("identity: invalid or expired id token")
)

const minPasswordLength = 6

// User is the provider's view of an identity. The password hash never
// leaves the provider.
type User struct {
	UID         string              `json:"uid"`
	Email       string              `json:"email"`
	DisplayName string              `json:"displayName,omitempty"`
	Claims      models.CustomClaims `json:"customClaims"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type CreateUserParams struct {
	Email       string
	Password    string
	DisplayName string
}

// Provider is the identity backend consumed by the flows.
type Provider interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	DeleteUser(ctx context.Context, uid string) error
	GetUser(ctx context.Context, uid string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	// SetCustomClaims replaces the user's claims.
	SetCustomClaims(ctx context.Context, uid string, claims models.CustomClaims) error
	// SignIn checks the password and returns the user on success.
	SignIn(ctx context.Context, email, password string) (*User, error)
	MintIDToken(ctx context.Context, user *User) (string, time.Time, error)
	VerifyIDToken(ctx context.Context, raw string) (*IDTokenClaims, error)
	Ping(ctx context.Context) error
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
