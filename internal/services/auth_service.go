package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
)

type AuthService struct {
	provider identity.Provider
	resolver *roles.Resolver
}

func NewAuthService(provider identity.Provider, resolver *roles.Resolver) *AuthService {
	return &AuthService{provider: provider, resolver: resolver}
}

// Signup creates an identity with no claims. It resolves to the denied view
// until a clinic enrolls it or an admin promotes it.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	email := identity.NormalizeEmail(req.Email)
	user, err := s.provider.CreateUser(ctx, identity.CreateUserParams{
		Email:       email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	switch {
	case errors.Is(err, identity.ErrEmailExists):
		return nil, newFlowError(ErrAlreadyExists, err, "A user with the email %s already exists.", email)
	case errors.Is(err, identity.ErrWeakPassword):
		return nil, newFlowError(ErrInvalid, err, "password must be at least 6 characters.")
	case err != nil:
		return nil, newFlowError(ErrPartialFailure, err, "Failed to create account.")
	}

	slog.Info("identity signed up", "uid", user.UID)
	return &dto.SignupResponse{UID: user.UID, Email: user.Email, Message: "Account created."}, nil
}

// Login checks the password and returns a fresh ID token with the current
// claims and the resolved view.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	user, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		return nil, newFlowError(ErrUnauthorized, err, "Invalid email or password.")
	}
	if err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to sign in.")
	}

	token, expiresAt, err := s.provider.MintIDToken(ctx, user)
	if err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to sign in.")
	}

	return &dto.LoginResponse{
		IDToken:   token,
		ExpiresAt: expiresAt,
		Session:   s.resolver.ResolveClaims(ctx, user.UID, user.Email, user.Claims),
	}, nil
}

// Session resolves a raw ID token.
func (s *AuthService) Session(ctx context.Context, rawToken string) roles.Resolution {
	return s.resolver.Resolve(ctx, rawToken)
}
