package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
)

type ClaimService struct {
	provider identity.Provider
	policy   *roles.Policy
}

func NewClaimService(provider identity.Provider, policy *roles.Policy) *ClaimService {
	return &ClaimService{provider: provider, policy: policy}
}

// SetAdminRole grants the admin claim to the identity with the given email.
// Only callers whose email is on the admin allow-list may do this.
func (s *ClaimService) SetAdminRole(ctx context.Context, callerEmail, email string) (string, error) {
	if !s.policy.IsAllowListed(callerEmail) {
		slog.Warn("admin grant rejected", "caller", callerEmail, "target", email)
		return "", newFlowError(ErrUnauthorized, nil, "Only allow-listed administrators can grant admin access.")
	}
	return s.GrantAdmin(ctx, email)
}

// GrantAdmin merges {admin:true} into the identity's claims without the
// caller check. Granting twice leaves the claims unchanged.
func (s *ClaimService) GrantAdmin(ctx context.Context, email string) (string, error) {
	email = identity.NormalizeEmail(email)
	user, err := s.provider.GetUserByEmail(ctx, email)
	if errors.Is(err, identity.ErrUserNotFound) {
		return "", newFlowError(ErrNotFound, err,
			"No user found with email %s. Create the account first, then grant admin access.", email)
	}
	if err != nil {
		return "", newFlowError(ErrPartialFailure, err, "Failed to look up %s.", email)
	}

	if !user.Claims.Admin {
		claims := user.Claims
		claims.Admin = true
		if err := s.provider.SetCustomClaims(ctx, user.UID, claims); err != nil {
			return "", newFlowError(ErrPartialFailure, err, "Failed to grant admin access to %s.", email)
		}
		slog.Info("admin claim granted", "uid", user.UID, "email", email)
	}

	return "Success! " + email + " has been made an admin.", nil
}
