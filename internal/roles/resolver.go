package roles

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
)

// TokenVerifier is the part of identity.Provider the resolver needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, raw string) (*identity.IDTokenClaims, error)
}

// Resolution is what the UI needs to pick a surface.
type Resolution struct {
	View     View           `json:"view"`
	Redirect string         `json:"redirect"`
	Role     string         `json:"role"`
	UID      string         `json:"uid,omitempty"`
	Email    string         `json:"email,omitempty"`
	ClinicID string         `json:"clinicId,omitempty"`
	Clinic   *models.Clinic `json:"clinic"`
}

type Resolver struct {
	verifier  TokenVerifier
	policy    *Policy
	directory *ClinicDirectory
}

func NewResolver(verifier TokenVerifier, policy *Policy, directory *ClinicDirectory) *Resolver {
	return &Resolver{verifier: verifier, policy: policy, directory: directory}
}

// Resolve verifies a raw ID token and resolves it. Invalid tokens resolve to
// the denied view rather than an error.
func (r *Resolver) Resolve(ctx context.Context, rawToken string) Resolution {
	claims, err := r.verifier.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return r.finish(Resolution{View: ViewDenied, Role: None{}.Name()})
	}
	return r.ResolveClaims(ctx, claims.Subject, claims.Email, claims.CustomClaims)
}

// ResolveClaims resolves already verified claims. A failed clinic fetch
// leaves Clinic nil and does not change the view.
func (r *Resolver) ResolveClaims(ctx context.Context, uid, email string, claims models.CustomClaims) Resolution {
	role := r.policy.Decode(email, claims)
	res := Resolution{
		View:     role.View(),
		Role:     role.Name(),
		UID:      uid,
		Email:    email,
		ClinicID: ClinicIDOf(role),
	}

	if res.ClinicID != "" {
		clinic, err := r.directory.Get(ctx, res.ClinicID)
		if err != nil {
			slog.Warn("clinic branding unavailable", "clinic_id", res.ClinicID, "uid", uid, "error", err)
		} else {
			res.Clinic = clinic
		}
	}
	return r.finish(res)
}

func (r *Resolver) finish(res Resolution) Resolution {
	res.Redirect = res.View.Redirect()
	metrics.RoleResolutions.WithLabelValues(string(res.View)).Inc()
	return res
}
