package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/docstore"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/identity"
)

// Finding is one cross-store inconsistency.
type Finding struct {
	UID      string `json:"uid"`
	Email    string `json:"email,omitempty"`
	ClinicID string `json:"clinicId,omitempty"`
	Reason   string `json:"reason"`
}

const (
	ReasonClinicDocMissing   = "clinic claim without clinic document"
	ReasonPatientDocMissing  = "patient claim without patient document"
	ReasonClinicNoIdentity   = "clinic document without identity"
	ReasonClinicClaimMissing = "clinic identity without clinic claim"
)

// ReconcileService finds identities and documents left behind by a flow that
// stopped between steps.
type ReconcileService struct {
	provider identity.Provider
	store    docstore.Store
}

func NewReconcileService(provider identity.Provider, store docstore.Store) *ReconcileService {
	return &ReconcileService{provider: provider, store: store}
}

func (s *ReconcileService) Scan(ctx context.Context) ([]Finding, error) {
	users, err := s.provider.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}

	findings := []Finding{}
	for _, u := range users {
		switch {
		case u.Claims.Clinic:
			_, err := s.store.Clinics().Get(ctx, u.Claims.ClinicID)
			if errors.Is(err, docstore.ErrNotFound) {
				findings = append(findings, Finding{UID: u.UID, Email: u.Email, ClinicID: u.Claims.ClinicID, Reason: ReasonClinicDocMissing})
			} else if err != nil {
				return nil, fmt.Errorf("load clinic %s: %w", u.Claims.ClinicID, err)
			}
		case u.Claims.Patient && u.Claims.ClinicID != "":
			_, err := s.store.Patients().Get(ctx, u.Claims.ClinicID, u.UID)
			if errors.Is(err, docstore.ErrNotFound) {
				findings = append(findings, Finding{UID: u.UID, Email: u.Email, ClinicID: u.Claims.ClinicID, Reason: ReasonPatientDocMissing})
			} else if err != nil {
				return nil, fmt.Errorf("load patient %s: %w", u.UID, err)
			}
		}
	}

	clinics, err := s.store.Clinics().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	for _, c := range clinics {
		u, err := s.provider.GetUser(ctx, c.ID)
		switch {
		case errors.Is(err, identity.ErrUserNotFound):
			findings = append(findings, Finding{UID: c.ID, Email: c.Email, ClinicID: c.ID, Reason: ReasonClinicNoIdentity})
		case err != nil:
			return nil, fmt.Errorf("load identity %s: %w", c.ID, err)
		case !u.Claims.Clinic || u.Claims.ClinicID != c.ID:
			findings = append(findings, Finding{UID: c.ID, Email: c.Email, ClinicID: c.ID, Reason: ReasonClinicClaimMissing})
		}
	}
	return findings, nil
}

// PruneOrphanIdentities deletes identities whose claims point at a missing
// document. Documents are never deleted here.
func (s *ReconcileService) PruneOrphanIdentities(ctx context.Context, findings []Finding) (int, error) {
	pruned := 0
	for _, f := range findings {
		if f.Reason != ReasonClinicDocMissing && f.Reason != ReasonPatientDocMissing {
			continue
		}
		if err := s.provider.DeleteUser(ctx, f.UID); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
			return pruned, fmt.Errorf("delete identity %s: %w", f.UID, err)
		}
		slog.Info("orphan identity pruned", "uid", f.UID, "reason", f.Reason)
		pruned++
	}
	return pruned, nil
}
