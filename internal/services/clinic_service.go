package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/docstore"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/provision"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
)

type ClinicService struct {
	provider  identity.Provider
	store     docstore.Store
	directory *roles.ClinicDirectory
}

func NewClinicService(provider identity.Provider, store docstore.Store, directory *roles.ClinicDirectory) *ClinicService {
	return &ClinicService{provider: provider, store: store, directory: directory}
}

// CreateClinic enrolls a clinic: identity, then claims, then the document.
// A failure after the identity exists deletes the identity again.
func (s *ClinicService) CreateClinic(ctx context.Context, req *dto.CreateClinicRequest) (*dto.CreateClinicResponse, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	email := identity.NormalizeEmail(req.Email)

	var user *identity.User
	err := provision.Run(ctx, "create_clinic",
		createIdentityStep(s.provider, identity.CreateUserParams{
			Email:       email,
			Password:    req.Password,
			DisplayName: req.Name,
		}, &user),
		provision.Step{
			Name: "set_claims",
			Apply: func(ctx context.Context) error {
				return s.provider.SetCustomClaims(ctx, user.UID, models.CustomClaims{
					Clinic:   true,
					ClinicID: user.UID,
				})
			},
		},
		provision.Step{
			Name: "create_document",
			Apply: func(ctx context.Context) error {
				logo := strings.TrimSpace(req.Logo)
				if logo == "" {
					logo = models.PlaceholderLogo
				}
				return s.store.Clinics().Create(ctx, &models.Clinic{
					ID:         user.UID,
					Name:       req.Name,
					Logo:       logo,
					Capacity:   req.Capacity,
					AdsEnabled: req.AdsEnabled,
					Email:      email,
				})
			},
		},
	)
	if err != nil {
		slog.ErrorContext(ctx, "clinic enrollment failed", "flow", "create_clinic", "email", email, "error", err)
		return nil, asFlowFailure(err, "Failed to create clinic. No changes were kept.")
	}

	slog.Info("clinic enrolled", "clinic_id", user.UID, "email", email)
	return &dto.CreateClinicResponse{
		UID:     user.UID,
		Email:   email,
		Message: "Clinic " + req.Name + " created successfully.",
	}, nil
}

func (s *ClinicService) GetClinic(ctx context.Context, id string) (*models.Clinic, error) {
	clinic, err := s.store.Clinics().Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, newFlowError(ErrNotFound, err, "Clinic not found.")
	}
	if err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to load clinic.")
	}
	return clinic, nil
}

func (s *ClinicService) ListClinics(ctx context.Context) ([]models.Clinic, error) {
	clinics, err := s.store.Clinics().List(ctx)
	if err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to list clinics.")
	}
	return clinics, nil
}

func (s *ClinicService) UpdateClinic(ctx context.Context, id string, req *dto.UpdateClinicRequest) (*models.Clinic, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	clinic, err := s.GetClinic(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Logo != nil {
		clinic.Logo = strings.TrimSpace(*req.Logo)
		if clinic.Logo == "" {
			clinic.Logo = models.PlaceholderLogo
		}
	}
	if req.AdsEnabled != nil {
		clinic.AdsEnabled = *req.AdsEnabled
	}
	if req.Capacity != nil {
		count, err := s.store.Patients().Count(ctx, id)
		if err != nil {
			return nil, newFlowError(ErrPartialFailure, err, "Failed to count patients.")
		}
		if int64(*req.Capacity) < count {
			return nil, newFlowError(ErrConflict, nil,
				"Capacity cannot be lower than the current number of patients (%d).", count)
		}
		clinic.Capacity = *req.Capacity
	}

	if err := s.store.Clinics().Update(ctx, clinic); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, newFlowError(ErrNotFound, err, "Clinic not found.")
		}
		return nil, newFlowError(ErrPartialFailure, err, "Failed to update clinic.")
	}
	s.directory.Invalidate(ctx, id)
	return clinic, nil
}

// DeleteClinic removes the clinic and its identity so no login keeps clinic
// claims for a clinic that no longer exists. Clinics with patients are kept.
func (s *ClinicService) DeleteClinic(ctx context.Context, id string) (string, error) {
	clinic, err := s.GetClinic(ctx, id)
	if err != nil {
		return "", err
	}

	count, err := s.store.Patients().Count(ctx, id)
	if err != nil {
		return "", newFlowError(ErrPartialFailure, err, "Failed to count patients.")
	}
	if count > 0 {
		return "", newFlowError(ErrConflict, nil,
			"Clinic %s still has %d patients. Remove them first.", clinic.Name, count)
	}

	identityGone := false
	if err := s.provider.DeleteUser(ctx, id); err != nil {
		if !errors.Is(err, identity.ErrUserNotFound) {
			return "", newFlowError(ErrPartialFailure, err, "Failed to delete the clinic login account.")
		}
		identityGone = true
	}

	if err := s.store.Clinics().Delete(ctx, id); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		slog.ErrorContext(ctx, "clinic document delete failed after identity delete",
			"flow", "delete_clinic", "clinic_id", id, "error", err)
		return "", newFlowError(ErrPartialFailure, err,
			"The clinic login was removed but the clinic record could not be deleted. Retry the delete.")
	}
	s.directory.Invalidate(ctx, id)

	slog.Info("clinic deleted", "clinic_id", id, "identity_already_gone", identityGone)
	if identityGone {
		return "Clinic " + clinic.Name + " removed. The login account had already been deleted.", nil
	}
	return "Clinic " + clinic.Name + " deleted successfully.", nil
}

// createIdentityStep is the first step of every enrollment flow. The created
// user is written to *out so later steps can use its id.
func createIdentityStep(provider identity.Provider, params identity.CreateUserParams, out **identity.User) provision.Step {
	return provision.Step{
		Name: "create_identity",
		Apply: func(ctx context.Context) error {
			user, err := provider.CreateUser(ctx, params)
			switch {
			case errors.Is(err, identity.ErrEmailExists):
				return newFlowError(ErrAlreadyExists, err, "A user with the email %s already exists.", params.Email)
			case errors.Is(err, identity.ErrWeakPassword):
				return newFlowError(ErrInvalid, err, "password must be at least 6 characters.")
			case err != nil:
				return err
			}
			*out = user
			return nil
		},
		Rollback: func(ctx context.Context) error {
			user := *out
			if user == nil {
				return nil
			}
			err := provider.DeleteUser(ctx, user.UID)
			if errors.Is(err, identity.ErrUserNotFound) {
				return nil
			}
			return err
		},
	}
}
