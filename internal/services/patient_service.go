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
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/reporting"
)

type PatientService struct {
	provider identity.Provider
	store    docstore.Store
}

func NewPatientService(provider identity.Provider, store docstore.Store) *PatientService {
	return &PatientService{provider: provider, store: store}
}

// CreatePatient enrolls a patient under clinicID. The patient document id is
// always the new identity's id.
func (s *PatientService) CreatePatient(ctx context.Context, clinicID string, req *dto.CreatePatientRequest) (*dto.CreatePatientResponse, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	clinic, err := s.store.Clinics().Get(ctx, clinicID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, newFlowError(ErrNotFound, err, "Clinic not found.")
	}
	if err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to load clinic.")
	}

	count, err := s.store.Patients().Count(ctx, clinicID)
	if err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to count patients.")
	}
	if count >= int64(clinic.Capacity) {
		return nil, newFlowError(ErrConflict, nil, "Clinic %s is at capacity (%d patients).", clinic.Name, clinic.Capacity)
	}

	email := identity.NormalizeEmail(req.Email)
	var user *identity.User
	err = provision.Run(ctx, "create_patient",
		createIdentityStep(s.provider, identity.CreateUserParams{
			Email:       email,
			Password:    req.Password,
			DisplayName: strings.TrimSpace(req.FirstName + " " + req.Surname),
		}, &user),
		provision.Step{
			Name: "set_claims",
			Apply: func(ctx context.Context) error {
				return s.provider.SetCustomClaims(ctx, user.UID, models.CustomClaims{
					ClinicID: clinicID,
					Patient:  true,
				})
			},
		},
		provision.Step{
			Name: "create_document",
			Apply: func(ctx context.Context) error {
				return s.store.Patients().Create(ctx, &models.Patient{
					ID:             user.UID,
					ClinicID:       clinicID,
					UHID:           req.UHID,
					FirstName:      req.FirstName,
					Surname:        req.Surname,
					Email:          email,
					Age:            req.Age,
					Gender:         req.Gender,
					WeeklySteps:    req.WeeklySteps,
					MonthlySteps:   req.MonthlySteps,
					WeeklyMinutes:  req.WeeklyMinutes,
					MonthlyMinutes: req.MonthlyMinutes,
				})
			},
		},
	)
	if err != nil {
		slog.ErrorContext(ctx, "patient enrollment failed", "flow", "create_patient", "clinic_id", clinicID, "email", email, "error", err)
		return nil, asFlowFailure(err, "Failed to create patient. No changes were kept.")
	}

	slog.Info("patient enrolled", "clinic_id", clinicID, "uid", user.UID)
	return &dto.CreatePatientResponse{
		UID:     user.UID,
		Email:   email,
		Message: "Patient " + req.FirstName + " " + req.Surname + " created successfully.",
	}, nil
}

func (s *PatientService) GetPatient(ctx context.Context, clinicID, id string) (*models.Patient, error) {
	patient, err := s.store.Patients().Get(ctx, clinicID, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, newFlowError(ErrNotFound, err, "Patient not found.")
	}
	if err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to load patient.")
	}
	return patient, nil
}

func (s *PatientService) ListPatients(ctx context.Context, clinicID string) ([]models.Patient, error) {
	patients, err := s.store.Patients().List(ctx, clinicID)
	if err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to list patients.")
	}
	return patients, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, clinicID, id string, req *dto.UpdatePatientRequest) (*models.Patient, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	patient, err := s.GetPatient(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}

	if req.UHID != nil {
		patient.UHID = *req.UHID
	}
	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.Surname != nil {
		patient.Surname = *req.Surname
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.WeeklySteps != nil {
		patient.WeeklySteps = req.WeeklySteps
	}
	if req.MonthlySteps != nil {
		patient.MonthlySteps = req.MonthlySteps
	}
	if req.WeeklyMinutes != nil {
		patient.WeeklyMinutes = req.WeeklyMinutes
	}
	if req.MonthlyMinutes != nil {
		patient.MonthlyMinutes = req.MonthlyMinutes
	}

	if err := s.store.Patients().Update(ctx, patient); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, newFlowError(ErrNotFound, err, "Patient not found.")
		}
		return nil, newFlowError(ErrPartialFailure, err, "Failed to update patient.")
	}
	return patient, nil
}

// DeletePatient removes the identity, then the document. An identity that is
// already gone does not stop the document delete; the result is a softened
// success message. Only patient identities of this clinic are ever deleted.
func (s *PatientService) DeletePatient(ctx context.Context, clinicID, id string) (string, error) {
	identityGone := false
	user, err := s.provider.GetUser(ctx, id)
	switch {
	case errors.Is(err, identity.ErrUserNotFound):
		identityGone = true
	case err != nil:
		return "", newFlowError(ErrPartialFailure, err, "Failed to look up the patient login account.")
	case !user.Claims.Patient || user.Claims.Clinic || user.Claims.ClinicID != clinicID:
		return "", newFlowError(ErrNotFound, nil, "Patient not found.")
	}

	if !identityGone {
		if err := s.provider.DeleteUser(ctx, id); err != nil {
			if !errors.Is(err, identity.ErrUserNotFound) {
				return "", newFlowError(ErrPartialFailure, err, "Failed to delete the patient login account.")
			}
			identityGone = true
		}
	}

	err = s.store.Patients().Delete(ctx, clinicID, id)
	switch {
	case errors.Is(err, docstore.ErrNotFound) && identityGone:
		return "", newFlowError(ErrNotFound, err, "Patient not found.")
	case errors.Is(err, docstore.ErrNotFound):
		slog.Warn("patient identity deleted without a document", "flow", "delete_patient", "clinic_id", clinicID, "uid", id)
		return "Patient login account removed. No patient record was stored.", nil
	case err != nil:
		slog.ErrorContext(ctx, "patient document delete failed after identity delete",
			"flow", "delete_patient", "clinic_id", clinicID, "uid", id, "error", err)
		return "", newFlowError(ErrPartialFailure, err,
			"The patient login was removed but the patient record could not be deleted. Retry the delete.")
	}

	slog.Info("patient deleted", "clinic_id", clinicID, "uid", id, "identity_already_gone", identityGone)
	if identityGone {
		return "Patient removed. The login account had already been deleted.", nil
	}
	return "Patient deleted successfully.", nil
}

// Report filters the clinic's patients by band.
func (s *PatientService) Report(ctx context.Context, clinicID string, req *dto.SelectionRequest) (*reporting.Report, error) {
	filter, err := parseFilter(req)
	if err != nil {
		return nil, err
	}
	patients, err := s.ListPatients(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	report := reporting.Apply(patients, filter)
	return &report, nil
}

// SelectRecipients picks bulk-messaging recipients and the template key.
func (s *PatientService) SelectRecipients(ctx context.Context, clinicID string, req *dto.SelectionRequest) (*reporting.Selection, error) {
	filter, err := parseFilter(req)
	if err != nil {
		return nil, err
	}
	patients, err := s.ListPatients(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	sel := reporting.Select(patients, filter)
	return &sel, nil
}

func parseFilter(req *dto.SelectionRequest) (reporting.Filter, error) {
	period, err := reporting.ParsePeriod(req.Period)
	if err != nil {
		return reporting.Filter{}, newFlowError(ErrInvalid, err, "period must be weekly or monthly.")
	}
	steps, err := reporting.ParseBand(req.Steps)
	if err != nil {
		return reporting.Filter{}, newFlowError(ErrInvalid, err, "steps must be one of all, lt30, 30-50, 50-80, gt80.")
	}
	minutes, err := reporting.ParseBand(req.Minutes)
	if err != nil {
		return reporting.Filter{}, newFlowError(ErrInvalid, err, "minutes must be one of all, lt30, 30-50, 50-80, gt80.")
	}
	return reporting.Filter{Period: period, Steps: steps, Minutes: minutes}, nil
}
