// Package docstore holds clinic, patient and ad documents.
//
// Patients are a sub-collection of their clinic: every read and write is
// keyed by (clinicID, patientID).
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
)

var (
	ErrNotFound      = errors.New("docstore: document not found")
	ErrAlreadyExists = errors.New("docstore: document already exists")
)

type ClinicRepository interface {
	Create(ctx context.Context, clinic *models.Clinic) error
	Get(ctx context.Context, id string) (*models.Clinic, error)
	List(ctx context.Context) ([]models.Clinic, error)
	Update(ctx context.Context, clinic *models.Clinic) error
	Delete(ctx context.Context, id string) error
}

type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	Get(ctx context.Context, clinicID, id string) (*models.Patient, error)
	List(ctx context.Context, clinicID string) ([]models.Patient, error)
	Count(ctx context.Context, clinicID string) (int64, error)
	Update(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, clinicID, id string) error
}

type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	// List returns the pool's ads oldest first.
	List(ctx context.Context, pool models.AdPool) ([]models.Ad, error)
	Delete(ctx context.Context, pool models.AdPool, id string) error
}

// Store bundles the repositories of one backend.
type Store interface {
	Clinics() ClinicRepository
	Patients() PatientRepository
	Ads() AdRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type Config struct {
	Driver   string // "mongo" | "memory"
	URI      string
	Database string
}

// Open creates a store for the configured driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "mongo":
		return NewMongo(ctx, cfg.URI, cfg.Database)
	case "memory", "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("docstore: unknown driver %q", cfg.Driver)
	}
}
