package roles

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/docstore"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
)

// ClinicDirectory is a read-through cache in front of the clinic repository.
type ClinicDirectory struct {
	clinics docstore.ClinicRepository
	cache   cache.Client
	ttl     time.Duration
}

func NewClinicDirectory(clinics docstore.ClinicRepository, c cache.Client, ttl time.Duration) *ClinicDirectory {
	return &ClinicDirectory{clinics: clinics, cache: c, ttl: ttl}
}

func (d *ClinicDirectory) Get(ctx context.Context, id string) (*models.Clinic, error) {
	if raw, err := d.cache.Get(ctx, id); err == nil {
		var clinic models.Clinic
		if err := json.Unmarshal([]byte(raw), &clinic); err == nil {
			metrics.BrandingLookups.WithLabelValues("cache").Inc()
			return &clinic, nil
		}
	} else if !errors.Is(err, cache.ErrNotFound) {
		slog.Warn("clinic cache read failed", "clinic_id", id, "error", err)
	}

	clinic, err := d.clinics.Get(ctx, id)
	if err != nil {
		metrics.BrandingLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.BrandingLookups.WithLabelValues("store").Inc()

	if b, err := json.Marshal(clinic); err == nil {
		if err := d.cache.Set(ctx, id, string(b), d.ttl); err != nil {
			slog.Warn("clinic cache write failed", "clinic_id", id, "error", err)
		}
	}
	return clinic, nil
}

// Invalidate drops the cached copy after the clinic changed.
func (d *ClinicDirectory) Invalidate(ctx context.Context, id string) {
	if err := d.cache.Delete(ctx, id); err != nil {
		slog.Warn("clinic cache invalidation failed", "clinic_id", id, "error", err)
	}
}
