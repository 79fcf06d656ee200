package services

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/docstore"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
	"github.com/google/uuid"
)

type AdService struct {
	ads      docstore.AdRepository
	interval time.Duration
	now      func() time.Time
}

func NewAdService(ads docstore.AdRepository, interval time.Duration) *AdService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &AdService{ads: ads, interval: interval, now: time.Now}
}

func parsePool(pool string) (models.AdPool, error) {
	p := models.AdPool(pool)
	if !p.Valid() {
		return "", newFlowError(ErrInvalid, nil, "pool must be popup or footer.")
	}
	return p, nil
}

func (s *AdService) List(ctx context.Context, pool string) ([]models.Ad, error) {
	p, err := parsePool(pool)
	if err != nil {
		return nil, err
	}
	ads, err := s.ads.List(ctx, p)
	if err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to list ads.")
	}
	return ads, nil
}

func (s *AdService) Create(ctx context.Context, pool string, req *dto.CreateAdRequest) (*models.Ad, error) {
	p, err := parsePool(pool)
	if err != nil {
		return nil, err
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}

	ad := &models.Ad{
		ID:          uuid.NewString(),
		Pool:        p,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		TargetURL:   req.TargetURL,
	}
	if err := s.ads.Create(ctx, ad); err != nil {
		return nil, newFlowError(ErrPartialFailure, err, "Failed to save ad.")
	}
	return ad, nil
}

func (s *AdService) Delete(ctx context.Context, pool, id string) error {
	p, err := parsePool(pool)
	if err != nil {
		return err
	}
	if err := s.ads.Delete(ctx, p, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return newFlowError(ErrNotFound, err, "Ad not found.")
		}
		return newFlowError(ErrPartialFailure, err, "Failed to delete ad.")
	}
	return nil
}

// Current returns the ad on screen for the pool right now, or nil when the
// clinic has ads disabled or the pool is empty. Ads rotate every interval.
func (s *AdService) Current(ctx context.Context, pool string, clinic *models.Clinic) (*models.Ad, error) {
	if clinic == nil || !clinic.AdsEnabled {
		return nil, nil
	}
	ads, err := s.List(ctx, pool)
	if err != nil || len(ads) == 0 {
		return nil, err
	}
	slot := s.now().UnixNano() / int64(s.interval)
	ad := ads[slot%int64(len(ads))]
	return &ad, nil
}
