package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
)

// MemoryStore keeps documents in process. Useful for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	clinics  map[string]models.Clinic
	patients map[string]map[string]models.Patient // clinicID -> patientID -> patient
	ads      map[string]models.Ad
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		clinics:  make(map[string]models.Clinic),
		patients: make(map[string]map[string]models.Patient),
		ads:      make(map[string]models.Ad),
	}
}

func (s *MemoryStore) Clinics() ClinicRepository   { return memoryClinics{s} }
func (s *MemoryStore) Patients() PatientRepository { return memoryPatients{s} }
func (s *MemoryStore) Ads() AdRepository           { return memoryAds{s} }

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

type memoryClinics struct{ s *MemoryStore }

func (r memoryClinics) Create(_ context.Context, clinic *models.Clinic) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clinics[clinic.ID]; ok {
		return ErrAlreadyExists
	}
	now := time.Now().UTC()
	clinic.CreatedAt = now
	clinic.UpdatedAt = now
	r.s.clinics[clinic.ID] = *clinic
	return nil
}

func (r memoryClinics) Get(_ context.Context, id string) (*models.Clinic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	clinic, ok := r.s.clinics[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &clinic, nil
}

func (r memoryClinics) List(_ context.Context) ([]models.Clinic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	clinics := make([]models.Clinic, 0, len(r.s.clinics))
	for _, c := range r.s.clinics {
		clinics = append(clinics, c)
	}
	sort.Slice(clinics, func(i, j int) bool { return clinics[i].Name < clinics[j].Name })
	return clinics, nil
}

func (r memoryClinics) Update(_ context.Context, clinic *models.Clinic) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clinics[clinic.ID]; !ok {
		return ErrNotFound
	}
	clinic.UpdatedAt = time.Now().UTC()
	r.s.clinics[clinic.ID] = *clinic
	return nil
}

func (r memoryClinics) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clinics[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.clinics, id)
	return nil
}

type memoryPatients struct{ s *MemoryStore }

func (r memoryPatients) Create(_ context.Context, patient *models.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bucket, ok := r.s.patients[patient.ClinicID]
	if !ok {
		bucket = make(map[string]models.Patient)
		r.s.patients[patient.ClinicID] = bucket
	}
	if _, exists := bucket[patient.ID]; exists {
		return ErrAlreadyExists
	}
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now
	bucket[patient.ID] = *patient
	return nil
}

func (r memoryPatients) Get(_ context.Context, clinicID, id string) (*models.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	patient, ok := r.s.patients[clinicID][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &patient, nil
}

func (r memoryPatients) List(_ context.Context, clinicID string) ([]models.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	bucket := r.s.patients[clinicID]
	patients := make([]models.Patient, 0, len(bucket))
	for _, p := range bucket {
		patients = append(patients, p)
	}
	sort.Slice(patients, func(i, j int) bool {
		if patients[i].CreatedAt.Equal(patients[j].CreatedAt) {
			return patients[i].ID < patients[j].ID
		}
		return patients[i].CreatedAt.Before(patients[j].CreatedAt)
	})
	return patients, nil
}

func (r memoryPatients) Count(_ context.Context, clinicID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.patients[clinicID])), nil
}

func (r memoryPatients) Update(_ context.Context, patient *models.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bucket := r.s.patients[patient.ClinicID]
	if _, ok := bucket[patient.ID]; !ok {
		return ErrNotFound
	}
	patient.UpdatedAt = time.Now().UTC()
	bucket[patient.ID] = *patient
	return nil
}

func (r memoryPatients) Delete(_ context.Context, clinicID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bucket := r.s.patients[clinicID]
	if _, ok := bucket[id]; !ok {
		return ErrNotFound
	}
	delete(bucket, id)
	return nil
}

type memoryAds struct{ s *MemoryStore }

func (r memoryAds) Create(_ context.Context, ad *models.Ad) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ads[ad.ID]; ok {
		return ErrAlreadyExists
	}
	ad.CreatedAt = time.Now().UTC()
	r.s.ads[ad.ID] = *ad
	return nil
}

func (r memoryAds) List(_ context.Context, pool models.AdPool) ([]models.Ad, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ads := []models.Ad{}
	for _, ad := range r.s.ads {
		if ad.Pool == pool {
			ads = append(ads, ad)
		}
	}
	sort.Slice(ads, func(i, j int) bool {
		if ads[i].CreatedAt.Equal(ads[j].CreatedAt) {
			return ads[i].ID < ads[j].ID
		}
		return ads[i].CreatedAt.Before(ads[j].CreatedAt)
	})
	return ads, nil
}

func (r memoryAds) Delete(_ context.Context, pool models.AdPool, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ad, ok := r.s.ads[id]
	if !ok || ad.Pool != pool {
		return ErrNotFound
	}
	delete(r.s.ads, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
