package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/docstore"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected failure")

// flakyProvider fails SetCustomClaims on demand.
type flakyProvider struct {
	*identity.MemoryProvider
	failClaims bool
}

func (p *flakyProvider) SetCustomClaims(ctx context.Context, uid string, claims models.CustomClaims) error {
	if p.failClaims {
		return errInjected
	}
	return p.MemoryProvider.SetCustomClaims(ctx, uid, claims)
}

// flakyStore fails clinic and patient creates on demand.
type flakyStore struct {
	*docstore.MemoryStore
	failClinicCreate  bool
	failPatientCreate bool
}

func (s *flakyStore) Clinics() docstore.ClinicRepository {
	return flakyClinics{ClinicRepository: s.MemoryStore.Clinics(), fail: s.failClinicCreate}
}

func (s *flakyStore) Patients() docstore.PatientRepository {
	return flakyPatients{PatientRepository: s.MemoryStore.Patients(), fail: s.failPatientCreate}
}

type flakyClinics struct {
	docstore.ClinicRepository
	fail bool
}

func (r flakyClinics) Create(ctx context.Context, clinic *models.Clinic) error {
	if r.fail {
		return errInjected
	}
	return r.ClinicRepository.Create(ctx, clinic)
}

type flakyPatients struct {
	docstore.PatientRepository
	fail bool
}

func (r flakyPatients) Create(ctx context.Context, patient *models.Patient) error {
	if r.fail {
		return errInjected
	}
	return r.PatientRepository.Create(ctx, patient)
}

type fixture struct {
	provider *flakyProvider
	store    *flakyStore
	clinics  *ClinicService
	patients *PatientService
	claims   *ClaimService
	auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	provider := &flakyProvider{MemoryProvider: identity.NewMemoryProvider(identity.NewTokenSigner("secret", time.Hour))}
	store := &flakyStore{MemoryStore: docstore.NewMemory()}
	policy := roles.NewPolicy([]string{"root@vivamove.app"})
	directory := roles.NewClinicDirectory(store.Clinics(), cache.NewMemory("clinic"), time.Minute)
	return &fixture{
		provider: provider,
		store:    store,
		clinics:  NewClinicService(provider, store, directory),
		patients: NewPatientService(provider, store),
		claims:   NewClaimService(provider, policy),
		auth:     NewAuthService(provider, roles.NewResolver(provider, policy, directory)),
	}
}

func acmeRequest() *dto.CreateClinicRequest {
	return &dto.CreateClinicRequest{Name: "Acme", Email: "a@x.com", Password: "secret1", Capacity: 50}
}

func (f *fixture) createClinic(t *testing.T, capacity int) string {
	t.Helper()
	req := acmeRequest()
	req.Capacity = capacity
	resp, err := f.clinics.CreateClinic(context.Background(), req)
	require.NoError(t, err)
	return resp.UID
}

func (f *fixture) createPatient(t *testing.T, clinicID, email string, weeklySteps float64) string {
	t.Helper()
	resp, err := f.patients.CreatePatient(context.Background(), clinicID, &dto.CreatePatientRequest{
		UHID:        "UH-" + email,
		FirstName:   "Pat",
		Surname:     "Doe",
		Email:       email,
		Password:    "secret1",
		Age:         40,
		WeeklySteps: &weeklySteps,
	})
	require.NoError(t, err)
	return resp.UID
}

func TestCreateClinic_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.clinics.CreateClinic(ctx, acmeRequest())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resp.Email)

	user, err := f.provider.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, user.Claims.Clinic)
	assert.Equal(t, resp.UID, user.Claims.ClinicID)

	clinic, err := f.store.Clinics().Get(ctx, resp.UID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", clinic.Name)
	assert.Equal(t, 50, clinic.Capacity)
	assert.Equal(t, models.PlaceholderLogo, clinic.Logo)
}

func TestCreateClinic_ClaimFailureDeletesIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.provider.failClaims = true

	_, err := f.clinics.CreateClinic(ctx, acmeRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialFailure)

	_, err = f.provider.GetUserByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
}

func TestCreateClinic_DocumentFailureDeletesIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.failClinicCreate = true

	_, err := f.clinics.CreateClinic(ctx, acmeRequest())
	require.Error(t, err)

	_, err = f.provider.GetUserByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
	clinics, err := f.store.Clinics().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, clinics)
}

func TestCreateClinic_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.provider.CreateUser(ctx, identity.CreateUserParams{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.clinics.CreateClinic(ctx, acmeRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "A user with the email a@x.com already exists.", err.Error())

	clinics, err := f.store.Clinics().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, clinics)

	// The pre-existing identity is not rolled back.
	_, err = f.provider.GetUserByEmail(ctx, "a@x.com")
	assert.NoError(t, err)
}

func TestCreateClinic_Validation(t *testing.T) {
	f := newFixture(t)
	req := acmeRequest()
	req.Capacity = 0

	_, err := f.clinics.CreateClinic(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "capacity must be greater than 0.", err.Error())
}

func TestUpdateClinic_CapacityBelowPatientCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clinicID := f.createClinic(t, 5)
	f.createPatient(t, clinicID, "p1@x.com", 20)
	f.createPatient(t, clinicID, "p2@x.com", 20)

	one := 1
	_, err := f.clinics.UpdateClinic(ctx, clinicID, &dto.UpdateClinicRequest{Capacity: &one})
	assert.ErrorIs(t, err, ErrConflict)

	name := "Acme North"
	clinic, err := f.clinics.UpdateClinic(ctx, clinicID, &dto.UpdateClinicRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme North", clinic.Name)
}

func TestDeleteClinic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clinicID := f.createClinic(t, 5)
	patientID := f.createPatient(t, clinicID, "p1@x.com", 20)

	_, err := f.clinics.DeleteClinic(ctx, clinicID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.patients.DeletePatient(ctx, clinicID, patientID)
	require.NoError(t, err)

	msg, err := f.clinics.DeleteClinic(ctx, clinicID)
	require.NoError(t, err)
	assert.Equal(t, "Clinic Acme deleted successfully.", msg)

	_, err = f.provider.GetUser(ctx, clinicID)
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
	_, err = f.clinics.GetClinic(ctx, clinicID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePatient_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clinicID := f.createClinic(t, 5)
	patientID := f.createPatient(t, clinicID, "p1@x.com", 20)

	user, err := f.provider.GetUser(ctx, patientID)
	require.NoError(t, err)
	assert.True(t, user.Claims.Patient)
	assert.Equal(t, clinicID, user.Claims.ClinicID)

	patient, err := f.patients.GetPatient(ctx, clinicID, patientID)
	require.NoError(t, err)
	assert.Equal(t, patientID, patient.ID)
	assert.Equal(t, "p1@x.com", patient.Email)
}

func TestCreatePatient_AtCapacity(t *testing.T) {
	f := newFixture(t)
	clinicID := f.createClinic(t, 1)
	f.createPatient(t, clinicID, "p1@x.com", 20)

	_, err := f.patients.CreatePatient(context.Background(), clinicID, &dto.CreatePatientRequest{
		UHID: "UH2", FirstName: "B", Surname: "C", Email: "p2@x.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.provider.GetUserByEmail(context.Background(), "p2@x.com")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
}

func TestCreatePatient_UnknownClinic(t *testing.T) {
	f := newFixture(t)
	_, err := f.patients.CreatePatient(context.Background(), "nope", &dto.CreatePatientRequest{
		UHID: "UH1", FirstName: "B", Surname: "C", Email: "p1@x.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePatient_ClaimFailureDeletesIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clinicID := f.createClinic(t, 5)
	f.provider.failClaims = true

	_, err := f.patients.CreatePatient(ctx, clinicID, &dto.CreatePatientRequest{
		UHID: "UH1", FirstName: "B", Surname: "C", Email: "p1@x.com", Password: "secret1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialFailure)

	_, err = f.provider.GetUserByEmail(ctx, "p1@x.com")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
	patients, err := f.store.Patients().List(ctx, clinicID)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestCreatePatient_DocumentFailureDeletesIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clinicID := f.createClinic(t, 5)
	f.store.failPatientCreate = true

	_, err := f.patients.CreatePatient(ctx, clinicID, &dto.CreatePatientRequest{
		UHID: "UH1", FirstName: "B", Surname: "C", Email: "p1@x.com", Password: "secret1",
	})
	require.Error(t, err)

	_, err = f.provider.GetUserByEmail(ctx, "p1@x.com")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
}

func TestDeletePatient(t *testing.T) {
	ctx := context.Background()

	t.Run("normal", func(t *testing.T) {
		f := newFixture(t)
		clinicID := f.createClinic(t, 5)
		patientID := f.createPatient(t, clinicID, "p1@x.com", 20)

		msg, err := f.patients.DeletePatient(ctx, clinicID, patientID)
		require.NoError(t, err)
		assert.Equal(t, "Patient deleted successfully.", msg)
		_, err = f.provider.GetUser(ctx, patientID)
		assert.ErrorIs(t, err, identity.ErrUserNotFound)
	})

	t.Run("identity already gone", func(t *testing.T) {
		f := newFixture(t)
		clinicID := f.createClinic(t, 5)
		patientID := f.createPatient(t, clinicID, "p1@x.com", 20)
		require.NoError(t, f.provider.DeleteUser(ctx, patientID))

		msg, err := f.patients.DeletePatient(ctx, clinicID, patientID)
		require.NoError(t, err)
		assert.Equal(t, "Patient removed. The login account had already been deleted.", msg)
		_, err = f.patients.GetPatient(ctx, clinicID, patientID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("nothing left", func(t *testing.T) {
		f := newFixture(t)
		clinicID := f.createClinic(t, 5)

		_, err := f.patients.DeletePatient(ctx, clinicID, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("clinic's own identity", func(t *testing.T) {
		f := newFixture(t)
		clinicID := f.createClinic(t, 5)

		_, err := f.patients.DeletePatient(ctx, clinicID, clinicID)
		assert.ErrorIs(t, err, ErrNotFound)
		user, err := f.provider.GetUser(ctx, clinicID)
		require.NoError(t, err)
		assert.True(t, user.Claims.Clinic)
	})

	t.Run("identity without patient claim", func(t *testing.T) {
		f := newFixture(t)
		clinicID := f.createClinic(t, 5)
		other, err := f.provider.CreateUser(ctx, identity.CreateUserParams{Email: "staff@x.com", Password: "secret1"})
		require.NoError(t, err)
		require.NoError(t, f.provider.SetCustomClaims(ctx, other.UID, models.CustomClaims{ClinicID: clinicID}))

		_, err = f.patients.DeletePatient(ctx, clinicID, other.UID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.provider.GetUser(ctx, other.UID)
		assert.NoError(t, err)
	})

	t.Run("patient of another clinic", func(t *testing.T) {
		f := newFixture(t)
		clinicID := f.createClinic(t, 5)
		patientID := f.createPatient(t, clinicID, "p1@x.com", 20)

		_, err := f.patients.DeletePatient(ctx, "other-clinic", patientID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.provider.GetUser(ctx, patientID)
		assert.NoError(t, err)
	})
}

func TestPatientReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clinicID := f.createClinic(t, 5)
	f.createPatient(t, clinicID, "low@x.com", 10)
	f.createPatient(t, clinicID, "high@x.com", 90)

	report, err := f.patients.Report(ctx, clinicID, &dto.SelectionRequest{Period: "weekly", Steps: "lt30"})
	require.NoError(t, err)
	require.Len(t, report.Patients, 1)
	assert.Equal(t, "low@x.com", report.Patients[0].Email)
	assert.Equal(t, "motivation_below_30", report.Template)

	sel, err := f.patients.SelectRecipients(ctx, clinicID, &dto.SelectionRequest{Period: "weekly"})
	require.NoError(t, err)
	assert.Len(t, sel.Recipients, 2)

	_, err = f.patients.Report(ctx, clinicID, &dto.SelectionRequest{Period: "daily"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSetAdminRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.claims.SetAdminRole(ctx, "mallory@x.com", "root@vivamove.app")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.claims.SetAdminRole(ctx, "root@vivamove.app", "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "No user found with email nobody@x.com. Create the account first, then grant admin access.", err.Error())

	clinicID := f.createClinic(t, 5)
	for range 2 {
		msg, err := f.claims.SetAdminRole(ctx, "Root@VivaMove.app", "A@X.com")
		require.NoError(t, err)
		assert.Equal(t, "Success! a@x.com has been made an admin.", msg)
	}

	user, err := f.provider.GetUser(ctx, clinicID)
	require.NoError(t, err)
	assert.True(t, user.Claims.Admin)
	assert.True(t, user.Claims.Clinic, "existing claims are kept")
	assert.Equal(t, clinicID, user.Claims.ClinicID)
}

func TestAuth_SignupLoginSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Signup(ctx, &dto.SignupRequest{Email: "u@x.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = f.auth.Signup(ctx, &dto.SignupRequest{Email: "u@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "u@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	login, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "u@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, roles.ViewDenied, login.Session.View)

	session := f.auth.Session(ctx, login.IDToken)
	assert.Equal(t, roles.ViewDenied, session.View)
	assert.Equal(t, "u@x.com", session.Email)
}

func TestAdService_Rotation(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	svc := NewAdService(store.Ads(), time.Minute)

	clinic := &models.Clinic{ID: "c1", AdsEnabled: true}
	ad, err := svc.Current(ctx, "popup", clinic)
	require.NoError(t, err)
	assert.Nil(t, ad, "empty pool")

	first, err := svc.Create(ctx, "popup", &dto.CreateAdRequest{ImageURL: "https://x.com/1.png", TargetURL: "https://x.com/1"})
	require.NoError(t, err)
	// Keep creation order stable for the memory store's sort.
	time.Sleep(time.Millisecond)
	second, err := svc.Create(ctx, "popup", &dto.CreateAdRequest{ImageURL: "https://x.com/2.png", TargetURL: "https://x.com/2"})
	require.NoError(t, err)

	base := time.Unix(0, 0).Add(10 * time.Minute)
	svc.now = func() time.Time { return base }
	ad, err = svc.Current(ctx, "popup", clinic)
	require.NoError(t, err)
	assert.Equal(t, first.ID, ad.ID)

	svc.now = func() time.Time { return base.Add(time.Minute) }
	ad, err = svc.Current(ctx, "popup", clinic)
	require.NoError(t, err)
	assert.Equal(t, second.ID, ad.ID)

	ad, err = svc.Current(ctx, "popup", &models.Clinic{ID: "c2"})
	require.NoError(t, err)
	assert.Nil(t, ad, "ads disabled")

	_, err = svc.List(ctx, "sidebar")
	assert.ErrorIs(t, err, ErrInvalid)

	assert.ErrorIs(t, svc.Delete(ctx, "footer", first.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "popup", first.ID))
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clinicID := f.createClinic(t, 5)

	orphan, err := f.provider.CreateUser(ctx, identity.CreateUserParams{Email: "orphan@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, f.provider.SetCustomClaims(ctx, orphan.UID, models.CustomClaims{Patient: true, ClinicID: clinicID}))
	require.NoError(t, f.store.Clinics().Create(ctx, &models.Clinic{ID: "lonely", Name: "Lonely", Capacity: 1}))

	svc := NewReconcileService(f.provider, f.store)
	findings, err := svc.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, ReasonPatientDocMissing, findings[0].Reason)
	assert.Equal(t, orphan.UID, findings[0].UID)
	assert.Equal(t, ReasonClinicNoIdentity, findings[1].Reason)

	pruned, err := svc.PruneOrphanIdentities(ctx, findings)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
	_, err = f.provider.GetUser(ctx, orphan.UID)
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
}
