package roles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/docstore"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Decode(t *testing.T) {
	policy := NewPolicy([]string{"Root@VivaMove.app"})

	tests := []struct {
		name   string
		email  string
		claims models.CustomClaims
		want   Role
	}{
		{"allow-listed admin", "root@vivamove.app", models.CustomClaims{Admin: true}, Admin{}},
		{"admin claim without allow-list", "mallory@x.com", models.CustomClaims{Admin: true}, Patient{}},
		{"allow-listed without claim", "root@vivamove.app", models.CustomClaims{}, None{}},
		{"clinic", "c@x.com", models.CustomClaims{Clinic: true, ClinicID: "c1"}, Clinic{ClinicID: "c1"}},
		{"clinic claim without id", "c@x.com", models.CustomClaims{Clinic: true}, Patient{}},
		{"patient", "p@x.com", models.CustomClaims{Patient: true, ClinicID: "c1"}, Patient{ClinicID: "c1"}},
		{"clinic id only", "p@x.com", models.CustomClaims{ClinicID: "c1"}, Patient{ClinicID: "c1"}},
		{"patient without clinic", "p@x.com", models.CustomClaims{Patient: true}, Patient{}},
		{"no claims", "p@x.com", models.CustomClaims{}, None{}},
		{"admin demoted falls through to clinic", "c@x.com", models.CustomClaims{Admin: true, Clinic: true, ClinicID: "c1"}, Clinic{ClinicID: "c1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Decode(tt.email, tt.claims))
		})
	}
}

func TestView_Redirect(t *testing.T) {
	assert.Equal(t, "/admin", ViewAdmin.Redirect())
	assert.Equal(t, "/clinic", ViewClinic.Redirect())
	assert.Equal(t, "/", ViewClient.Redirect())
	assert.Equal(t, "/login", ViewDenied.Redirect())
}

type resolverFixture struct {
	provider  *identity.MemoryProvider
	store     *docstore.MemoryStore
	directory *ClinicDirectory
	resolver  *Resolver
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	provider := identity.NewMemoryProvider(identity.NewTokenSigner("secret", time.Hour))
	store := docstore.NewMemory()
	directory := NewClinicDirectory(store.Clinics(), cache.NewMemory("clinic"), time.Minute)
	return &resolverFixture{
		provider:  provider,
		store:     store,
		directory: directory,
		resolver:  NewResolver(provider, NewPolicy([]string{"root@vivamove.app"}), directory),
	}
}

func (f *resolverFixture) token(t *testing.T, email string, claims models.CustomClaims) string {
	t.Helper()
	ctx := context.Background()
	u, err := f.provider.CreateUser(ctx, identity.CreateUserParams{Email: email, Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, f.provider.SetCustomClaims(ctx, u.UID, claims))
	u, err = f.provider.GetUser(ctx, u.UID)
	require.NoError(t, err)
	raw, _, err := f.provider.MintIDToken(ctx, u)
	require.NoError(t, err)
	return raw
}

func TestResolver_ClinicViewFetchesClinic(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)
	require.NoError(t, f.store.Clinics().Create(ctx, &models.Clinic{ID: "c1", Name: "Acme", Capacity: 5}))

	res := f.resolver.Resolve(ctx, f.token(t, "c@x.com", models.CustomClaims{Clinic: true, ClinicID: "c1"}))
	assert.Equal(t, ViewClinic, res.View)
	assert.Equal(t, "/clinic", res.Redirect)
	require.NotNil(t, res.Clinic)
	assert.Equal(t, "Acme", res.Clinic.Name)
}

func TestResolver_PatientWithMissingClinicKeepsView(t *testing.T) {
	f := newResolverFixture(t)

	res := f.resolver.Resolve(context.Background(), f.token(t, "p@x.com", models.CustomClaims{Patient: true, ClinicID: "gone"}))
	assert.Equal(t, ViewClient, res.View)
	assert.Equal(t, "gone", res.ClinicID)
	assert.Nil(t, res.Clinic)
}

func TestResolver_AdminAndDenied(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)

	res := f.resolver.Resolve(ctx, f.token(t, "root@vivamove.app", models.CustomClaims{Admin: true}))
	assert.Equal(t, ViewAdmin, res.View)

	res = f.resolver.Resolve(ctx, f.token(t, "mallory@x.com", models.CustomClaims{Admin: true}))
	assert.Equal(t, ViewClient, res.View)
	assert.Equal(t, "/", res.Redirect)

	res = f.resolver.Resolve(ctx, f.token(t, "nobody@x.com", models.CustomClaims{}))
	assert.Equal(t, ViewDenied, res.View)
	assert.Equal(t, "/login", res.Redirect)

	res = f.resolver.Resolve(ctx, "not-a-token")
	assert.Equal(t, ViewDenied, res.View)
	assert.Empty(t, res.UID)
}

type countingClinics struct {
	docstore.ClinicRepository
	gets int
	err  error
}

func (c *countingClinics) Get(ctx context.Context, id string) (*models.Clinic, error) {
	c.gets++
	if c.err != nil {
		return nil, c.err
	}
	return c.ClinicRepository.Get(ctx, id)
}

func TestClinicDirectory_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Clinics().Create(ctx, &models.Clinic{ID: "c1", Name: "Acme"}))
	repo := &countingClinics{ClinicRepository: store.Clinics()}
	dir := NewClinicDirectory(repo, cache.NewMemory(""), time.Minute)

	for i := 0; i < 3; i++ {
		c, err := dir.Get(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Acme", c.Name)
	}
	assert.Equal(t, 1, repo.gets)

	dir.Invalidate(ctx, "c1")
	_, err := dir.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.gets)
}

func TestClinicDirectory_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	repo := &countingClinics{ClinicRepository: docstore.NewMemory().Clinics(), err: errors.New("boom")}
	dir := NewClinicDirectory(repo, cache.NewMemory(""), time.Minute)

	_, err := dir.Get(ctx, "c1")
	assert.Error(t, err)
	_, err = dir.Get(ctx, "c1")
	assert.Error(t, err)
	assert.Equal(t, 2, repo.gets)
}
