package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/globetrotter/backend/internal/catalog"
	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/repo"
	"github.com/pkordes/globetrotter/backend/internal/service"
	"github.com/pkordes/globetrotter/backend/internal/store"
	"github.com/pkordes/globetrotter/backend/testutil"
)

type identityFixture struct {
	svc      *service.IdentityService
	store    store.Store
	creds    repo.CredentialRepo
	sessions repo.SessionRepo
	trips    repo.TripRepo
}

func newIdentityFixture(t *testing.T) identityFixture {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()

	creds, err := repo.NewCredentialRepo(ctx, s)
	require.NoError(t, err)
	trips, err := repo.NewTripRepo(ctx, s, catalog.MustLoad().SampleTrips())
	require.NoError(t, err)
	sessions := repo.NewSessionRepo(s)

	return identityFixture{
		svc: service.NewIdentityService(service.IdentityServiceDeps{
			Credentials: creds,
			Sessions:    sessions,
			Trips:       trips,
			DemoLogin:   true,
			BcryptCost:  bcrypt.MinCost,
			Now:         testutil.NewClock(testutil.ReferenceTime()).NowFunc(),
			NewID:       testutil.NewIDGenerator("acct").NextFunc(),
		}),
		store:    s,
		creds:    creds,
		sessions: sessions,
		trips:    trips,
	}
}

// ---- Login tests -----------------------------------------------------------

func TestIdentityService_Login_Demo(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	u, err := f.svc.Login(ctx, service.DemoEmail, service.DemoPassword)

	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, "Alex Traveler", u.Name)

	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, current)
}

func TestIdentityService_Login_DemoDisabled(t *testing.T) {
	s := store.NewMemory()
	creds, err := repo.NewCredentialRepo(context.Background(), s)
	require.NoError(t, err)
	svc := service.NewIdentityService(service.IdentityServiceDeps{
		Credentials: creds,
		Sessions:    repo.NewSessionRepo(s),
	})

	_, err = svc.Login(context.Background(), service.DemoEmail, service.DemoPassword)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIdentityService_Login_Failures(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx))

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "ada@example.com", "secret2"},
		{"unknown email", "bob@example.com", "secret1"},
		{"email case differs", "Ada@example.com", "secret1"},
		{"demo wrong password", service.DemoEmail, "demo124"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tc.email, tc.password)

			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			_, err = f.svc.CurrentUser(ctx)
			assert.ErrorIs(t, err, domain.ErrUnauthorized, "no session written")
		})
	}
}

func TestIdentityService_Login_DemoWithStoredDemoEmail(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("bobsecret"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = f.creds.Create(ctx, domain.Credential{
		ID:           "acct-bob",
		Name:         "Bob",
		Email:        service.DemoEmail,
		PasswordHash: string(hash),
	})
	require.NoError(t, err)

	u, err := f.svc.Login(ctx, service.DemoEmail, service.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, service.DemoUserID, u.ID)

	u, err = f.svc.Login(ctx, service.DemoEmail, "bobsecret")
	require.NoError(t, err)
	assert.Equal(t, "acct-bob", u.ID, "stored password still signs in its own account")

	_, err = f.svc.Login(ctx, service.DemoEmail, "wrong1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ---- Signup tests ----------------------------------------------------------

func TestIdentityService_Signup(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	u, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "acct-1", u.ID)
	assert.True(t, u.CreatedAt.Equal(testutil.ReferenceTime()))

	cred, err := f.creds.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", cred.PasswordHash, "stored as hash")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("secret1")))

	raw, err := f.store.Get(ctx, store.KeySession)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret1")
	assert.NotContains(t, string(raw), "password")

	require.NoError(t, f.svc.Logout(ctx))
	again, err := f.svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestIdentityService_Signup_Conflicts(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, "Other", "ada@example.com", "secret9")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.Signup(ctx, "Demo", service.DemoEmail, "secret9")
	assert.ErrorIs(t, err, domain.ErrConflict, "demo email is taken")
}

func TestIdentityService_Signup_Validation(t *testing.T) {
	f := newIdentityFixture(t)

	_, err := f.svc.Signup(context.Background(), "Ada", "ada@example.com", "12345")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Signup(context.Background(), " ", "ada@example.com", "123456")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Session tests ---------------------------------------------------------

func TestIdentityService_Logout_KeepsAccounts(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx))

	_, err = f.svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.creds.FindByEmail(ctx, "ada@example.com")
	assert.NoError(t, err)
}

func TestIdentityService_UpdateUser(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	name, email := "Ada L.", "ada.l@example.com"
	u, err := f.svc.UpdateUser(ctx, domain.UserPatch{Name: &name, Email: &email})

	require.NoError(t, err)
	assert.Equal(t, "Ada L.", u.Name)
	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada.l@example.com", current.Email)

	require.NoError(t, f.svc.Logout(ctx))
	_, err = f.svc.Login(ctx, "ada.l@example.com", "secret1")
	assert.NoError(t, err, "new email works for login")
}

func TestIdentityService_UpdateUser_NoSession(t *testing.T) {
	f := newIdentityFixture(t)
	name := "Ghost"

	_, err := f.svc.UpdateUser(context.Background(), domain.UserPatch{Name: &name})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.store.Get(context.Background(), store.KeySession)
	assert.ErrorIs(t, err, domain.ErrNotFound, "no session created")
}

func TestIdentityService_UpdateUser_EmailTaken(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, "Bob", "bob@example.com", "secret1")
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, service.DemoEmail, service.DemoPassword)
	require.NoError(t, err)

	email := "bob@example.com"
	_, err = f.svc.UpdateUser(ctx, domain.UserPatch{Email: &email})

	assert.ErrorIs(t, err, domain.ErrConflict)
	current, err := f.svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.DemoEmail, current.Email)
}

func TestIdentityService_UpdateUser_DemoEmailReserved(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, "Bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	email := service.DemoEmail
	_, err = f.svc.UpdateUser(ctx, domain.UserPatch{Email: &email})

	assert.ErrorIs(t, err, domain.ErrConflict)
	cred, err := f.creds.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err, "account keeps its email")
	assert.Equal(t, "Bob", cred.Name)

	require.NoError(t, f.svc.Logout(ctx))
	u, err := f.svc.Login(ctx, service.DemoEmail, service.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, service.DemoUserID, u.ID)
}

func TestIdentityService_UpdateUser_DemoKeepsOwnEmail(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	_, err := f.svc.Login(ctx, service.DemoEmail, service.DemoPassword)
	require.NoError(t, err)

	name, email := "Alex T.", service.DemoEmail
	u, err := f.svc.UpdateUser(ctx, domain.UserPatch{Name: &name, Email: &email})

	require.NoError(t, err)
	assert.Equal(t, "Alex T.", u.Name)
}

func TestIdentityService_DeleteAccount(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	_, err := f.svc.Login(ctx, service.DemoEmail, service.DemoPassword)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAccount(ctx))

	trips, err := f.trips.List(ctx, domain.TripFilter{UserID: service.DemoUserID})
	require.NoError(t, err)
	assert.Empty(t, trips)
	_, err = f.svc.CurrentUser(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIdentityService_DeleteAccount_NoSession(t *testing.T) {
	f := newIdentityFixture(t)

	err := f.svc.DeleteAccount(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

type failingDeleteCreds struct {
	repo.CredentialRepo
}

func (failingDeleteCreds) Delete(context.Context, string) error {
	return errors.New("disk full")
}

func TestIdentityService_DeleteAccount_CredentialFailureKeepsTrips(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	svc := service.NewIdentityService(service.IdentityServiceDeps{
		Credentials: failingDeleteCreds{f.creds},
		Sessions:    f.sessions,
		Trips:       f.trips,
		DemoLogin:   true,
		BcryptCost:  bcrypt.MinCost,
	})
	_, err := svc.Login(ctx, service.DemoEmail, service.DemoPassword)
	require.NoError(t, err)
	before, err := f.trips.List(ctx, domain.TripFilter{UserID: service.DemoUserID})
	require.NoError(t, err)
	require.NotEmpty(t, before)

	err = svc.DeleteAccount(ctx)

	require.Error(t, err)
	after, err := f.trips.List(ctx, domain.TripFilter{UserID: service.DemoUserID})
	require.NoError(t, err)
	assert.Len(t, after, len(before))
	_, err = svc.CurrentUser(ctx)
	assert.NoError(t, err, "session survives so the delete can be retried")
}
