package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/storage"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	opts = append([]Option{WithHashCost(bcrypt.MinCost)}, opts...)
	return New(kv, opts...), kv
}

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	tests := []struct {
		name     string
		email    string
		password string
		display  string
	}{
		{name: "simple", email: "a@x.com", password: "pw1", display: "Ana"},
		{name: "no display name", email: "b@x.com", password: "segredo", display: ""},
		{name: "unicode password", email: "c@x.com", password: "çãô€", display: "Caio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registered, err := store.Register(ctx, tt.email, tt.password, tt.display)
			require.NoError(t, err)
			assert.NotEmpty(t, registered.ID)
			assert.Empty(t, registered.PasswordHash)

			got, err := store.Authenticate(ctx, tt.email, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.email, got.Email)
			assert.Equal(t, registered.ID, got.ID)
			assert.Empty(t, got.PasswordHash)
		})
	}
}

func TestRegister_SetsSession(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	account, err := store.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	session, err := store.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, account.ID, session.ID)
	assert.Equal(t, "Ana", session.Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	for _, email := range []string{"a@x.com", "A@X.COM", "  a@X.com "} {
		_, err := store.Register(ctx, email, "other", "Outra")
		assert.ErrorIs(t, err, common.ErrDuplicateEmail, email)
	}

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)
	require.NoError(t, store.EndSession(ctx))

	_, err = store.Authenticate(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = store.Authenticate(ctx, "nobody@x.com", "pw1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	session, err := store.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session, "failed logins must not start a session")

	got, err := store.Authenticate(ctx, "A@x.COM", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestCredentialValidation(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	tests := []struct {
		name     string
		email    string
		password string
		field    string
	}{
		{name: "empty email", email: "", password: "pw", field: "email"},
		{name: "missing at", email: "ana.x.com", password: "pw", field: "email"},
		{name: "empty password", email: "a@x.com", password: "", field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Register(ctx, tt.email, tt.password, "")
			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)

			_, err = store.Authenticate(ctx, tt.email, tt.password)
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestEndSession_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	require.NoError(t, store.EndSession(ctx))
	require.NoError(t, store.EndSession(ctx))

	session, err := store.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()

	first := New(kv, WithHashCost(bcrypt.MinCost))
	account, err := first.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	second := New(kv)
	session, err := second.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, account.ID, session.ID)
}

func TestMalformedDataTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore(t)

	require.NoError(t, kv.Set(ctx, storage.KeyAccounts, []byte(`{"not":"an array"}`)))
	require.NoError(t, kv.Set(ctx, storage.KeyCurrentSession, []byte(`[1,2,3]`)))

	session, err := store.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	_, err = store.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)
}

func TestInvalidRecordsSkipped(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore(t)

	require.NoError(t, kv.Set(ctx, storage.KeyAccounts, []byte(`[
		{"id":"1","email":"ok@x.com","password":"pw"},
		{"id":"","email":"noid@x.com","password":"pw"},
		{"id":"3","email":"","password":"pw"}
	]`)))

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "ok@x.com", accounts[0].Email)
}

func TestLegacyPlaintextUpgraded(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore(t)

	require.NoError(t, kv.Set(ctx, storage.KeyAccounts,
		[]byte(`[{"id":"1","email":"demo@x.com","name":"Demo","password":"123456"}]`)))

	_, err := store.Authenticate(ctx, "demo@x.com", "nope")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	account, err := store.Authenticate(ctx, "demo@x.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "1", account.ID)
	assert.Empty(t, account.LegacyPassword)

	var stored []model.Account
	found, err := storage.GetJSON(ctx, kv, storage.KeyAccounts, &stored)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, stored, 1)
	assert.Empty(t, stored[0].LegacyPassword)
	require.NotEmpty(t, stored[0].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored[0].PasswordHash), []byte("123456")))

	_, err = store.Authenticate(ctx, "demo@x.com", "123456")
	assert.NoError(t, err, "login after upgrade")
}

func TestSessionNeverCarriesCredentials(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore(t)

	_, err := store.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	raw, err := kv.Get(ctx, storage.KeyCurrentSession)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "passwordHash")
	assert.NotContains(t, string(raw), `"password"`)
}

func TestLatencyHonoursCancellation(t *testing.T) {
	store, _ := newTestStore(t, WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Register(ctx, "a@x.com", "pw1", "Ana")
	require.ErrorIs(t, err, context.Canceled)

	accounts, err := store.Accounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestLatencyDoesNotChangeResults(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, WithLatency(time.Millisecond))

	_, err := store.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)
	_, err = store.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.NoError(t, store.EndSession(ctx))
}

func TestRequestPasswordReset(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	known, err := store.RequestPasswordReset(ctx, "a@x.com")
	require.NoError(t, err)
	unknown, err := store.RequestPasswordReset(ctx, "ghost@x.com")
	require.NoError(t, err)

	assert.Equal(t, ResetAcknowledgement, known)
	assert.Equal(t, known, unknown)

	_, err = store.RequestPasswordReset(ctx, "")
	assert.True(t, common.IsValidation(err))
}

func TestRegister_UsesClock(t *testing.T) {
	fixed := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store, _ := newTestStore(t, WithClock(func() time.Time { return fixed }))

	account, err := store.Register(context.Background(), "a@x.com", "pw1", "")
	require.NoError(t, err)
	assert.True(t, fixed.Equal(account.CreatedAt))
}
