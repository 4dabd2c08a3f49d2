package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/report"
	"github.com/Veraticus/meu-bolso/internal/storage"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, store storage.Store) *App {
	t.Helper()
	a := New(store, Options{
		Now:      func() time.Time { return fixedNow },
		HashCost: bcrypt.MinCost,
	})
	require.NoError(t, a.Start(context.Background()))
	return a
}

func TestApp_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a := newTestApp(t, store)

	assert.Nil(t, a.Session())
	_, err := a.RequireSession()
	require.ErrorIs(t, err, common.ErrNoSession)

	account, err := a.Signup(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)
	require.NotNil(t, a.Session())
	assert.Equal(t, account.ID, a.Session().ID)

	_, err = a.Ledger.AddTransaction(ctx, model.TransactionInput{
		Type:       model.TypeExpense,
		Amount:     decimal.NewFromInt(50),
		CategoryID: "cat1",
	})
	require.NoError(t, err)

	// A new process over the same storage picks the session back up.
	restarted := newTestApp(t, store)
	require.NotNil(t, restarted.Session())
	assert.Len(t, restarted.Ledger.Transactions(), 1)

	require.NoError(t, restarted.Logout(ctx))
	assert.Nil(t, restarted.Session())
	assert.Empty(t, restarted.Ledger.Transactions())
	assert.Len(t, restarted.Ledger.Categories(), 10)

	_, err = restarted.Login(ctx, "A@X.com", "pw1")
	require.NoError(t, err)
	assert.Len(t, restarted.Ledger.Transactions(), 1)
}

func TestApp_AccountsAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, storage.NewMemoryStore())

	_, err := a.Signup(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)
	_, err = a.Ledger.AddTransaction(ctx, model.TransactionInput{
		Type:       model.TypeIncome,
		Amount:     decimal.NewFromInt(1000),
		CategoryID: "cat8",
	})
	require.NoError(t, err)

	_, err = a.Signup(ctx, "b@x.com", "pw2", "Bia")
	require.NoError(t, err)
	assert.Empty(t, a.Ledger.Transactions())
}

func TestApp_FailedLoginKeepsCurrentView(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, storage.NewMemoryStore())

	account, err := a.Signup(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	_, err = a.Login(ctx, "a@x.com", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	require.NotNil(t, a.Session())
	assert.Equal(t, account.ID, a.Session().ID)
}

func TestApp_DashboardScenario(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, storage.NewMemoryStore())

	_, err := a.Signup(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	_, err = a.Ledger.AddTransaction(ctx, model.TransactionInput{
		Type: model.TypeExpense, Amount: decimal.NewFromInt(50), CategoryID: "cat1", Date: a.Now(),
	})
	require.NoError(t, err)
	_, err = a.Ledger.AddTransaction(ctx, model.TransactionInput{
		Type: model.TypeIncome, Amount: decimal.NewFromInt(1000), CategoryID: "cat8", Date: a.Now(),
	})
	require.NoError(t, err)

	summary := report.Dashboard(a.Ledger.Transactions(), report.PeriodMonth, a.Now(), time.Sunday)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(950)))
	require.Len(t, summary.Categories, 1)
	assert.Equal(t, "Alimentação", summary.Categories[0].Name)
	assert.Contains(t, summary.Tips[0], "5%")
}

func TestApp_FileBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/bolso.json"

	store, err := storage.Open(ctx, storage.BackendFile, path)
	require.NoError(t, err)
	a := newTestApp(t, store)
	_, err = a.Signup(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	reopened, err := storage.Open(ctx, storage.BackendFile, path)
	require.NoError(t, err)
	b := newTestApp(t, reopened)
	defer func() { _ = b.Close() }()
	require.NotNil(t, b.Session())
	assert.Equal(t, "a@x.com", b.Session().Email)
}
