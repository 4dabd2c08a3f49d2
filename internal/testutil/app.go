// Package testutil provides fixtures for tests that need a running app: an
// isolated store, a fixed clock and a signed-in account.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Veraticus/meu-bolso/internal/app"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/storage"
)

// FixedNow is the clock every fixture uses unless told otherwise.
var FixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// Default credentials used by SignedIn.
const (
	DefaultEmail    = "ana@example.com"
	DefaultPassword = "segredo123"
	DefaultName     = "Ana"
)

// TestApp is an app.App wired for tests.
type TestApp struct {
	*app.App
	Store storage.Store
	t     *testing.T
}

// AppOptions configures SetupTestApp.
type AppOptions struct {
	Now time.Time
	// Backend selects the store; memory when empty. Sqlite and file stores
	// live under t.TempDir.
	Backend string
}

// SetupTestApp creates a started app over a fresh store. The store is closed
// when the test ends.
func SetupTestApp(t *testing.T, opts AppOptions) *TestApp {
	t.Helper()
	ctx := context.Background()

	store := openStore(t, opts.Backend)

	now := opts.Now
	if now.IsZero() {
		now = FixedNow
	}
	a := app.New(store, app.Options{
		Now:      func() time.Time { return now },
		HashCost: bcrypt.MinCost,
	})
	if err := a.Start(ctx); err != nil {
		t.Fatalf("failed to start app: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestApp{App: a, Store: store, t: t}
}

func openStore(t *testing.T, backend string) storage.Store {
	t.Helper()

	if backend == "" || backend == storage.BackendMemory {
		return storage.NewMemoryStore()
	}

	name := "bolso.db"
	if backend == storage.BackendFile {
		name = "bolso.json"
	}
	store, err := storage.Open(context.Background(), backend, filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("failed to open %s store: %v", backend, err)
	}
	return store
}

// SignedIn registers the default account and leaves it signed in.
func (a *TestApp) SignedIn() model.Account {
	a.t.Helper()
	account, err := a.Signup(context.Background(), DefaultEmail, DefaultPassword, DefaultName)
	if err != nil {
		a.t.Fatalf("failed to sign up: %v", err)
	}
	return account
}

// MustAdd records each input on the bound ledger and returns the stored
// transactions in the order given.
func (a *TestApp) MustAdd(inputs ...model.TransactionInput) []model.Transaction {
	a.t.Helper()
	out := make([]model.Transaction, 0, len(inputs))
	for _, in := range inputs {
		tx, err := a.Ledger.AddTransaction(context.Background(), in)
		if err != nil {
			a.t.Fatalf("failed to add transaction: %v", err)
		}
		out = append(out, tx)
	}
	return out
}
