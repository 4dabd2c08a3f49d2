// Package app ties the identity store and the ledger to one storage handle.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/identity"
	"github.com/Veraticus/meu-bolso/internal/ledger"
	"github.com/Veraticus/meu-bolso/internal/model"
	"github.com/Veraticus/meu-bolso/internal/storage"
)

// Options tunes the stores built by New.
type Options struct {
	Now      func() time.Time
	Latency  time.Duration
	HashCost int
}

// App is the application state for one process: the storage handle, the
// identity store and the ledger bound to the current session.
type App struct {
	Identity *identity.Store
	Ledger   *ledger.Ledger
	store    storage.Store
	now      func() time.Time
}

// New builds an App over store. Call Start before use.
func New(store storage.Store, opts Options) *App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	idOpts := []identity.Option{
		identity.WithLatency(opts.Latency),
		identity.WithClock(now),
	}
	if opts.HashCost > 0 {
		idOpts = append(idOpts, identity.WithHashCost(opts.HashCost))
	}

	return &App{
		Identity: identity.New(store, idOpts...),
		Ledger:   ledger.New(store, ledger.WithClock(now)),
		store:    store,
		now:      now,
	}
}

// Now returns the App's current time.
func (a *App) Now() time.Time {
	return a.now()
}

// Start restores the persisted session and binds the ledger to it.
func (a *App) Start(ctx context.Context) error {
	account, err := a.Identity.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if err := a.Ledger.Bind(ctx, account); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	return nil
}

// Session returns the signed-in account, or nil.
func (a *App) Session() *model.Account {
	return a.Ledger.Account()
}

// RequireSession returns the signed-in account or ErrNoSession.
func (a *App) RequireSession() (*model.Account, error) {
	account := a.Session()
	if account == nil {
		return nil, common.ErrNoSession
	}
	return account, nil
}

// Signup registers an account and switches the ledger to it.
func (a *App) Signup(ctx context.Context, email, password, name string) (model.Account, error) {
	account, err := a.Identity.Register(ctx, email, password, name)
	if err != nil {
		return model.Account{}, err
	}
	if err := a.Ledger.Bind(ctx, &account); err != nil {
		return model.Account{}, fmt.Errorf("failed to load ledger: %w", err)
	}
	return account, nil
}

// Login authenticates and switches the ledger to the account.
func (a *App) Login(ctx context.Context, email, password string) (model.Account, error) {
	account, err := a.Identity.Authenticate(ctx, email, password)
	if err != nil {
		return model.Account{}, err
	}
	if err := a.Ledger.Bind(ctx, &account); err != nil {
		return model.Account{}, fmt.Errorf("failed to load ledger: %w", err)
	}
	return account, nil
}

// Logout ends the session and clears the ledger view. Persisted data stays.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Identity.EndSession(ctx); err != nil {
		return err
	}
	return a.Ledger.Bind(ctx, nil)
}

// Close releases the storage handle.
func (a *App) Close() error {
	return a.store.Close()
}
