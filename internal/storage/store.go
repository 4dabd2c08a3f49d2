// Package storage provides the local key-value persistence layer for bolso.
//
// Every value is an opaque JSON blob stored under a string key. Writes always
// replace the whole value; there is no partial update.
package storage

import (
	"context"
	"fmt"
)

// Keys used by the identity and ledger stores.
const (
	KeyAccounts       = "accounts"
	KeyCurrentSession = "currentSession"
)

// TransactionsKey returns the key holding an account's transactions.
func TransactionsKey(accountID string) string {
	return "transactions_" + accountID
}

// CategoriesKey returns the key holding an account's categories.
func CategoriesKey(accountID string) string {
	return "categories_" + accountID
}

// Store defines the contract for a persistent key-value store.
type Store interface {
	// Get returns the value stored under key or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases the underlying resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open creates the store for backend at path and prepares it for use.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	case BackendFile:
		return NewFileStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}
