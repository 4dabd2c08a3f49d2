package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/Veraticus/meu-bolso/internal/common"
)

const (
	getQuery    = `SELECT value FROM kv WHERE key = ?`
	setQuery    = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	removeQuery = `DELETE FROM kv WHERE key = ?`
)

// writeRetry covers a second bolso process holding the write lock past the busy timeout.
var writeRetry = common.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     500 * time.Millisecond,
}

// SQLiteStore implements Store on a single SQLite table.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// Call Migrate before first use.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One logical session per device; a single connection keeps :memory: coherent too.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// newSQLiteStoreFromDB wraps an existing handle. Used with sqlmock in tests.
func newSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, dbPath: ":memory:"}
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(ctx, key); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	slog.Debug("read key", "key", key, "bytes", len(value))
	return value, nil
}

// Set replaces the value stored under key.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}

	if err := s.exec(ctx, setQuery, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	slog.Debug("wrote key", "key", key, "bytes", len(value))
	return nil
}

// Remove deletes key if present.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}

	if err := s.exec(ctx, removeQuery, key); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// exec runs a write, retrying while SQLite reports the database busy or locked.
func (s *SQLiteStore) exec(ctx context.Context, query string, args ...any) error {
	return common.WithRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		if err != nil && !isBusy(err) {
			return common.Permanent(err)
		}
		return err
	}, writeRetry)
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}
