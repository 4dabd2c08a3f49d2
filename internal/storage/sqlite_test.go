package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/meu-bolso/internal/common"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bolso.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Set(ctx, KeyCurrentSession, []byte(`{"id":"u1"}`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(ctx))

	got, err := reopened.Get(ctx, KeyCurrentSession)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, string(got))
}

func TestSQLiteStore_InMemory(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestMigrate_SetsSchemaVersion(t *testing.T) {
	store := createTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(context.Background()))

	var columns int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('kv') WHERE name = 'updated_at'`,
	).Scan(&columns))
	assert.Equal(t, 1, columns)
}

func TestMigrate_NilContext(t *testing.T) {
	store := createTestStore(t)
	//nolint:staticcheck // nil context is the point of the test
	assert.ErrorIs(t, store.Migrate(nil), ErrNilContext)
}

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newSQLiteStoreFromDB(db), mock
}

func TestSQLiteStore_DatabaseErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("disk I/O error")

	t.Run("get", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
			WithArgs("accounts").
			WillReturnError(dbErr)

		_, err := store.Get(ctx, "accounts")
		require.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, ErrKeyNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get missing row", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
			WithArgs("accounts").
			WillReturnError(sql.ErrNoRows)

		_, err := store.Get(ctx, "accounts")
		require.ErrorIs(t, err, ErrKeyNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(setQuery)).
			WithArgs("accounts", []byte("[]"), sqlmock.AnyArg()).
			WillReturnError(dbErr)

		err := store.Set(ctx, "accounts", []byte("[]"))
		require.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "accounts")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("remove", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(removeQuery)).
			WithArgs("accounts").
			WillReturnError(dbErr)

		require.ErrorIs(t, store.Remove(ctx, "accounts"), dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLiteStore_RetriesBusyWrites(t *testing.T) {
	ctx := context.Background()
	busy := sqlite3.Error{Code: sqlite3.ErrBusy}

	t.Run("recovers", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(setQuery)).
			WithArgs("accounts", []byte("[]"), sqlmock.AnyArg()).
			WillReturnError(busy)
		mock.ExpectExec(regexp.QuoteMeta(setQuery)).
			WithArgs("accounts", []byte("[]"), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Set(ctx, "accounts", []byte("[]")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up", func(t *testing.T) {
		store, mock := newMockStore(t)
		for i := 0; i < writeRetry.MaxAttempts; i++ {
			mock.ExpectExec(regexp.QuoteMeta(removeQuery)).
				WithArgs("accounts").
				WillReturnError(sqlite3.Error{Code: sqlite3.ErrLocked})
		}

		err := store.Remove(ctx, "accounts")
		require.ErrorIs(t, err, common.ErrMaxRetries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrate_RollsBackFailedMigration(t *testing.T) {
	store, mock := newMockStore(t)
	migrationErr := errors.New("table locked")

	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA user_version")).
		WillReturnRows(sqlmock.NewRows([]string{"user_version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE kv ADD COLUMN updated_at")).
		WillReturnError(migrationErr)
	mock.ExpectRollback()

	err := store.Migrate(context.Background())
	require.ErrorIs(t, err, migrationErr)
	assert.Contains(t, err.Error(), "migration 2 failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_VersionMismatch(t *testing.T) {
	store, mock := newMockStore(t)

	// A database written by a newer build skips every migration and
	// then fails the final check.
	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA user_version")).
		WillReturnRows(sqlmock.NewRows([]string{"user_version"}).AddRow(9))
	mock.ExpectQuery(regexp.QuoteMeta("PRAGMA user_version")).
		WillReturnRows(sqlmock.NewRows([]string{"user_version"}).AddRow(9))

	err := store.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version mismatch")
	assert.NoError(t, mock.ExpectationsWereMet())
}
