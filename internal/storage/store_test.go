package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore creates a migrated file-backed SQLiteStore for testing.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// backends returns every Store implementation available in this environment.
// Redis is only exercised when ZIKR_TEST_REDIS_ADDR points at a server.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	out := map[string]Store{
		"sqlite": openTestStore(t),
		"memory": NewMemoryStore(),
	}

	if addr := os.Getenv("ZIKR_TEST_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		store := NewRedisStore(client, "zikr-test:"+t.Name()+":")
		require.NoError(t, store.Ping(context.Background()))
		require.NoError(t, store.PurgeAll(context.Background()))
		t.Cleanup(func() {
			_ = store.PurgeAll(context.Background())
			store.Close()
		})
		out["redis"] = store
	}
	return out
}

func TestStore_GetMissingKey(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_SetGetRoundtrip(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "astaghfar_record", `{"count":3}`))

			got, err := store.Get(ctx, "astaghfar_record")
			require.NoError(t, err)
			assert.Equal(t, `{"count":3}`, got)
		})
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "k", "first"))
			require.NoError(t, store.Set(ctx, "k", "second"))

			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "second", got)

			keys, err := store.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"k"}, keys)
		})
	}
}

func TestStore_Remove(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "custom_1", "{}"))
			require.NoError(t, store.Remove(ctx, "custom_1"))

			_, err := store.Get(ctx, "custom_1")
			assert.ErrorIs(t, err, ErrNotFound)

			// Removing again is a no-op
			assert.NoError(t, store.Remove(ctx, "custom_1"))
		})
	}
}

func TestStore_KeysSortedAndPurge(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "tasbeeh_subhanAllah", "1"))
			require.NoError(t, store.Set(ctx, "durood_record", "2"))
			require.NoError(t, store.Set(ctx, "custom_tasbeeh", "[]"))

			keys, err := store.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"custom_tasbeeh", "durood_record", "tasbeeh_subhanAllah"}, keys)

			require.NoError(t, store.PurgeAll(ctx))
			keys, err = store.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	open := func() (*SQLiteStore, *sql.DB) {
		db, err := sql.Open("sqlite3", dbPath)
		require.NoError(t, err)
		require.NoError(t, NewMigrationRunner(db).Run())
		store, err := NewSQLiteStore(db)
		require.NoError(t, err)
		return store, db
	}

	store, db := open()
	require.NoError(t, store.Set(ctx, "durood_record", `{"count":11}`))
	store.Close()
	db.Close()

	store, db = open()
	defer db.Close()
	defer store.Close()

	got, err := store.Get(ctx, "durood_record")
	require.NoError(t, err)
	assert.Equal(t, `{"count":11}`, got)
}

func TestSQLiteStore_GetStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalKeys)
	assert.True(t, stats.NewestWrite.IsZero())

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "b", "2"))

	stats, err = store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalKeys)
	assert.False(t, stats.NewestWrite.IsZero())
	assert.False(t, stats.OldestWrite.After(stats.NewestWrite))
}

// --- Failure injection via sqlmock ---

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock, []*sqlmock.ExpectedPrepare) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	preps := []*sqlmock.ExpectedPrepare{
		mock.ExpectPrepare("SELECT value FROM kv"),
		mock.ExpectPrepare("INSERT INTO kv"),
		mock.ExpectPrepare("DELETE FROM kv"),
	}

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return store, mock, preps
}

func TestSQLiteStore_SetFailureIsReturned(t *testing.T) {
	store, mock, preps := newMockStore(t)
	preps[1].ExpectExec().WillReturnError(errors.New("disk I/O error"))

	err := store.Set(context.Background(), "astaghfar_record", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set astaghfar_record")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_GetFailureIsNotNotFound(t *testing.T) {
	store, mock, preps := newMockStore(t)
	preps[0].ExpectQuery().WillReturnError(errors.New("database is locked"))

	_, err := store.Get(context.Background(), "durood_record")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_RemoveFailureIsReturned(t *testing.T) {
	store, mock, preps := newMockStore(t)
	preps[2].ExpectExec().WithArgs("custom_9").WillReturnError(errors.New("readonly database"))

	err := store.Remove(context.Background(), "custom_9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remove custom_9")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLiteStore_PrepareFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPrepare("SELECT value FROM kv").WillReturnError(errors.New("no such table: kv"))

	_, err = NewSQLiteStore(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prepare statements")
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, "zikr:", escapeGlob("zikr:"))
	assert.Equal(t, `a\*b\?c\[d\]e\\f`, escapeGlob(`a*b?c[d]e\f`))
}

func TestRedisStore_PurgeGlobPrefixStaysInNamespace(t *testing.T) {
	addr := os.Getenv("ZIKR_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ZIKR_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	base := "zikr-test:" + t.Name() + ":"
	outside := base + "nsX:kept"
	require.NoError(t, client.Set(ctx, outside, "v", 0).Err())
	t.Cleanup(func() { client.Del(context.Background(), outside) })

	store := NewRedisStore(client, base+"ns*:")
	require.NoError(t, store.Set(ctx, "tasbeeh_laIlaha", "{}"))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tasbeeh_laIlaha"}, keys)

	require.NoError(t, store.PurgeAll(ctx))
	val, err := client.Get(ctx, outside).Result()
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}
