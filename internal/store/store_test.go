package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/store"
	"github.com/pkordes/globetrotter/backend/testutil"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key is ErrNotFound", func(t *testing.T) {
		_, err := s.Get(ctx, "absent_key")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, store.KeyTrips, []byte(`[{"id":"trip-1"}]`)))

		got, err := s.Get(ctx, store.KeyTrips)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"trip-1"}]`, string(got))
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, store.KeySession, []byte(`{"id":"a"}`)))
		require.NoError(t, s.Put(ctx, store.KeySession, []byte(`{"id":"b"}`)))

		got, err := s.Get(ctx, store.KeySession)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"b"}`, string(got))
	})

	t.Run("delete removes and is idempotent", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, store.KeyCredentials, []byte(`[]`)))
		require.NoError(t, s.Delete(ctx, store.KeyCredentials))
		require.NoError(t, s.Delete(ctx, store.KeyCredentials))

		_, err := s.Get(ctx, store.KeyCredentials)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMemory(t *testing.T) {
	exerciseStore(t, store.NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	buf := []byte(`"x"`)

	require.NoError(t, s.Put(ctx, "k", buf))
	buf[1] = 'y'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(got))
}

func TestFile(t *testing.T) {
	s, err := store.NewFile(t.TempDir())
	require.NoError(t, err)

	exerciseStore(t, s)
}

func TestFile_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := store.NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, store.KeyTrips, []byte(`[]`)))

	second, err := store.NewFile(dir)
	require.NoError(t, err)
	got, err := second.Get(ctx, store.KeyTrips)

	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.FileExists(t, filepath.Join(dir, store.KeyTrips+".json"))
}

func TestFile_RejectsPathKeys(t *testing.T) {
	s, err := store.NewFile(t.TempDir())
	require.NoError(t, err)

	err = s.Put(context.Background(), "../escape", []byte(`1`))

	assert.ErrorContains(t, err, "invalid key")
}

func TestSQLite(t *testing.T) {
	s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestSQLite_ReopenKeepsDataAndSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	first, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, store.KeyTrips, []byte(`[{"id":"t"}]`)))
	require.NoError(t, first.Close())

	second, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	got, err := second.Get(ctx, store.KeyTrips)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"t"}]`, string(got))
}

// TestPostgres runs inside a transaction that is rolled back afterwards.
// Skipped when TEST_DATABASE_URL is not set.
func TestPostgres(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx, goose.DialectPostgres, testutil.NewSQLDB(t)))

	tx, err := pool.Begin(ctx)
	require.NoError(t, err, "begin transaction")
	t.Cleanup(func() { _ = tx.Rollback(ctx) })

	exerciseStore(t, store.NewPostgres(tx))
}

// Skipped when TEST_REDIS_ADDR is not set.
func TestRedis(t *testing.T) {
	rdb := testutil.NewRedisClient(t)

	exerciseStore(t, store.NewRedis(rdb, "globetrotter-test:"))
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := store.Open(ctx, store.Options{Driver: store.DriverMemory})
		require.NoError(t, err)
		assert.IsType(t, &store.Memory{}, s)
	})

	t.Run("file", func(t *testing.T) {
		s, err := store.Open(ctx, store.Options{Driver: store.DriverFile, DataDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &store.File{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := store.Open(ctx, store.Options{
			Driver:     store.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "open.db"),
		})
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		assert.IsType(t, &store.SQLite{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := store.Open(ctx, store.Options{Driver: "etcd"})
		assert.ErrorContains(t, err, "unknown driver")
	})
}

func TestJSONHelpers(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	var got []string
	found, err := store.GetJSON(ctx, s, "list", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.PutJSON(ctx, s, "list", []string{"a", "b"}))

	found, err = store.GetJSON(ctx, s, "list", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, s.Put(ctx, "bad", []byte(`{`)))
	_, err = store.GetJSON(ctx, s, "bad", &got)
	assert.ErrorContains(t, err, "decode")
}
