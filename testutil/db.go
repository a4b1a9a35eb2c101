// Package testutil provides shared helpers for tests.
// Helpers that need an external service (Postgres, Redis) skip automatically
// when the matching environment variable is not set, so unit tests run
// without any infrastructure.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/redis/go-redis/v9"
)

// NewPool opens a *pgxpool.Pool connected to TEST_DATABASE_URL.
// The pool is closed when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := requireEnv(t, "TEST_DATABASE_URL")

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB opens a *sql.DB on TEST_DATABASE_URL through the pgx database/sql
// driver, for driving goose directly.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := requireEnv(t, "TEST_DATABASE_URL")

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB opens a *sql.DB for the given DSN and panics on any error.
// Use this in TestMain functions where no *testing.T is available.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

// NewRedisClient connects to TEST_REDIS_ADDR and flushes the selected
// database when the test finishes. Point it at a scratch instance.
func NewRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := requireEnv(t, "TEST_REDIS_ADDR")

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		t.Fatalf("testutil.NewRedisClient: ping: %v", err)
	}

	t.Cleanup(func() {
		_ = rdb.FlushDB(context.Background()).Err()
		rdb.Close()
	})
	return rdb
}

func requireEnv(t *testing.T, name string) string {
	t.Helper()
	v := os.Getenv(name)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", name)
	}
	return v
}
