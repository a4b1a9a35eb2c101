package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres keeps records in the kv_records table.
type Postgres struct {
	db    db
	close func()
}

// NewPostgres wraps an existing connection. The caller owns its lifecycle and
// must have applied the migrations.
func NewPostgres(db db) *Postgres {
	return &Postgres{db: db, close: func() {}}
}

// OpenPostgres opens a pool, verifies connectivity and applies pending migrations.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store.OpenPostgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store.OpenPostgres: ping: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	if err := Migrate(ctx, goose.DialectPostgres, sqlDB); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{db: pool, close: pool.Close}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_records WHERE key = @key`

	var value string
	err := p.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("store.Postgres.Get %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store.Postgres.Get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (p *Postgres) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_records (key, value, updated_at)
		VALUES (@key, @value, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := p.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": string(value)}); err != nil {
		return fmt.Errorf("store.Postgres.Put %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_records WHERE key = @key`

	if _, err := p.db.Exec(ctx, q, pgx.NamedArgs{"key": key}); err != nil {
		return fmt.Errorf("store.Postgres.Delete %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.close()
	return nil
}
