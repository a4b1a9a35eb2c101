package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// SQLite keeps records in a local kv_records table, which makes it the
// closest server-side analogue of browser local storage.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store.OpenSQLite: open: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.OpenSQLite: ping: %w", err)
	}
	if err := Migrate(ctx, goose.DialectSQLite3, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store.SQLite.Get %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store.SQLite.Get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_records (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, q, key, string(value)); err != nil {
		return fmt.Errorf("store.SQLite.Put %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store.SQLite.Delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
