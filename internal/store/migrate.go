package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/globetrotter/backend/migrations"
)

// Migrate applies every pending migration in migrations.FS to db.
// Both SQL backends share one schema, so the same files serve both dialects.
func Migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB) error {
	provider, err := goose.NewProvider(dialect, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("store.Migrate: create provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("store.Migrate: up: %w", err)
	}
	return nil
}
