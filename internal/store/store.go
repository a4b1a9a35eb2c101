// Package store provides the durable key-value storage that backs the
// GlobeTrotter repositories. Each logical record (session, credential list,
// trip collection) is one key holding one JSON document.
//
// Backends: in-memory, file, Postgres (pgx), SQLite (modernc) and Redis.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// Store is the minimal contract every backend satisfies.
// Get returns domain.ErrNotFound when the key has never been written or was deleted.
// Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Record keys used by the repositories.
const (
	KeySession     = "globetrotter_user"
	KeyCredentials = "globetrotter_users"
	KeyTrips       = "globetrotter_trips"
)

// GetJSON reads key and decodes it into dst.
// It reports false with a nil error when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	b, err := s.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("store.GetJSON %s: decode: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes v and writes it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store.PutJSON %s: encode: %w", key, err)
	}
	return s.Put(ctx, key, b)
}
