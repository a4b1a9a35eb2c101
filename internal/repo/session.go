package repo

import (
	"context"
	"fmt"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/store"
)

// SessionRepo holds the single signed-in user record. Reads go straight to
// the store so a session written by another process is seen immediately.
type SessionRepo interface {
	// Get returns domain.ErrNotFound when nobody is signed in.
	Get(ctx context.Context) (domain.User, error)
	Put(ctx context.Context, u domain.User) error
	Clear(ctx context.Context) error
}

type storeSessionRepo struct {
	store store.Store
}

func NewSessionRepo(s store.Store) SessionRepo {
	return &storeSessionRepo{store: s}
}

func (r *storeSessionRepo) Get(ctx context.Context) (domain.User, error) {
	var u domain.User
	found, err := store.GetJSON(ctx, r.store, store.KeySession, &u)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.SessionRepo.Get: %w", err)
	}
	if !found {
		return domain.User{}, fmt.Errorf("repo.SessionRepo.Get: %w", domain.ErrNotFound)
	}
	return u, nil
}

func (r *storeSessionRepo) Put(ctx context.Context, u domain.User) error {
	if err := store.PutJSON(ctx, r.store, store.KeySession, u); err != nil {
		return fmt.Errorf("repo.SessionRepo.Put: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (r *storeSessionRepo) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, store.KeySession); err != nil {
		return fmt.Errorf("repo.SessionRepo.Clear: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}
