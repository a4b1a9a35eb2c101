// Package repo holds the persisted collections behind the GlobeTrotter API.
// Each repository keeps its collection in memory, hydrated once from the
// key-value store, and writes the whole snapshot back on every mutation.
// No business rules live here, only lookup, replacement and persistence.
package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/store"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface so it can be unit-tested with a mock.
// Every method returns copies; callers can never alias the stored collection.
type TripRepo interface {
	// GetByID returns domain.ErrNotFound if no trip has that id.
	GetByID(ctx context.Context, id string) (domain.Trip, error)

	// GetByShareID resolves a public trip by its share token. Private trips
	// are reported as domain.ErrNotFound even if the token matches.
	GetByShareID(ctx context.Context, shareID string) (domain.Trip, error)

	// List returns the trips passing filter in insertion order.
	List(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error)

	// Create appends a trip. A duplicate id is domain.ErrConflict.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Save replaces the stored trip with the same id, keeping its position.
	Save(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	Delete(ctx context.Context, id string) error

	// DeleteByUser removes every trip owned by userID and reports how many went.
	DeleteByUser(ctx context.Context, userID string) (int, error)

	// Flush writes the current collection to the store unconditionally.
	Flush(ctx context.Context) error
}

type snapshotTripRepo struct {
	mu    sync.Mutex
	store store.Store
	trips []domain.Trip
}

// NewTripRepo hydrates the trip collection from s. When the store has never
// held a trip record the seed trips are installed instead; they are written
// on the first mutation or Flush. A malformed record is an error.
func NewTripRepo(ctx context.Context, s store.Store, seed []domain.Trip) (TripRepo, error) {
	var trips []domain.Trip
	found, err := store.GetJSON(ctx, s, store.KeyTrips, &trips)
	if err != nil {
		return nil, fmt.Errorf("repo.NewTripRepo: %w", err)
	}
	if !found {
		trips = seed
	}
	return &snapshotTripRepo{store: s, trips: cloneTrips(trips)}, nil
}

func (r *snapshotTripRepo) GetByID(_ context.Context, id string) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID %s: %w", id, domain.ErrNotFound)
	}
	return r.trips[i].Clone(), nil
}

func (r *snapshotTripRepo) GetByShareID(_ context.Context, shareID string) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if shareID != "" {
		for _, t := range r.trips {
			if t.ShareID == shareID && t.IsPublic {
				return t.Clone(), nil
			}
		}
	}
	return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByShareID %s: %w", shareID, domain.ErrNotFound)
}

func (r *snapshotTripRepo) List(_ context.Context, filter domain.TripFilter) ([]domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.Trip{}
	for _, t := range r.trips {
		if filter.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (r *snapshotTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(trip.ID) >= 0 {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create %s: %w", trip.ID, domain.ErrConflict)
	}

	next := append(cloneTrips(r.trips), trip.Clone())
	if err := r.commit(ctx, next); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return trip.Clone(), nil
}

func (r *snapshotTripRepo) Save(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(trip.ID)
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Save %s: %w", trip.ID, domain.ErrNotFound)
	}

	next := cloneTrips(r.trips)
	next[i] = trip.Clone()
	if err := r.commit(ctx, next); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	return trip.Clone(), nil
}

func (r *snapshotTripRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("repo.TripRepo.Delete %s: %w", id, domain.ErrNotFound)
	}

	next := make([]domain.Trip, 0, len(r.trips)-1)
	next = append(next, r.trips[:i]...)
	next = append(next, r.trips[i+1:]...)
	if err := r.commit(ctx, next); err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}

func (r *snapshotTripRepo) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]domain.Trip, 0, len(r.trips))
	for _, t := range r.trips {
		if t.UserID != userID {
			next = append(next, t)
		}
	}
	removed := len(r.trips) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := r.commit(ctx, next); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.DeleteByUser: %w", err)
	}
	return removed, nil
}

func (r *snapshotTripRepo) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.commit(ctx, r.trips); err != nil {
		return fmt.Errorf("repo.TripRepo.Flush: %w", err)
	}
	return nil
}

// commit persists next and only then installs it. r.mu must be held.
func (r *snapshotTripRepo) commit(ctx context.Context, next []domain.Trip) error {
	if err := store.PutJSON(ctx, r.store, store.KeyTrips, next); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	r.trips = next
	return nil
}

func (r *snapshotTripRepo) indexOf(id string) int {
	for i := range r.trips {
		if r.trips[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTrips(in []domain.Trip) []domain.Trip {
	out := make([]domain.Trip, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
