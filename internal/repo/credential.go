package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/store"
)

// CredentialRepo holds the registered accounts. Emails are unique and
// compared exactly.
type CredentialRepo interface {
	// FindByEmail returns domain.ErrNotFound when no account uses email.
	FindByEmail(ctx context.Context, email string) (domain.Credential, error)

	GetByID(ctx context.Context, id string) (domain.Credential, error)

	// Create appends an account. An email already in use is domain.ErrConflict.
	Create(ctx context.Context, c domain.Credential) (domain.Credential, error)

	// Update replaces the account with the same id. Moving to an email owned
	// by a different account is domain.ErrConflict.
	Update(ctx context.Context, c domain.Credential) (domain.Credential, error)

	// Delete removes the account. A missing id is not an error.
	Delete(ctx context.Context, id string) error
}

type snapshotCredentialRepo struct {
	mu    sync.Mutex
	store store.Store
	creds []domain.Credential
}

// NewCredentialRepo hydrates the account list from s.
func NewCredentialRepo(ctx context.Context, s store.Store) (CredentialRepo, error) {
	var creds []domain.Credential
	if _, err := store.GetJSON(ctx, s, store.KeyCredentials, &creds); err != nil {
		return nil, fmt.Errorf("repo.NewCredentialRepo: %w", err)
	}
	return &snapshotCredentialRepo{store: s, creds: creds}, nil
}

func (r *snapshotCredentialRepo) FindByEmail(_ context.Context, email string) (domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.creds {
		if c.Email == email {
			return c, nil
		}
	}
	return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.FindByEmail: %w", domain.ErrNotFound)
}

func (r *snapshotCredentialRepo) GetByID(_ context.Context, id string) (domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.creds {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.GetByID %s: %w", id, domain.ErrNotFound)
}

func (r *snapshotCredentialRepo) Create(ctx context.Context, c domain.Credential) (domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.creds {
		if existing.Email == c.Email {
			return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Create: email taken: %w", domain.ErrConflict)
		}
	}

	next := append(append([]domain.Credential{}, r.creds...), c)
	if err := r.commit(ctx, next); err != nil {
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Create: %w", err)
	}
	return c, nil
}

func (r *snapshotCredentialRepo) Update(ctx context.Context, c domain.Credential) (domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos := -1
	for i, existing := range r.creds {
		if existing.ID == c.ID {
			pos = i
			continue
		}
		if existing.Email == c.Email {
			return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Update: email taken: %w", domain.ErrConflict)
		}
	}
	if pos < 0 {
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Update %s: %w", c.ID, domain.ErrNotFound)
	}

	next := append([]domain.Credential{}, r.creds...)
	next[pos] = c
	if err := r.commit(ctx, next); err != nil {
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Update: %w", err)
	}
	return c, nil
}

func (r *snapshotCredentialRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]domain.Credential, 0, len(r.creds))
	for _, c := range r.creds {
		if c.ID != id {
			next = append(next, c)
		}
	}
	if len(next) == len(r.creds) {
		return nil
	}
	if err := r.commit(ctx, next); err != nil {
		return fmt.Errorf("repo.CredentialRepo.Delete: %w", err)
	}
	return nil
}

func (r *snapshotCredentialRepo) commit(ctx context.Context, next []domain.Credential) error {
	if err := store.PutJSON(ctx, r.store, store.KeyCredentials, next); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	r.creds = next
	return nil
}
