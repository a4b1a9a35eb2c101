package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/repo"
)

// Built-in demo account, accepted when IdentityServiceDeps.DemoLogin is set.
const (
	DemoEmail    = "demo@globetrotter.com"
	DemoPassword = "demo123"
	DemoUserID   = "user-1"
)

// MinPasswordLength is the shortest password Signup accepts.
const MinPasswordLength = 6

// DemoUser is the session user installed by a demo login.
func DemoUser() domain.User {
	return domain.User{
		ID:        DemoUserID,
		Name:      "Alex Traveler",
		Email:     DemoEmail,
		Avatar:    "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=150&q=80",
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// IdentityServiceDeps captures the collaborators of an IdentityService.
// A zero BcryptCost means bcrypt.DefaultCost.
type IdentityServiceDeps struct {
	Credentials repo.CredentialRepo
	Sessions    repo.SessionRepo
	Trips       repo.TripRepo
	DemoLogin   bool
	BcryptCost  int
	Now         func() time.Time
	NewID       func() string
	Logger      *slog.Logger
}

// IdentityService manages the account list and the single active session.
type IdentityService struct {
	creds     repo.CredentialRepo
	sessions  repo.SessionRepo
	trips     repo.TripRepo
	demoLogin bool
	cost      int
	now       func() time.Time
	newID     func() string
	log       *slog.Logger
}

func NewIdentityService(deps IdentityServiceDeps) *IdentityService {
	s := &IdentityService{
		creds:     deps.Credentials,
		sessions:  deps.Sessions,
		trips:     deps.Trips,
		demoLogin: deps.DemoLogin,
		cost:      deps.BcryptCost,
		now:       deps.Now,
		newID:     deps.NewID,
		log:       deps.Logger,
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Login checks email and password against the registered accounts, then the
// demo account. Any mismatch is domain.ErrUnauthorized without saying which
// part was wrong. On success the session is replaced.
func (s *IdentityService) Login(ctx context.Context, email, password string) (domain.User, error) {
	var user domain.User

	cred, err := s.creds.FindByEmail(ctx, email)
	switch {
	case err == nil && bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) == nil:
		user = cred.User()
	case err == nil && s.isDemo(email, password):
		// A stored account may carry the demo email from before demo login
		// was enabled. The demo password still signs in as the demo user.
		user = DemoUser()
	case err == nil:
		return domain.User{}, fmt.Errorf("service.IdentityService.Login: %w", domain.ErrUnauthorized)
	case errors.Is(err, domain.ErrNotFound) && s.isDemo(email, password):
		user = DemoUser()
	case errors.Is(err, domain.ErrNotFound):
		return domain.User{}, fmt.Errorf("service.IdentityService.Login: %w", domain.ErrUnauthorized)
	default:
		return domain.User{}, fmt.Errorf("service.IdentityService.Login: %w", err)
	}

	if err := s.sessions.Put(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("service.IdentityService.Login: %w", err)
	}
	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, nil
}

// Signup registers a new account and signs it in. An email that is already
// registered (the demo email included) is domain.ErrConflict.
func (s *IdentityService) Signup(ctx context.Context, name, email, password string) (domain.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return domain.User{}, fmt.Errorf("service.IdentityService.Signup: name and email are required: %w", domain.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("service.IdentityService.Signup: password shorter than %d: %w", MinPasswordLength, domain.ErrValidation)
	}
	if s.demoLogin && email == DemoEmail {
		return domain.User{}, fmt.Errorf("service.IdentityService.Signup: email taken: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.IdentityService.Signup: hash password: %w", err)
	}

	cred, err := s.creds.Create(ctx, domain.Credential{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.IdentityService.Signup: %w", err)
	}

	user := cred.User()
	if err := s.sessions.Put(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("service.IdentityService.Signup: %w", err)
	}
	s.log.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

// Logout clears the session. Registered accounts are untouched.
func (s *IdentityService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("service.IdentityService.Logout: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user or domain.ErrUnauthorized.
func (s *IdentityService) CurrentUser(ctx context.Context) (domain.User, error) {
	u, err := s.sessions.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("service.IdentityService.CurrentUser: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.IdentityService.CurrentUser: %w", err)
	}
	return u, nil
}

// UpdateUser merges patch into the signed-in user. The matching account
// record follows, so a changed email works for the next login.
func (s *IdentityService) UpdateUser(ctx context.Context, patch domain.UserPatch) (domain.User, error) {
	current, err := s.CurrentUser(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.IdentityService.UpdateUser: %w", err)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.User{}, fmt.Errorf("service.IdentityService.UpdateUser: name is required: %w", domain.ErrValidation)
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		return domain.User{}, fmt.Errorf("service.IdentityService.UpdateUser: email is required: %w", domain.ErrValidation)
	}
	updated := patch.Apply(current)
	if s.demoLogin && updated.Email == DemoEmail && current.ID != DemoUserID {
		return domain.User{}, fmt.Errorf("service.IdentityService.UpdateUser: email taken: %w", domain.ErrConflict)
	}

	cred, err := s.creds.GetByID(ctx, current.ID)
	switch {
	case err == nil:
		cred.Name, cred.Email, cred.Avatar = updated.Name, updated.Email, updated.Avatar
		if _, err := s.creds.Update(ctx, cred); err != nil {
			return domain.User{}, fmt.Errorf("service.IdentityService.UpdateUser: %w", err)
		}
	case errors.Is(err, domain.ErrNotFound):
		// Demo sessions have no account record, but may not take a registered email.
		if updated.Email != current.Email {
			if _, err := s.creds.FindByEmail(ctx, updated.Email); err == nil {
				return domain.User{}, fmt.Errorf("service.IdentityService.UpdateUser: email taken: %w", domain.ErrConflict)
			}
		}
	default:
		return domain.User{}, fmt.Errorf("service.IdentityService.UpdateUser: %w", err)
	}

	if err := s.sessions.Put(ctx, updated); err != nil {
		return domain.User{}, fmt.Errorf("service.IdentityService.UpdateUser: %w", err)
	}
	return updated, nil
}

// DeleteAccount removes the signed-in user's account record, session and
// trips, in that order. The steps are not atomic: a failure after the account
// record is gone leaves orphaned trips that a retry cannot reach, but never a
// live account whose trips were already deleted.
func (s *IdentityService) DeleteAccount(ctx context.Context) error {
	current, err := s.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("service.IdentityService.DeleteAccount: %w", err)
	}

	if err := s.creds.Delete(ctx, current.ID); err != nil {
		return fmt.Errorf("service.IdentityService.DeleteAccount: %w", err)
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("service.IdentityService.DeleteAccount: %w", err)
	}
	removed, err := s.trips.DeleteByUser(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("service.IdentityService.DeleteAccount: %w", err)
	}
	s.log.InfoContext(ctx, "account deleted", "user_id", current.ID, "trips_removed", removed)
	return nil
}

func (s *IdentityService) isDemo(email, password string) bool {
	return s.demoLogin &&
		email == DemoEmail &&
		subtle.ConstantTimeCompare([]byte(password), []byte(DemoPassword)) == 1
}
