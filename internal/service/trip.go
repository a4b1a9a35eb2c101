// Package service contains the business logic for the GlobeTrotter API.
// Services keep trips consistent (contiguous stop order, share state,
// advancing timestamps) and orchestrate repo calls. They depend on repo
// interfaces, never on a storage backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/repo"
)

// CityLister supplies the destinations the dashboard recommends from.
// *catalog.Catalog satisfies it.
type CityLister interface {
	Cities() []domain.City
}

// TripServiceDeps captures the collaborators of a TripService.
// Nil Now, NewID and Logger fall back to time.Now, uuid.NewString and slog.Default.
type TripServiceDeps struct {
	Trips       repo.TripRepo
	Cities      CityLister
	ShareOrigin string
	Now         func() time.Time
	NewID       func() string
	Logger      *slog.Logger
}

// TripService implements every trip mutation. Each mutating call loads the
// trip, computes the new value, and hands it to the repo, which persists it
// before making it visible. The returned Trip is the new state.
type TripService struct {
	repo        repo.TripRepo
	cities      CityLister
	shareOrigin string
	now         func() time.Time
	newID       func() string
	log         *slog.Logger

	// mu serialises mutations so a read-modify-write never interleaves.
	mu sync.Mutex

	currentMu     sync.Mutex
	currentTripID string
}

func NewTripService(deps TripServiceDeps) *TripService {
	s := &TripService{
		repo:        deps.Trips,
		cities:      deps.Cities,
		shareOrigin: strings.TrimRight(deps.ShareOrigin, "/"),
		now:         deps.Now,
		newID:       deps.NewID,
		log:         deps.Logger,
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

// ---- Trip lifecycle ----

// CreateTrip stores a new private trip owned by ownerID with no stops.
func (s *TripService) CreateTrip(ctx context.Context, ownerID string, draft domain.TripDraft) (domain.Trip, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.CreateTrip: name is required: %w", domain.ErrValidation)
	}
	if err := checkRange(draft.StartDate, draft.EndDate); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.CreateTrip: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	trip := domain.Trip{
		ID:          s.newID(),
		UserID:      ownerID,
		Name:        strings.TrimSpace(draft.Name),
		Description: draft.Description,
		CoverImage:  draft.CoverImage,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
		Cities:      []domain.TripCity{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.CreateTrip: %w", err)
	}
	s.log.DebugContext(ctx, "trip created", "trip_id", created.ID, "user_id", ownerID)
	return created, nil
}

// UpdateTrip merges patch into the trip. Turning IsPublic off clears the
// share id so existing links stop resolving. Turning it on mints one.
func (s *TripService) UpdateTrip(ctx context.Context, tripID string, patch domain.TripPatch) (domain.Trip, error) {
	return s.mutate(ctx, "UpdateTrip", tripID, func(t *domain.Trip) error {
		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return fmt.Errorf("name is required: %w", domain.ErrValidation)
			}
			t.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.CoverImage != nil {
			t.CoverImage = *patch.CoverImage
		}
		if patch.StartDate != nil {
			t.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			t.EndDate = *patch.EndDate
		}
		if err := checkRange(t.StartDate, t.EndDate); err != nil {
			return err
		}
		if patch.IsPublic != nil {
			s.setPublic(t, *patch.IsPublic)
		}
		return nil
	})
}

// DeleteTrip removes the trip and clears the current-trip pointer if it named
// it. An unknown id is domain.ErrNotFound and changes nothing.
func (s *TripService) DeleteTrip(ctx context.Context, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.DeleteTrip: %w", err)
	}

	s.currentMu.Lock()
	if s.currentTripID == tripID {
		s.currentTripID = ""
	}
	s.currentMu.Unlock()

	s.log.DebugContext(ctx, "trip deleted", "trip_id", tripID)
	return nil
}

// DuplicateTrip copies a trip for actorID. Every sub-entity gets a fresh id,
// the copy is private and the original is untouched.
func (s *TripService) DuplicateTrip(ctx context.Context, tripID, actorID string) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.DuplicateTrip: %w", err)
	}

	now := s.now().UTC()
	cp := src.Clone()
	cp.ID = s.newID()
	cp.Name = src.Name + " (Copy)"
	cp.IsPublic = false
	cp.ShareID = ""
	cp.CreatedAt = now
	cp.UpdatedAt = now
	if actorID != "" {
		cp.UserID = actorID
	}
	for i := range cp.Cities {
		cp.Cities[i].ID = s.newID()
		for j := range cp.Cities[i].Activities {
			cp.Cities[i].Activities[j].ID = s.newID()
		}
	}

	created, err := s.repo.Create(ctx, cp)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.DuplicateTrip: %w", err)
	}
	s.log.DebugContext(ctx, "trip duplicated", "source_id", tripID, "trip_id", created.ID)
	return created, nil
}

// ---- City stops ----

// AddCityToTrip appends a stop holding a snapshot of city. The stop dates are
// not checked against the trip window.
func (s *TripService) AddCityToTrip(ctx context.Context, tripID string, city domain.City, start, end time.Time) (domain.Trip, error) {
	if err := checkRange(start, end); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddCityToTrip: %w", err)
	}
	return s.mutate(ctx, "AddCityToTrip", tripID, func(t *domain.Trip) error {
		t.Cities = append(t.Cities, domain.TripCity{
			ID:         s.newID(),
			CityID:     city.ID,
			City:       city,
			StartDate:  start,
			EndDate:    end,
			Order:      len(t.Cities),
			Activities: []domain.TripActivity{},
		})
		return nil
	})
}

// RemoveCityFromTrip drops a stop with its activities and renumbers the
// remaining stops 0..n-1.
func (s *TripService) RemoveCityFromTrip(ctx context.Context, tripID, tripCityID string) (domain.Trip, error) {
	return s.mutate(ctx, "RemoveCityFromTrip", tripID, func(t *domain.Trip) error {
		i := t.CityIndex(tripCityID)
		if i < 0 {
			return fmt.Errorf("city stop %s: %w", tripCityID, domain.ErrNotFound)
		}
		t.Cities = slices.Delete(t.Cities, i, i+1)
		renumber(t.Cities)
		return nil
	})
}

func (s *TripService) UpdateCityInTrip(ctx context.Context, tripID, tripCityID string, patch domain.TripCityPatch) (domain.Trip, error) {
	return s.mutate(ctx, "UpdateCityInTrip", tripID, func(t *domain.Trip) error {
		i := t.CityIndex(tripCityID)
		if i < 0 {
			return fmt.Errorf("city stop %s: %w", tripCityID, domain.ErrNotFound)
		}
		tc := &t.Cities[i]
		if patch.StartDate != nil {
			tc.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			tc.EndDate = *patch.EndDate
		}
		return checkRange(tc.StartDate, tc.EndDate)
	})
}

// ReorderCities puts the stops in the order given. orderedIDs must name every
// stop of the trip exactly once; anything else is domain.ErrValidation.
func (s *TripService) ReorderCities(ctx context.Context, tripID string, orderedIDs []string) (domain.Trip, error) {
	return s.mutate(ctx, "ReorderCities", tripID, func(t *domain.Trip) error {
		if len(orderedIDs) != len(t.Cities) {
			return fmt.Errorf("reorder lists %d stops, trip has %d: %w", len(orderedIDs), len(t.Cities), domain.ErrValidation)
		}
		next := make([]domain.TripCity, 0, len(t.Cities))
		seen := make(map[string]bool, len(orderedIDs))
		for _, id := range orderedIDs {
			if seen[id] {
				return fmt.Errorf("stop %s listed twice: %w", id, domain.ErrValidation)
			}
			seen[id] = true
			i := t.CityIndex(id)
			if i < 0 {
				return fmt.Errorf("stop %s is not in this trip: %w", id, domain.ErrValidation)
			}
			next = append(next, t.Cities[i])
		}
		renumber(next)
		t.Cities = next
		return nil
	})
}

// ---- Activities ----

func (s *TripService) AddActivityToCity(ctx context.Context, tripID, tripCityID string, activity domain.Activity, date time.Time, timeOfDay, notes string) (domain.Trip, error) {
	return s.mutate(ctx, "AddActivityToCity", tripID, func(t *domain.Trip) error {
		i := t.CityIndex(tripCityID)
		if i < 0 {
			return fmt.Errorf("city stop %s: %w", tripCityID, domain.ErrNotFound)
		}
		t.Cities[i].Activities = append(t.Cities[i].Activities, domain.TripActivity{
			ID:         s.newID(),
			ActivityID: activity.ID,
			Activity:   activity,
			Date:       date,
			Time:       timeOfDay,
			Notes:      notes,
		})
		return nil
	})
}

func (s *TripService) UpdateActivityInCity(ctx context.Context, tripID, tripCityID, tripActivityID string, patch domain.TripActivityPatch) (domain.Trip, error) {
	return s.mutate(ctx, "UpdateActivityInCity", tripID, func(t *domain.Trip) error {
		i := t.CityIndex(tripCityID)
		if i < 0 {
			return fmt.Errorf("city stop %s: %w", tripCityID, domain.ErrNotFound)
		}
		j := t.Cities[i].ActivityIndex(tripActivityID)
		if j < 0 {
			return fmt.Errorf("activity %s: %w", tripActivityID, domain.ErrNotFound)
		}
		ta := &t.Cities[i].Activities[j]
		if patch.Date != nil {
			ta.Date = *patch.Date
		}
		if patch.Time != nil {
			ta.Time = *patch.Time
		}
		if patch.Notes != nil {
			ta.Notes = *patch.Notes
		}
		return nil
	})
}

func (s *TripService) RemoveActivityFromCity(ctx context.Context, tripID, tripCityID, tripActivityID string) (domain.Trip, error) {
	return s.mutate(ctx, "RemoveActivityFromCity", tripID, func(t *domain.Trip) error {
		i := t.CityIndex(tripCityID)
		if i < 0 {
			return fmt.Errorf("city stop %s: %w", tripCityID, domain.ErrNotFound)
		}
		j := t.Cities[i].ActivityIndex(tripActivityID)
		if j < 0 {
			return fmt.Errorf("activity %s: %w", tripActivityID, domain.ErrNotFound)
		}
		t.Cities[i].Activities = slices.Delete(t.Cities[i].Activities, j, j+1)
		return nil
	})
}

// ---- Sharing ----

// GenerateShareLink publishes the trip. A trip that is already public keeps
// its share id, so repeated calls return the same URL.
func (s *TripService) GenerateShareLink(ctx context.Context, tripID string) (domain.ShareLink, error) {
	trip, err := s.mutate(ctx, "GenerateShareLink", tripID, func(t *domain.Trip) error {
		if t.IsPublic && t.ShareID != "" {
			return errUnchanged
		}
		s.setPublic(t, true)
		return nil
	})
	if err != nil {
		return domain.ShareLink{}, err
	}
	return s.shareLink(trip.ShareID), nil
}

// RotateShareLink mints a new share id, invalidating any earlier link.
func (s *TripService) RotateShareLink(ctx context.Context, tripID string) (domain.ShareLink, error) {
	trip, err := s.mutate(ctx, "RotateShareLink", tripID, func(t *domain.Trip) error {
		t.IsPublic = true
		t.ShareID = s.newShareID()
		return nil
	})
	if err != nil {
		return domain.ShareLink{}, err
	}
	return s.shareLink(trip.ShareID), nil
}

// RevokeShareLink makes the trip private again.
func (s *TripService) RevokeShareLink(ctx context.Context, tripID string) (domain.Trip, error) {
	return s.mutate(ctx, "RevokeShareLink", tripID, func(t *domain.Trip) error {
		s.setPublic(t, false)
		return nil
	})
}

// ---- Reads ----

func (s *TripService) GetTrip(ctx context.Context, tripID string) (domain.Trip, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetTrip: %w", err)
	}
	return t, nil
}

// GetSharedTrip resolves a public trip by share id.
func (s *TripService) GetSharedTrip(ctx context.Context, shareID string) (domain.Trip, error) {
	t, err := s.repo.GetByShareID(ctx, shareID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetSharedTrip: %w", err)
	}
	return t, nil
}

func (s *TripService) ListTrips(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListTrips: %w", err)
	}
	return trips, nil
}

func (s *TripService) Summary(ctx context.Context, tripID string) (domain.TripSummary, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}
	return domain.Summarize(t), nil
}

// Dashboard aggregates userID's trips and suggests up to four catalog cities
// that none of those trips visits yet.
func (s *TripService) Dashboard(ctx context.Context, userID string) (domain.Dashboard, error) {
	trips, err := s.repo.List(ctx, domain.TripFilter{UserID: userID})
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("service.TripService.Dashboard: %w", err)
	}

	now := s.now()
	d := domain.Dashboard{
		TripCount:   len(trips),
		Upcoming:    []domain.Trip{},
		Past:        []domain.Trip{},
		Recommended: []domain.City{},
	}
	visited := make(map[string]bool)
	for _, t := range trips {
		sum := domain.Summarize(t)
		d.CityCount += sum.CityCount
		d.ActivityCount += sum.ActivityCount
		d.EstimatedBudget += sum.TotalCost
		for _, tc := range t.Cities {
			visited[tc.CityID] = true
		}
		if t.IsUpcoming(now) {
			d.Upcoming = append(d.Upcoming, t)
		}
		if t.IsPast(now) {
			d.Past = append(d.Past, t)
		}
	}
	slices.SortStableFunc(d.Upcoming, func(a, b domain.Trip) int {
		return a.StartDate.Compare(b.StartDate)
	})

	if s.cities != nil {
		for _, c := range s.cities.Cities() {
			if len(d.Recommended) == 4 {
				break
			}
			if !visited[c.ID] {
				d.Recommended = append(d.Recommended, c)
			}
		}
	}
	return d, nil
}

// ---- Current trip ----

// SetCurrentTrip points the editor at tripID. An empty id clears the pointer.
func (s *TripService) SetCurrentTrip(ctx context.Context, tripID string) (domain.Trip, error) {
	if tripID == "" {
		s.currentMu.Lock()
		s.currentTripID = ""
		s.currentMu.Unlock()
		return domain.Trip{}, nil
	}

	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetCurrentTrip: %w", err)
	}

	s.currentMu.Lock()
	s.currentTripID = tripID
	s.currentMu.Unlock()
	return t, nil
}

// CurrentTrip resolves the pointer through the repo, so it always reflects
// the latest stored state. domain.ErrNotFound means no current trip.
func (s *TripService) CurrentTrip(ctx context.Context) (domain.Trip, error) {
	s.currentMu.Lock()
	id := s.currentTripID
	s.currentMu.Unlock()

	if id == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.CurrentTrip: none selected: %w", domain.ErrNotFound)
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.CurrentTrip: %w", err)
	}
	return t, nil
}

// ---- helpers ----

// errUnchanged tells mutate that fn left the trip as loaded, so there is
// nothing to save.
var errUnchanged = errors.New("trip unchanged")

// mutate loads a trip, applies fn, advances UpdatedAt and saves the result.
// If fn or the save fails nothing is changed. If fn returns errUnchanged the
// loaded trip is returned as is.
func (s *TripService) mutate(ctx context.Context, op, tripID string, fn func(*domain.Trip) error) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	if err := fn(&t); errors.Is(err, errUnchanged) {
		return t, nil
	} else if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	s.touch(&t)

	saved, err := s.repo.Save(ctx, t)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	s.log.DebugContext(ctx, "trip updated", "op", op, "trip_id", tripID)
	return saved, nil
}

// touch sets UpdatedAt to now, or 1ns past the previous value if the clock
// has not moved.
func (s *TripService) touch(t *domain.Trip) {
	now := s.now().UTC()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
}

func (s *TripService) setPublic(t *domain.Trip, public bool) {
	t.IsPublic = public
	switch {
	case !public:
		t.ShareID = ""
	case t.ShareID == "":
		t.ShareID = s.newShareID()
	}
}

func (s *TripService) newShareID() string {
	return "share-" + s.newID()
}

func (s *TripService) shareLink(shareID string) domain.ShareLink {
	return domain.ShareLink{ShareID: shareID, URL: s.shareOrigin + "/shared/" + shareID}
}

func renumber(stops []domain.TripCity) {
	for i := range stops {
		stops[i].Order = i
	}
}

func checkRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start and end dates are required: %w", domain.ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("end date is before start date: %w", domain.ErrValidation)
	}
	return nil
}
