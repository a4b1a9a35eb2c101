// Package domain contains the core data types for the GlobeTrotter itinerary API.
// This package has no dependencies on other internal packages and is imported
// by every other one (catalog, store, repo, service, handler).
package domain

import (
	"time"
)

// Trip is the top-level aggregate: a user-owned plan spanning a date range
// with an ordered list of city stops. A trip is public if and only if it
// carries a non-empty ShareID.
type Trip struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Cities      []TripCity `json:"cities"`
	IsPublic    bool       `json:"is_public"`
	ShareID     string     `json:"share_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TripCity is one stop within a trip. City is a snapshot taken when the stop
// was added. Order is the 0-based position of the stop within its trip.
type TripCity struct {
	ID         string         `json:"id"`
	CityID     string         `json:"city_id"`
	City       City           `json:"city"`
	StartDate  time.Time      `json:"start_date"`
	EndDate    time.Time      `json:"end_date"`
	Order      int            `json:"order"`
	Activities []TripActivity `json:"activities"`
}

// TripActivity is one scheduled occurrence of a catalog activity.
// Time is a "15:04" time-of-day string.
type TripActivity struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	Activity   Activity  `json:"activity"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Notes      string    `json:"notes,omitempty"`
}

// Clone returns a deep copy of t. The city and activity slices of the copy
// share no backing arrays with t, so the copy can be mutated freely.
func (t Trip) Clone() Trip {
	out := t
	out.Cities = make([]TripCity, len(t.Cities))
	for i, tc := range t.Cities {
		out.Cities[i] = tc.Clone()
	}
	return out
}

// Clone returns a deep copy of tc.
func (tc TripCity) Clone() TripCity {
	out := tc
	out.Activities = make([]TripActivity, len(tc.Activities))
	copy(out.Activities, tc.Activities)
	return out
}

// CityIndex returns the position of the stop with the given id, or -1.
func (t Trip) CityIndex(tripCityID string) int {
	for i := range t.Cities {
		if t.Cities[i].ID == tripCityID {
			return i
		}
	}
	return -1
}

// ActivityIndex returns the position of the activity with the given id, or -1.
func (tc TripCity) ActivityIndex(tripActivityID string) int {
	for i := range tc.Activities {
		if tc.Activities[i].ID == tripActivityID {
			return i
		}
	}
	return -1
}

// TripDraft holds the caller-supplied fields for a new trip.
// Name, StartDate and EndDate are validated at the HTTP boundary.
type TripDraft struct {
	Name        string
	Description string
	CoverImage  string
	StartDate   time.Time
	EndDate     time.Time
}

// TripPatch carries a partial update for a trip. Nil fields are left untouched.
type TripPatch struct {
	Name        *string
	Description *string
	CoverImage  *string
	StartDate   *time.Time
	EndDate     *time.Time
	IsPublic    *bool
}

// TripCityPatch carries a partial update for a city stop.
type TripCityPatch struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// TripActivityPatch carries a partial update for a scheduled activity.
type TripActivityPatch struct {
	Date  *time.Time
	Time  *string
	Notes *string
}

// TripFilter narrows a trip listing. The zero value matches every trip.
type TripFilter struct {
	UserID string
}

// Matches reports whether t passes the filter.
func (f TripFilter) Matches(t Trip) bool {
	return f.UserID == "" || t.UserID == f.UserID
}

// ShareLink is the result of publishing a trip.
type ShareLink struct {
	ShareID string `json:"share_id"`
	URL     string `json:"url"`
}
