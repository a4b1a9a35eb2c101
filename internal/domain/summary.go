package domain

import "time"

// TripSummary is a derived, read-only view of a trip used by list and detail
// screens. It is never persisted.
type TripSummary struct {
	TripID        string  `json:"trip_id"`
	CityCount     int     `json:"city_count"`
	ActivityCount int     `json:"activity_count"`
	TotalCost     float64 `json:"total_cost"`
	DurationDays  int     `json:"duration_days"`
}

// Summarize computes counts, cost and inclusive day span for t.
func Summarize(t Trip) TripSummary {
	s := TripSummary{TripID: t.ID, CityCount: len(t.Cities)}
	for _, tc := range t.Cities {
		s.ActivityCount += len(tc.Activities)
		for _, ta := range tc.Activities {
			s.TotalCost += ta.Activity.Cost
		}
	}
	if !t.EndDate.Before(t.StartDate) {
		s.DurationDays = int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
	}
	return s
}

// Dashboard aggregates a user's trips for the landing screen.
type Dashboard struct {
	TripCount       int     `json:"trip_count"`
	CityCount       int     `json:"city_count"`
	ActivityCount   int     `json:"activity_count"`
	EstimatedBudget float64 `json:"estimated_budget"`
	Upcoming        []Trip  `json:"upcoming"`
	Past            []Trip  `json:"past"`
	Recommended     []City  `json:"recommended"`
}

// IsUpcoming reports whether the trip starts after now.
func (t Trip) IsUpcoming(now time.Time) bool {
	return t.StartDate.After(now)
}

// IsPast reports whether the trip ended before now.
func (t Trip) IsPast(now time.Time) bool {
	return t.EndDate.Before(now)
}
