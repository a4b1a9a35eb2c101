package catalog

import (
	"time"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

type sampleActivity struct {
	id, activityID, date, time string
}

type sampleStop struct {
	id, cityID, start, end string
	activities             []sampleActivity
}

type sampleTrip struct {
	id, userID, name, description, cover string
	start, end, created                  string
	shareID                              string
	stops                                []sampleStop
}

var samples = []sampleTrip{
	{
		id:          "trip-1",
		userID:      "user-1",
		name:        "European Dream",
		description: "A romantic journey through Europe's most beautiful cities",
		cover:       "https://images.unsplash.com/photo-1499856871958-5b9627545d1a?w=800&q=80",
		start:       "2025-06-15",
		end:         "2025-06-29",
		created:     "2025-01-01",
		shareID:     "share-european-dream",
		stops: []sampleStop{
			{"tc-1", "paris", "2025-06-15", "2025-06-19", []sampleActivity{
				{"ta-1", "eiffel-tower", "2025-06-16", "10:00"},
				{"ta-2", "louvre-museum", "2025-06-17", "09:00"},
			}},
			{"tc-2", "barcelona", "2025-06-19", "2025-06-23", []sampleActivity{
				{"ta-3", "sagrada-familia", "2025-06-20", "11:00"},
			}},
			{"tc-3", "rome", "2025-06-23", "2025-06-29", []sampleActivity{
				{"ta-4", "colosseum", "2025-06-24", "09:00"},
				{"ta-5", "vatican-tour", "2025-06-25", "08:00"},
			}},
		},
	},
	{
		id:          "trip-2",
		userID:      "user-1",
		name:        "Asian Adventure",
		description: "Discover the wonders of Asia",
		cover:       "https://images.unsplash.com/photo-1540959733332-eab4deabeeaf?w=800&q=80",
		start:       "2025-08-01",
		end:         "2025-08-14",
		created:     "2025-01-05",
		stops: []sampleStop{
			{"tc-4", "tokyo", "2025-08-01", "2025-08-07", []sampleActivity{
				{"ta-6", "sensoji-temple", "2025-08-02", "09:00"},
				{"ta-7", "sushi-making", "2025-08-03", "14:00"},
			}},
			{"tc-5", "bali", "2025-08-07", "2025-08-14", []sampleActivity{
				{"ta-8", "rice-terraces", "2025-08-08", "08:00"},
				{"ta-9", "ubud-spa", "2025-08-09", "10:00"},
			}},
		},
	},
}

// SampleTrips builds the bundled demo trips used to seed an empty store.
// City and activity snapshots are taken from c. Entries whose reference data
// is missing from c are skipped rather than embedded half-empty.
func (c *Catalog) SampleTrips() []domain.Trip {
	out := make([]domain.Trip, 0, len(samples))
	for _, s := range samples {
		created := mustDate(s.created)
		trip := domain.Trip{
			ID:          s.id,
			UserID:      s.userID,
			Name:        s.name,
			Description: s.description,
			CoverImage:  s.cover,
			StartDate:   mustDate(s.start),
			EndDate:     mustDate(s.end),
			Cities:      []domain.TripCity{},
			IsPublic:    s.shareID != "",
			ShareID:     s.shareID,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		for _, st := range s.stops {
			city, err := c.CityByID(st.cityID)
			if err != nil {
				continue
			}
			tc := domain.TripCity{
				ID:         st.id,
				CityID:     city.ID,
				City:       city,
				StartDate:  mustDate(st.start),
				EndDate:    mustDate(st.end),
				Order:      len(trip.Cities),
				Activities: []domain.TripActivity{},
			}
			for _, sa := range st.activities {
				act, err := c.ActivityByID(sa.activityID)
				if err != nil {
					continue
				}
				tc.Activities = append(tc.Activities, domain.TripActivity{
					ID:         sa.id,
					ActivityID: act.ID,
					Activity:   act,
					Date:       mustDate(sa.date),
					Time:       sa.time,
				})
			}
			trip.Cities = append(trip.Cities, tc)
		}
		out = append(out, trip)
	}
	return out
}

func mustDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic("catalog: malformed sample date: " + s)
	}
	return t
}
