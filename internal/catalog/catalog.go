// Package catalog exposes the static reference data (destination cities and
// their activities) that trips attach snapshots of. The catalog is loaded once
// from embedded JSON and never changes for the life of the process.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// Catalog is an immutable, indexed view of the reference data.
// All methods return copies; callers cannot alter the catalog.
type Catalog struct {
	cities     []domain.City
	activities []domain.Activity
	cityByID   map[string]int
	actByID    map[string]int
}

// Load parses the embedded reference data.
func Load() (*Catalog, error) {
	var cities []domain.City
	if err := readJSON("data/cities.json", &cities); err != nil {
		return nil, err
	}
	var activities []domain.Activity
	if err := readJSON("data/activities.json", &activities); err != nil {
		return nil, err
	}
	return New(cities, activities)
}

// MustLoad is Load for callers that cannot proceed without the catalog.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a Catalog from explicit data. Duplicate ids and activities that
// reference an unknown city are rejected.
func New(cities []domain.City, activities []domain.Activity) (*Catalog, error) {
	c := &Catalog{
		cities:     append([]domain.City(nil), cities...),
		activities: append([]domain.Activity(nil), activities...),
		cityByID:   make(map[string]int, len(cities)),
		actByID:    make(map[string]int, len(activities)),
	}
	for i, city := range c.cities {
		if _, dup := c.cityByID[city.ID]; dup {
			return nil, fmt.Errorf("catalog.New: duplicate city id %q", city.ID)
		}
		c.cityByID[city.ID] = i
	}
	for i, a := range c.activities {
		if _, dup := c.actByID[a.ID]; dup {
			return nil, fmt.Errorf("catalog.New: duplicate activity id %q", a.ID)
		}
		if _, ok := c.cityByID[a.CityID]; !ok {
			return nil, fmt.Errorf("catalog.New: activity %q references unknown city %q", a.ID, a.CityID)
		}
		c.actByID[a.ID] = i
	}
	return c, nil
}

// CityByID returns the city with the given id or domain.ErrNotFound.
func (c *Catalog) CityByID(id string) (domain.City, error) {
	i, ok := c.cityByID[id]
	if !ok {
		return domain.City{}, fmt.Errorf("catalog.CityByID %q: %w", id, domain.ErrNotFound)
	}
	return c.cities[i], nil
}

// ActivityByID returns the activity with the given id or domain.ErrNotFound.
func (c *Catalog) ActivityByID(id string) (domain.Activity, error) {
	i, ok := c.actByID[id]
	if !ok {
		return domain.Activity{}, fmt.Errorf("catalog.ActivityByID %q: %w", id, domain.ErrNotFound)
	}
	return c.activities[i], nil
}

// ActivitiesByCity returns the activities of a city in catalog order.
// An unknown city yields an empty, non-nil slice.
func (c *Catalog) ActivitiesByCity(cityID string) []domain.Activity {
	out := []domain.Activity{}
	for _, a := range c.activities {
		if a.CityID == cityID {
			out = append(out, a)
		}
	}
	return out
}

// Cities returns every city in catalog order.
func (c *Catalog) Cities() []domain.City {
	return append([]domain.City{}, c.cities...)
}

// SearchCities matches query case-insensitively against city name or country,
// and continent exactly. Empty arguments match everything.
func (c *Catalog) SearchCities(query, continent string) []domain.City {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []domain.City{}
	for _, city := range c.cities {
		if continent != "" && city.Continent != continent {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(city.Name), q) &&
			!strings.Contains(strings.ToLower(city.Country), q) {
			continue
		}
		out = append(out, city)
	}
	return out
}

// Continents lists distinct continents in first-seen order.
func (c *Catalog) Continents() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, city := range c.cities {
		if !seen[city.Continent] {
			seen[city.Continent] = true
			out = append(out, city.Continent)
		}
	}
	return out
}

func readJSON(name string, dst any) error {
	b, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", name, err)
	}
	return nil
}
