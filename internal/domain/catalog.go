package domain

// CostIndex is the relative price tier of a destination.
type CostIndex string

const (
	CostBudget    CostIndex = "budget"
	CostModerate  CostIndex = "moderate"
	CostExpensive CostIndex = "expensive"
	CostLuxury    CostIndex = "luxury"
)

// Category groups activities for filtering in the UI.
type Category string

const (
	CategorySightseeing Category = "sightseeing"
	CategoryFood        Category = "food"
	CategoryAdventure   Category = "adventure"
	CategoryCulture     Category = "culture"
	CategoryRelaxation  Category = "relaxation"
	CategoryShopping    Category = "shopping"
	CategoryNightlife   Category = "nightlife"
)

// City is a reference destination from the static catalog.
// Trips embed a copy of it; catalog edits never reach existing trips.
type City struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	Image       string    `json:"image,omitempty"`
	CostIndex   CostIndex `json:"cost_index"`
	Popularity  int       `json:"popularity"`
	Description string    `json:"description"`
	Continent   string    `json:"continent"`
}

// Activity is a reference thing-to-do that belongs to one catalog city.
// Duration is in hours; Cost is a non-negative amount in the catalog currency.
type Activity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Duration    float64  `json:"duration"`
	Cost        float64  `json:"cost"`
	Category    Category `json:"category"`
	CityID      string   `json:"city_id"`
	Rating      float64  `json:"rating"`
}
