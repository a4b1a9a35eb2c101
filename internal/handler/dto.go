package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// Calendar dates travel as YYYY-MM-DD (openapi_types.Date); audit timestamps
// as RFC 3339.

// ---- Requests ---------------------------------------------------------------

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

type createTripRequest struct {
	Name        string              `json:"name" validate:"required,max=200"`
	Description string              `json:"description" validate:"max=2000"`
	CoverImage  string              `json:"cover_image" validate:"omitempty,url"`
	StartDate   *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate     *openapi_types.Date `json:"end_date" validate:"required"`
}

func (r createTripRequest) dateRange() (start, end *openapi_types.Date) {
	return r.StartDate, r.EndDate
}

type updateTripRequest struct {
	Name        *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=2000"`
	CoverImage  *string             `json:"cover_image" validate:"omitempty,url"`
	StartDate   *openapi_types.Date `json:"start_date"`
	EndDate     *openapi_types.Date `json:"end_date"`
	IsPublic    *bool               `json:"is_public"`
}

func (r updateTripRequest) dateRange() (start, end *openapi_types.Date) {
	return r.StartDate, r.EndDate
}

type addCityRequest struct {
	CityID    string              `json:"city_id" validate:"required"`
	StartDate *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate   *openapi_types.Date `json:"end_date" validate:"required"`
}

func (r addCityRequest) dateRange() (start, end *openapi_types.Date) {
	return r.StartDate, r.EndDate
}

type updateCityRequest struct {
	StartDate *openapi_types.Date `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date"`
}

func (r updateCityRequest) dateRange() (start, end *openapi_types.Date) {
	return r.StartDate, r.EndDate
}

type reorderCitiesRequest struct {
	TripCityIDs []string `json:"trip_city_ids" validate:"required,dive,required"`
}

type addActivityRequest struct {
	ActivityID string              `json:"activity_id" validate:"required"`
	Date       *openapi_types.Date `json:"date" validate:"required"`
	Time       string              `json:"time" validate:"required,datetime=15:04"`
	Notes      string              `json:"notes" validate:"max=1000"`
}

type updateActivityRequest struct {
	Date  *openapi_types.Date `json:"date"`
	Time  *string             `json:"time" validate:"omitempty,datetime=15:04"`
	Notes *string             `json:"notes" validate:"omitempty,max=1000"`
}

type currentTripRequest struct {
	TripID string `json:"trip_id"`
}

// ---- Responses --------------------------------------------------------------

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type tripActivityResponse struct {
	ID         string             `json:"id"`
	ActivityID string             `json:"activity_id"`
	Activity   domain.Activity    `json:"activity"`
	Date       openapi_types.Date `json:"date"`
	Time       string             `json:"time"`
	Notes      string             `json:"notes,omitempty"`
}

type tripCityResponse struct {
	ID         string                 `json:"id"`
	CityID     string                 `json:"city_id"`
	City       domain.City            `json:"city"`
	StartDate  openapi_types.Date     `json:"start_date"`
	EndDate    openapi_types.Date     `json:"end_date"`
	Order      int                    `json:"order"`
	Activities []tripActivityResponse `json:"activities"`
}

type tripResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	CoverImage  string             `json:"cover_image,omitempty"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Cities      []tripCityResponse `json:"cities"`
	IsPublic    bool               `json:"is_public"`
	ShareID     string             `json:"share_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type dashboardResponse struct {
	TripCount       int            `json:"trip_count"`
	CityCount       int            `json:"city_count"`
	ActivityCount   int            `json:"activity_count"`
	EstimatedBudget float64        `json:"estimated_budget"`
	Upcoming        []tripResponse `json:"upcoming"`
	Past            []tripResponse `json:"past"`
	Recommended     []domain.City  `json:"recommended"`
}

// ---- Mapping ----------------------------------------------------------------

func userToResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, CreatedAt: u.CreatedAt}
}

func tripToResponse(t domain.Trip) tripResponse {
	out := tripResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		Description: t.Description,
		CoverImage:  t.CoverImage,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Cities:      make([]tripCityResponse, len(t.Cities)),
		IsPublic:    t.IsPublic,
		ShareID:     t.ShareID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for i, tc := range t.Cities {
		city := tripCityResponse{
			ID:         tc.ID,
			CityID:     tc.CityID,
			City:       tc.City,
			StartDate:  openapi_types.Date{Time: tc.StartDate},
			EndDate:    openapi_types.Date{Time: tc.EndDate},
			Order:      tc.Order,
			Activities: make([]tripActivityResponse, len(tc.Activities)),
		}
		for j, ta := range tc.Activities {
			city.Activities[j] = tripActivityResponse{
				ID:         ta.ID,
				ActivityID: ta.ActivityID,
				Activity:   ta.Activity,
				Date:       openapi_types.Date{Time: ta.Date},
				Time:       ta.Time,
				Notes:      ta.Notes,
			}
		}
		out.Cities[i] = city
	}
	return out
}

func tripsToResponse(trips []domain.Trip) []tripResponse {
	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return out
}

func dashboardToResponse(d domain.Dashboard) dashboardResponse {
	rec := d.Recommended
	if rec == nil {
		rec = []domain.City{}
	}
	return dashboardResponse{
		TripCount:       d.TripCount,
		CityCount:       d.CityCount,
		ActivityCount:   d.ActivityCount,
		EstimatedBudget: d.EstimatedBudget,
		Upcoming:        tripsToResponse(d.Upcoming),
		Past:            tripsToResponse(d.Past),
		Recommended:     rec,
	}
}

// dateOrNil unwraps an optional request date.
func dateOrNil(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
