package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

type listResponse[T any] struct {
	Data []T `json:"data"`
}

// searchCities handles GET /catalog/cities?q=&continent=.
func (s *Server) searchCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cities := s.catalog.SearchCities(q.Get("q"), q.Get("continent"))
	writeJSON(w, http.StatusOK, listResponse[domain.City]{Data: cities})
}

func (s *Server) getCity(w http.ResponseWriter, r *http.Request) {
	city, err := s.catalog.CityByID(chi.URLParam(r, "cityId"))
	if err != nil {
		s.serviceError(w, r, err, "city not found")
		return
	}
	writeJSON(w, http.StatusOK, city)
}

// listCityActivities handles GET /catalog/cities/{cityId}/activities.
// An unknown city is 404 rather than an empty list.
func (s *Server) listCityActivities(w http.ResponseWriter, r *http.Request) {
	cityID := chi.URLParam(r, "cityId")
	if _, err := s.catalog.CityByID(cityID); err != nil {
		s.serviceError(w, r, err, "city not found")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Activity]{Data: s.catalog.ActivitiesByCity(cityID)})
}

func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	a, err := s.catalog.ActivityByID(chi.URLParam(r, "activityId"))
	if err != nil {
		s.serviceError(w, r, err, "activity not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) listContinents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, listResponse[string]{Data: s.catalog.Continents()})
}
