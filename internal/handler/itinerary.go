package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

const stopNotFound = "city stop or activity not found"

// addCity handles POST /trips/{tripId}/cities. The stop is appended at the
// end and carries a snapshot of the catalog city.
func (s *Server) addCity(w http.ResponseWriter, r *http.Request) {
	var req addCityRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	city, err := s.catalog.CityByID(req.CityID)
	if err != nil {
		s.serviceError(w, r, err, "city not found")
		return
	}
	updated, err := s.trips.AddCityToTrip(r.Context(), tripFrom(r).ID, city, req.StartDate.Time, req.EndDate.Time)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(updated))
}

// reorderCities handles PUT /trips/{tripId}/cities/order. The body must list
// every stop id of the trip exactly once.
func (s *Server) reorderCities(w http.ResponseWriter, r *http.Request) {
	var req reorderCitiesRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	updated, err := s.trips.ReorderCities(r.Context(), tripFrom(r).ID, req.TripCityIDs)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

func (s *Server) updateCity(w http.ResponseWriter, r *http.Request) {
	var req updateCityRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	updated, err := s.trips.UpdateCityInTrip(r.Context(), tripFrom(r).ID, chi.URLParam(r, "tripCityId"), domain.TripCityPatch{
		StartDate: dateOrNil(req.StartDate),
		EndDate:   dateOrNil(req.EndDate),
	})
	if err != nil {
		s.serviceError(w, r, err, stopNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// removeCity handles DELETE /trips/{tripId}/cities/{tripCityId}. The stop's
// activities go with it and the remaining stops are renumbered.
func (s *Server) removeCity(w http.ResponseWriter, r *http.Request) {
	updated, err := s.trips.RemoveCityFromTrip(r.Context(), tripFrom(r).ID, chi.URLParam(r, "tripCityId"))
	if err != nil {
		s.serviceError(w, r, err, stopNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// addActivity handles POST /trips/{tripId}/cities/{tripCityId}/activities.
// The activity must be offered in the stop's city.
func (s *Server) addActivity(w http.ResponseWriter, r *http.Request) {
	var req addActivityRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	trip := tripFrom(r)
	tripCityID := chi.URLParam(r, "tripCityId")
	i := trip.CityIndex(tripCityID)
	if i < 0 {
		notFound(w, stopNotFound)
		return
	}
	activity, err := s.catalog.ActivityByID(req.ActivityID)
	if err != nil {
		s.serviceError(w, r, err, "activity not found")
		return
	}
	if activity.CityID != trip.Cities[i].CityID {
		writeError(w, http.StatusUnprocessableEntity, "validation_error",
			"activity "+activity.ID+" is not offered in "+trip.Cities[i].City.Name)
		return
	}
	updated, err := s.trips.AddActivityToCity(r.Context(), trip.ID, tripCityID, activity, req.Date.Time, req.Time, req.Notes)
	if err != nil {
		s.serviceError(w, r, err, stopNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(updated))
}

func (s *Server) updateActivity(w http.ResponseWriter, r *http.Request) {
	var req updateActivityRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	updated, err := s.trips.UpdateActivityInCity(r.Context(), tripFrom(r).ID,
		chi.URLParam(r, "tripCityId"), chi.URLParam(r, "tripActivityId"),
		domain.TripActivityPatch{Date: dateOrNil(req.Date), Time: req.Time, Notes: req.Notes})
	if err != nil {
		s.serviceError(w, r, err, stopNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

func (s *Server) removeActivity(w http.ResponseWriter, r *http.Request) {
	updated, err := s.trips.RemoveActivityFromCity(r.Context(), tripFrom(r).ID,
		chi.URLParam(r, "tripCityId"), chi.URLParam(r, "tripActivityId"))
	if err != nil {
		s.serviceError(w, r, err, stopNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}
