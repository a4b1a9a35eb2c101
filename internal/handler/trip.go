package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

type tripKey struct{}

// ownedTrip loads {tripId} and rejects it with 404 unless it belongs to the
// session user. A trip owned by someone else is indistinguishable from a
// missing one. The loaded trip is available to handlers via tripFrom.
func (s *Server) ownedTrip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trip, err := s.trips.GetTrip(r.Context(), chi.URLParam(r, "tripId"))
		if err != nil {
			s.serviceError(w, r, err, "trip not found")
			return
		}
		if trip.UserID != sessionUser(r).ID {
			notFound(w, "trip not found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tripKey{}, trip)))
	})
}

func tripFrom(r *http.Request) domain.Trip {
	t, _ := r.Context().Value(tripKey{}).(domain.Trip)
	return t
}

// listTrips handles GET /trips. Only the session user's trips are listed.
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListTrips(r.Context(), domain.TripFilter{UserID: sessionUser(r).ID})
	if err != nil {
		s.serviceError(w, r, err, "trips not found")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[tripResponse]{Data: tripsToResponse(trips)})
}

// createTrip handles POST /trips.
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	created, err := s.trips.CreateTrip(r.Context(), sessionUser(r).ID, domain.TripDraft{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
	})
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// getTrip handles GET /trips/{tripId}.
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tripToResponse(tripFrom(r)))
}

// updateTrip handles PATCH /trips/{tripId}. Omitted fields are unchanged.
func (s *Server) updateTrip(w http.ResponseWriter, r *http.Request) {
	var req updateTripRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	updated, err := s.trips.UpdateTrip(r.Context(), tripFrom(r).ID, domain.TripPatch{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		StartDate:   dateOrNil(req.StartDate),
		EndDate:     dateOrNil(req.EndDate),
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// deleteTrip handles DELETE /trips/{tripId}.
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.DeleteTrip(r.Context(), tripFrom(r).ID); err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getTripSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.trips.Summary(r.Context(), tripFrom(r).ID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// duplicateTrip handles POST /trips/{tripId}/duplicate.
func (s *Server) duplicateTrip(w http.ResponseWriter, r *http.Request) {
	dup, err := s.trips.DuplicateTrip(r.Context(), tripFrom(r).ID, sessionUser(r).ID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(dup))
}

// getDashboard handles GET /dashboard.
func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.trips.Dashboard(r.Context(), sessionUser(r).ID)
	if err != nil {
		s.serviceError(w, r, err, "dashboard not found")
		return
	}
	writeJSON(w, http.StatusOK, dashboardToResponse(d))
}

// getCurrentTrip handles GET /current-trip. A selection that does not belong
// to the session user reads as none.
func (s *Server) getCurrentTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.CurrentTrip(r.Context())
	if err == nil && trip.UserID != sessionUser(r).ID {
		err = domain.ErrNotFound
	}
	if err != nil {
		s.serviceError(w, r, err, "no current trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// setCurrentTrip handles PUT /current-trip. An empty trip_id clears the
// selection and answers 204.
func (s *Server) setCurrentTrip(w http.ResponseWriter, r *http.Request) {
	var req currentTripRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	if req.TripID != "" {
		owned, err := s.trips.GetTrip(r.Context(), req.TripID)
		if err == nil && owned.UserID != sessionUser(r).ID {
			err = domain.ErrNotFound
		}
		if err != nil {
			s.serviceError(w, r, err, "trip not found")
			return
		}
	}
	trip, err := s.trips.SetCurrentTrip(r.Context(), req.TripID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	if req.TripID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}
