package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// createShareLink handles POST /trips/{tripId}/share. Sharing an already
// public trip returns the existing link.
func (s *Server) createShareLink(w http.ResponseWriter, r *http.Request) {
	link, err := s.trips.GenerateShareLink(r.Context(), tripFrom(r).ID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// rotateShareLink handles POST /trips/{tripId}/share/rotate. The previous
// link stops resolving.
func (s *Server) rotateShareLink(w http.ResponseWriter, r *http.Request) {
	link, err := s.trips.RotateShareLink(r.Context(), tripFrom(r).ID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// revokeShareLink handles DELETE /trips/{tripId}/share.
func (s *Server) revokeShareLink(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.RevokeShareLink(r.Context(), tripFrom(r).ID)
	if err != nil {
		s.serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// getSharedTrip handles GET /shared/{shareId}. No session is needed; private
// and unknown trips both read as 404.
func (s *Server) getSharedTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetSharedTrip(r.Context(), chi.URLParam(r, "shareId"))
	if err != nil {
		s.serviceError(w, r, err, "shared trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// copySharedTrip handles POST /shared/{shareId}/copy: the session user gets
// a private copy of someone's public trip.
func (s *Server) copySharedTrip(w http.ResponseWriter, r *http.Request) {
	shared, err := s.trips.GetSharedTrip(r.Context(), chi.URLParam(r, "shareId"))
	if err != nil {
		s.serviceError(w, r, err, "shared trip not found")
		return
	}
	dup, err := s.trips.DuplicateTrip(r.Context(), shared.ID, sessionUser(r).ID)
	if err != nil {
		s.serviceError(w, r, err, "shared trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(dup))
}
