package handler

import (
	"net/http"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// signup handles POST /auth/signup. The new account is signed in.
func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	u, err := s.identity.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.serviceError(w, r, err, "account not found")
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(u))
}

// login handles POST /auth/login.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	u, err := s.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.serviceError(w, r, err, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// logout handles POST /auth/logout. Logging out without a session succeeds.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.Logout(r.Context()); err != nil {
		s.serviceError(w, r, err, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getMe handles GET /me.
func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userToResponse(sessionUser(r)))
}

// updateMe handles PATCH /me.
func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := s.decode(r, &req); err != nil {
		invalidRequest(w, err)
		return
	}
	u, err := s.identity.UpdateUser(r.Context(), domain.UserPatch{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
	})
	if err != nil {
		s.serviceError(w, r, err, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// deleteMe handles DELETE /me. The account, its trips and the session go.
func (s *Server) deleteMe(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.DeleteAccount(r.Context()); err != nil {
		s.serviceError(w, r, err, "account not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
