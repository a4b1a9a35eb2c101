package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("handler: encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, "not_found", message)
}

// invalidRequest reports a body that failed to decode or validate.
func invalidRequest(w http.ResponseWriter, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorDetail{
		Code:    "validation_error",
		Message: "request validation failed",
		Details: toDetails(err),
	}})
}

// serviceError maps a domain sentinel to its HTTP status. notFoundMsg names
// what was being looked up. Unmapped errors are logged and reported as 500.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFound(w, notFoundMsg)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", reason(err))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", reason(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials or no active session")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

var sentinels = []error{domain.ErrValidation, domain.ErrConflict, domain.ErrNotFound, domain.ErrUnauthorized}

// reason extracts the human-readable part of a wrapped sentinel error.
// e.g. "service.TripService.UpdateTrip: end date is before start date: validation error"
// becomes "end date is before start date".
func reason(err error) string {
	msg := err.Error()
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || strings.Contains(head, " ") || !strings.Contains(head, ".") {
			break
		}
		msg = rest
	}
	for _, s := range sentinels {
		msg = strings.TrimSuffix(msg, ": "+s.Error())
	}
	return msg
}
