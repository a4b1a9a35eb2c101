// Package middleware provides reusable HTTP middleware for the GlobeTrotter API.
//
// RequireSession reads a single process-wide session: every request acts as
// the user who signed in last, so the API serves one user at a time.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
