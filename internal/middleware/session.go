package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// SessionSource resolves the signed-in user. *service.IdentityService satisfies it.
type SessionSource interface {
	CurrentUser(ctx context.Context) (domain.User, error)
}

type userKey struct{}

// RequireSession rejects requests with 401 unless a user is signed in, and
// stores that user in the request context for UserFromContext.
func RequireSession(src SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := src.CurrentUser(r.Context())
			if errors.Is(err, domain.ErrUnauthorized) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user stored by RequireSession.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(domain.User)
	return u, ok
}
