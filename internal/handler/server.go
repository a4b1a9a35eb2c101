// Package handler implements the HTTP surface of the GlobeTrotter API.
// All handlers are methods on Server and are mounted by Routes. Methods are
// split into domain-specific files (auth.go, trip.go, itinerary.go, ...) but
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/middleware"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without a store or service layer.
type TripServicer interface {
	CreateTrip(ctx context.Context, ownerID string, draft domain.TripDraft) (domain.Trip, error)
	UpdateTrip(ctx context.Context, tripID string, patch domain.TripPatch) (domain.Trip, error)
	DeleteTrip(ctx context.Context, tripID string) error
	DuplicateTrip(ctx context.Context, tripID, actorID string) (domain.Trip, error)
	AddCityToTrip(ctx context.Context, tripID string, city domain.City, start, end time.Time) (domain.Trip, error)
	RemoveCityFromTrip(ctx context.Context, tripID, tripCityID string) (domain.Trip, error)
	UpdateCityInTrip(ctx context.Context, tripID, tripCityID string, patch domain.TripCityPatch) (domain.Trip, error)
	ReorderCities(ctx context.Context, tripID string, orderedIDs []string) (domain.Trip, error)
	AddActivityToCity(ctx context.Context, tripID, tripCityID string, activity domain.Activity, date time.Time, timeOfDay, notes string) (domain.Trip, error)
	UpdateActivityInCity(ctx context.Context, tripID, tripCityID, tripActivityID string, patch domain.TripActivityPatch) (domain.Trip, error)
	RemoveActivityFromCity(ctx context.Context, tripID, tripCityID, tripActivityID string) (domain.Trip, error)
	GenerateShareLink(ctx context.Context, tripID string) (domain.ShareLink, error)
	RotateShareLink(ctx context.Context, tripID string) (domain.ShareLink, error)
	RevokeShareLink(ctx context.Context, tripID string) (domain.Trip, error)
	GetTrip(ctx context.Context, tripID string) (domain.Trip, error)
	GetSharedTrip(ctx context.Context, shareID string) (domain.Trip, error)
	ListTrips(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error)
	Summary(ctx context.Context, tripID string) (domain.TripSummary, error)
	Dashboard(ctx context.Context, userID string) (domain.Dashboard, error)
	SetCurrentTrip(ctx context.Context, tripID string) (domain.Trip, error)
	CurrentTrip(ctx context.Context) (domain.Trip, error)
}

// IdentityServicer defines the account and session operations.
type IdentityServicer interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
	Signup(ctx context.Context, name, email, password string) (domain.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (domain.User, error)
	UpdateUser(ctx context.Context, patch domain.UserPatch) (domain.User, error)
	DeleteAccount(ctx context.Context) error
}

// Catalog is the read-only reference data. *catalog.Catalog satisfies it.
type Catalog interface {
	CityByID(id string) (domain.City, error)
	ActivityByID(id string) (domain.Activity, error)
	ActivitiesByCity(cityID string) []domain.Activity
	SearchCities(query, continent string) []domain.City
	Continents() []string
}

// Server holds the handler dependencies.
type Server struct {
	trips    TripServicer
	identity IdentityServicer
	catalog  Catalog
	apiDoc   []byte
	validate *validator.Validate
	log      *slog.Logger
}

// NewServer constructs the Server. apiDoc is served verbatim at /openapi.yaml
// and may be nil. A nil logger falls back to slog.Default.
func NewServer(trips TripServicer, identity IdentityServicer, catalog Catalog, apiDoc []byte, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:    trips,
		identity: identity,
		catalog:  catalog,
		apiDoc:   apiDoc,
		validate: newValidator(),
		log:      log,
	}
}

// RouterOptions configures the cross-cutting middleware applied by Routes.
// Zero MaxBodyBytes or AuthRatePerMinute disables that middleware.
type RouterOptions struct {
	CORSOrigins       []string
	MaxBodyBytes      int64
	AuthRatePerMinute int
	AuthRateBurst     int
}

// Routes builds the chi router for the whole API.
//
// Middleware is applied in order: RequestID -> RealIP -> Logger -> Recoverer,
// then CORS and the body size cap. Auth endpoints are additionally throttled
// per client IP; everything under the session group requires a signed-in user.
func (s *Server) Routes(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(s.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(opts.CORSOrigins))
	if opts.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(opts.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		notFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)

	r.Route("/auth", func(r chi.Router) {
		if opts.AuthRatePerMinute > 0 {
			r.Use(middleware.NewRateLimiter(opts.AuthRatePerMinute, opts.AuthRateBurst).Handler)
		}
		r.Post("/signup", s.signup)
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/cities", s.searchCities)
		r.Get("/cities/{cityId}", s.getCity)
		r.Get("/cities/{cityId}/activities", s.listCityActivities)
		r.Get("/activities/{activityId}", s.getActivity)
		r.Get("/continents", s.listContinents)
	})

	r.Get("/shared/{shareId}", s.getSharedTrip)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(s.identity))

		r.Get("/me", s.getMe)
		r.Patch("/me", s.updateMe)
		r.Delete("/me", s.deleteMe)

		r.Get("/dashboard", s.getDashboard)
		r.Get("/current-trip", s.getCurrentTrip)
		r.Put("/current-trip", s.setCurrentTrip)
		r.Post("/shared/{shareId}/copy", s.copySharedTrip)

		r.Get("/trips", s.listTrips)
		r.Post("/trips", s.createTrip)
		r.Route("/trips/{tripId}", func(r chi.Router) {
			r.Use(s.ownedTrip)

			r.Get("/", s.getTrip)
			r.Patch("/", s.updateTrip)
			r.Delete("/", s.deleteTrip)
			r.Get("/summary", s.getTripSummary)
			r.Post("/duplicate", s.duplicateTrip)

			r.Post("/share", s.createShareLink)
			r.Post("/share/rotate", s.rotateShareLink)
			r.Delete("/share", s.revokeShareLink)

			r.Post("/cities", s.addCity)
			r.Put("/cities/order", s.reorderCities)
			r.Patch("/cities/{tripCityId}", s.updateCity)
			r.Delete("/cities/{tripCityId}", s.removeCity)
			r.Post("/cities/{tripCityId}/activities", s.addActivity)
			r.Patch("/cities/{tripCityId}/activities/{tripActivityId}", s.updateActivity)
			r.Delete("/cities/{tripCityId}/activities/{tripActivityId}", s.removeActivity)
		})
	})

	return r
}

var errEmptyBody = errors.New("request body is required")

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return s.validate.Struct(dst)
}

// sessionUser returns the user installed by middleware.RequireSession.
func sessionUser(r *http.Request) domain.User {
	u, _ := middleware.UserFromContext(r.Context())
	return u
}
