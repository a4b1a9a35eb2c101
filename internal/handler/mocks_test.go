package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/globetrotter/backend/internal/catalog"
	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/handler"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	createTrip        func(ctx context.Context, ownerID string, draft domain.TripDraft) (domain.Trip, error)
	updateTrip        func(ctx context.Context, tripID string, patch domain.TripPatch) (domain.Trip, error)
	deleteTrip        func(ctx context.Context, tripID string) error
	duplicateTrip     func(ctx context.Context, tripID, actorID string) (domain.Trip, error)
	addCity           func(ctx context.Context, tripID string, city domain.City, start, end time.Time) (domain.Trip, error)
	removeCity        func(ctx context.Context, tripID, tripCityID string) (domain.Trip, error)
	updateCity        func(ctx context.Context, tripID, tripCityID string, patch domain.TripCityPatch) (domain.Trip, error)
	reorderCities     func(ctx context.Context, tripID string, orderedIDs []string) (domain.Trip, error)
	addActivity       func(ctx context.Context, tripID, tripCityID string, a domain.Activity, date time.Time, timeOfDay, notes string) (domain.Trip, error)
	updateActivity    func(ctx context.Context, tripID, tripCityID, tripActivityID string, patch domain.TripActivityPatch) (domain.Trip, error)
	removeActivity    func(ctx context.Context, tripID, tripCityID, tripActivityID string) (domain.Trip, error)
	generateShareLink func(ctx context.Context, tripID string) (domain.ShareLink, error)
	rotateShareLink   func(ctx context.Context, tripID string) (domain.ShareLink, error)
	revokeShareLink   func(ctx context.Context, tripID string) (domain.Trip, error)
	getTrip           func(ctx context.Context, tripID string) (domain.Trip, error)
	getSharedTrip     func(ctx context.Context, shareID string) (domain.Trip, error)
	listTrips         func(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error)
	summary           func(ctx context.Context, tripID string) (domain.TripSummary, error)
	dashboard         func(ctx context.Context, userID string) (domain.Dashboard, error)
	setCurrentTrip    func(ctx context.Context, tripID string) (domain.Trip, error)
	currentTrip       func(ctx context.Context) (domain.Trip, error)
}

func (m *mockTripServicer) CreateTrip(ctx context.Context, ownerID string, d domain.TripDraft) (domain.Trip, error) {
	return m.createTrip(ctx, ownerID, d)
}
func (m *mockTripServicer) UpdateTrip(ctx context.Context, id string, p domain.TripPatch) (domain.Trip, error) {
	return m.updateTrip(ctx, id, p)
}
func (m *mockTripServicer) DeleteTrip(ctx context.Context, id string) error {
	return m.deleteTrip(ctx, id)
}
func (m *mockTripServicer) DuplicateTrip(ctx context.Context, id, actorID string) (domain.Trip, error) {
	return m.duplicateTrip(ctx, id, actorID)
}
func (m *mockTripServicer) AddCityToTrip(ctx context.Context, id string, c domain.City, start, end time.Time) (domain.Trip, error) {
	return m.addCity(ctx, id, c, start, end)
}
func (m *mockTripServicer) RemoveCityFromTrip(ctx context.Context, id, tcID string) (domain.Trip, error) {
	return m.removeCity(ctx, id, tcID)
}
func (m *mockTripServicer) UpdateCityInTrip(ctx context.Context, id, tcID string, p domain.TripCityPatch) (domain.Trip, error) {
	return m.updateCity(ctx, id, tcID, p)
}
func (m *mockTripServicer) ReorderCities(ctx context.Context, id string, ids []string) (domain.Trip, error) {
	return m.reorderCities(ctx, id, ids)
}
func (m *mockTripServicer) AddActivityToCity(ctx context.Context, id, tcID string, a domain.Activity, date time.Time, tod, notes string) (domain.Trip, error) {
	return m.addActivity(ctx, id, tcID, a, date, tod, notes)
}
func (m *mockTripServicer) UpdateActivityInCity(ctx context.Context, id, tcID, taID string, p domain.TripActivityPatch) (domain.Trip, error) {
	return m.updateActivity(ctx, id, tcID, taID, p)
}
func (m *mockTripServicer) RemoveActivityFromCity(ctx context.Context, id, tcID, taID string) (domain.Trip, error) {
	return m.removeActivity(ctx, id, tcID, taID)
}
func (m *mockTripServicer) GenerateShareLink(ctx context.Context, id string) (domain.ShareLink, error) {
	return m.generateShareLink(ctx, id)
}
func (m *mockTripServicer) RotateShareLink(ctx context.Context, id string) (domain.ShareLink, error) {
	return m.rotateShareLink(ctx, id)
}
func (m *mockTripServicer) RevokeShareLink(ctx context.Context, id string) (domain.Trip, error) {
	return m.revokeShareLink(ctx, id)
}
func (m *mockTripServicer) GetTrip(ctx context.Context, id string) (domain.Trip, error) {
	return m.getTrip(ctx, id)
}
func (m *mockTripServicer) GetSharedTrip(ctx context.Context, shareID string) (domain.Trip, error) {
	return m.getSharedTrip(ctx, shareID)
}
func (m *mockTripServicer) ListTrips(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	return m.listTrips(ctx, f)
}
func (m *mockTripServicer) Summary(ctx context.Context, id string) (domain.TripSummary, error) {
	return m.summary(ctx, id)
}
func (m *mockTripServicer) Dashboard(ctx context.Context, userID string) (domain.Dashboard, error) {
	return m.dashboard(ctx, userID)
}
func (m *mockTripServicer) SetCurrentTrip(ctx context.Context, id string) (domain.Trip, error) {
	return m.setCurrentTrip(ctx, id)
}
func (m *mockTripServicer) CurrentTrip(ctx context.Context) (domain.Trip, error) {
	return m.currentTrip(ctx)
}

// mockIdentityServicer is a test double for handler.IdentityServicer.
type mockIdentityServicer struct {
	login         func(ctx context.Context, email, password string) (domain.User, error)
	signup        func(ctx context.Context, name, email, password string) (domain.User, error)
	logout        func(ctx context.Context) error
	currentUser   func(ctx context.Context) (domain.User, error)
	updateUser    func(ctx context.Context, patch domain.UserPatch) (domain.User, error)
	deleteAccount func(ctx context.Context) error
}

func (m *mockIdentityServicer) Login(ctx context.Context, email, password string) (domain.User, error) {
	return m.login(ctx, email, password)
}
func (m *mockIdentityServicer) Signup(ctx context.Context, name, email, password string) (domain.User, error) {
	return m.signup(ctx, name, email, password)
}
func (m *mockIdentityServicer) Logout(ctx context.Context) error { return m.logout(ctx) }
func (m *mockIdentityServicer) CurrentUser(ctx context.Context) (domain.User, error) {
	return m.currentUser(ctx)
}
func (m *mockIdentityServicer) UpdateUser(ctx context.Context, p domain.UserPatch) (domain.User, error) {
	return m.updateUser(ctx, p)
}
func (m *mockIdentityServicer) DeleteAccount(ctx context.Context) error { return m.deleteAccount(ctx) }

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.IdentityServicer = (*mockIdentityServicer)(nil)
	_ handler.Catalog          = (*catalog.Catalog)(nil)
)

// ---- helpers ---------------------------------------------------------------

var alex = domain.User{ID: "user-1", Name: "Alex Traveler", Email: "demo@globetrotter.com"}

// signedIn returns an identity mock whose session belongs to u.
func signedIn(u domain.User) *mockIdentityServicer {
	return &mockIdentityServicer{
		currentUser: func(context.Context) (domain.User, error) { return u, nil },
	}
}

// signedOut returns an identity mock with no active session.
func signedOut() *mockIdentityServicer {
	return &mockIdentityServicer{
		currentUser: func(context.Context) (domain.User, error) { return domain.User{}, domain.ErrUnauthorized },
	}
}

// newHTTPHandler wires a Server with the given mocks into the full router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(trips handler.TripServicer, identity handler.IdentityServicer) http.Handler {
	srv := handler.NewServer(trips, identity, catalog.MustLoad(), []byte("openapi: 3.0.3\n"), nil)
	return srv.Routes(handler.RouterOptions{CORSOrigins: []string{"http://localhost:5173"}, MaxBodyBytes: 1 << 20})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tripFixture() domain.Trip {
	cat := catalog.MustLoad()
	paris, _ := cat.CityByID("paris")
	eiffel, _ := cat.ActivityByID("eiffel-tower")
	return domain.Trip{
		ID:        "trip-1",
		UserID:    alex.ID,
		Name:      "European Dream",
		StartDate: day(2025, 6, 15),
		EndDate:   day(2025, 6, 29),
		Cities: []domain.TripCity{{
			ID:        "tc-1",
			CityID:    "paris",
			City:      paris,
			StartDate: day(2025, 6, 15),
			EndDate:   day(2025, 6, 19),
			Activities: []domain.TripActivity{{
				ID: "ta-1", ActivityID: "eiffel-tower", Activity: eiffel,
				Date: day(2025, 6, 16), Time: "10:00",
			}},
		}},
		CreatedAt: day(2025, 1, 1),
		UpdatedAt: day(2025, 1, 1),
	}
}

// ownedTrips returns a trip mock whose GetTrip serves the given trips.
func ownedTrips(trips ...domain.Trip) *mockTripServicer {
	return &mockTripServicer{
		getTrip: func(_ context.Context, id string) (domain.Trip, error) {
			for _, t := range trips {
				if t.ID == id {
					return t, nil
				}
			}
			return domain.Trip{}, domain.ErrNotFound
		},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func newServer(trips handler.TripServicer, identity handler.IdentityServicer) *handler.Server {
	return handler.NewServer(trips, identity, catalog.MustLoad(), nil, nil)
}

func rateLimitedOptions(burst int) handler.RouterOptions {
	return handler.RouterOptions{AuthRatePerMinute: 1, AuthRateBurst: burst}
}

func bodyLimitOptions(limit int64) handler.RouterOptions {
	return handler.RouterOptions{MaxBodyBytes: limit}
}
