package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

func TestSearchCities(t *testing.T) {
	h := newHTTPHandler(&mockTripServicer{}, signedOut())

	rec := do(t, h, http.MethodGet, "/catalog/cities?continent=Africa", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON[struct{ Data []domain.City }](t, rec)
	require.Len(t, body.Data, 2)
	for _, c := range body.Data {
		assert.Equal(t, "Africa", c.Continent)
	}
}

func TestSearchCities_noMatchIsEmptyArray(t *testing.T) {
	h := newHTTPHandler(&mockTripServicer{}, signedOut())

	rec := do(t, h, http.MethodGet, "/catalog/cities?q=zzz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestGetCity(t *testing.T) {
	h := newHTTPHandler(&mockTripServicer{}, signedOut())

	rec := do(t, h, http.MethodGet, "/catalog/cities/tokyo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tokyo", decodeJSON[domain.City](t, rec).Name)

	rec = do(t, h, http.MethodGet, "/catalog/cities/atlantis", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "city not found", decodeError(t, rec).Error.Message)
}

func TestListCityActivities(t *testing.T) {
	h := newHTTPHandler(&mockTripServicer{}, signedOut())

	rec := do(t, h, http.MethodGet, "/catalog/cities/rome/activities", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeJSON[struct{ Data []domain.Activity }](t, rec).Data, 3)

	rec = do(t, h, http.MethodGet, "/catalog/cities/atlantis/activities", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetActivity(t *testing.T) {
	h := newHTTPHandler(&mockTripServicer{}, signedOut())

	rec := do(t, h, http.MethodGet, "/catalog/activities/colosseum", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rome", decodeJSON[domain.Activity](t, rec).CityID)
}

func TestListContinents(t *testing.T) {
	h := newHTTPHandler(&mockTripServicer{}, signedOut())

	rec := do(t, h, http.MethodGet, "/catalog/continents", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":["Europe","Asia","North America","Oceania","Africa"]}`, rec.Body.String())
}
