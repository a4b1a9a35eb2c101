package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/globetrotter/backend/internal/middleware"
)

// drainHandler reads the whole body the way a JSON decoder would and reports
// a failed read as 413.
var drainHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, err := io.ReadAll(r.Body); err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func TestMaxBodySizeHandler(t *testing.T) {
	const limit = 64

	tests := []struct {
		name          string
		size          int
		contentLength int64
		want          int
	}{
		{"within limit", 32, 32, http.StatusOK},
		{"declared length over limit", 128, 128, http.StatusRequestEntityTooLarge},
		{"streamed body over limit", 128, -1, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.NewMaxBodySizeHandler(limit)(drainHandler)

			req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(strings.Repeat("x", tc.size)))
			req.ContentLength = tc.contentLength
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestMaxBodySizeHandler_EarlyRejectUsesErrorBody(t *testing.T) {
	called := false
	h := middleware.NewMaxBodySizeHandler(10)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(strings.Repeat("x", 20)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called, "handler must not run")
	assert.JSONEq(t, `{"error":{"code":"payload_too_large","message":"request body too large"}}`, rec.Body.String())
}
