package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dralexander0805/avg/internal/middleware"
)

const boardOrigin = "http://localhost:5173"

// corsRequest runs one request through the CORS middleware and returns the
// recorder. method/origin/headers model what the roster board's browser
// client actually sends.
func corsRequest(t *testing.T, method, origin string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	h := middleware.NewCORSHandler([]string{boardOrigin})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(method, "/api/flights", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORSHandler_AllowedOrigin(t *testing.T) {
	rec := corsRequest(t, http.MethodGet, boardOrigin, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, boardOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
}

// The board sends every authenticated request with a bearer session, so the
// preflight must allow both the Authorization header and the non-simple
// methods (PUT for profile edits, DELETE for flight removal).
func TestCORSHandler_PreflightAllowsSessionHeader(t *testing.T) {
	rec := corsRequest(t, http.MethodOptions, boardOrigin, map[string]string{
		"Access-Control-Request-Method": "DELETE",
		// The Fetch spec lowercases Access-Control-Request-Headers values and
		// rs/cors compares against its lowercased allow list, so match that.
		"Access-Control-Request-Headers": "authorization, content-type",
	})

	// rs/cors answers preflights itself with 204.
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, boardOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

// A disallowed origin gets no Access-Control-Allow-Origin header; the browser
// blocks the response even though the server itself still answers 200.
func TestCORSHandler_DisallowedOrigin(t *testing.T) {
	rec := corsRequest(t, http.MethodGet, "http://evil.example.com", nil)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
