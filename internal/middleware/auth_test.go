package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-aggregator/internal/middleware"
)

const testSecret = "my_super_secret_api_key"

// guardedHandler wires the write guards in front of a handler that counts calls.
func guardedHandler(calls *int) http.Handler {
	r := chi.NewRouter()
	r.With(middleware.WriteGuards(testSecret)...).Post("/api/save-data",
		func(w http.ResponseWriter, _ *http.Request) {
			*calls++
			w.WriteHeader(http.StatusCreated)
		})
	return r
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestWriteGuards(t *testing.T) {
	cases := []struct {
		name       string
		apiKey     *string
		auth       *string
		wantStatus int
		wantError  string
	}{
		{"missing both", nil, nil, http.StatusForbidden, "Forbidden: Invalid API Key"},
		{"wrong key, good token", ptr("nope"), ptr("Bearer abc"), http.StatusForbidden, "Forbidden: Invalid API Key"},
		{"wrong key, bad token", ptr("nope"), ptr("Basic abc"), http.StatusForbidden, "Forbidden: Invalid API Key"},
		{"empty key", ptr(""), ptr("Bearer abc"), http.StatusForbidden, "Forbidden: Invalid API Key"},
		{"key with extra byte", ptr(testSecret + " "), ptr("Bearer abc"), http.StatusForbidden, "Forbidden: Invalid API Key"},
		{"key differs in case", ptr("MY_SUPER_SECRET_API_KEY"), ptr("Bearer abc"), http.StatusForbidden, "Forbidden: Invalid API Key"},
		{"good key, no auth", ptr(testSecret), nil, http.StatusUnauthorized, "Unauthorized: Invalid Token Format"},
		{"good key, basic auth", ptr(testSecret), ptr("Basic dXNlcjpwYXNz"), http.StatusUnauthorized, "Unauthorized: Invalid Token Format"},
		{"good key, lowercase bearer", ptr(testSecret), ptr("bearer abc"), http.StatusUnauthorized, "Unauthorized: Invalid Token Format"},
		{"good key, bearer without space", ptr(testSecret), ptr("Bearer"), http.StatusUnauthorized, "Unauthorized: Invalid Token Format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int
			req := httptest.NewRequest(http.MethodPost, "/api/save-data", nil)
			if tc.apiKey != nil {
				req.Header.Set("x-api-key", *tc.apiKey)
			}
			if tc.auth != nil {
				req.Header.Set("Authorization", *tc.auth)
			}
			rec := httptest.NewRecorder()

			guardedHandler(&calls).ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.wantError, errorBody(t, rec))
			assert.Zero(t, calls, "guarded handler must not run")
		})
	}
}

// TestWriteGuards_Pass verifies the token contents are never inspected:
// any string after "Bearer " is accepted, including an empty one.
func TestWriteGuards_Pass(t *testing.T) {
	for _, auth := range []string{"Bearer mock_oauth_token_xyz_123", "Bearer ", "Bearer not.a.jwt"} {
		var calls int
		req := httptest.NewRequest(http.MethodPost, "/api/save-data", nil)
		req.Header.Set("X-Api-Key", testSecret) // header names are case-insensitive
		req.Header.Set("Authorization", auth)
		rec := httptest.NewRecorder()

		guardedHandler(&calls).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code, "auth %q", auth)
		assert.Equal(t, 1, calls)
	}
}

// TestRequireAPIKey_EmptySecretRejectsAll guards against an unset secret
// turning the check into a no-op.
func TestRequireAPIKey_EmptySecretRejectsAll(t *testing.T) {
	h := middleware.RequireAPIKey("")(trivialHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/save-data", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func ptr(s string) *string { return &s }
