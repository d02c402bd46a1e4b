package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyHeader carries the shared secret on write requests.
const APIKeyHeader = "x-api-key"

// Fixed error messages of the write-path guards.
const (
	msgInvalidAPIKey      = "Forbidden: Invalid API Key"
	msgInvalidTokenFormat = "Unauthorized: Invalid Token Format"
)

// RequireAPIKey rejects requests whose x-api-key header is not byte-for-byte
// equal to secret with 403, before the next handler runs. An absent header is
// a mismatch.
//
// The secret is shipped to browser clients, so this is a shared-token contract
// rather than a security boundary.
func RequireAPIKey(secret string) func(http.Handler) http.Handler {
	want := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(APIKeyHeader))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				writeError(w, http.StatusForbidden, msgInvalidAPIKey)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireBearerFormat rejects requests whose Authorization header does not
// start with "Bearer " with 401. Only the format is checked; the token itself
// is never verified.
func RequireBearerFormat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeError(w, http.StatusUnauthorized, msgInvalidTokenFormat)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WriteGuards returns the write-path chain in its fixed order: API key first,
// then bearer format. A request failing both is reported as 403.
func WriteGuards(secret string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RequireAPIKey(secret),
		RequireBearerFormat,
	}
}
