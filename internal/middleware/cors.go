// Package middleware provides the HTTP middleware of the gateway: request
// logging, metrics, CORS, body-size limits and the write-path guards.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing
// slash) or "*" for any origin. The allowed headers include the write-path
// credentials so browsers may send them cross-origin.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", APIKeyHeader},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
