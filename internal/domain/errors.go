package domain

import "errors"

// ErrValidation is returned by service functions when a write payload is
// missing a required field. Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrForbidden means the shared-secret header was absent or wrong (HTTP 403).
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized means the Authorization header is not a Bearer credential (HTTP 401).
var ErrUnauthorized = errors.New("unauthorized")

// ErrUpstreamUnavailable is returned by the aggregation client when a data
// provider fails or answers with a non-success status. It is never persisted.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrWeatherKeyMissing means the gateway handed out no OpenWeatherMap key.
var ErrWeatherKeyMissing = errors.New("weather API key not configured on server")
