// Package domain contains the core data types for the travel aggregator.
// This package has no external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler, aggregator).
package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TravelRecord is the persisted summary of one country search.
// Records are append-only: once stored they are never updated or deleted.
type TravelRecord struct {
	ID                 uuid.UUID `json:"id"`
	Country            string    `json:"country"`
	Capital            string    `json:"capital"`
	Population         *float64  `json:"population"` // nil when the client sent null
	Temperature        *float64  `json:"temperature"`
	WeatherDescription string    `json:"weatherDescription,omitempty"`
	// CapitalDetails is the opaque JSON value from the city-detail provider,
	// kept verbatim. nil means the client never sent the key; an explicit
	// null is kept as the literal "null".
	CapitalDetails json.RawMessage `json:"capitalDetails,omitempty"`
	StoredAt       time.Time       `json:"storedAt"`
}

// NewTravelRecord is the client-supplied payload for a write.
// Population and Temperature only fail validation when the key is absent:
// both 0 and an explicit null are accepted. The validate tags are read by
// the service layer.
type NewTravelRecord struct {
	Country            string          `json:"country" validate:"required"`
	Capital            string          `json:"capital" validate:"required"`
	Population         OptionalFloat   `json:"population,omitzero" validate:"required"`
	Temperature        OptionalFloat   `json:"temperature,omitzero" validate:"required"`
	WeatherDescription string          `json:"weatherDescription,omitempty"`
	CapitalDetails     json.RawMessage `json:"capitalDetails,omitempty"`
}

// OptionalFloat is a JSON number that remembers whether its key was present.
// The zero value is an absent key; Set with a nil Value is an explicit null.
type OptionalFloat struct {
	Value *float64
	Set   bool
}

// Float returns a present, non-null OptionalFloat.
func Float(v float64) OptionalFloat {
	return OptionalFloat{Value: &v, Set: true}
}

// Null returns a present OptionalFloat holding null.
func Null() OptionalFloat {
	return OptionalFloat{Set: true}
}

// IsZero reports an absent key, so omitzero drops it on encode.
func (f OptionalFloat) IsZero() bool { return !f.Set }

func (f OptionalFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// UnmarshalJSON is only called when the key is present, null included.
func (f *OptionalFloat) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// ProviderKeys are the third-party API keys handed out by GET /api/config.
// An empty key is serialised as absent, the same as an unset variable.
type ProviderKeys struct {
	OpenWeatherAPIKey string `json:"openWeatherApiKey,omitempty"`
	GeoDBAPIKey       string `json:"geoDbApiKey,omitempty"`
}
