// Package handler implements the HTTP handlers for the travel aggregator gateway.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, records.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// RecordServicer defines the business operations the record handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching a store or the service layer.
type RecordServicer interface {
	Create(ctx context.Context, in domain.NewTravelRecord) (domain.TravelRecord, error)
	List(ctx context.Context) ([]domain.TravelRecord, error)
}

// Server serves the gateway API.
type Server struct {
	records RecordServicer
	keys    domain.ProviderKeys
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(records RecordServicer, keys domain.ProviderKeys, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{records: records, keys: keys, log: log}
}

// Routes returns the API router. writeGuards run, in order, in front of
// POST /api/save-data only; the read endpoints are public.
func (s *Server) Routes(writeGuards ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.GetConfig)
		r.Get("/records", s.ListRecords)
		r.Get("/records/export", s.ExportRecords)
		r.With(writeGuards...).Post("/save-data", s.SaveRecord)
	})
	return r
}
