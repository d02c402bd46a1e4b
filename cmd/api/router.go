package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/travel-aggregator/internal/config"
	"github.com/pkordes/travel-aggregator/internal/handler"
	"github.com/pkordes/travel-aggregator/internal/middleware"
)

// newRouter assembles the middleware chain and mounts the API.
//
// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer →
// CORS → body limit → metrics. RequestID must precede the logger so each line
// carries the ID; CORS must precede the write guards so preflights are answered
// without credentials.
func newRouter(cfg config.Config, logger *slog.Logger, api *handler.Server, reg *prometheus.Registry) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewMetrics(reg).Handler)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	routes := api.Routes(middleware.WriteGuards(cfg.APISecret)...)
	if cfg.StaticDir != "" {
		// The browser UI is served from anything the API does not claim.
		routes.NotFound(http.FileServer(http.Dir(cfg.StaticDir)).ServeHTTP)
	}
	r.Mount("/", routes)
	return r
}
