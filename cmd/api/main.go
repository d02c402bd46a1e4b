// Package main is the entry point for the travel aggregator gateway.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pkordes/travel-aggregator/internal/config"
	"github.com/pkordes/travel-aggregator/internal/db"
	"github.com/pkordes/travel-aggregator/internal/handler"
	"github.com/pkordes/travel-aggregator/internal/logging"
	"github.com/pkordes/travel-aggregator/internal/repo"
	"github.com/pkordes/travel-aggregator/internal/service"
	"github.com/pkordes/travel-aggregator/internal/tracing"
)

const serviceName = "travel-gateway"

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger, logFile := logging.New(os.Stdout, logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logFile.Close()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// --- Tracing ----------------------------------------------------------
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{ServiceName: serviceName, Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("tracer shutdown", "error", err)
		}
	}()

	// --- Store ------------------------------------------------------------
	records, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Router -----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api := handler.NewServer(service.NewRecordService(records), cfg.ProviderKeys(), logger)
	router := newRouter(cfg, logger, api, reg)

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}
	slog.Info("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// openStore connects the configured record store. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config) (repo.RecordRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("database connection established")
		return repo.NewRecordRepo(pool), pool.Close, nil

	case config.StoreMemory:
		slog.Warn("using in-memory store; records are lost on restart")
		return repo.NewMemoryRecordRepo(), func() {}, nil

	default:
		client, err := db.NewMongoClient(ctx, db.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		if err != nil {
			return nil, nil, err
		}
		r := repo.NewMongoRecordRepo(client.Database(cfg.MongoDatabase))
		if err := r.EnsureIndexes(ctx); err != nil {
			_ = db.DisconnectMongo(context.Background(), client)
			return nil, nil, err
		}
		closeFn := func() {
			if err := db.DisconnectMongo(context.Background(), client); err != nil {
				slog.Warn("mongodb disconnect", "error", err)
			}
		}
		return r, closeFn, nil
	}
}
