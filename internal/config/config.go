// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// Supported values for STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all configuration values for the gateway server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "3000".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFile, when set, receives a copy of every log line with size-based rotation.
	LogFile string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["*"]. Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// APISecret is the shared secret every write must present in x-api-key. Required.
	APISecret string

	// OpenWeatherAPIKey and GeoDBAPIKey are handed to clients by GET /api/config.
	OpenWeatherAPIKey string
	GeoDBAPIKey       string

	// StoreDriver selects the record store: mongo (default), postgres or memory.
	StoreDriver string

	// MongoURI and MongoDatabase locate the document store. MongoURI is
	// required when StoreDriver is mongo.
	MongoURI      string
	MongoDatabase string

	// DatabaseURL is the Postgres connection string. Required when StoreDriver is postgres.
	DatabaseURL string

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64

	// StaticDir, when set, is served at / for the browser UI.
	StaticDir string

	// OTLPEndpoint enables trace export when non-empty.
	OTLPEndpoint string
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is applied first when present; variables
// already set in the environment take precedence over it.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}

	cfg := Config{
		Port:              getEnv("PORT", "3000"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           os.Getenv("LOG_FILE"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "*")),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		GeoDBAPIKey:       os.Getenv("GEODB_API_KEY"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoDatabase:     getEnv("MONGODB_DATABASE", "travel"),
		StaticDir:         os.Getenv("STATIC_DIR"),
		OTLPEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be a positive integer")
	}
	cfg.MaxBodyBytes = maxBody

	var missing []string

	cfg.APISecret = os.Getenv("API_SECRET")
	if cfg.APISecret == "" {
		missing = append(missing, "API_SECRET")
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		cfg.MongoURI = os.Getenv("MONGODB_URI")
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGODB_URI")
		}
	case StorePostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case StoreMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q (want %s, %s or %s)",
			cfg.StoreDriver, StoreMongo, StorePostgres, StoreMemory)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// ProviderKeys returns the keys GET /api/config hands out.
func (c Config) ProviderKeys() domain.ProviderKeys {
	return domain.ProviderKeys{OpenWeatherAPIKey: c.OpenWeatherAPIKey, GeoDBAPIKey: c.GeoDBAPIKey}
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
