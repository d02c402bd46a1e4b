package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-aggregator/internal/config"
	"github.com/pkordes/travel-aggregator/internal/domain"
	"github.com/pkordes/travel-aggregator/internal/handler"
	"github.com/pkordes/travel-aggregator/internal/logging"
	"github.com/pkordes/travel-aggregator/internal/repo"
	"github.com/pkordes/travel-aggregator/internal/service"
)

const testSecret = "my_super_secret_api_key"

func newTestRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	var logs bytes.Buffer
	logger, _ := logging.New(&logs, logging.Options{Level: "error"})

	cfg.APISecret = testSecret
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.CORSOrigins == nil {
		cfg.CORSOrigins = []string{"*"}
	}

	api := handler.NewServer(service.NewRecordService(repo.NewMemoryRecordRepo()), domain.ProviderKeys{}, logger)
	return newRouter(cfg, logger, api, prometheus.NewRegistry())
}

func save(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/save-data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", testSecret)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SaveAndList(t *testing.T) {
	h := newTestRouter(t, config.Config{})

	rec := save(h, `{"country":"Japan","capital":"Tokyo","population":1,"temperature":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"country":"Japan"`)
}

func TestRouter_BodyLimit(t *testing.T) {
	h := newTestRouter(t, config.Config{MaxBodyBytes: 32})

	rec := save(h, `{"country":"Japan","capital":"Tokyo","population":1,"temperature":2}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"error":"Request body too large"}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(t, config.Config{})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/records", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/records",status="200"} 1`)
}

func TestRouter_PreflightNeedsNoCredentials(t *testing.T) {
	h := newTestRouter(t, config.Config{})

	req := httptest.NewRequest(http.MethodOptions, "/api/save-data", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "x-api-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_StaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Travel</h1>"), 0o600))
	h := newTestRouter(t, config.Config{StaticDir: dir})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Travel")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_NoStaticDir(t *testing.T) {
	h := newTestRouter(t, config.Config{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
