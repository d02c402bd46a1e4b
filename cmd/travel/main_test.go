package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-aggregator/internal/aggregator"
	"github.com/pkordes/travel-aggregator/internal/domain"
	"github.com/pkordes/travel-aggregator/internal/handler"
	"github.com/pkordes/travel-aggregator/internal/middleware"
	"github.com/pkordes/travel-aggregator/internal/repo"
	"github.com/pkordes/travel-aggregator/internal/service"
)

const secret = "my_super_secret_api_key"

func stub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type env struct {
	gateway   *httptest.Server
	countries *httptest.Server
	weather   *httptest.Server
}

func newEnv(t *testing.T, countryStatus int) env {
	t.Helper()
	svc := service.NewRecordService(repo.NewMemoryRecordRepo())
	gw := httptest.NewServer(handler.NewServer(svc, domain.ProviderKeys{OpenWeatherAPIKey: "ow-key"}, nil).
		Routes(middleware.WriteGuards(secret)...))
	t.Cleanup(gw.Close)

	return env{
		gateway: gw,
		countries: stub(t, countryStatus, `[{"name":{"common":"Japan"},"region":"Asia","capital":["Tokyo"],
			"population":125836021,"latlng":[36,138],"currencies":{"JPY":{"name":"Japanese yen","symbol":"¥"}},
			"timezones":["UTC+09:00"]}]`),
		weather: stub(t, http.StatusOK, `{"main":{"temp":18.5},"weather":[{"description":"clear sky"}]}`),
	}
}

func (e env) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	base := []string{
		"-gateway", e.gateway.URL,
		"-api-key", secret,
		"-countries-url", e.countries.URL,
		"-weather-url", e.weather.URL,
	}
	code := run(context.Background(), append(base, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_SearchThenRecords(t *testing.T) {
	e := newEnv(t, http.StatusOK)

	code, out, errOut := e.run(t, "search", "japan")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Japan")
	assert.Contains(t, out, "Tokyo")
	assert.Contains(t, out, "125,836,021")
	assert.Contains(t, out, "Japanese yen (¥)")
	assert.Contains(t, out, "18.5°C")
	assert.Contains(t, out, "Clear sky")
	assert.Contains(t, out, "saved as ")

	code, out, errOut = e.run(t, "records")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Japan")
	assert.Contains(t, out, "clear sky")
}

func TestRun_SearchCountryNotFound(t *testing.T) {
	e := newEnv(t, http.StatusNotFound)

	code, out, errOut := e.run(t, "search", "atlantis")

	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "country not found")
}

func TestRun_SearchWrongSecretStillPrintsSummary(t *testing.T) {
	e := newEnv(t, http.StatusOK)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{
		"-gateway", e.gateway.URL,
		"-api-key", "wrong",
		"-countries-url", e.countries.URL,
		"-weather-url", e.weather.URL,
		"search", "japan",
	}, &stdout, &stderr)

	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "not saved")
	assert.Contains(t, stderr.String(), "failed to save data")
}

func TestRun_Usage(t *testing.T) {
	e := newEnv(t, http.StatusOK)

	code, _, errOut := e.run(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: travel")

	code, _, _ = e.run(t, "search")
	assert.Equal(t, 2, code)
}

func TestRun_RecordsEmpty(t *testing.T) {
	e := newEnv(t, http.StatusOK)

	code, out, _ := e.run(t, "records")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "no records")
}

func TestFormatCount(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		999:       "999",
		1000:      "1,000",
		125836021: "125,836,021",
		-4500:     "-4,500",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatCount(in))
	}
}

func TestRenderSummary_CapitalDetails(t *testing.T) {
	out := renderSummary(aggregator.Summary{
		Country:        "Japan",
		CapitalDetails: map[string]any{"region": "Tokyo Metropolis", "elevationMeters": 40.0},
	})

	assert.Contains(t, out, "Capital data")
	assert.Contains(t, out, "Tokyo Metropolis")
	assert.Contains(t, out, "40m")
}

func TestRenderSummary_CapitalDetailsMissingFields(t *testing.T) {
	out := renderSummary(aggregator.Summary{
		Country:        "Japan",
		CapitalDetails: map[string]any{"elevationMeters": 0.0},
	})

	assert.Contains(t, out, "Capital data")
	assert.Equal(t, 2, strings.Count(out, "N/A"), "region and elevation both fall back")
}

func TestRenderSummary_NoCapitalDetails(t *testing.T) {
	out := renderSummary(aggregator.Summary{Country: "Japan"})

	assert.NotContains(t, out, "Capital data")
}

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"clear sky":  "Clear sky",
		"éclaircies": "Éclaircies",
		"дождь":      "Дождь",
	}
	for in, want := range cases {
		got := capitalize(in)
		assert.Equal(t, want, got)
		assert.True(t, utf8.ValidString(got))
	}
}

func TestRenderRecords_NullMeasurements(t *testing.T) {
	t0 := 0.0
	out := renderRecords([]domain.TravelRecord{{Country: "Peru", Capital: "Lima", Temperature: &t0}})

	assert.Contains(t, out, "Lima, N/A  0.0°C")
}
