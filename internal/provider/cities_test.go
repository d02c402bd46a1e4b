package provider_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-aggregator/internal/provider"
)

func TestCityClient_Lookup(t *testing.T) {
	var req *http.Request
	srv := serveJSON(t, http.StatusOK,
		`{"data":[{"id":3350606,"name":"Tokyo","region":"Tokyo","population":13960000}],"metadata":{"totalCount":9}}`, &req)

	got, err := provider.NewCityClient(srv.Client(), srv.URL, "geo-key").Lookup(context.Background(), "Tokyo")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":         float64(3350606),
		"name":       "Tokyo",
		"region":     "Tokyo",
		"population": float64(13960000),
	}, got)

	assert.Equal(t, "/v1/geo/cities", req.URL.Path)
	assert.Equal(t, "Tokyo", req.URL.Query().Get("namePrefix"))
	assert.Equal(t, "1", req.URL.Query().Get("limit"))
	assert.Equal(t, "geo-key", req.Header.Get("X-RapidAPI-Key"))
	assert.Equal(t, "wft-geo-db.p.rapidapi.com", req.Header.Get("X-RapidAPI-Host"))
}

func TestCityClient_Lookup_NoMatch(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"data":[]}`, nil)

	got, err := provider.NewCityClient(srv.Client(), srv.URL, "geo-key").Lookup(context.Background(), "Zzz")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCityClient_Lookup_DisabledWithoutKey(t *testing.T) {
	var req *http.Request
	srv := serveJSON(t, http.StatusOK, `{"data":[{"name":"Tokyo"}]}`, &req)
	c := provider.NewCityClient(srv.Client(), srv.URL, "")

	got, err := c.Lookup(context.Background(), "Tokyo")

	require.NoError(t, err)
	assert.False(t, c.Enabled())
	assert.Nil(t, got)
	assert.Nil(t, req)
}

func TestCityClient_Lookup_UpstreamError(t *testing.T) {
	srv := serveJSON(t, http.StatusTooManyRequests, `{"message":"rate limited"}`, nil)

	_, err := provider.NewCityClient(srv.Client(), srv.URL, "geo-key").Lookup(context.Background(), "Tokyo")

	assert.ErrorContains(t, err, "429")
}
