package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultCitiesURL is the GeoDB Cities API root on RapidAPI.
const DefaultCitiesURL = "https://wft-geo-db.p.rapidapi.com"

const geoDBHost = "wft-geo-db.p.rapidapi.com"

// CityClient fetches city details from GeoDB Cities.
type CityClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewCityClient returns a client for baseURL (DefaultCitiesURL when empty).
func NewCityClient(httpClient *http.Client, baseURL, apiKey string) *CityClient {
	if baseURL == "" {
		baseURL = DefaultCitiesURL
	}
	return &CityClient{http: orDefault(httpClient), baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Enabled reports whether a key is configured. Lookups without one are skipped.
func (c *CityClient) Enabled() bool { return c.apiKey != "" }

// Lookup returns the first city whose name starts with namePrefix, as the
// provider's decoded JSON object, or nil when nothing matches. The shape is
// not interpreted; it is stored verbatim as a record's capital details.
func (c *CityClient) Lookup(ctx context.Context, namePrefix string) (any, error) {
	if !c.Enabled() {
		return nil, nil
	}

	values := url.Values{}
	values.Set("namePrefix", namePrefix)
	values.Set("limit", "1")

	header := http.Header{}
	header.Set("X-RapidAPI-Key", c.apiKey)
	header.Set("X-RapidAPI-Host", geoDBHost)

	var payload struct {
		Data []any `json:"data"`
	}
	if err := getJSON(ctx, c.http, c.baseURL+"/v1/geo/cities?"+values.Encode(), header, &payload); err != nil {
		return nil, fmt.Errorf("provider.CityClient.Lookup: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}
	return payload.Data[0], nil
}
