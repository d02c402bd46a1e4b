package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// DefaultCountriesURL is the REST Countries API root.
const DefaultCountriesURL = "https://restcountries.com"

// ErrCountryNotFound is returned when the country lookup does not succeed.
var ErrCountryNotFound = fmt.Errorf("%w: country not found", domain.ErrUpstreamUnavailable)

// CountryClient looks countries up by name.
type CountryClient struct {
	http    *http.Client
	baseURL string
}

// NewCountryClient returns a client for baseURL (DefaultCountriesURL when
// empty). A nil httpClient gets a traced client with DefaultTimeout.
func NewCountryClient(httpClient *http.Client, baseURL string) *CountryClient {
	if baseURL == "" {
		baseURL = DefaultCountriesURL
	}
	return &CountryClient{http: orDefault(httpClient), baseURL: strings.TrimRight(baseURL, "/")}
}

type countryPayload struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Region     string    `json:"region"`
	Capital    []string  `json:"capital"`
	Population float64   `json:"population"`
	LatLng     []float64 `json:"latlng"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
	Timezones []string `json:"timezones"`
}

// Lookup returns the first country whose name matches name.
// Any non-2xx answer, or an empty result, is ErrCountryNotFound.
func (c *CountryClient) Lookup(ctx context.Context, name string) (domain.Country, error) {
	u := c.baseURL + "/v3.1/name/" + url.PathEscape(name)

	var payload []countryPayload
	if err := getJSON(ctx, c.http, u, nil, &payload); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return domain.Country{}, fmt.Errorf("provider.CountryClient.Lookup: %w (status %d)", ErrCountryNotFound, se.status)
		}
		return domain.Country{}, fmt.Errorf("provider.CountryClient.Lookup: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	if len(payload) == 0 {
		return domain.Country{}, fmt.Errorf("provider.CountryClient.Lookup: %w", ErrCountryNotFound)
	}
	return payload[0].toDomain(), nil
}

func (p countryPayload) toDomain() domain.Country {
	c := domain.Country{
		Name:       p.Name.Common,
		Region:     p.Region,
		Capital:    "N/A",
		Population: p.Population,
		Currencies: "N/A",
		Timezone:   "UTC",
	}
	if len(p.Capital) > 0 {
		c.Capital = p.Capital[0]
	}
	if len(p.LatLng) >= 2 {
		c.Lat, c.Lon = p.LatLng[0], p.LatLng[1]
	}
	if len(p.Timezones) > 0 {
		c.Timezone = p.Timezones[0]
	}
	if len(p.Currencies) > 0 {
		// Currency codes give a stable order; the provider's object order is not preserved.
		codes := make([]string, 0, len(p.Currencies))
		for code := range p.Currencies {
			codes = append(codes, code)
		}
		slices.Sort(codes)
		parts := make([]string, 0, len(codes))
		for _, code := range codes {
			cur := p.Currencies[code]
			parts = append(parts, fmt.Sprintf("%s (%s)", cur.Name, cur.Symbol))
		}
		c.Currencies = strings.Join(parts, ", ")
	}
	return c
}
