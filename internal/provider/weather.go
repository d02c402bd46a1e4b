package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// DefaultWeatherURL is the OpenWeatherMap current-weather endpoint.
const DefaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

var (
	// ErrWeatherKeyMissing means the gateway handed out no OpenWeatherMap key.
	ErrWeatherKeyMissing = domain.ErrWeatherKeyMissing
	// ErrWeatherUnavailable is returned when the weather lookup does not succeed.
	ErrWeatherUnavailable = fmt.Errorf("%w: weather data unavailable", domain.ErrUpstreamUnavailable)
)

// WeatherClient reads current conditions from OpenWeatherMap.
type WeatherClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewWeatherClient returns a client for baseURL (DefaultWeatherURL when empty).
func NewWeatherClient(httpClient *http.Client, baseURL, apiKey string) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultWeatherURL
	}
	return &WeatherClient{http: orDefault(httpClient), baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Current returns the metric conditions at lat, lon.
func (c *WeatherClient) Current(ctx context.Context, lat, lon float64) (domain.Weather, error) {
	if c.apiKey == "" {
		return domain.Weather{}, ErrWeatherKeyMissing
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("units", "metric")
	values.Set("appid", c.apiKey)

	var payload struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := getJSON(ctx, c.http, c.baseURL+"?"+values.Encode(), nil, &payload); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return domain.Weather{}, fmt.Errorf("provider.WeatherClient.Current: %w (status %d)", ErrWeatherUnavailable, se.status)
		}
		return domain.Weather{}, fmt.Errorf("provider.WeatherClient.Current: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	w := domain.Weather{Temperature: payload.Main.Temp}
	if len(payload.Weather) > 0 {
		w.Description = payload.Weather[0].Description
	}
	return w, nil
}
