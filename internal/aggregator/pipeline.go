// Package aggregator runs one country search end to end: it gathers country
// facts and current weather from the providers, optionally enriches the
// capital with city details, and records the result on the gateway.
//
// Stages run strictly in sequence and any provider failure stops the search.
// Persisting the result is best effort: a failed save is logged and the
// summary is still returned.
package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// ErrEmptyCountry is returned by Search for a blank query.
var ErrEmptyCountry = errors.New("country name is required")

// Gateway is the subset of the gateway API a search uses.
type Gateway interface {
	Config(ctx context.Context) (domain.ProviderKeys, error)
	SaveRecord(ctx context.Context, in domain.NewTravelRecord) (domain.TravelRecord, error)
}

// CountryLookup resolves a country by name.
type CountryLookup interface {
	Lookup(ctx context.Context, name string) (domain.Country, error)
}

// WeatherLookup reads current conditions at a coordinate.
type WeatherLookup interface {
	Current(ctx context.Context, lat, lon float64) (domain.Weather, error)
}

// CityLookup returns opaque details for the first city matching a prefix.
type CityLookup interface {
	Lookup(ctx context.Context, namePrefix string) (any, error)
}

// Summary is everything one search produced.
type Summary struct {
	Country        string
	Region         string
	Capital        string
	Population     float64
	Currencies     string
	LocalTime      string // "HH:MM" at the country's first listed offset, or "N/A"
	Temperature    float64
	Description    string
	Lat            float64
	Lon            float64
	CapitalDetails any
	// Record is the stored record, or nil when the save failed.
	Record *domain.TravelRecord
}

// Pipeline wires the collaborators of a search. Provider keys are only known
// after the config stage, so the keyed clients are built per search.
type Pipeline struct {
	gateway    Gateway
	countries  CountryLookup
	newWeather func(apiKey string) WeatherLookup
	newCities  func(apiKey string) CityLookup
	log        *slog.Logger
	now        func() time.Time
}

// NewPipeline constructs a Pipeline. A nil logger falls back to slog.Default().
func NewPipeline(
	gw Gateway,
	countries CountryLookup,
	newWeather func(apiKey string) WeatherLookup,
	newCities func(apiKey string) CityLookup,
	log *slog.Logger,
) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		gateway:    gw,
		countries:  countries,
		newWeather: newWeather,
		newCities:  newCities,
		log:        log,
		now:        time.Now,
	}
}

// Search runs config, country, weather, city and save in that order. A
// missing weather key is reported right after the config stage, before any
// provider is called.
func (p *Pipeline) Search(ctx context.Context, country string) (Summary, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return Summary{}, ErrEmptyCountry
	}

	keys, err := p.gateway.Config(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregator.Pipeline.Search: config: %w", err)
	}
	if keys.OpenWeatherAPIKey == "" {
		return Summary{}, fmt.Errorf("aggregator.Pipeline.Search: %w", domain.ErrWeatherKeyMissing)
	}

	c, err := p.countries.Lookup(ctx, country)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregator.Pipeline.Search: %w", err)
	}

	w, err := p.newWeather(keys.OpenWeatherAPIKey).Current(ctx, c.Lat, c.Lon)
	if err != nil {
		return Summary{}, fmt.Errorf("aggregator.Pipeline.Search: %w", err)
	}

	localTime, err := domain.LocalTime(c.Timezone, p.now())
	if err != nil {
		p.log.WarnContext(ctx, "local time unavailable", "timezone", c.Timezone, "error", err)
		localTime = "N/A"
	}

	s := Summary{
		Country:     c.Name,
		Region:      c.Region,
		Capital:     c.Capital,
		Population:  c.Population,
		Currencies:  c.Currencies,
		LocalTime:   localTime,
		Temperature: w.Temperature,
		Description: w.Description,
		Lat:         c.Lat,
		Lon:         c.Lon,
	}

	if c.Capital != "N/A" && keys.GeoDBAPIKey != "" {
		details, err := p.newCities(keys.GeoDBAPIKey).Lookup(ctx, c.Capital)
		if err != nil {
			p.log.WarnContext(ctx, "capital details unavailable", "capital", c.Capital, "error", err)
		} else {
			s.CapitalDetails = details
		}
	}

	in := domain.NewTravelRecord{
		Country:            s.Country,
		Capital:            s.Capital,
		Population:         domain.Float(s.Population),
		Temperature:        domain.Float(s.Temperature),
		WeatherDescription: s.Description,
	}
	if s.CapitalDetails != nil {
		raw, err := json.Marshal(s.CapitalDetails)
		if err != nil {
			p.log.WarnContext(ctx, "capital details not saved", "capital", c.Capital, "error", err)
		} else {
			in.CapitalDetails = raw
		}
	}

	rec, err := p.gateway.SaveRecord(ctx, in)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to save data", "country", s.Country, "error", err)
		return s, nil
	}
	s.Record = &rec
	return s, nil
}
