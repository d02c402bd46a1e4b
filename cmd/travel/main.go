// Command travel searches a country through the aggregation pipeline and
// lists the records stored on the gateway.
//
//	travel [flags] search <country>
//	travel [flags] records
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pkordes/travel-aggregator/internal/aggregator"
	"github.com/pkordes/travel-aggregator/internal/gateway"
	"github.com/pkordes/travel-aggregator/internal/logging"
	"github.com/pkordes/travel-aggregator/internal/provider"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: could not read .env:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	gatewayURL   string
	apiKey       string
	token        string
	countriesURL string
	weatherURL   string
	citiesURL    string
	logLevel     string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("travel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: travel [flags] search <country> | records")
		fs.PrintDefaults()
	}

	var o options
	fs.StringVar(&o.gatewayURL, "gateway", envOr("GATEWAY_URL", "http://localhost:3000"), "gateway base URL")
	fs.StringVar(&o.apiKey, "api-key", os.Getenv("API_SECRET"), "shared secret sent as x-api-key")
	fs.StringVar(&o.token, "token", envOr("GATEWAY_TOKEN", "mock_oauth_token_xyz_123"), "bearer token sent on writes")
	fs.StringVar(&o.countriesURL, "countries-url", provider.DefaultCountriesURL, "country API root")
	fs.StringVar(&o.weatherURL, "weather-url", provider.DefaultWeatherURL, "weather API endpoint")
	fs.StringVar(&o.citiesURL, "cities-url", provider.DefaultCitiesURL, "city API root")
	fs.StringVar(&o.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level for diagnostics on stderr")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	log, _ := logging.New(stderr, logging.Options{Level: o.logLevel})
	httpClient := provider.NewHTTPClient(provider.DefaultTimeout)
	gw := gateway.NewClient(httpClient, o.gatewayURL, o.apiKey, o.token)

	switch cmd := fs.Arg(0); cmd {
	case "search":
		country := strings.Join(fs.Args()[1:], " ")
		pipeline := aggregator.NewPipeline(
			gw,
			provider.NewCountryClient(httpClient, o.countriesURL),
			func(key string) aggregator.WeatherLookup {
				return provider.NewWeatherClient(httpClient, o.weatherURL, key)
			},
			func(key string) aggregator.CityLookup {
				return provider.NewCityClient(httpClient, o.citiesURL, key)
			},
			log,
		)
		summary, err := pipeline.Search(ctx, country)
		if err != nil {
			fmt.Fprintln(stderr, renderError(err))
			if errors.Is(err, aggregator.ErrEmptyCountry) {
				return 2
			}
			return 1
		}
		fmt.Fprintln(stdout, renderSummary(summary))
		return 0

	case "records":
		records, err := gw.ListRecords(ctx)
		if err != nil {
			fmt.Fprintln(stderr, renderError(err))
			return 1
		}
		fmt.Fprintln(stdout, renderRecords(records))
		return 0

	default:
		fs.Usage()
		return 2
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

