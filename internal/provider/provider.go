// Package provider contains the clients for the third-party data sources the
// aggregation pipeline reads: country facts, current weather and city details.
// Every client is a thin JSON-over-HTTP adapter. No retries, caching or
// circuit breaking happen here; a failed call surfaces immediately.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient returns an http.Client whose requests are traced.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// statusError reports a non-2xx upstream answer.
type statusError struct {
	url    string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.url, e.status)
}

// getJSON issues a GET and decodes a 2xx body into out.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", req.URL.Host+req.URL.Path, errors.Unwrap(err))
	}
	defer resp.Body.Close()

	// The query may carry an API key, so errors name only host and path.
	where := req.URL.Host + req.URL.Path
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &statusError{url: where, status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", where, err)
	}
	return nil
}

func orDefault(client *http.Client) *http.Client {
	if client == nil {
		return NewHTTPClient(DefaultTimeout)
	}
	return client
}
