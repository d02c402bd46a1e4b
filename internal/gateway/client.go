// Package gateway is the Go client for the gateway's HTTP API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// APIError is a non-2xx gateway answer. Message is the body's "error" field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: %d %s", e.Status, e.Message)
}

// Unwrap maps the guard statuses to the domain sentinels so callers can use
// errors.Is(err, domain.ErrForbidden) and friends.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusBadRequest:
		return domain.ErrValidation
	}
	return nil
}

// Client talks to one gateway instance.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	token   string
}

// NewClient returns a client for the gateway at baseURL. apiKey is sent as
// x-api-key and token as the bearer credential on writes.
func NewClient(httpClient *http.Client, baseURL, apiKey, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		token:   token,
	}
}

// Config fetches the provider keys.
func (c *Client) Config(ctx context.Context) (domain.ProviderKeys, error) {
	var keys domain.ProviderKeys
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &keys); err != nil {
		return domain.ProviderKeys{}, fmt.Errorf("gateway.Client.Config: %w", err)
	}
	return keys, nil
}

// SaveRecord writes one record and returns it as stored.
func (c *Client) SaveRecord(ctx context.Context, in domain.NewTravelRecord) (domain.TravelRecord, error) {
	var out struct {
		Record domain.TravelRecord `json:"record"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/save-data", in, &out); err != nil {
		return domain.TravelRecord{}, fmt.Errorf("gateway.Client.SaveRecord: %w", err)
	}
	return out.Record, nil
}

// ListRecords returns every stored record, newest first.
func (c *Client) ListRecords(ctx context.Context) ([]domain.TravelRecord, error) {
	var out []domain.TravelRecord
	if err := c.do(ctx, http.MethodGet, "/api/records", nil, &out); err != nil {
		return nil, fmt.Errorf("gateway.Client.ListRecords: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
