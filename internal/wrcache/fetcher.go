package wrcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gravbot/internal/records"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxErrorBody        = 4096
)

// Fetcher retrieves the complete WR dataset.
type Fetcher interface {
	Fetch(ctx context.Context) ([]records.Entry, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]records.Entry, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]records.Entry, error) {
	return f(ctx)
}

// HTTPConfig describes the records endpoint.
type HTTPConfig struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPFetcher downloads the dataset as a JSON array of record objects.
type HTTPFetcher struct {
	endpoint string
	http     *http.Client
}

// NewHTTPFetcher validates cfg and builds a fetcher.
func NewHTTPFetcher(cfg HTTPConfig) (*HTTPFetcher, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("wrcache: records endpoint is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("wrcache: parse records endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("wrcache: records endpoint must be http or https, got %q", endpoint)
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultFetchTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{endpoint: endpoint, http: client}, nil
}

// Fetch issues one GET. Any non-2xx response is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]records.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build records request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("records request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("records request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []records.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return entries, nil
}
