package wrcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPFetcherDecodesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"map_id":"M1","record_time":10,"player":"a"},
			{"map_id":"M1","record_time":"5"},
			{"map_id":7,"record_time":null}
		]`))
	}))
	defer server.Close()

	fetcher, err := NewHTTPFetcher(HTTPConfig{Endpoint: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewHTTPFetcher returned error: %v", err)
	}
	entries, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].RecordTime != 5 || entries[2].MapID != "7" || entries[2].HasTime {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestHTTPFetcherRejectsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher, err := NewHTTPFetcher(HTTPConfig{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("NewHTTPFetcher returned error: %v", err)
	}
	_, err = fetcher.Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestHTTPFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	fetcher, err := NewHTTPFetcher(HTTPConfig{Endpoint: server.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewHTTPFetcher returned error: %v", err)
	}
	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHTTPFetcherRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	fetcher, err := NewHTTPFetcher(HTTPConfig{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("NewHTTPFetcher returned error: %v", err)
	}
	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewHTTPFetcherValidatesEndpoint(t *testing.T) {
	if _, err := NewHTTPFetcher(HTTPConfig{}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
	if _, err := NewHTTPFetcher(HTTPConfig{Endpoint: "file:///tmp/records.json"}); err == nil {
		t.Fatal("expected error for non-http endpoint")
	}
}
