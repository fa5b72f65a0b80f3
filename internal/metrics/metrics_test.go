package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func counterValue(family *dto.MetricFamily, label, value string) float64 {
	for _, metric := range family.GetMetric() {
		for _, pair := range metric.GetLabel() {
			if pair.GetName() == label && pair.GetValue() == value {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSubmission("inserted", time.Second)
	m.ObserveAppend(nil)
	m.ObserveRefresh(3, time.Now(), time.Second, nil)
	m.ClearCache()
	m.ObserveLookup(LookupHit)
	if m.Registry() != nil {
		t.Fatal("expected nil registry")
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("expected 404 from nil handler, got %d", rec.Code)
	}
}

func TestObserveSubmissionCountsByOutcome(t *testing.T) {
	m := New("")
	m.ObserveSubmission("inserted", 10*time.Millisecond)
	m.ObserveSubmission("inserted", 20*time.Millisecond)
	m.ObserveSubmission("duplicate", 5*time.Millisecond)

	family := gather(t, m, "gravbot_replay_submissions_total")
	if got := counterValue(family, "outcome", "inserted"); got != 2 {
		t.Fatalf("inserted = %v, want 2", got)
	}
	if got := counterValue(family, "outcome", "duplicate"); got != 1 {
		t.Fatalf("duplicate = %v, want 1", got)
	}
}

func TestObserveRefreshUpdatesGaugesOnSuccessOnly(t *testing.T) {
	m := New("test")
	fetched := time.Unix(1_700_000_000, 0)
	m.ObserveRefresh(42, fetched, time.Second, nil)
	m.ObserveRefresh(0, time.Time{}, time.Second, errors.New("boom"))

	records := gather(t, m, "test_wr_cache_records")
	if got := records.GetMetric()[0].GetGauge().GetValue(); got != 42 {
		t.Fatalf("records gauge = %v, want 42", got)
	}
	last := gather(t, m, "test_wr_cache_last_fetch_timestamp_seconds")
	if got := last.GetMetric()[0].GetGauge().GetValue(); got != float64(fetched.Unix()) {
		t.Fatalf("last fetch = %v", got)
	}
	refreshes := gather(t, m, "test_wr_cache_refreshes_total")
	if counterValue(refreshes, "result", "ok") != 1 || counterValue(refreshes, "result", "error") != 1 {
		t.Fatal("expected one ok and one error refresh")
	}

	m.ClearCache()
	records = gather(t, m, "test_wr_cache_records")
	if got := records.GetMetric()[0].GetGauge().GetValue(); got != 0 {
		t.Fatalf("records gauge after clear = %v", got)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	m := New("")
	m.ObserveLookup(LookupMiss)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), `gravbot_wr_lookups_total{result="miss"} 1`) {
		t.Fatalf("exposition missing lookup counter:\n%s", body)
	}
}
