package wrcache

import (
	"errors"
	"log/slog"

	"gravbot/internal/config"
	"gravbot/internal/metrics"
)

// NewConfigured builds a Cache backed by the [records] endpoint.
func NewConfigured(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*Cache, error) {
	if cfg == nil {
		return nil, errors.New("wrcache: configuration is required")
	}
	fetcher, err := NewHTTPFetcher(HTTPConfig{
		Endpoint: cfg.Records.Endpoint,
		Timeout:  cfg.RefreshTimeout(),
	})
	if err != nil {
		return nil, err
	}
	policy, err := ParseFailurePolicy(cfg.Records.OnRefreshFailure)
	if err != nil {
		return nil, err
	}
	return New(fetcher,
		WithTTL(cfg.CacheTTL()),
		WithFailurePolicy(policy),
		WithLogger(logger),
		WithMetrics(m),
	)
}
