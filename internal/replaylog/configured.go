package replaylog

import (
	"errors"
	"log/slog"

	"gravbot/internal/config"
	"gravbot/internal/metrics"
)

// OpenConfigured opens the store named by fallback.path.
func OpenConfigured(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("replaylog: configuration is required")
	}
	return Open(cfg.Fallback.Path, WithLogger(logger), WithMetrics(m))
}
