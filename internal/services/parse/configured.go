package parse

import (
	"errors"
	"log/slog"

	"gravbot/internal/config"
	"gravbot/internal/metrics"
)

// NewConfigured builds a Client from the [parse] section.
func NewConfigured(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("parse: configuration is required")
	}
	return New(Config{
		Endpoint: cfg.Parse.Endpoint,
		Origin:   cfg.Parse.Origin,
		Timeout:  cfg.SubmitTimeout(),
		Logger:   logger,
		Metrics:  m,
	})
}
