package replays

import (
	"errors"
	"log/slog"

	"gravbot/internal/config"
	"gravbot/internal/metrics"
	"gravbot/internal/replaylog"
	"gravbot/internal/services/parse"
)

// NewConfigured wires a Recorder to the configured parse client and
// fallback store.
func NewConfigured(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, opts ...Option) (*Recorder, *replaylog.Store, error) {
	if cfg == nil {
		return nil, nil, errors.New("replays: configuration is required")
	}
	client, err := parse.NewConfigured(cfg, logger, m)
	if err != nil {
		return nil, nil, err
	}
	store, err := replaylog.OpenConfigured(cfg, logger, m)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]Option{WithLogger(logger)}, opts...)
	recorder, err := NewRecorder(client, store, opts...)
	if err != nil {
		return nil, nil, err
	}
	return recorder, store, nil
}
