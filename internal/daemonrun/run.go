package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"gravbot/internal/config"
	"gravbot/internal/daemon"
	"gravbot/internal/logging"
	"gravbot/internal/metrics"
	"gravbot/internal/replays"
	"gravbot/internal/wrcache"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the gravbot daemon and blocks until ctx is cancelled or the
// process receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := newDaemonLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(cfg.Paths.StateDir, "gravbot.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("")
	}

	recorder, store, err := replays.NewConfigured(cfg, logger, m)
	if err != nil {
		return fmt.Errorf("build recorder: %w", err)
	}
	cache, err := wrcache.NewConfigured(cfg, logger, m)
	if err != nil {
		return fmt.Errorf("build wr cache: %w", err)
	}
	logConfigSnapshot(logger, cfg)

	d, err := daemon.New(cfg, daemon.Deps{
		Recorder:     recorder,
		Cache:        cache,
		Metrics:      m,
		FallbackPath: store.Path(),
	}, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		return err
	}
	defer d.Stop()

	<-signalCtx.Done()
	logger.Info("gravbot daemon shutting down")
	return nil
}

func newDaemonLogger(cfg *config.Config, opts Options) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	outputs := []string{"stderr"}
	if logPath := cfg.LogPath(); logPath != "" {
		outputs = append(outputs, logPath)
	}
	return logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	})
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.String("parse_endpoint", cfg.Parse.Endpoint),
		logging.String("records_endpoint", cfg.Records.Endpoint),
		logging.String(logging.FieldOrigin, cfg.Parse.Origin),
		logging.Duration("cache_ttl", cfg.CacheTTL()),
		logging.String("on_refresh_failure", cfg.Records.OnRefreshFailure),
		logging.String("fallback_path", cfg.Fallback.Path),
		logging.String("api_bind", cfg.API.Bind),
		logging.Bool("api_token_present", cfg.API.Token != ""),
		logging.Bool("metrics_enabled", cfg.Metrics.Enabled),
	)
}
