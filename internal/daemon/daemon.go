package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"gravbot/internal/api"
	"gravbot/internal/config"
	"gravbot/internal/logging"
	"gravbot/internal/metrics"
	"gravbot/internal/replays"
	"gravbot/internal/wrcache"
)

// Deps are the components a Daemon coordinates.
type Deps struct {
	Recorder     *replays.Recorder
	Cache        *wrcache.Cache
	Metrics      *metrics.Metrics
	FallbackPath string
}

// Daemon keeps the WR cache warm and serves the HTTP API. It enforces
// single-instance execution through a lock file.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder *replays.Recorder
	cache    *wrcache.Cache
	metrics  *metrics.Metrics
	fallback string

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || deps.Recorder == nil || deps.Cache == nil {
		return nil, errors.New("daemon requires config, recorder, and wr cache")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		recorder: deps.Recorder,
		cache:    deps.Cache,
		metrics:  deps.Metrics,
		fallback: deps.FallbackPath,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = srv
	return d, nil
}

// Start acquires the daemon lock, primes the WR cache, and launches the
// refresh loop and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another gravbot daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}
	d.cancel = cancel

	d.refresh(runCtx, true)
	interval := d.cfg.RefreshInterval()
	if interval <= 0 {
		interval = wrcache.DefaultTTL
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.refreshLoop(runCtx, interval)
	}()

	d.running.Store(true)
	d.logger.Info("gravbot daemon started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("lock", d.lockPath),
		logging.Duration("refresh_interval", interval),
		logging.String("policy", d.cache.Policy().String()),
	)
	return nil
}

// Stop stops background work and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_unlock_failed",
			logging.Error(err),
			logging.String("lock", d.lockPath),
			logging.String(logging.FieldImpact, "the next daemon start may need the lock file removed"),
		)
	}
	d.running.Store(false)
	d.logger.Info("gravbot daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
}

// Running reports whether Start succeeded and Stop has not been called.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Addr returns the API listener address, or "" when the API is disabled or
// not started.
func (d *Daemon) Addr() string {
	return d.api.addr()
}

// Status returns daemon runtime information.
func (d *Daemon) Status() api.DaemonStatus {
	state, snapshot, now := d.cache.Inspect()
	cache := api.FromCache(state.String(), d.cache.Policy().String(), d.cache.TTL(), snapshot, now)
	return api.NewDaemonStatus(d.running.Load(), d.lockPath, d.fallback, cache)
}

func (d *Daemon) refreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.refresh(ctx, false)
		}
	}
}

// refresh errors are already logged by the cache.
func (d *Daemon) refresh(ctx context.Context, force bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, d.cfg.RefreshTimeout()+time.Second)
	defer cancel()
	_, _ = d.cache.Refresh(fetchCtx, force)
}
