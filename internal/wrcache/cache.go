package wrcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gravbot/internal/logging"
	"gravbot/internal/metrics"
	"gravbot/internal/records"
	"gravbot/internal/services"
)

// DefaultTTL is how long a snapshot is served before it is refetched.
const DefaultTTL = 3 * time.Hour

// FailurePolicy decides what a failed refresh does to the held snapshot.
type FailurePolicy int

const (
	// ClearCache drops the held snapshot so lookups report the cache as
	// unavailable until a fetch succeeds.
	ClearCache FailurePolicy = iota
	// ServeStale keeps serving the previous snapshot when one exists.
	ServeStale
)

func (p FailurePolicy) String() string {
	if p == ServeStale {
		return "serve_stale"
	}
	return "clear"
}

// ParseFailurePolicy maps a configuration value to a policy.
func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "clear", "clear_cache":
		return ClearCache, nil
	case "serve_stale", "stale":
		return ServeStale, nil
	default:
		return ClearCache, fmt.Errorf("%w: unknown refresh failure policy %q", services.ErrConfiguration, value)
	}
}

// State describes the cache relative to its TTL.
type State int

const (
	StateEmpty State = iota
	StateFresh
	StateStale
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	default:
		return "empty"
	}
}

// Cache holds the most recent WR snapshot.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	clock   Clock
	policy  FailurePolicy
	logger  *slog.Logger
	metrics *metrics.Metrics

	refreshMu sync.Mutex
	current   atomic.Pointer[records.Snapshot]
}

// Option customises a Cache.
type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithFailurePolicy(policy FailurePolicy) Option {
	return func(c *Cache) {
		c.policy = policy
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logging.NewComponentLogger(logger, "wrcache")
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// New builds an empty cache backed by fetcher.
func New(fetcher Fetcher, opts ...Option) (*Cache, error) {
	if fetcher == nil {
		return nil, errors.New("wrcache: fetcher is required")
	}
	c := &Cache{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		clock:   RealClock{},
		policy:  ClearCache,
		logger:  logging.NewComponentLogger(nil, "wrcache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Policy returns the configured failure policy.
func (c *Cache) Policy() FailurePolicy {
	return c.policy
}

// Snapshot returns the held snapshot without refreshing. It is nil when the
// cache is empty.
func (c *Cache) Snapshot() *records.Snapshot {
	return c.current.Load()
}

// Now returns the cache clock's current time.
func (c *Cache) Now() time.Time {
	return c.clock.Now()
}

// Inspect returns the held snapshot together with its state and the clock
// time the state was computed at, all from one observation.
func (c *Cache) Inspect() (State, *records.Snapshot, time.Time) {
	snapshot := c.current.Load()
	now := c.clock.Now()
	return c.stateAt(snapshot, now), snapshot, now
}

// State reports the cache state at the current clock time.
func (c *Cache) State() State {
	return c.stateAt(c.current.Load(), c.clock.Now())
}

func (c *Cache) stateAt(snapshot *records.Snapshot, now time.Time) State {
	if snapshot == nil {
		return StateEmpty
	}
	if snapshot.Age(now) < c.ttl {
		return StateFresh
	}
	return StateStale
}

// Refresh returns a snapshot that is fresh according to the TTL, fetching
// when the cache is empty, stale or force is set. On fetch failure the
// result depends on the failure policy: ClearCache empties the cache and
// returns an error wrapping services.ErrCacheUnavailable; ServeStale returns
// the previous snapshot when there is one. A fetch cut short by ctx being
// cancelled or expiring is not a failed fetch: the error wraps ctx.Err() and
// the held snapshot is untouched.
func (c *Cache) Refresh(ctx context.Context, force bool) (*records.Snapshot, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	now := c.clock.Now()
	current := c.current.Load()
	if !force && c.stateAt(current, now) == StateFresh {
		return current, nil
	}

	logger := logging.WithContext(ctx, c.logger)
	entries, err := c.fetcher.Fetch(ctx)
	elapsed := c.clock.Now().Sub(now)
	if err != nil && ctx.Err() != nil {
		// The caller gave up; the held snapshot is left for other readers.
		logger.Info("wr cache refresh abandoned",
			logging.String(logging.FieldEventType, "wr_cache_refresh_abandoned"),
			logging.Error(err),
		)
		return nil, fmt.Errorf("wrcache: refresh abandoned: %w", ctx.Err())
	}
	if err != nil {
		c.metrics.ObserveRefresh(0, time.Time{}, elapsed, err)
		if c.policy == ServeStale && current != nil {
			logging.WarnWithContext(logger, "wr cache refresh failed; serving previous snapshot", "wr_cache_refresh_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, "transport"),
				logging.Int("records", current.Len()),
				logging.Time("fetched_at", current.FetchedAt),
				logging.String(logging.FieldImpact, "world records may be out of date"),
				logging.String(logging.FieldErrorHint, "check the records endpoint"),
			)
			return current, nil
		}
		c.current.Store(nil)
		c.metrics.ClearCache()
		logging.ErrorWithContext(logger, "wr cache refresh failed", "wr_cache_refresh_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, "cache_unavailable"),
			logging.String(logging.FieldErrorHint, "check the records endpoint"),
		)
		return nil, services.Wrap(services.ErrCacheUnavailable, "wrcache", "refresh", "fetch records", err)
	}

	if skipped := records.Malformed(entries); skipped > 0 {
		logging.WarnWithContext(logger, "wr dataset contains malformed records", "wr_records_malformed",
			logging.Int("malformed", skipped),
			logging.Int("records", len(entries)),
			logging.String(logging.FieldImpact, "malformed records are ignored for world record lookups"),
			logging.String(logging.FieldErrorHint, "inspect map_id and record_time in the records endpoint output"),
		)
	}
	snapshot := records.NewSnapshot(entries, now)
	c.current.Store(snapshot)
	c.metrics.ObserveRefresh(snapshot.Len(), now, elapsed, nil)
	logger.Info("wr cache refreshed",
		logging.String(logging.FieldEventType, "wr_cache_refreshed"),
		logging.Int("records", snapshot.Len()),
		logging.Bool("forced", force),
	)
	return snapshot, nil
}

// Best refreshes if needed and returns the best record for mapID. found is
// false when the map has no qualifying record. An error wrapping
// services.ErrCacheUnavailable means no snapshot could be obtained, which is
// distinct from the map having no record.
func (c *Cache) Best(ctx context.Context, mapID string) (records.Entry, bool, error) {
	snapshot, err := c.Refresh(ctx, false)
	if err != nil {
		c.metrics.ObserveLookup(metrics.LookupUnavailable)
		return records.Entry{}, false, err
	}
	entry, found := records.BestRecord(mapID, snapshot)
	if found {
		c.metrics.ObserveLookup(metrics.LookupHit)
	} else {
		c.metrics.ObserveLookup(metrics.LookupMiss)
	}
	return entry, found, nil
}
