package replaylog

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"gravbot/internal/logging"
	"gravbot/internal/metrics"
)

// Store appends identifiers to a text file. Appends are serialised within
// the process by a mutex and across processes by an exclusive lock on
// "<path>.lock".
type Store struct {
	path    string
	mu      sync.Mutex
	lock    *flock.Flock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger used for append failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.NewComponentLogger(logger, "replaylog")
	}
}

// WithMetrics counts appends.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// Open prepares a store at path. The file itself is created on first append.
func Open(path string, opts ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("replaylog: path is required")
	}
	s := &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(nil, "replaylog"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Append writes "\n" followed by the trimmed identifier. No validation or
// deduplication is performed.
func (s *Store) Append(uuid string) error {
	err := s.append(strings.TrimSpace(uuid))
	s.metrics.ObserveAppend(err)
	if err != nil {
		logging.ErrorWithContext(s.logger, "fallback append failed", "replay_log_failed",
			logging.String(logging.FieldReplayUUID, strings.TrimSpace(uuid)),
			logging.String("path", s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the fallback directory exists and is writable"),
		)
	}
	return err
}

func (s *Store) append(uuid string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create fallback directory: %w", err)
		}
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock fallback store: %w", err)
	}
	defer func() {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("unlock fallback store: %w", unlockErr)
		}
	}()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open fallback store: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close fallback store: %w", closeErr)
		}
	}()

	if _, err := file.WriteString("\n" + uuid); err != nil {
		return fmt.Errorf("write fallback store: %w", err)
	}
	return nil
}

// Entries returns the stored identifiers in file order, skipping blank
// lines. A missing file yields no entries.
func (s *Store) Entries() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open fallback store: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read fallback store: %w", err)
	}
	return entries, nil
}
