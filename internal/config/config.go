package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	StateDir string `toml:"state_dir" env:"GRAVBOT_STATE_DIR"`
	LogDir   string `toml:"log_dir" env:"GRAVBOT_LOG_DIR"`
}

// Parse contains configuration for the remote replay parse endpoint.
type Parse struct {
	Endpoint       string `toml:"endpoint" env:"GRAVBOT_PARSE_ENDPOINT"`
	Origin         string `toml:"origin" env:"GRAVBOT_ORIGIN"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"GRAVBOT_PARSE_TIMEOUT"`
}

// Records contains configuration for the remote WR dataset and its local cache.
type Records struct {
	Endpoint               string `toml:"endpoint" env:"GRAVBOT_RECORDS_ENDPOINT"`
	TimeoutSeconds         int    `toml:"timeout_seconds" env:"GRAVBOT_RECORDS_TIMEOUT"`
	CacheTTLSeconds        int    `toml:"cache_ttl_seconds" env:"GRAVBOT_CACHE_TTL"`
	OnRefreshFailure       string `toml:"on_refresh_failure" env:"GRAVBOT_ON_REFRESH_FAILURE"` // "clear" or "serve_stale"
	RefreshIntervalSeconds int    `toml:"refresh_interval_seconds"`                            // daemon only; defaults to the TTL
}

// Fallback contains configuration for the local append-only replay store.
type Fallback struct {
	Path string `toml:"path" env:"GRAVBOT_FALLBACK_PATH"`
}

// Submit contains configuration for batch submissions.
type Submit struct {
	Concurrency int `toml:"concurrency"`
}

// API contains configuration for the daemon HTTP API.
type API struct {
	Bind  string `toml:"bind" env:"GRAVBOT_API_BIND"`
	Token string `toml:"token" env:"GRAVBOT_API_TOKEN"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"GRAVBOT_LOG_FORMAT"`
	Level  string `toml:"level" env:"GRAVBOT_LOG_LEVEL"`
}

// Metrics contains configuration for the Prometheus endpoint.
type Metrics struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for gravbot.
//
// Configuration sections by subsystem:
//   - Paths: state (lock files) and log directories
//   - Parse: replay parse endpoint, origin identifier, submit timeout
//   - Records: WR dataset endpoint, refresh timeout, cache TTL and failure policy
//   - Fallback: local append-only replay store
//   - Submit: batch submission concurrency
//   - API: daemon bind address and optional bearer token
//   - Logging: log format and level
//   - Metrics: Prometheus exposition on the daemon API
type Config struct {
	Paths    Paths    `toml:"paths"`
	Parse    Parse    `toml:"parse"`
	Records  Records  `toml:"records"`
	Fallback Fallback `toml:"fallback"`
	Submit   Submit   `toml:"submit"`
	API      API      `toml:"api"`
	Logging  Logging  `toml:"logging"`
	Metrics  Metrics  `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gravbot/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// overrides are applied after the file is decoded. The returned config has
// all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gravbot.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories plus the parent of
// the fallback store.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir, c.Paths.LogDir}
	if strings.TrimSpace(c.Fallback.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.Fallback.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SubmitTimeout returns the bound applied to a single parse submission.
func (c *Config) SubmitTimeout() time.Duration {
	return time.Duration(c.Parse.TimeoutSeconds) * time.Second
}

// RefreshTimeout returns the bound applied to a single WR dataset fetch.
func (c *Config) RefreshTimeout() time.Duration {
	return time.Duration(c.Records.TimeoutSeconds) * time.Second
}

// CacheTTL returns the maximum age at which a WR snapshot is served without refetching.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Records.CacheTTLSeconds) * time.Second
}

// RefreshInterval returns how often the daemon refreshes the WR cache.
func (c *Config) RefreshInterval() time.Duration {
	if c.Records.RefreshIntervalSeconds <= 0 {
		return c.CacheTTL()
	}
	return time.Duration(c.Records.RefreshIntervalSeconds) * time.Second
}

// ServeStaleOnFailure reports whether a failed refresh keeps the previous snapshot.
func (c *Config) ServeStaleOnFailure() bool {
	return c.Records.OnRefreshFailure == RefreshFailureServeStale
}

// LockPath returns the daemon single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "gravbot.lock")
}

// LogPath returns the daemon log file.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "gravbot.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
