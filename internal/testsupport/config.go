package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"gravbot/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options. The API is
// disabled unless WithAPIBind is given.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Fallback.Path = filepath.Join(base, "state", "replay_uuids.txt")
	cfgVal.Parse.Endpoint = "http://127.0.0.1:1/parse"
	cfgVal.Records.Endpoint = "http://127.0.0.1:1/records"
	cfgVal.Parse.TimeoutSeconds = 5
	cfgVal.Records.TimeoutSeconds = 5
	cfgVal.API.Bind = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithParseEndpoint points submissions at a test server.
func WithParseEndpoint(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Parse.Endpoint = url
	}
}

// WithRecordsEndpoint points the WR cache at a test server.
func WithRecordsEndpoint(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Records.Endpoint = url
	}
}

// WithAPIBind enables the daemon API on the given address.
func WithAPIBind(bind string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.Bind = bind
	}
}

// WithRefreshFailure sets the WR cache failure policy.
func WithRefreshFailure(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Records.OnRefreshFailure = policy
	}
}

// WriteConfig encodes cfg as TOML at path, creating parent directories.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config %s: %v", path, err)
	}
}
