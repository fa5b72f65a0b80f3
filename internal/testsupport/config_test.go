package testsupport

import (
	"path/filepath"
	"strings"
	"testing"

	"gravbot/internal/config"
)

func TestNewConfigUsesTempDirs(t *testing.T) {
	cfg := NewConfig(t, WithParseEndpoint("http://example.test/parse"), WithRefreshFailure(config.RefreshFailureServeStale))
	if !strings.HasPrefix(cfg.Fallback.Path, filepath.Dir(cfg.Paths.StateDir)) {
		t.Fatalf("fallback path %q not under temp dir", cfg.Fallback.Path)
	}
	if cfg.Parse.Endpoint != "http://example.test/parse" {
		t.Fatalf("unexpected parse endpoint %q", cfg.Parse.Endpoint)
	}
	if cfg.API.Bind != "" {
		t.Fatalf("expected api disabled, got %q", cfg.API.Bind)
	}
}

func TestWriteConfigRoundTrips(t *testing.T) {
	cfg := NewConfig(t, WithRecordsEndpoint("http://example.test/records"), WithAPIBind("127.0.0.1:0"))
	path := filepath.Join(t.TempDir(), "gravbot.toml")
	WriteConfig(t, path, cfg)

	loaded, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	if loaded.Records.Endpoint != "http://example.test/records" || loaded.API.Bind != "127.0.0.1:0" {
		t.Fatalf("unexpected loaded config %+v", loaded)
	}
	if loaded.Fallback.Path != cfg.Fallback.Path {
		t.Fatalf("fallback path %q, want %q", loaded.Fallback.Path, cfg.Fallback.Path)
	}
}
