package daemonrun

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gravbot/internal/config"
)

func TestRunStartsAndStopsOnCancel(t *testing.T) {
	records := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"map_id":"M1","record_time":5}]`))
	}))
	defer records.Close()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = dir
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Fallback.Path = filepath.Join(dir, "replay_uuids.txt")
	cfg.Records.Endpoint = records.URL
	cfg.API.Bind = ""
	cfg.Logging.Format = "json"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, &cfg, Options{LogLevel: "debug"}) }()

	pidPath := filepath.Join(dir, "gravbot.pid")
	deadline := time.Now().Add(5 * time.Second)
	for {
		if data, err := os.ReadFile(cfg.LogPath()); err == nil && strings.Contains(string(data), "gravbot daemon started") {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("daemon did not start in time")
		}
		time.Sleep(20 * time.Millisecond)
	}
	if _, err := os.Stat(pidPath); err != nil {
		t.Fatalf("expected pid file: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Fatalf("expected pid file to be removed, got %v", err)
	}
	data, err := os.ReadFile(cfg.LogPath())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "wr cache refreshed") {
		t.Fatalf("expected refresh log line, got:\n%s", data)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background(), nil, Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}
