package replaylog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestAppendWritesNewlinePrefixedTrimmedIdentifier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay_uuids.txt")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := store.Append("  abc-123 \n"); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := store.Append("def"); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "\nabc-123\ndef" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestAppendDoesNotDeduplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.txt")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := store.Append("same"); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}
	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 2 || entries[0] != "same" || entries[1] != "same" {
		t.Fatalf("unexpected entries %v", entries)
	}
}

func TestConcurrentAppendsNeverInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.txt")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	const writers = 16
	const perWriter = 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		store := first
		if w%2 == 1 {
			store = second
		}
		wg.Add(1)
		go func(w int, store *Store) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				id := fmt.Sprintf("writer-%02d-entry-%03d-%s", w, i, strings.Repeat("x", 64))
				if err := store.Append(id); err != nil {
					t.Errorf("Append returned error: %v", err)
					return
				}
			}
		}(w, store)
	}
	wg.Wait()

	entries, err := first.Entries()
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != writers*perWriter {
		t.Fatalf("expected %d entries, got %d", writers*perWriter, len(entries))
	}
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !strings.HasPrefix(entry, "writer-") || !strings.HasSuffix(entry, strings.Repeat("x", 64)) {
			t.Fatalf("interleaved entry %q", entry)
		}
		seen[entry] = true
	}
	if len(seen) != writers*perWriter {
		t.Fatalf("expected every entry once, got %d distinct", len(seen))
	}
}

func TestAppendReturnsIOError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := Open(filepath.Join(blocker, "store.txt"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := store.Append("abc"); err == nil {
		t.Fatal("expected an error when the parent path is a file")
	}
}

func TestEntriesMissingFile(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %v", entries)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
