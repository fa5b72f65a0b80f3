package replays

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gravbot/internal/replaylog"
	"gravbot/internal/services/parse"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	calls    []string
	outcomes map[string]parse.Result
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (f *fakeSubmitter) Submit(ctx context.Context, uuid string) parse.Result {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if current <= peak || f.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.calls = append(f.calls, uuid)
	f.mu.Unlock()
	if result, ok := f.outcomes[uuid]; ok {
		result.UUID = uuid
		return result
	}
	return parse.Result{UUID: uuid, Outcome: parse.OutcomeInserted}
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type failingAppender struct{}

func (failingAppender) Append(string) error { return errors.New("disk full") }

func TestRecordReplayOnlyLogAppendsWithoutSubmitting(t *testing.T) {
	submitter := &fakeSubmitter{}
	store, err := replaylog.Open(filepath.Join(t.TempDir(), "replay_uuids.txt"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	recorder, err := NewRecorder(submitter, store)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}

	if err := recorder.RecordReplay(context.Background(), " abc ", true); err != nil {
		t.Fatalf("RecordReplay returned error: %v", err)
	}
	if submitter.callCount() != 0 {
		t.Fatal("expected no network submission for onlyLog")
	}
	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(entries) != 1 || entries[0] != "abc" {
		t.Fatalf("unexpected entries %v", entries)
	}
}

func TestRecordReplayOnlyLogReturnsStoreError(t *testing.T) {
	recorder, err := NewRecorder(&fakeSubmitter{}, failingAppender{})
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	if err := recorder.RecordReplay(context.Background(), "abc", true); err == nil {
		t.Fatal("expected store error")
	}
}

func TestRecordReplaySubmitsAndDiscardsResult(t *testing.T) {
	submitter := &fakeSubmitter{outcomes: map[string]parse.Result{
		"abc": {Outcome: parse.OutcomeError, Message: "boom", StatusCode: 500},
	}}
	var seen []parse.Result
	recorder, err := NewRecorder(submitter, failingAppender{}, WithResultHandler(func(_ context.Context, result parse.Result) {
		seen = append(seen, result)
	}))
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}

	if err := recorder.RecordReplay(context.Background(), "abc", false); err != nil {
		t.Fatalf("remote failure must not surface as an error, got %v", err)
	}
	if submitter.callCount() != 1 {
		t.Fatalf("expected one submission, got %d", submitter.callCount())
	}
	if len(seen) != 1 || seen[0].StatusCode != 500 {
		t.Fatalf("result handler did not observe the result: %+v", seen)
	}
}

func TestSubmitReturnsFullResult(t *testing.T) {
	submitter := &fakeSubmitter{outcomes: map[string]parse.Result{
		"dup": {Outcome: parse.OutcomeDuplicate},
	}}
	recorder, err := NewRecorder(submitter, nil)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	result := recorder.Submit(context.Background(), "dup")
	if result.Outcome != parse.OutcomeDuplicate || result.UUID != "dup" {
		t.Fatalf("unexpected result %+v", result)
	}
	if err := recorder.RecordReplay(context.Background(), "x", true); err == nil {
		t.Fatal("expected error when no fallback store is configured")
	}
}

func TestNewRecorderRequiresSubmitter(t *testing.T) {
	if _, err := NewRecorder(nil, nil); err == nil {
		t.Fatal("expected error for nil submitter")
	}
}

func TestSubmitAllTalliesInInputOrder(t *testing.T) {
	const (
		first  = "11111111-1111-4111-8111-111111111111"
		second = "22222222-2222-4222-8222-222222222222"
		third  = "33333333-3333-4333-8333-333333333333"
	)
	submitter := &fakeSubmitter{outcomes: map[string]parse.Result{
		second: {Outcome: parse.OutcomeDuplicate},
		third:  {Outcome: parse.OutcomeError, Message: "boom", StatusCode: 502},
	}}
	recorder, err := NewRecorder(submitter, nil)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}

	inputs := []string{
		first,
		"https://tagpro.koalabeast.com/game?uuid=" + second,
		"garbage",
		strings.ToUpper(third),
	}
	tally := recorder.SubmitAll(context.Background(), inputs, 2)

	if tally.Processed != 4 || tally.Inserted != 1 || tally.Duplicates != 1 || tally.Invalid != 1 || tally.Errors != 1 {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if len(tally.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(tally.Items))
	}
	wantUUIDs := []string{first, second, "", third}
	for i, item := range tally.Items {
		if item.Input != inputs[i] {
			t.Fatalf("item %d input = %q", i, item.Input)
		}
		if item.UUID != wantUUIDs[i] {
			t.Fatalf("item %d uuid = %q, want %q", i, item.UUID, wantUUIDs[i])
		}
	}
	if !errors.Is(tally.Items[2].Err, ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", tally.Items[2].Err)
	}
	if submitter.callCount() != 3 {
		t.Fatalf("invalid inputs must not be submitted, got %d calls", submitter.callCount())
	}
}

func TestSubmitAllRespectsConcurrencyLimit(t *testing.T) {
	submitter := &fakeSubmitter{delay: 20 * time.Millisecond}
	recorder, err := NewRecorder(submitter, nil)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	inputs := []string{
		"11111111-1111-4111-8111-111111111111",
		"22222222-2222-4222-8222-222222222222",
		"33333333-3333-4333-8333-333333333333",
		"44444444-4444-4444-8444-444444444444",
		"55555555-5555-4555-8555-555555555555",
		"66666666-6666-4666-8666-666666666666",
	}
	tally := recorder.SubmitAll(context.Background(), inputs, 2)
	if tally.Inserted != len(inputs) {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if peak := submitter.peak.Load(); peak > 2 {
		t.Fatalf("expected at most 2 concurrent submissions, saw %d", peak)
	}
}
