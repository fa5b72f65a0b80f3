package api

import (
	"encoding/json"
	"testing"
	"time"

	"gravbot/internal/records"
)

func TestFromEntryWithoutTime(t *testing.T) {
	dto := FromEntry(records.Entry{MapID: "M1"})
	if dto.RecordTime != nil {
		t.Fatalf("expected nil record time, got %v", *dto.RecordTime)
	}
	encoded, err := json.Marshal(dto)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `{"map_id":"M1","record_time":null}` {
		t.Fatalf("unexpected encoding %s", encoded)
	}
}

func TestFromEntryPassesRawRecord(t *testing.T) {
	raw := json.RawMessage(`{"map_id":"M1","record_time":5,"players":["a"]}`)
	dto := FromEntry(records.Entry{MapID: "M1", RecordTime: 5, HasTime: true, Raw: raw})
	if dto.RecordTime == nil || *dto.RecordTime != 5 {
		t.Fatalf("unexpected record time %v", dto.RecordTime)
	}
	if string(dto.Record) != string(raw) {
		t.Fatalf("raw record not passed through: %s", dto.Record)
	}
}

func TestFromCache(t *testing.T) {
	fetched := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	snapshot := records.NewSnapshot([]records.Entry{{MapID: "M1"}, {MapID: "M2"}}, fetched)
	status := FromCache("fresh", "clear", 3*time.Hour, snapshot, fetched.Add(90*time.Second))
	if status.Records != 2 || status.TTLSeconds != 10800 || status.AgeSeconds != 90 {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.FetchedAt != "2026-01-02T03:04:05.000Z" {
		t.Fatalf("unexpected fetched_at %q", status.FetchedAt)
	}

	empty := FromCache("empty", "clear", time.Hour, nil, fetched)
	if empty.Records != 0 || empty.FetchedAt != "" {
		t.Fatalf("unexpected empty status %+v", empty)
	}
}

func TestFromIndex(t *testing.T) {
	index := map[string]records.Entry{
		"M1": {MapID: "M1", RecordTime: 5, HasTime: true},
	}
	resp := FromIndex(index)
	if len(resp.Maps) != 1 || resp.Maps["M1"].MapID != "M1" {
		t.Fatalf("unexpected index %+v", resp)
	}
}
