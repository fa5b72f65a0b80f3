package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Entry is one record from the remote WR dataset. Only the map identifier and
// the record time are interpreted; the full object is kept so it can be passed
// through unexamined.
type Entry struct {
	MapID      string
	RecordTime float64
	// HasTime is false when record_time was absent, null, empty, zero or
	// unparseable.
	HasTime bool
	Raw     json.RawMessage
	// Skipped names the interpreted fields that were present but could not be
	// decoded. A skipped map_id leaves MapID empty and a skipped record_time
	// leaves HasTime false, so the entry never qualifies for a record.
	Skipped []string
}

type entryFields struct {
	MapID      json.RawMessage `json:"map_id"`
	RecordTime json.RawMessage `json:"record_time"`
}

// UnmarshalJSON decodes a record object. map_id may be a string or a number
// literal; record_time may be a number or a numeric string. Decoding never
// fails: a malformed row is kept with the offending fields listed in Skipped
// so one bad record cannot reject the whole dataset.
func (e *Entry) UnmarshalJSON(data []byte) error {
	out := Entry{Raw: append(json.RawMessage(nil), data...)}
	var fields entryFields
	if err := json.Unmarshal(data, &fields); err != nil {
		out.Skipped = []string{"record"}
		*e = out
		return nil
	}
	if mapID, err := decodeMapID(fields.MapID); err != nil {
		out.Skipped = append(out.Skipped, "map_id")
	} else {
		out.MapID = mapID
	}
	if recordTime, hasTime, err := decodeRecordTime(fields.RecordTime); err != nil {
		out.Skipped = append(out.Skipped, "record_time")
	} else {
		out.RecordTime, out.HasTime = recordTime, hasTime
	}
	*e = out
	return nil
}

// Malformed counts entries that had at least one skipped field.
func Malformed(entries []Entry) int {
	n := 0
	for _, entry := range entries {
		if len(entry.Skipped) > 0 {
			n++
		}
	}
	return n
}

// MarshalJSON re-emits the original object when available so fields the
// system does not interpret survive a round trip.
func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	out := map[string]any{"map_id": e.MapID}
	if e.HasTime {
		out["record_time"] = e.RecordTime
	} else {
		out["record_time"] = nil
	}
	return json.Marshal(out)
}

// Field decodes an additional field from the raw record into target. It
// reports false when the field is absent.
func (e Entry) Field(name string, target any) (bool, error) {
	if len(e.Raw) == 0 {
		return false, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.Raw, &fields); err != nil {
		return false, fmt.Errorf("decode record fields: %w", err)
	}
	raw, ok := fields[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return true, fmt.Errorf("decode record field %q: %w", name, err)
	}
	return true, nil
}

func decodeMapID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode map_id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode map_id: %w", err)
	}
	return n.String(), nil
}

func decodeRecordTime(raw json.RawMessage) (float64, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false, nil
	}
	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false, fmt.Errorf("decode record_time: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, false, nil
		}
	} else {
		text = string(raw)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode record_time %q: %w", text, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, fmt.Errorf("decode record_time %q: not finite", text)
	}
	if value == 0 {
		return 0, false, nil
	}
	return value, true, nil
}

// Snapshot is one wholesale copy of the remote dataset. It is never mutated
// after construction; a refresh produces a new Snapshot.
type Snapshot struct {
	Entries   []Entry
	FetchedAt time.Time
}

// NewSnapshot wraps entries fetched at fetchedAt.
func NewSnapshot(entries []Entry, fetchedAt time.Time) *Snapshot {
	return &Snapshot{Entries: entries, FetchedAt: fetchedAt}
}

// Len returns the number of entries, treating a nil snapshot as empty.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Age returns how long ago the snapshot was fetched relative to now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	return now.Sub(s.FetchedAt)
}
