package api

import (
	"encoding/json"

	"gravbot/internal/records"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// CacheStatus summarizes the WR cache.
type CacheStatus struct {
	State      string `json:"state"`
	Policy     string `json:"policy"`
	TTLSeconds int64  `json:"ttl_seconds"`
	Records    int    `json:"records"`
	FetchedAt  string `json:"fetched_at,omitempty"`
	AgeSeconds int64  `json:"age_seconds,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool        `json:"running"`
	PID          int         `json:"pid"`
	LockFilePath string      `json:"lock_file_path"`
	FallbackPath string      `json:"fallback_path"`
	Cache        CacheStatus `json:"cache"`
}

// RecordEntry is a WR record in transport form.
type RecordEntry struct {
	MapID      string          `json:"map_id"`
	RecordTime *float64        `json:"record_time"`
	Record     json.RawMessage `json:"record,omitempty"`
}

// WRResponse answers GET /api/wr/{mapID}.
type WRResponse struct {
	MapID  string      `json:"map_id"`
	Record RecordEntry `json:"record"`
}

// MapRecordsResponse answers GET /api/wr/{mapID}/records.
type MapRecordsResponse struct {
	MapID   string        `json:"map_id"`
	Records []RecordEntry `json:"records"`
}

// WRIndexResponse answers GET /api/wr with the best record of every map.
type WRIndexResponse struct {
	Maps map[string]RecordEntry `json:"maps"`
}

// SubmitRequest is the body of POST /api/replays. Input may be a UUID or a
// link carrying one.
type SubmitRequest struct {
	Input   string `json:"uuid"`
	OnlyLog bool   `json:"only_log"`
}

// LoggedResponse acknowledges an identifier written to the fallback store.
type LoggedResponse struct {
	UUID   string `json:"uuid"`
	Logged bool   `json:"logged"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// LeaderboardResponse carries the player leaderboards of one snapshot.
type LeaderboardResponse struct {
	FetchedAt string `json:"fetched_at,omitempty"`
	records.Leaderboards
}
