package api

import (
	"os"
	"time"

	"gravbot/internal/records"
)

// FromEntry converts a record to its API representation. RecordTime is nil
// when the record carries no usable time.
func FromEntry(entry records.Entry) RecordEntry {
	dto := RecordEntry{MapID: entry.MapID}
	if entry.HasTime {
		value := entry.RecordTime
		dto.RecordTime = &value
	}
	if len(entry.Raw) > 0 {
		dto.Record = entry.Raw
	}
	return dto
}

// FromEntries converts a slice of records, preserving order.
func FromEntries(entries []records.Entry) []RecordEntry {
	out := make([]RecordEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FromEntry(entry))
	}
	return out
}

// FromIndex converts a per-map best-record index.
func FromIndex(index map[string]records.Entry) WRIndexResponse {
	maps := make(map[string]RecordEntry, len(index))
	for mapID, entry := range index {
		maps[mapID] = FromEntry(entry)
	}
	return WRIndexResponse{Maps: maps}
}

// FromLeaderboards ranks players in snapshot.
func FromLeaderboards(snapshot *records.Snapshot) LeaderboardResponse {
	resp := LeaderboardResponse{Leaderboards: records.Leaderboard(snapshot)}
	if snapshot != nil && !snapshot.FetchedAt.IsZero() {
		resp.FetchedAt = snapshot.FetchedAt.UTC().Format(dateTimeFormat)
	}
	return resp
}

// FromCache builds a CacheStatus from the cache's observable state.
func FromCache(state, policy string, ttl time.Duration, snapshot *records.Snapshot, now time.Time) CacheStatus {
	status := CacheStatus{
		State:      state,
		Policy:     policy,
		TTLSeconds: int64(ttl / time.Second),
		Records:    snapshot.Len(),
	}
	if snapshot != nil && !snapshot.FetchedAt.IsZero() {
		status.FetchedAt = snapshot.FetchedAt.UTC().Format(dateTimeFormat)
		status.AgeSeconds = int64(snapshot.Age(now) / time.Second)
	}
	return status
}

// NewDaemonStatus fills the process fields of a DaemonStatus.
func NewDaemonStatus(running bool, lockPath, fallbackPath string, cache CacheStatus) DaemonStatus {
	return DaemonStatus{
		Running:      running,
		PID:          os.Getpid(),
		LockFilePath: lockPath,
		FallbackPath: fallbackPath,
		Cache:        cache,
	}
}
