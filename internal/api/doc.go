// Package api defines wire-format types and converters for the daemon's HTTP
// API. It translates cache, record and submission models into
// transport-friendly DTOs so the CLI and other consumers can render them
// without coupling to internal types.
//
// # Key Types
//
// DaemonStatus: running state, lock path and WR cache status.
//
// CacheStatus: cache state, TTL, failure policy, record count and fetch time.
//
// RecordEntry: one WR record with its raw object passed through as
// json.RawMessage to avoid double-encoding.
//
// SubmitRequest: body accepted by POST /api/replays.
//
// # Design Notes
//
// DTOs use snake_case JSON tags to match the remote dataset's field names.
// Timestamps use RFC3339 with milliseconds.
package api
