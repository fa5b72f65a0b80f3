// Package records models the remote world-record dataset and answers per-map
// best-time queries against a snapshot of it.
//
// The query functions are pure: they never touch the network and never modify
// the snapshot. Callers obtain a snapshot from the WR cache (package wrcache)
// first. A record qualifies for a map when its map_id matches exactly and its
// record_time is present and non-zero; lower times are better.
package records
