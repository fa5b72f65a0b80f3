// Package wrcache keeps a time-bounded copy of the remote WR dataset so that
// per-map lookups do not need a network round trip on every call.
//
// A Cache owns its snapshot. Refresh is serialised by a mutex and publishes
// each new snapshot with an atomic pointer swap, so readers calling Snapshot
// never observe a partially replaced dataset. What happens to the previous
// snapshot when a fetch fails is governed by FailurePolicy.
package wrcache
