// Package daemon coordinates the long-running gravbot process.
//
// It wires the replay recorder, the fallback store and the WR cache into a
// single lifecycle with flock-based locking to prevent multiple instances.
// While running it keeps the WR cache warm on a ticker and serves the HTTP
// API used to submit replays and look up world records.
//
// Keep orchestration logic here: submission and cache semantics live in their
// respective packages while the daemon focuses on startup, shutdown, and high
// level coordination.
package daemon
