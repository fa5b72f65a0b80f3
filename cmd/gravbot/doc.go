// Package main hosts the gravbot CLI entrypoint and command graph.
//
// The Cobra-based command tree submits replays to the parse endpoint, manages
// the local fallback store, looks up world records through the WR cache, and
// runs the long-lived daemon. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on output instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
