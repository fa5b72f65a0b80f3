// Package replays dispatches replay identifiers either to the remote parse
// endpoint or to the local fallback store, and submits batches of
// user-supplied inputs with bounded concurrency.
package replays
