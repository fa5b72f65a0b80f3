// Package parse submits replay identifiers to the remote parse endpoint and
// classifies its responses into inserted, duplicate or error results.
//
// A Client makes at most one delivery attempt per call. Failures are
// reported inside the Result rather than as Go errors so callers can treat
// every outcome uniformly; Result.Err converts an error result into a
// wrapped services error when one is needed.
package parse
