// Package services defines shared utilities consumed by the replay and WR
// components and the daemon that hosts them.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and the triggering
//     surface (cli, api, ticker) for logging.
//   - Structured error markers plus the Wrap helper so remote failures are
//     classified consistently (transport failure, remote rejection, cache
//     unavailable) no matter which component produced them.
//
// Remote integrations live in subpackages (see services/parse).
package services
