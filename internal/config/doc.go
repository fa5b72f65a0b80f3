// Package config loads, normalizes, and validates gravbot configuration data.
//
// It supplies repository defaults (the parse and records endpoints, the
// "grav bot" origin, the 45s submit and 10s refresh timeouts, the 3h cache
// TTL), expands user paths including tilde shortcuts, reads TOML files, and
// applies GRAVBOT_* environment overrides on top of the file.
//
// Always obtain settings through this package so downstream code receives
// sanitized endpoints, canonical log formats, and clear validation errors.
package config
