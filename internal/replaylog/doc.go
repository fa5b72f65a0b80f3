// Package replaylog is the local fallback store for replay identifiers: an
// append-only text file holding one identifier per line, written when an
// identifier should be kept for later instead of submitted now.
package replaylog
