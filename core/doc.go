// Package core defines the shared types used across the asynclog pipeline.
//
// It provides the Level type for severity filtering and the Entry type
// that represents a single log record. Entry keeps its message, source
// file name and timestamp in fixed-size buffers with explicit lengths,
// so filling one never allocates and oversized input is silently
// truncated to the longest prefix that fits.
//
// Entries are single-owner values: a producer fills one, hands it to the
// queue, the worker passes it to the sink read-only, and the pool takes
// it back and resets it. Nothing may retain an Entry across that
// hand-off chain.
//
// The coarse clock caches a pre-formatted timestamp string, updated by a
// background goroutine, so producers can stamp entries without paying
// for time formatting on the hot path.
package core
