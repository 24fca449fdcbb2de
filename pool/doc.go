// Package pool provides a two-tier recycling allocator for log entries.
//
// The global tier is a free-list guarded by one mutex. The local tier is
// a set of small per-goroutine caches that satisfy most Get and Put
// calls without touching the lock at all. A cache that runs dry refills
// from the global list in a single locked batch transfer, and a cache
// that overflows spills its whole contents back the same way, so the
// lock cost is amortized across many future operations.
//
// Caches are registered explicitly with Pool.Register and must be
// closed by their owning goroutine before it exits, returning any
// cached entries to the global list. The runtime offers no implicit
// goroutine-exit hook, so an unclosed cache leaks its pooled capacity.
//
// The pool grows without bound when both tiers are empty: an allocation
// request never fails, it constructs a fresh entry instead. All
// counters are maintained with atomic operations and can be read
// without the pool lock.
package pool
