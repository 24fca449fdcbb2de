package queue

import (
	"sync/atomic"

	"github.com/mbraunert/asynclog/pool"
)

// Stats is an eventually-consistent snapshot of the queue and pool
// counters. The monotonic totals are exact at the moment each is read,
// but the snapshot as a whole is not taken atomically and
// CurrentQueueSize may be stale by the time it is inspected.
type Stats struct {
	// TotalEnqueued is the number of entries accepted by Enqueue.
	TotalEnqueued uint64
	// TotalDropped counts overflow drops, bounded-wait timeouts, and
	// entries discarded past a shutdown drain budget.
	TotalDropped uint64
	// TotalProcessed is the number of entries handed to the sink.
	TotalProcessed uint64
	// CurrentQueueSize is the instantaneous queue depth.
	CurrentQueueSize uint64
	// Pool holds the entry pool counters.
	Pool pool.Stats
}

// Stats returns a lock-free snapshot of the counters.
func (q *AsyncQueue) Stats() Stats {
	return Stats{
		TotalEnqueued:    atomic.LoadUint64(&q.totalEnqueued),
		TotalDropped:     atomic.LoadUint64(&q.totalDropped),
		TotalProcessed:   atomic.LoadUint64(&q.totalProcessed),
		CurrentQueueSize: atomic.LoadUint64(&q.queueSize),
		Pool:             q.pool.Stats(),
	}
}

// ResetStats zeroes the monotonic queue and pool counters. The
// instantaneous gauges keep tracking live state.
func (q *AsyncQueue) ResetStats() {
	atomic.StoreUint64(&q.totalEnqueued, 0)
	atomic.StoreUint64(&q.totalDropped, 0)
	atomic.StoreUint64(&q.totalProcessed, 0)
	q.pool.ResetStats()
}
