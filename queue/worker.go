package queue

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mbraunert/asynclog/core"
)

// worker is the queue's single consumer. It loops through the Running
// state draining available batches, falls into a timed idle wait when
// the queue is empty, and on Stop switches to a no-wait drain of
// whatever remains before terminating.
func (q *AsyncQueue) worker() {
	defer q.wg.Done()

	// Reused across iterations; every dispatched entry is back in the
	// pool before the next dequeue overwrites the slice.
	scratch := make([]*core.Entry, 0, q.maxBatch)
	lastDrain := time.Now()

	for !q.IsStopped() {
		b := q.drainInto(scratch)
		if len(b) > 0 {
			q.dispatch(b)
			lastDrain = time.Now()
			continue
		}

		// Queue empty: wait for new entries, with the flush interval as
		// the timeout so the loop doubles as the auto-flush timer.
		q.waitForWork()

		if time.Since(lastDrain) >= q.flushInterval {
			if b := q.drainInto(scratch); len(b) > 0 {
				q.dispatch(b)
			}
			lastDrain = time.Now()
		}
	}

	q.drainRemaining(scratch)
}

// drainInto fills scratch with up to maxBatch entries without waiting.
// A non-empty result marks the worker as dispatching until batchDone.
func (q *AsyncQueue) drainInto(scratch []*core.Entry) []*core.Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return nil
	}
	q.dispatching = true
	return q.dequeueLocked(scratch[:0])
}

// batchDone clears the dispatching mark and wakes Flush waiters.
func (q *AsyncQueue) batchDone() {
	q.mu.Lock()
	q.dispatching = false
	q.notFull.Broadcast()
	q.mu.Unlock()
}

// waitForWork parks the worker until an entry arrives, the queue is
// stopped, or the flush interval elapses. A spurious wakeup only costs
// one extra loop iteration.
func (q *AsyncQueue) waitForWork() {
	q.mu.Lock()
	if q.count == 0 && !q.stoppedLocked() {
		timer := time.AfterFunc(q.flushInterval, func() {
			q.mu.Lock()
			q.notEmpty.Broadcast()
			q.mu.Unlock()
		})
		q.notEmpty.Wait()
		timer.Stop()
	}
	q.mu.Unlock()
}

// drainRemaining empties the queue after Stop, dequeuing and
// dispatching with no wait. With no drain budget configured it runs
// until the queue is empty; past a positive budget the leftovers are
// dropped, counted, and recycled instead of dispatched.
func (q *AsyncQueue) drainRemaining(scratch []*core.Entry) {
	var deadline time.Time
	if q.drainTimeout > 0 {
		deadline = time.Now().Add(q.drainTimeout)
	}

	for {
		b := q.drainInto(scratch)
		if len(b) == 0 {
			return
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			dropped := uint64(len(b))
			q.pool.PutBatch(b)
			for {
				b = q.drainInto(scratch)
				if len(b) == 0 {
					break
				}
				dropped += uint64(len(b))
				q.pool.PutBatch(b)
			}
			atomic.AddUint64(&q.totalDropped, dropped)
			q.batchDone()
			q.fallback.Warn("shutdown drain budget exceeded, dropping queued entries",
				zap.String("queue", q.id),
				zap.Uint64("dropped", dropped))
			return
		}

		q.dispatch(b)
	}
}

// dispatch hands a batch to the sink, records it as processed, and
// returns the entries to the pool. The batch counts as consumed even
// when the sink fails: errors and panics go to the fallback logger and
// are never retried.
func (q *AsyncQueue) dispatch(batch []*core.Entry) {
	q.invoke(batch)
	atomic.AddUint64(&q.totalProcessed, uint64(len(batch)))
	q.pool.PutBatch(batch)
	q.batchDone()
}

// invoke isolates the sink call so a panicking handler cannot take the
// worker down with it.
func (q *AsyncQueue) invoke(batch []*core.Entry) {
	defer func() {
		if r := recover(); r != nil {
			q.fallback.Error("log sink panicked",
				zap.String("queue", q.id),
				zap.Int("batch_size", len(batch)),
				zap.Any("panic", r))
		}
	}()

	if err := q.handler(batch); err != nil {
		q.fallback.Error("log sink failed",
			zap.String("queue", q.id),
			zap.Int("batch_size", len(batch)),
			zap.Error(err))
	}
}
