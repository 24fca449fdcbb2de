// Package queue implements the bounded concurrent queue at the center
// of the asynclog pipeline: arbitrary producer goroutines enqueue
// pooled entries, and a single dedicated worker goroutine drains them
// in batches to a sink callback.
//
// The queue is strictly FIFO in lock-acquisition order. When full it
// applies one of two overflow policies: drop, where producers never
// block and excess entries are counted and discarded, or bounded wait,
// where producers wait up to a fixed ceiling for space and then degrade
// to drop. Neither mode ever blocks a producer indefinitely.
//
// The worker dispatches batches of up to MaxBatchSize entries, uses the
// flush interval as its idle wait timeout so the queue is drained
// periodically even without new entries, and on Stop drains whatever
// remains before terminating. Sink errors and panics are reported
// through a fallback zap logger and never abort the loop; a batch is
// considered consumed even when the sink fails.
//
// The queue lock and the pool lock are never held at the same time.
package queue
