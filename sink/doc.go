// Package sink provides the destinations that consume dequeued log
// batches.
//
// A Sink's Handle method is invoked only from a queue's worker
// goroutine and never concurrently with itself, so implementations do
// not need to guard against concurrent Handle calls; the internal
// locking here only serializes Handle against Close.
//
// Built-in sinks:
//
//   - ConsoleSink writes warn and above to stderr and everything else
//     to stdout (both redirectable for tests).
//   - FileSink appends to a single file and syncs after every batch.
//     It does not rotate.
//   - MultiSink fans a batch out to multiple child sinks.
//
// A sink must not synchronously enqueue into the queue that feeds it;
// against a full queue in bounded-wait mode that can deadlock.
package sink
