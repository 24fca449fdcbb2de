// Package formatter defines how log entries are serialized into bytes.
//
// Final line assembly happens here, on the worker side of the queue:
// producers only copy raw message bytes into an entry, and the sink
// renders the "[time] [LEVEL] (file:line) message" line when the batch
// is dispatched. That split keeps the producer hot path free of any
// formatting cost.
//
// Two interfaces are exposed: Formatter, which returns a []byte, and
// WriterFormatter, which writes directly to an io.Writer. Sinks check
// for WriterFormatter at construction time and prefer it when
// available, eliminating the intermediate byte slice allocation on the
// write path.
//
// The TextFormatter uses a pooled bytes.Buffer internally and
// pre-computes level bracket strings (" [INFO] ", etc.) so that the
// most common path is a handful of Write calls over the entry's fixed
// buffers. Buffers larger than 64 KiB are not returned to the pool to
// prevent a single large log line from permanently inflating memory
// usage.
package formatter
