// Package logger provides the user-facing logging API. A Logger owns an
// optional AsyncQueue and a Sink; in async mode (the default) logging
// methods stamp a pooled entry and enqueue it, and the queue's worker
// formats and writes it. In synchronous mode entries are written to the
// sink inline on the calling goroutine.
package logger
