package sink

import (
	"github.com/mbraunert/asynclog/core"
)

// Sink consumes batches of log entries. Entries are read-only inside
// Handle and are recycled by the caller as soon as it returns; a Sink
// must never retain an entry past the call.
type Sink interface {
	// Handle processes one batch of entries.
	Handle(batch []*core.Entry) error

	// Close flushes and releases the sink's resources.
	Close() error
}
