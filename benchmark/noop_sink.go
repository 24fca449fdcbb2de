package benchmark

import (
	"github.com/mbraunert/asynclog/core"
)

// noopSink consumes entries without formatting or writing them. It
// isolates the queue and pool cost from the sink cost.
type noopSink struct{}

func (noopSink) Handle(batch []*core.Entry) error {
	for _, e := range batch {
		_ = e.MessageLen()
	}
	return nil
}

func (noopSink) Close() error {
	return nil
}
