package sink

import (
	"github.com/mbraunert/asynclog/core"
)

// MultiSink fans each batch out to multiple child sinks. Handle and
// Close report the last error encountered; all children are always
// attempted.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a new multi-sink
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Handle passes the batch to every child sink.
func (m *MultiSink) Handle(batch []*core.Entry) error {
	var lastErr error
	for _, s := range m.sinks {
		if err := s.Handle(batch); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Close closes every child sink.
func (m *MultiSink) Close() error {
	var lastErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
