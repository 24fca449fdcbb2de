package sink

import (
	"io"
	"os"
	"sync"

	"github.com/mbraunert/asynclog/core"
	"github.com/mbraunert/asynclog/formatter"
)

// ConsoleSink writes formatted entries to the console, splitting by
// severity: warn and above go to the error stream, everything else to
// the output stream.
type ConsoleSink struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	formatter formatter.Formatter
	writerFmt formatter.WriterFormatter
	closed    bool
}

// ConsoleConfig holds configuration for the console sink
type ConsoleConfig struct {
	// Out receives entries below WarnLevel (default: os.Stdout)
	Out io.Writer
	// ErrOut receives entries at WarnLevel and above (default: os.Stderr)
	ErrOut io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
}

// NewConsoleSink creates a new console sink
func NewConsoleSink(cfg ConsoleConfig) *ConsoleSink {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.ErrOut == nil {
		cfg.ErrOut = os.Stderr
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter()
	}

	s := &ConsoleSink{
		out:       cfg.Out,
		errOut:    cfg.ErrOut,
		formatter: cfg.Formatter,
	}
	// Cache WriterFormatter for the zero-alloc path
	s.writerFmt, _ = cfg.Formatter.(formatter.WriterFormatter)
	return s
}

// Handle writes each entry of the batch to the stream matching its
// severity.
func (s *ConsoleSink) Handle(batch []*core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}

	var lastErr error
	for _, e := range batch {
		w := s.out
		if e.Level >= core.WarnLevel {
			w = s.errOut
		}
		if err := s.write(e, w); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (s *ConsoleSink) write(e *core.Entry, w io.Writer) error {
	if s.writerFmt != nil {
		return s.writerFmt.FormatTo(e, w)
	}
	data, err := s.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Close marks the sink closed. The console streams themselves are not
// owned by the sink and stay open.
func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
