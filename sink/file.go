package sink

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/mbraunert/asynclog/core"
	"github.com/mbraunert/asynclog/formatter"
)

// FileSink appends formatted entries to a single log file. Writes are
// buffered and handed to the OS when the batch completes; call Sync
// (or enable SyncEveryBatch) for durability on stable storage.
type FileSink struct {
	mu        sync.Mutex
	file      *os.File
	buf       *bufio.Writer
	formatter formatter.Formatter
	writerFmt formatter.WriterFormatter
	syncEach  bool
	closed    bool
}

// FileConfig holds configuration for the file sink
type FileConfig struct {
	// Filename is the path to the log file
	Filename string
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// SyncEveryBatch forces an fsync after each batch. Costly; off by
	// default, durability is then bounded by explicit Sync calls.
	SyncEveryBatch bool
}

// NewFileSink opens (or creates) the file in append mode.
func NewFileSink(cfg FileConfig) (*FileSink, error) {
	if cfg.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter()
	}

	f, err := os.OpenFile(cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	s := &FileSink{
		file:      f,
		buf:       bufio.NewWriterSize(f, 32*1024),
		formatter: cfg.Formatter,
		syncEach:  cfg.SyncEveryBatch,
	}
	s.writerFmt, _ = cfg.Formatter.(formatter.WriterFormatter)
	return s, nil
}

// Handle appends the batch to the file and flushes it.
func (s *FileSink) Handle(batch []*core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}

	for _, e := range batch {
		if err := s.write(e); err != nil {
			return fmt.Errorf("write log entry: %w", err)
		}
	}
	if err := s.buf.Flush(); err != nil {
		return fmt.Errorf("flush log file: %w", err)
	}
	if s.syncEach {
		if err := s.file.Sync(); err != nil {
			return fmt.Errorf("sync log file: %w", err)
		}
	}
	return nil
}

func (s *FileSink) write(e *core.Entry) error {
	if s.writerFmt != nil {
		return s.writerFmt.FormatTo(e, s.buf)
	}
	data, err := s.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = s.buf.Write(data)
	return err
}

// Sync flushes buffered data and fsyncs the file.
func (s *FileSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close flushes remaining data and closes the file. Close is
// idempotent.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	flushErr := s.buf.Flush()
	closeErr := s.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
