package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mbraunert/asynclog/core"
)

func entry(level core.Level, msg string) *core.Entry {
	e := new(core.Entry)
	e.Level = level
	e.SetTime("2024-05-01 12:00:00.000")
	e.SetMessage(msg)
	return e
}

func TestConsoleSink_SeveritySplit(t *testing.T) {
	var out, errOut bytes.Buffer
	s := NewConsoleSink(ConsoleConfig{Out: &out, ErrOut: &errOut})
	defer s.Close()

	batch := []*core.Entry{
		entry(core.DebugLevel, "debug line"),
		entry(core.InfoLevel, "info line"),
		entry(core.WarnLevel, "warn line"),
		entry(core.ErrorLevel, "error line"),
		entry(core.CriticalLevel, "critical line"),
	}
	if err := s.Handle(batch); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	stdout := out.String()
	stderr := errOut.String()

	for _, want := range []string{"debug line", "info line"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q, got: %s", want, stdout)
		}
	}
	for _, want := range []string{"warn line", "error line", "critical line"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q, got: %s", want, stderr)
		}
		if strings.Contains(stdout, want) {
			t.Errorf("stdout should not contain %q", want)
		}
	}
}

func TestConsoleSink_HandleAfterClose(t *testing.T) {
	var out bytes.Buffer
	s := NewConsoleSink(ConsoleConfig{Out: &out, ErrOut: &out})
	s.Close()

	if err := s.Handle([]*core.Entry{entry(core.InfoLevel, "late")}); err == nil {
		t.Error("Handle() after Close should fail")
	}
}

func TestFileSink_AppendsBatches(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.log")

	s, err := NewFileSink(FileConfig{Filename: filename})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Handle([]*core.Entry{
		entry(core.InfoLevel, "first"),
		entry(core.InfoLevel, "second"),
	}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if err := s.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "first") || !strings.Contains(content, "second") {
		t.Errorf("log file missing entries: %s", content)
	}
	lines := strings.Count(content, "\n")
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestFileSink_RequiresFilename(t *testing.T) {
	if _, err := NewFileSink(FileConfig{}); err == nil {
		t.Error("NewFileSink() without filename should fail")
	}
}

func TestFileSink_CloseIdempotent(t *testing.T) {
	s, err := NewFileSink(FileConfig{Filename: filepath.Join(t.TempDir(), "test.log")})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

type failingSink struct{ calls int }

func (f *failingSink) Handle(batch []*core.Entry) error {
	f.calls++
	return errors.New("sink failed")
}

func (f *failingSink) Close() error { return nil }

func TestMultiSink_AttemptsAllChildren(t *testing.T) {
	var out bytes.Buffer
	ok := NewConsoleSink(ConsoleConfig{Out: &out, ErrOut: &out})
	bad := &failingSink{}

	m := NewMultiSink(bad, ok)
	err := m.Handle([]*core.Entry{entry(core.InfoLevel, "fan out")})

	if err == nil {
		t.Error("Handle() should surface the child error")
	}
	if bad.calls != 1 {
		t.Errorf("failing child called %d times, want 1", bad.calls)
	}
	if !strings.Contains(out.String(), "fan out") {
		t.Error("healthy child should still receive the batch")
	}
}
