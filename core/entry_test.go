package core

import (
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{CriticalLevel, "CRITICAL"},
		{OffLevel, "OFF"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLevelEntry(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"DEBUG", DebugLevel, false},
		{"Info", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"critical", CriticalLevel, false},
		{"off", OffLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEntry_SetMessage(t *testing.T) {
	var e Entry

	e.SetMessage("hello")
	if e.Message() != "hello" {
		t.Errorf("Message() = %q, want %q", e.Message(), "hello")
	}
	if e.MessageLen() != 5 {
		t.Errorf("MessageLen() = %d, want 5", e.MessageLen())
	}
}

func TestEntry_Truncation(t *testing.T) {
	var e Entry

	long := strings.Repeat("x", MessageBufferSize*2)
	e.SetMessage(long)
	if e.MessageLen() != MaxMessageLen {
		t.Errorf("MessageLen() = %d, want %d", e.MessageLen(), MaxMessageLen)
	}
	if e.Message() != long[:MaxMessageLen] {
		t.Error("truncation did not keep the longest prefix")
	}

	e.SetFile(strings.Repeat("f", FileBufferSize*2))
	if e.FileLen() != MaxFileLen {
		t.Errorf("FileLen() = %d, want %d", e.FileLen(), MaxFileLen)
	}

	e.SetTime(strings.Repeat("t", TimeBufferSize*2))
	if e.TimeLen() != MaxTimeLen {
		t.Errorf("TimeLen() = %d, want %d", e.TimeLen(), MaxTimeLen)
	}
}

func TestEntry_Reset(t *testing.T) {
	var e Entry
	e.Level = ErrorLevel
	e.Line = 42
	e.SetMessage("message")
	e.SetFile("file.go")
	e.SetTime("2024-01-01 00:00:00.000")

	e.Reset()

	if e.Level != InfoLevel {
		t.Errorf("Level = %v after Reset, want InfoLevel", e.Level)
	}
	if e.Line != 0 {
		t.Errorf("Line = %d after Reset, want 0", e.Line)
	}
	if e.MessageLen() != 0 || e.FileLen() != 0 || e.TimeLen() != 0 {
		t.Error("expected all lengths to be zero after Reset")
	}
	if e.Message() != "" {
		t.Errorf("Message() = %q after Reset, want empty", e.Message())
	}
}

func TestEntry_CopyFrom(t *testing.T) {
	var src, dst Entry
	src.Level = WarnLevel
	src.Line = 7
	src.SetMessage("copied")
	src.SetFile("producer.go")
	src.SetTime("2024-01-01 00:00:00.000")

	dst.CopyFrom(&src)

	if dst.Level != WarnLevel || dst.Line != 7 {
		t.Errorf("CopyFrom lost level/line: %v %d", dst.Level, dst.Line)
	}
	if dst.Message() != "copied" {
		t.Errorf("Message() = %q, want %q", dst.Message(), "copied")
	}
	if dst.File() != "producer.go" {
		t.Errorf("File() = %q, want %q", dst.File(), "producer.go")
	}
	if dst.Time() != src.Time() {
		t.Errorf("Time() = %q, want %q", dst.Time(), src.Time())
	}

	// The copy must be independent of the source.
	src.SetMessage("mutated")
	if dst.Message() != "copied" {
		t.Error("CopyFrom aliased the source buffers")
	}
}

func BenchmarkEntry_Fill(b *testing.B) {
	var e Entry
	for i := 0; i < b.N; i++ {
		e.SetMessage("benchmark log message with a realistic length for a log line")
		e.SetFile("bench_test.go")
		e.SetTime("2024-01-01 00:00:00.000")
		e.Reset()
	}
}
