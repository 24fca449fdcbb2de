package formatter

import (
	"bytes"
	"io"
	"strconv"

	"github.com/mbraunert/asynclog/core"
)

// TextFormatter renders entries as human-readable lines:
//
//	[2024-05-01 12:00:00.000] [INFO] (main.go:42) message
//
// The source location segment is omitted when the entry carries no
// file or line.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [...]string{
	core.TraceLevel:    "] [TRACE] ",
	core.DebugLevel:    "] [DEBUG] ",
	core.InfoLevel:     "] [INFO] ",
	core.WarnLevel:     "] [WARN] ",
	core.ErrorLevel:    "] [ERROR] ",
	core.CriticalLevel: "] [CRITICAL] ",
}

// Format formats an entry as text
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.formatToBuffer(entry, buf)

	// Copy buffer content to return
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo formats an entry and writes it directly to the writer
func (f *TextFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	buf := getBuffer()

	f.formatToBuffer(entry, buf)

	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

// formatToBuffer writes the formatted entry into the given buffer
func (f *TextFormatter) formatToBuffer(entry *core.Entry, buf *bytes.Buffer) {
	buf.WriteByte('[')
	buf.Write(entry.TimeBytes())

	if lvl := int(entry.Level); lvl >= 0 && lvl < len(levelBrackets) && levelBrackets[lvl] != "" {
		buf.WriteString(levelBrackets[lvl])
	} else {
		buf.WriteString("] [UNKNOWN] ")
	}

	// Source location if the producer recorded one
	if entry.FileLen() > 0 && entry.Line > 0 {
		buf.WriteByte('(')
		buf.Write(entry.FileBytes())
		buf.WriteByte(':')
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Line), 10))
		buf.WriteString(") ")
	}

	buf.Write(entry.MessageBytes())
	buf.WriteByte('\n')
}
