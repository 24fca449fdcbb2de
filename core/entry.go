package core

// Buffer capacities for the fixed-size Entry fields. One byte of each
// buffer is held in reserve so the stored length never reaches the
// capacity, mirroring a C-style terminator slot.
const (
	MessageBufferSize = 512
	FileBufferSize    = 256
	TimeBufferSize    = 32

	// MaxMessageLen is the longest message an Entry can hold.
	MaxMessageLen = MessageBufferSize - 1
	// MaxFileLen is the longest source file name an Entry can hold.
	MaxFileLen = FileBufferSize - 1
	// MaxTimeLen is the longest timestamp an Entry can hold.
	MaxTimeLen = TimeBufferSize - 1
)

// Entry represents a single log record. All variable-length data lives
// in preallocated buffers with explicit lengths, so an Entry can be
// filled and recycled without any heap allocation.
//
// An Entry has exactly one owner at any time. Use CopyFrom to duplicate
// one into a fresh Entry; plain struct assignment would copy the unused
// tail of every buffer and is never needed.
type Entry struct {
	Level Level
	Line  int

	message [MessageBufferSize]byte
	file    [FileBufferSize]byte
	time    [TimeBufferSize]byte

	messageLen int
	fileLen    int
	timeLen    int
}

// Reset returns the entry to its zero state so it can be reused.
func (e *Entry) Reset() {
	e.Level = InfoLevel
	e.Line = 0
	e.messageLen = 0
	e.fileLen = 0
	e.timeLen = 0
}

// SetMessage stores msg, truncating to MaxMessageLen bytes.
func (e *Entry) SetMessage(msg string) {
	e.messageLen = copy(e.message[:MaxMessageLen], msg)
}

// SetMessageBytes stores msg, truncating to MaxMessageLen bytes.
func (e *Entry) SetMessageBytes(msg []byte) {
	e.messageLen = copy(e.message[:MaxMessageLen], msg)
}

// Message returns the stored message as a string. This allocates; the
// formatting path should prefer MessageBytes.
func (e *Entry) Message() string {
	return string(e.message[:e.messageLen])
}

// MessageBytes returns a view of the stored message. The slice is only
// valid until the entry is reset or refilled.
func (e *Entry) MessageBytes() []byte {
	return e.message[:e.messageLen]
}

// MessageLen returns the stored message length.
func (e *Entry) MessageLen() int {
	return e.messageLen
}

// SetFile stores the source file name, truncating to MaxFileLen bytes.
func (e *Entry) SetFile(file string) {
	e.fileLen = copy(e.file[:MaxFileLen], file)
}

// File returns the stored source file name.
func (e *Entry) File() string {
	return string(e.file[:e.fileLen])
}

// FileBytes returns a view of the stored file name. The slice is only
// valid until the entry is reset or refilled.
func (e *Entry) FileBytes() []byte {
	return e.file[:e.fileLen]
}

// FileLen returns the stored file name length.
func (e *Entry) FileLen() int {
	return e.fileLen
}

// SetTime stores the formatted timestamp, truncating to MaxTimeLen bytes.
func (e *Entry) SetTime(ts string) {
	e.timeLen = copy(e.time[:MaxTimeLen], ts)
}

// Time returns the stored timestamp string.
func (e *Entry) Time() string {
	return string(e.time[:e.timeLen])
}

// TimeBytes returns a view of the stored timestamp. The slice is only
// valid until the entry is reset or refilled.
func (e *Entry) TimeBytes() []byte {
	return e.time[:e.timeLen]
}

// TimeLen returns the stored timestamp length.
func (e *Entry) TimeLen() int {
	return e.timeLen
}

// CopyFrom copies the populated fields of src into e. Only the used
// prefix of each buffer is touched.
func (e *Entry) CopyFrom(src *Entry) {
	e.Level = src.Level
	e.Line = src.Line
	e.messageLen = copy(e.message[:], src.message[:src.messageLen])
	e.fileLen = copy(e.file[:], src.file[:src.fileLen])
	e.timeLen = copy(e.time[:], src.time[:src.timeLen])
}
