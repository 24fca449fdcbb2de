package logger

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mbraunert/asynclog/core"
	"github.com/mbraunert/asynclog/pool"
	"github.com/mbraunert/asynclog/queue"
	"github.com/mbraunert/asynclog/sink"
)

// DefaultFlushTimeout bounds Flush and Close when the caller does not
// supply a timeout of their own.
const DefaultFlushTimeout = 5 * time.Second

// Logger is the main logging handle. Its configuration is immutable
// after Build except for the level, which may be changed at runtime
// with SetLevel.
type Logger struct {
	level int32 // atomic core.Level

	sink          sink.Sink
	q             *queue.AsyncQueue // nil in synchronous mode
	pool          *pool.Pool        // nil in synchronous mode
	includeCaller bool
	callerSkip    int

	closeOnce sync.Once
	closed    atomic.Bool
	closeErr  error
}

// Builder provides a fluent API for building Logger instances.
type Builder struct {
	level         core.Level
	sink          sink.Sink
	queueCfg      queue.Config
	sync          bool
	includeCaller bool
	callerSkip    int
}

// NewBuilder creates a new logger builder. The defaults are an async
// console logger at InfoLevel.
func NewBuilder() *Builder {
	return &Builder{
		level:      core.InfoLevel,
		callerSkip: 3, // Default skip for core.Caller
	}
}

// WithLevel sets the minimum level.
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithSink sets the output sink.
func (b *Builder) WithSink(s sink.Sink) *Builder {
	b.sink = s
	return b
}

// WithQueue sets the async queue configuration. Zero fields keep their
// defaults.
func (b *Builder) WithQueue(cfg queue.Config) *Builder {
	b.queueCfg = cfg
	return b
}

// WithCaller enables caller information (file:line) on each entry.
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// Synchronous disables the async queue; entries are written to the sink
// inline on the calling goroutine. The built-in sinks serialize writes
// internally, so a synchronous Logger is still safe for concurrent use.
func (b *Builder) Synchronous() *Builder {
	b.sync = true
	return b
}

// Build creates the Logger instance. In async mode this starts the
// queue's worker goroutine and the coarse clock.
func (b *Builder) Build() *Logger {
	s := b.sink
	if s == nil {
		s = sink.NewConsoleSink(sink.ConsoleConfig{})
	}

	l := &Logger{
		level:         int32(b.level),
		sink:          s,
		includeCaller: b.includeCaller,
		callerSkip:    b.callerSkip,
	}

	if !b.sync {
		core.StartCoarseClock()
		l.q = queue.New(b.queueCfg, s.Handle)
		l.pool = l.q.Pool()
	}
	return l
}

// Level returns the current minimum level.
func (l *Logger) Level() core.Level {
	return core.Level(atomic.LoadInt32(&l.level))
}

// SetLevel changes the minimum level. Safe to call concurrently with
// logging.
func (l *Logger) SetLevel(level core.Level) {
	atomic.StoreInt32(&l.level, int32(level))
}

// Enabled reports whether a message at the given level would be logged.
func (l *Logger) Enabled(level core.Level) bool {
	return level >= l.Level() && level < core.OffLevel
}

// ok reports whether a message at the given level should be emitted.
// Checked before any allocation or formatting work.
func (l *Logger) ok(level core.Level) bool {
	return l.Enabled(level) && !l.closed.Load()
}

// emit builds and dispatches one entry. Every public logging method
// calls emit directly so that the caller sits a fixed number of frames
// above it.
func (l *Logger) emit(level core.Level, msg string) {
	var file string
	var line int
	if l.includeCaller {
		file, line, _ = core.Caller(l.callerSkip)
	}

	if l.q == nil {
		l.emitSync(level, msg, file, line)
		return
	}

	e := l.pool.Get()
	e.Level = level
	e.SetMessage(msg)
	e.SetTime(core.CoarseTimestamp())
	e.SetFile(file)
	e.Line = line
	if !l.q.Enqueue(e) {
		// Rejected (queue full with drop policy, or stopping).
		l.pool.Put(e)
	}
}

// emitSync writes the entry inline. The entry lives on the stack; the
// sink must not retain it past Handle, which the Sink contract already
// requires.
func (l *Logger) emitSync(level core.Level, msg, file string, line int) {
	var e core.Entry
	e.Reset()
	e.Level = level
	e.SetMessage(msg)
	e.SetTime(core.FormatTimestamp(time.Now()))
	e.SetFile(file)
	e.Line = line
	batch := [1]*core.Entry{&e}
	_ = l.sink.Handle(batch[:])
}

// Log logs a message at the specified level.
func (l *Logger) Log(level core.Level, msg string) {
	if l.ok(level) {
		l.emit(level, msg)
	}
}

// Trace logs a trace message.
func (l *Logger) Trace(msg string) {
	if l.ok(core.TraceLevel) {
		l.emit(core.TraceLevel, msg)
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	if l.ok(core.DebugLevel) {
		l.emit(core.DebugLevel, msg)
	}
}

// Info logs an info message.
func (l *Logger) Info(msg string) {
	if l.ok(core.InfoLevel) {
		l.emit(core.InfoLevel, msg)
	}
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	if l.ok(core.WarnLevel) {
		l.emit(core.WarnLevel, msg)
	}
}

// Error logs an error message.
func (l *Logger) Error(msg string) {
	if l.ok(core.ErrorLevel) {
		l.emit(core.ErrorLevel, msg)
	}
}

// Critical logs a critical message.
func (l *Logger) Critical(msg string) {
	if l.ok(core.CriticalLevel) {
		l.emit(core.CriticalLevel, msg)
	}
}

// Logf logs a formatted message at the specified level. The format
// arguments are not evaluated when the level is disabled.
func (l *Logger) Logf(level core.Level, format string, args ...interface{}) {
	if l.ok(level) {
		l.emit(level, fmt.Sprintf(format, args...))
	}
}

// Tracef logs a formatted trace message.
func (l *Logger) Tracef(format string, args ...interface{}) {
	if l.ok(core.TraceLevel) {
		l.emit(core.TraceLevel, fmt.Sprintf(format, args...))
	}
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.ok(core.DebugLevel) {
		l.emit(core.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.ok(core.InfoLevel) {
		l.emit(core.InfoLevel, fmt.Sprintf(format, args...))
	}
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.ok(core.WarnLevel) {
		l.emit(core.WarnLevel, fmt.Sprintf(format, args...))
	}
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.ok(core.ErrorLevel) {
		l.emit(core.ErrorLevel, fmt.Sprintf(format, args...))
	}
}

// Criticalf logs a formatted critical message.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	if l.ok(core.CriticalLevel) {
		l.emit(core.CriticalLevel, fmt.Sprintf(format, args...))
	}
}

// Flush blocks until every entry accepted before the call has been
// written to the sink, or until the timeout elapses. A timeout <= 0
// uses DefaultFlushTimeout. It returns false on timeout or if the
// logger is closed. If the sink supports durable syncing (the file
// sink does), the buffered data is also synced to stable storage.
func (l *Logger) Flush(timeout time.Duration) bool {
	if l.closed.Load() {
		return false
	}
	if timeout <= 0 {
		timeout = DefaultFlushTimeout
	}
	if l.q != nil && !l.q.Flush(timeout) {
		return false
	}
	if s, ok := l.sink.(interface{ Sync() error }); ok {
		return s.Sync() == nil
	}
	return true
}

// Queue returns the underlying async queue, or nil in synchronous
// mode. Useful for registering the queue with a metrics collector.
func (l *Logger) Queue() *queue.AsyncQueue {
	return l.q
}

// Stats returns a snapshot of the queue and pool counters. In
// synchronous mode all counters are zero.
func (l *Logger) Stats() queue.Stats {
	if l.q == nil {
		return queue.Stats{}
	}
	return l.q.Stats()
}

// Close stops the worker, drains the queue and closes the sink. Logging
// methods called after Close are no-ops. Close is idempotent.
func (l *Logger) Close() error {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		if l.q != nil {
			l.q.Stop()
		}
		l.closeErr = l.sink.Close()
	})
	return l.closeErr
}
