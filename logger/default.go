package logger

import (
	"sync"
	"time"

	"github.com/mbraunert/asynclog/core"
	"github.com/mbraunert/asynclog/formatter"
	"github.com/mbraunert/asynclog/sink"
)

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

func init() {
	// Initialize default logger with an async console sink
	s := sink.NewConsoleSink(sink.ConsoleConfig{
		Formatter: formatter.NewTextFormatter(),
	})

	defaultLogger = NewBuilder().
		WithSink(s).
		WithLevel(core.InfoLevel).
		Build()
}

// Default returns the default logger
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Package-level convenience functions using the default logger

// Trace logs a trace message using the default logger
func Trace(msg string) {
	Default().Trace(msg)
}

// Debug logs a debug message using the default logger
func Debug(msg string) {
	Default().Debug(msg)
}

// Info logs an info message using the default logger
func Info(msg string) {
	Default().Info(msg)
}

// Warn logs a warning message using the default logger
func Warn(msg string) {
	Default().Warn(msg)
}

// Error logs an error message using the default logger
func Error(msg string) {
	Default().Error(msg)
}

// Critical logs a critical message using the default logger
func Critical(msg string) {
	Default().Critical(msg)
}

// Tracef logs a formatted trace message using the default logger
func Tracef(format string, args ...interface{}) {
	Default().Tracef(format, args...)
}

// Debugf logs a formatted debug message using the default logger
func Debugf(format string, args ...interface{}) {
	Default().Debugf(format, args...)
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) {
	Default().Infof(format, args...)
}

// Warnf logs a formatted warning message using the default logger
func Warnf(format string, args ...interface{}) {
	Default().Warnf(format, args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	Default().Errorf(format, args...)
}

// Criticalf logs a formatted critical message using the default logger
func Criticalf(format string, args ...interface{}) {
	Default().Criticalf(format, args...)
}

// Flush flushes the default logger
func Flush(timeout time.Duration) bool {
	return Default().Flush(timeout)
}
