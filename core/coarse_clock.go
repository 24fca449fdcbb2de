package core

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// TimestampLayout is the wall-clock layout stamped into entries. The
// rendered form is 23 bytes and always fits the Entry time buffer.
const TimestampLayout = "2006-01-02 15:04:05.000"

var (
	coarseClockOnce sync.Once
	coarseStamp     unsafe.Pointer // *string
)

// StartCoarseClock starts the background goroutine that caches a
// pre-formatted timestamp every 500µs. It is safe to call multiple
// times; the goroutine is started exactly once and runs for the
// lifetime of the process, which is intentional because logging
// typically spans the entire application lifecycle.
func StartCoarseClock() {
	coarseClockOnce.Do(func() {
		s := time.Now().Format(TimestampLayout)
		atomic.StorePointer(&coarseStamp, unsafe.Pointer(&s))
		go func() {
			ticker := time.NewTicker(500 * time.Microsecond)
			for range ticker.C {
				s := time.Now().Format(TimestampLayout)
				atomic.StorePointer(&coarseStamp, unsafe.Pointer(&s))
			}
		}()
	})
}

// CoarseTimestamp returns the most recently cached timestamp string.
// StartCoarseClock must have been called before using CoarseTimestamp.
func CoarseTimestamp() string {
	return *(*string)(atomic.LoadPointer(&coarseStamp))
}

// FormatTimestamp renders t in TimestampLayout. The synchronous write
// path uses it directly; async producers go through CoarseTimestamp.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
