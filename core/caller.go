package core

import (
	"path/filepath"
	"runtime"
)

// Caller reports the source location skip frames above the caller of
// Caller itself. The file name is the base name only, since the full
// path rarely fits the entry's file buffer and adds little.
func Caller(skip int) (file string, line int, ok bool) {
	_, f, l, ok := runtime.Caller(skip)
	if !ok {
		return "", 0, false
	}
	return filepath.Base(f), l, true
}
