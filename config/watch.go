package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk. Editors often
// replace files by rename, so the parent directory is watched and
// events are filtered to the target name.
type Watcher struct {
	path string
	fn   func(Config, error)

	fsw       *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// Watch starts watching path and invokes fn for every reload attempt,
// with the parse error if the new contents are invalid. fn is called
// from the watcher goroutine.
func Watch(path string, fn func(Config, error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := DetectFormat(abs); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path: abs,
		fn:   fn,
		fsw:  fsw,
		done: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.fn(Load(w.path))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.fn(Config{}, err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
