// Package watch reloads the theme when its file changes on disk, the
// hot-reload path behind ClearCaches.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

// ThemeWatcher watches a configuration file and invokes a callback after
// writes settle. Editors often emit several events per save, so callbacks
// are debounced.
type ThemeWatcher struct {
	logger   ports.Logger
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewThemeWatcher creates a watcher with the given settle window.
func NewThemeWatcher(logger ports.Logger, debounce time.Duration) *ThemeWatcher {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &ThemeWatcher{logger: logger, debounce: debounce}
}

// Watch starts watching path and calls onChange after each settled write.
// Only one watch may be active; Close stops it.
func (w *ThemeWatcher) Watch(path string, onChange func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return zerr.New("theme watcher already active")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}

	// Watch the directory: editors that replace the file on save would
	// otherwise detach a direct file watch.
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
	}

	w.watcher = fw
	w.done = make(chan struct{})
	go w.loop(fw, filepath.Clean(path), onChange, w.done)
	return nil
}

func (w *ThemeWatcher) loop(fw *fsnotify.Watcher, path string, onChange func(), done chan struct{}) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.logger.Debug("theme file changed, reloading", "path", path)
			onChange()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		case <-done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Close stops the active watch. Safe to call repeatedly.
func (w *ThemeWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	close(w.done)
	err := w.watcher.Close()
	w.watcher = nil
	w.done = nil
	if err != nil {
		return zerr.Wrap(err, "failed to close file watcher")
	}
	return nil
}
