// Package watcher reports changes to transcript files.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jamesainslie/dirtally/pkg/dirtally/logging"
)

// DefaultDebounce coalesces the bursts of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches individual files. fsnotify watches the parent directory
// so that files replaced by rename-on-save keep being tracked.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	debounce time.Duration
	mu       sync.RWMutex
	closed   bool
}

// New creates a Watcher. A debounce of zero reports every event.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		debounce: debounce,
	}, nil
}

// Watch starts watching path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			logging.Get("watcher").Warn("failed to add watch", "path", dir, "error", err)
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	return nil
}

// Files returns the watched file paths.
func (w *Watcher) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	return files
}

// Run starts the event loop and blocks until ctx is cancelled or the
// watcher is closed. onChange is called with the absolute path of a watched
// file after it has been written or (re)created.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) {
	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	flush := func() {
		for path := range pending {
			onChange(path)
			delete(pending, path)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			path, relevant := w.relevant(event)
			if !relevant {
				continue
			}
			logging.Get("watcher").Debug("transcript changed", "path", path, "op", event.Op.String())

			pending[path] = true
			if w.debounce <= 0 {
				flush()
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get("watcher").Error("watcher error", "error", err)
		}
	}
}

// relevant filters events down to writes and creates of watched files.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return abs, w.files[abs]
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
