// Package watch reports external writes to the timeline database.
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nickpending/pullfeed/internal/debounce"
)

// DefaultDelay coalesces the burst of writes a single commit produces.
const DefaultDelay = 350 * time.Millisecond

// Watcher calls onChange, debounced, whenever the database or its WAL is
// written.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	debounce *debounce.Debouncer
	dbPath   string
	done     chan struct{}
	closed   bool
}

// Start watches the directory holding dbPath. onChange runs on a timer
// goroutine; callers must hand it to their own event loop.
func Start(dbPath string, delay time.Duration, onChange func()) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	dir := filepath.Dir(dbPath)
	slog.Debug("adding path to FS watcher", slog.String("path", dir))
	if err := fs.Add(dir); err != nil {
		err := errors.Join(err, fs.Close())
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:       fs,
		debounce: debounce.New(delay, onChange),
		dbPath:   filepath.Clean(dbPath),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !relevant(w.dbPath, ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.trigger()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.debounce.Trigger()
}

// Close stops watching and drops any pending callback.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.debounce.Stop()
	w.mu.Unlock()

	err := w.fs.Close()
	<-w.done
	return err
}

// relevant reports whether name is the database or its write-ahead log.
// Shared-memory and rollback journal files change on reads too.
func relevant(dbPath, name string) bool {
	name = filepath.Clean(name)
	if name == dbPath {
		return true
	}
	suffix, ok := strings.CutPrefix(name, dbPath)
	if !ok {
		return false
	}
	return suffix == "-wal"
}
