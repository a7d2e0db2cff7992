// internal/repo/watcher.go
package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchEvent is one observed working-tree change.
type WatchEvent struct {
	Path string
	Op   string // create, write, remove, rename
}

// Watcher reports live working-tree changes for non-ignored paths. It
// never mutates the repository; it only observes.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	events  chan WatchEvent
	done    chan struct{}
}

// NewWatcher watches the repository's working tree, recursively adding
// every non-ignored directory. Events are delivered on Events until Close.
func (r *Repository) NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		root:    r.Root,
		watcher: fsw,
		logger:  r.Logger,
		events:  make(chan WatchEvent, 64),
		done:    make(chan struct{}),
	}

	err = filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(r.Root, path)
		if err != nil {
			return nil
		}
		if shouldIgnore(filepath.ToSlash(relPath)) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching working tree: %w", err)
	}

	go w.loop()
	return w, nil
}

// Events delivers working-tree changes until the watcher is closed.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

func (w *Watcher) loop() {
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	relPath, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	relPath = filepath.ToSlash(relPath)
	if shouldIgnore(relPath) {
		return
	}

	var op string
	switch {
	case event.Has(fsnotify.Create):
		op = "create"
		// New directories must join the watch set to keep coverage
		// recursive.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Error("adding new directory to watcher", zap.Error(err))
			}
		}
	case event.Has(fsnotify.Write):
		op = "write"
	case event.Has(fsnotify.Remove):
		op = "remove"
	case event.Has(fsnotify.Rename):
		op = "rename"
	default:
		return
	}

	select {
	case w.events <- WatchEvent{Path: relPath, Op: op}:
	case <-w.done:
	}
}

// Close stops the watcher and drains its event stream.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
