package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// alwaysSkipped are directories that are never watched.
var alwaysSkipped = []string{".git", ".jj"}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	logger    ports.Logger
	fsWatcher *fsnotify.Watcher
	root      string
	skip      []string
	events    chan ports.WatchEvent
	done      chan struct{}
	stopOnce  sync.Once
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	return &Watcher{
		logger:    logger,
		fsWatcher: watcher,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching root recursively. Directories named in skip, either by
// base name or by root-relative path, are left out together with their subtrees.
func (w *Watcher) Start(ctx context.Context, root string, skip []string) error {
	w.root = filepath.Clean(root)
	w.skip = append(slices.Clone(alwaysSkipped), skip...)

	for dir := range w.watchRecursively(w.root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// Events returns an iterator of file system events. It ends when the watcher
// stops or the context given to Start is done.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively walks the directory tree and yields all watched directories.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Keep walking past directories that vanished or cannot be read.
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if w.shouldSkip(path) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkip reports whether path lies in a skipped directory.
func (w *Watcher) shouldSkip(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, s := range w.skip {
		if filepath.Base(path) == s || rel == s {
			return true
		}
	}
	return false
}

// isIgnored reports whether an event path lies below a skipped directory.
func (w *Watcher) isIgnored(path string) bool {
	for dir := filepath.Dir(path); len(dir) > len(w.root); dir = filepath.Dir(dir) {
		if w.shouldSkip(dir) {
			return true
		}
	}
	return w.shouldSkip(path)
}

// processEvents converts raw fsnotify events to ports.WatchEvent.
//
//nolint:cyclop // one case per fsnotify channel
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.isIgnored(event.Name) {
				continue
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			case <-w.done:
				return
			}

			// New directories are watched together with their subtrees.
			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for dir := range w.watchRecursively(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error: " + err.Error())
		}
	}
}

// convertEvent converts an fsnotify event to a ports.WatchEvent. Chmod-only
// events are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	switch {
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpWrite}, true
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpCreate}, true
	case event.Has(fsnotify.Remove):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRemove}, true
	case event.Has(fsnotify.Rename):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRename}, true
	default:
		return ports.WatchEvent{}, false
	}
}
