// Package watcher implements vault change watching for cache invalidation.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/facet/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

// shouldSkipDirectories are directories that should not be watched.
var shouldSkipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	".obsidian":    true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher implements vault watching using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
}

// NewWatcher creates a new vault watcher.
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching the given vault root recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range w.watchRecursively(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively walks the vault tree and yields all directories.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Skip unreadable directories rather than aborting the walk.
				return nil //nolint:nilerr
			}
			if d.IsDir() {
				if shouldSkipDirectories[d.Name()] {
					return fs.SkipDir
				}
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

// processEvents converts raw fsnotify events into ports.WatchEvent values.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent := convertEvent(event)
			if watchEvent == nil {
				continue
			}

			select {
			case w.events <- *watchEvent:
			case <-ctx.Done():
				return
			}

			// A newly created directory needs to be watched too.
			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !shouldSkipDirectories[info.Name()] {
					for dir := range w.watchRecursively(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: file system error: %v\n", err)
		}
	}
}

// convertEvent maps an fsnotify event onto a ports.WatchEvent.
func convertEvent(event fsnotify.Event) *ports.WatchEvent {
	var op ports.WatchOp
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		op = ports.OpWrite
	case event.Op&fsnotify.Create == fsnotify.Create:
		op = ports.OpCreate
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		op = ports.OpRemove
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		op = ports.OpRename
	default:
		return nil
	}
	return &ports.WatchEvent{Path: event.Name, Operation: op}
}
