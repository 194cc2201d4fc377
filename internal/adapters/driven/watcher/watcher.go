// Package watcher reports changes to the documents directory.
// The index is never updated from here; callers only warn that it is stale.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragbot/internal/core/domain"
)

// Change describes one relevant filesystem event.
type Change struct {
	Path string
	Op   string
}

// Watcher observes a single directory, non-recursively.
type Watcher struct {
	dir      string
	onChange func(Change)
	ignore   map[string]struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithIgnore drops events for the given files, such as the corpus snapshot
// the application writes into the watched directory itself.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if p != "" {
				w.ignore[absPath(p)] = struct{}{}
			}
		}
	}
}

// New creates a watcher for dir. onChange is called from the watch goroutine.
func New(dir string, onChange func(Change), opts ...Option) *Watcher {
	w := &Watcher{dir: dir, onChange: onChange, ignore: make(map[string]struct{})}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Watch blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if change, relevant := w.handleEvent(event); relevant && w.onChange != nil {
				w.onChange(change)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.dir, err)
		}
	}
}

// handleEvent filters events down to changes of ingestible files.
// Hidden files, directories, ignored paths, chmod-only events and
// unsupported formats are dropped.
func (w *Watcher) handleEvent(event fsnotify.Event) (Change, bool) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return Change{}, false
	}
	if _, skip := w.ignore[absPath(event.Name)]; skip {
		return Change{}, false
	}
	if !domain.FormatFromPath(event.Name).IsSupported() {
		return Change{}, false
	}

	var op string
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return Change{}, false
		}
		op = "created"
	case event.Has(fsnotify.Write):
		op = "modified"
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = "removed"
	default:
		return Change{}, false
	}

	return Change{Path: event.Name, Op: op}, true
}
