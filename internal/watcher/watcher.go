// Package watcher re-runs validation when source documents change.
// It wraps fsnotify with recursive directory registration and event
// debouncing, so one editor save burst triggers one validation run.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/refcorpus/corpusctl/internal/logger"
)

// DefaultDebounce is the quiet period before a change batch fires.
const DefaultDebounce = 300 * time.Millisecond

// Watcher observes a set of directory trees.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce overrides the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Close releases the underlying OS watches.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Add registers root and all its non-hidden subdirectories.
func (w *Watcher) Add(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Run blocks, invoking onBatch with a sorted, de-duplicated set of
// changed paths after each debounced burst. Returns when ctx is done
// or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context, onBatch func(paths []string)) error {
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			// New directories must be registered to keep the watch
			// recursive.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.Add(ev.Name)
				}
			}
			if !Relevant(ev.Name) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
				!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-fire:
			batch := Coalesce(pending)
			pending = make(map[string]struct{})
			fire = nil
			onBatch(batch)
		}
	}
}

// Relevant reports whether a changed path should trigger revalidation:
// markdown sources, the taxonomy/schema JSON, or the TOML config.
func Relevant(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".json", ".toml":
		return !strings.HasPrefix(filepath.Base(path), ".")
	default:
		return false
	}
}

// Coalesce turns a pending set into a sorted batch.
func Coalesce(pending map[string]struct{}) []string {
	out := make([]string, 0, len(pending))
	for p := range pending {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
