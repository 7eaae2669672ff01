// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when files matching declaration patterns
// change.
//
// Each doublestar pattern is split into a static base directory and a glob.
// The base directories are watched recursively with fsnotify, and events
// for matching paths are coalesced until Debounce passes without new events.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period used when Config.Debounce is not positive.
const defaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns are doublestar globs such as "graphs/**/*.cue". Relative
		// patterns are resolved against the working directory.
		Patterns []string

		// Debounce is the quiet period after the last event before OnChange fires.
		Debounce time.Duration

		// OnChange receives the sorted absolute paths that changed. Its error
		// is logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error
	}

	// Watcher monitors the base directories of its patterns. Run must be
	// called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns []string
		roots    []string
		debounce time.Duration
		started  atomic.Bool
	}
)

// New validates the patterns and registers their base directories.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Patterns) == 0 {
		return nil, errors.New("watch: no patterns")
	}

	w := &Watcher{cfg: cfg, debounce: cfg.Debounce}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}

	for _, pattern := range cfg.Patterns {
		abs, err := filepath.Abs(pattern)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve pattern %q: %w", pattern, err)
		}
		if !doublestar.ValidatePathPattern(abs) {
			return nil, fmt.Errorf("watch: invalid pattern %q", pattern)
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(abs))
		w.patterns = append(w.patterns, abs)
		w.roots = append(w.roots, filepath.FromSlash(base))
	}
	slices.Sort(w.roots)
	w.roots = slices.Compact(w.roots)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	for _, root := range w.roots {
		if err := w.addTree(root, nil); err != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, err
		}
	}
	return w, nil
}

// Roots returns the directories being watched recursively.
func (w *Watcher) Roots() []string {
	return slices.Clone(w.roots)
}

// Run processes events until ctx is canceled. OnChange is called from the
// Run goroutine, so events arriving while it runs are handled afterwards.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.fsw.Close() //nolint:errcheck // nothing to report after shutdown

	logger := log.FromContext(ctx)
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Create) {
				if existing := w.maybeAddDir(evt.Name, logger); len(existing) > 0 {
					for _, path := range existing {
						pending[path] = struct{}{}
					}
					timer.Reset(w.debounce)
				}
			}
			if evt.Has(fsnotify.Chmod) || !w.matches(evt.Name) {
				continue
			}
			pending[evt.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			logger.Warn("watch: fsnotify error", "err", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			slices.Sort(changed)
			clear(pending)

			logger.Debug("declarations changed", "paths", changed)
			if w.cfg.OnChange != nil {
				if err := w.cfg.OnChange(ctx, changed); err != nil {
					logger.Error("watch: callback failed", "err", err)
				}
			}
		}
	}
}

// addTree registers root and every directory below it. When found is not
// nil it receives every file under root that matches a pattern.
func (w *Watcher) addTree(root string, found func(path string)) error {
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil //nolint:nilerr // unreadable subdirectories are not watched
		}
		if !d.IsDir() {
			if found != nil && w.matches(path) {
				found(path)
			}
			return nil
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk %q: %w", root, walkErr)
	}
	return nil
}

// maybeAddDir extends the watch to a directory created after New. Files
// already inside it raised no events of their own, so matching ones are
// returned as changed.
func (w *Watcher) maybeAddDir(path string, logger *log.Logger) []string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}
	var existing []string
	if err := w.addTree(path, func(p string) { existing = append(existing, p) }); err != nil {
		logger.Warn("watch: cannot watch new directory", "path", path, "err", err)
	}
	return existing
}

// matches reports whether path matches at least one pattern.
func (w *Watcher) matches(path string) bool {
	for _, pattern := range w.patterns {
		if ok, err := doublestar.PathMatch(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
