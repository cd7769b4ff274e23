// Package watch re-runs route generation when Rust sources or manifests change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a burst of events triggers a
// regeneration.
const DefaultDebounce = 300 * time.Millisecond

// DefaultPatterns select the files whose changes can alter generated routes.
var DefaultPatterns = []string{"**/*.rs", "**/Cargo.toml"}

var defaultIgnores = []string{
	"target",
	"**/target/**",
	".git",
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.#*",
}

// Config holds the parameters for a Watcher.
type Config struct {
	// Root is the workspace directory watched recursively.
	Root string
	// Patterns default to DefaultPatterns.
	Patterns []string
	// Ignore is merged with the built-in ignores (target, .git, swap files).
	Ignore   []string
	Debounce time.Duration
	// OnChange receives the changed paths relative to Root, sorted.
	OnChange func(ctx context.Context, changed []string) error
}

// Watcher fires a debounced callback when matching files change. Run may be
// called once.
type Watcher struct {
	cfg      Config
	root     string
	patterns []string
	ignores  []string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	started  atomic.Bool
}

// New validates cfg and registers every non-ignored directory under Root.
func New(cfg Config) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	ignores := append(slices.Clone(defaultIgnores), cfg.Ignore...)

	for _, pattern := range append(slices.Clone(patterns), ignores...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid watch pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		root:     root,
		patterns: patterns,
		ignores:  ignores,
		debounce: debounce,
		fsw:      fsw,
	}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled. Callbacks never overlap: events that
// arrive while one runs are delivered in the next invocation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watcher already running")
	}

	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Debug("Failed to close fsnotify watcher", "error", err)
		}
	}()

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}

		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()

			return
		}
		defer running.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}

		if err := w.cfg.OnChange(ctx, changed); err != nil {
			slog.Error("Regeneration failed", "error", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("fsnotify event channel closed")
			}

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			rel, ok := w.relevant(evt.Name)
			if !ok {
				continue
			}

			slog.Debug("Change detected", "path", rel, "op", evt.Op.String())

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("fsnotify error channel closed")
			}

			slog.Warn("fsnotify error", "error", err)
		}
	}
}

// relevant maps an event path to its root-relative form when it matches a
// watch pattern and no ignore pattern.
func (w *Watcher) relevant(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}

	rel = filepath.ToSlash(rel)
	if matchAny(w.ignores, rel) {
		return "", false
	}

	return rel, matchAny(w.patterns, rel)
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			slog.Debug("Skipping inaccessible path", "path", path, "error", walkErr)
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if path != w.root && w.ignoredDir(path) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("register watch directories: %w", err)
	}

	return nil
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.ignoredDir(path) {
		return
	}

	if err := w.addTree(path); err != nil {
		slog.Warn("Failed to watch new directory", "path", path, "error", err)
	}
}

func (w *Watcher) ignoredDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return true
	}

	rel = filepath.ToSlash(rel)

	return matchAny(w.ignores, rel) || matchAny(w.ignores, rel+"/")
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}

	return false
}
