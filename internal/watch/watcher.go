// Package watch re-runs an analysis when a model file or a watched source
// tree changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/mood/pkg/config"
	"github.com/panbanda/mood/pkg/extract"
	slogctx "github.com/veqryn/slog-context"
)

// DefaultDebounce is used when NewWatcher is given a non-positive debounce.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors model files and source directories and calls back with
// the batch of paths that settled during the debounce window.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	files     map[string]bool
	dirs      []string
	callback  func(changed []string)
	out       io.Writer
	mu        sync.Mutex
	pending   map[string]time.Time
}

// NewWatcher creates a watcher for the given targets. A file target is
// watched on its own (its directory is subscribed so that editors that
// replace the file on save are still seen); a directory target is watched
// recursively for supported source files.
func NewWatcher(targets []string, cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("nothing to watch")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  debounce,
		files:     make(map[string]bool),
		out:       os.Stderr,
		pending:   make(map[string]time.Time),
	}

	for _, target := range targets {
		abs, err := filepath.Abs(target)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, abs)
		} else {
			w.files[abs] = true
		}
	}

	return w, nil
}

// SetCallback sets the function to call when watched files change.
func (w *Watcher) SetCallback(cb func(changed []string)) {
	w.callback = cb
}

// SetOutput redirects the status lines printed around each callback.
func (w *Watcher) SetOutput(out io.Writer) {
	w.out = out
}

// Start subscribes to every target and processes events until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	for file := range w.files {
		if err := w.fsWatcher.Add(filepath.Dir(file)); err != nil {
			return fmt.Errorf("watch %s: %w", file, err)
		}
	}
	for _, dir := range w.dirs {
		if err := w.addTree(dir); err != nil {
			return err
		}
	}

	fmt.Fprintln(w.out, color.CyanString("Watching %s for changes...", strings.Join(w.targets(), ", ")))
	fmt.Fprintln(w.out, color.CyanString("Press Ctrl+C to stop"))

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			slogctx.Warn(ctx, "watch error", "err", err)
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && slices.Contains(w.config.Exclude.Dirs, d.Name()) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

// handleEvent records a relevant change. New directories under a watched
// tree are subscribed as they appear.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	path := filepath.Clean(event.Name)

	if event.Op&fsnotify.Create != 0 && w.underDir(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !slices.Contains(w.config.Exclude.Dirs, info.Name()) {
				_ = w.addTree(path)
			}
			return
		}
	}

	if !w.relevant(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	if !w.underDir(path) {
		return false
	}
	if w.config.ShouldExclude(path) {
		return false
	}
	return extract.DetectLanguage(path) != extract.LangUnknown
}

func (w *Watcher) underDir(path string) bool {
	for _, dir := range w.dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// processDebounced flushes settled changes every 100ms.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending runs the callback once with every path that has been
// quiet for the debounce period. Callbacks never overlap.
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, lastMod := range w.pending {
		if now.Sub(lastMod) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if len(ready) == 0 || w.callback == nil {
		return
	}
	slices.Sort(ready)
	w.runCallback(ready)
}

func (w *Watcher) runCallback(changed []string) {
	names := make([]string, len(changed))
	for i, path := range changed {
		names[i] = w.display(path)
	}

	fmt.Fprintln(w.out, color.YellowString("\nChanged: %s", strings.Join(names, ", ")))
	fmt.Fprintln(w.out, strings.Repeat("-", 40))

	w.callback(changed)

	fmt.Fprintln(w.out)
}

func (w *Watcher) display(path string) string {
	for _, dir := range w.dirs {
		if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return filepath.Base(path)
}

func (w *Watcher) targets() []string {
	out := make([]string, 0, len(w.files)+len(w.dirs))
	for file := range w.files {
		out = append(out, file)
	}
	out = append(out, w.dirs...)
	slices.Sort(out)
	return out
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedFiles returns the directories currently subscribed.
func (w *Watcher) WatchedFiles() []string {
	return w.fsWatcher.WatchList()
}
