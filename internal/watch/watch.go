// Package watch monitors README and API model directories and reports which
// packages changed, debounced.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Source identifies which content tree a change belongs to.
type Source string

const (
	SourceReadme Source = "readme"
	SourceModel  Source = "model"
)

// DefaultDebounce is used when no positive debounce is configured.
const DefaultDebounce = 300 * time.Millisecond

// Change lists the packages touched during one debounce window, per source.
type Change struct {
	Readme []string
	Model  []string
}

// IsEmpty reports whether nothing changed.
func (c Change) IsEmpty() bool { return len(c.Readme) == 0 && len(c.Model) == 0 }

// Handler receives debounced changes.
type Handler func(ctx context.Context, c Change)

// Watcher watches content roots and their package subdirectories.
type Watcher struct {
	roots    map[string]Source
	debounce time.Duration
	handler  Handler
	logger   *slog.Logger
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[Source]map[string]struct{}
	timer   *time.Timer
}

// New creates a Watcher over the given roots. Roots that do not exist are
// skipped with a warning when Run starts.
func New(roots map[Source]string, debounce time.Duration, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: handler is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		roots:    make(map[string]Source, len(roots)),
		debounce: debounce,
		handler:  handler,
		logger:   logger,
		fsw:      fsw,
		pending:  make(map[Source]map[string]struct{}),
	}
	for src, dir := range roots {
		abs, err := filepath.Abs(dir)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s directory: %w", src, err)
		}
		w.roots[abs] = src
	}
	return w, nil
}

// Run watches until ctx is canceled. Pending changes are dropped on exit.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	for root, src := range w.roots {
		if err := w.addTree(root); err != nil {
			w.logger.Warn("Content directory not watched",
				logfields.Path(root),
				slog.String("source", string(src)),
				logfields.Error(err))
			continue
		}
		w.logger.Info("Watching content directory", logfields.Path(root), slog.String("source", string(src)))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}
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

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
			}
		}
	}
	src, pkg, ok := w.classify(ev.Name)
	if !ok {
		return
	}
	w.logger.Debug("Content change detected",
		logfields.Path(ev.Name),
		logfields.Package(pkg),
		slog.String("op", ev.Op.String()))
	w.schedule(ctx, src, pkg)
}

// classify maps a path to its source and package (the first path element
// below the root). The innermost root containing path wins.
func (w *Watcher) classify(path string) (Source, string, bool) {
	var best, rel string
	for root := range w.roots {
		r, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(r, "..") {
			continue
		}
		if len(root) > len(best) {
			best, rel = root, r
		}
	}
	if best == "" || rel == "." {
		return "", "", false
	}
	pkg, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	if pkg == "" || strings.HasPrefix(pkg, ".") {
		return "", "", false
	}
	return w.roots[best], pkg, true
}

func (w *Watcher) schedule(ctx context.Context, src Source, pkg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	set, ok := w.pending[src]
	if !ok {
		set = make(map[string]struct{})
		w.pending[src] = set
	}
	set[pkg] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	change := Change{
		Readme: sortedKeys(w.pending[SourceReadme]),
		Model:  sortedKeys(w.pending[SourceModel]),
	}
	w.pending = make(map[Source]map[string]struct{})
	w.timer = nil
	w.mu.Unlock()

	if change.IsEmpty() || ctx.Err() != nil {
		return
	}
	w.handler(ctx, change)
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
