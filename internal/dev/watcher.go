package dev

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeType represents the role of a changed file.
type ChangeType int

const (
	ChangeTemplate ChangeType = iota
	ChangeData
	ChangeConfig
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTemplate:
		return "template"
	case ChangeData:
		return "data"
	case ChangeConfig:
		return "config"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(t))
	}
}

// Change represents a detected file change.
type Change struct {
	Path    string
	Type    ChangeType
	Removed bool
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Files maps the paths to watch to their role.
	Files map[string]ChangeType

	// Debounce is the quiet period after the last event before the
	// callback runs.
	Debounce time.Duration

	Logger *slog.Logger
}

// DefaultDebounce is used when WatcherConfig.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors a fixed set of files for changes.
type Watcher struct {
	config   WatcherConfig
	files    map[string]ChangeType
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	onChange func([]Change)

	mu      sync.Mutex
	pending map[string]Change
	timer   *time.Timer
	running bool
	stopCh  chan struct{}
	stopped sync.Once
}

// NewWatcher creates a watcher for config.Files. Paths are made absolute.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	files := make(map[string]ChangeType, len(config.Files))
	for p, t := range config.Files {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		files[abs] = t
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	for _, dir := range parentDirs(files) {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	return &Watcher{
		config:  config,
		files:   files,
		fsw:     fsw,
		logger:  logger.With("component", "watcher"),
		pending: make(map[string]Change),
		stopCh:  make(chan struct{}),
	}, nil
}

// OnChange sets the callback for debounced changes. Changes are sorted
// by path.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start processes events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.Stop()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Stop releases the underlying watcher. Pending changes are dropped.
func (w *Watcher) Stop() {
	w.stopped.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		_ = w.fsw.Close()
	})
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	typ, ok := w.files[path]
	if !ok || ev.Op == fsnotify.Chmod {
		return
	}
	removed := ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && ev.Op&(fsnotify.Create|fsnotify.Write) == 0

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = Change{Path: path, Type: typ, Removed: removed}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.config.Debounce, w.fire)
	} else {
		w.timer.Reset(w.config.Debounce)
	}
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changes := make([]Change, 0, len(w.pending))
	for _, c := range w.pending {
		changes = append(changes, c)
	}
	w.pending = make(map[string]Change)
	callback := w.onChange
	w.mu.Unlock()

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	w.logger.Debug("files changed", "count", len(changes))
	if callback != nil {
		callback(changes)
	}
}

func parentDirs(files map[string]ChangeType) []string {
	seen := make(map[string]bool)
	var dirs []string
	for p := range files {
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}
