package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"matrixterm/internal/logging"
)

// Watcher reloads the config file when it changes on disk.
// It watches the parent directory so editors that replace the file on save
// are still seen.
type Watcher struct {
	path     string
	onReload func(*Config)
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dirty   time.Time // zero when nothing is pending
	reloads int
	errors  int
}

// NewWatcher creates a watcher for path. onReload receives every config
// that loads and validates; broken edits are logged and skipped.
func NewWatcher(path string, onReload func(*Config)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		onReload: onReload,
		debounce: 200 * time.Millisecond,
		watcher:  fw,
	}, nil
}

// Run watches until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.BootWarn("Config watcher: failed to create %s: %v (continuing anyway)", dir, err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logging.Boot("Config watcher: watching %s", w.path)

	tick := time.NewTicker(w.debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.BootWarn("Config watcher error: %v", err)
			w.mu.Lock()
			w.errors++
			w.mu.Unlock()

		case now := <-tick.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	logging.BootDebug("Config watcher: %s %s", event.Op, event.Name)
	w.mu.Lock()
	w.dirty = time.Now()
	w.mu.Unlock()
}

// flush reloads once no event has arrived for the debounce window.
func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	if w.dirty.IsZero() || now.Sub(w.dirty) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.dirty = time.Time{}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		logging.BootWarn("Config watcher: ignoring invalid config: %v", err)
		w.mu.Lock()
		w.errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	logging.Boot("Config reloaded from %s", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Reloads returns how many times the config was reloaded.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}
