package suite

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fjglira/storeflow/internal/domain"
)

// DefaultDebounce is how long a file must stay quiet before it is reloaded.
const DefaultDebounce = 200 * time.Millisecond

// ChangeEvent is emitted when a scenario file was written.
type ChangeEvent struct {
	Path      string
	Scenarios []domain.Scenario
	Err       error
}

// Watcher reloads scenario files as they change on disk.
type Watcher struct {
	suite    *Suite
	dirs     []string
	watcher  *fsnotify.Watcher
	events   chan ChangeEvent
	debounce time.Duration
}

// NewWatcher creates a watcher over dirs and their subdirectories.
func (s *Suite) NewWatcher(dirs []string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		suite:    s,
		dirs:     dirs,
		watcher:  fsWatcher,
		events:   make(chan ChangeEvent, 10),
		debounce: debounce,
	}, nil
}

// Events returns the channel of change events. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan ChangeEvent {
	return w.events
}

// Start adds the watched directories and begins processing events.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.dirs {
		if err := w.addTree(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	go w.run(ctx)
	return nil
}

// Stop closes the underlying watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) addTree(root string) error {
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
		return w.watcher.Add(path)
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.events)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.suite.log.Warnf("Failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}
			if _, err := w.suite.registry.ParserFor(filepath.Ext(event.Name)); err != nil {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending[event.Name] = time.Now()
			} else if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				delete(pending, event.Name)
				w.suite.log.Infof("Scenario file removed: %s", event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if !w.emit(ctx, ChangeEvent{Err: err}) {
				return
			}

		case <-ticker.C:
			now := time.Now()
			for path, at := range pending {
				if now.Sub(at) < w.debounce {
					continue
				}
				delete(pending, path)
				scenarios, err := w.suite.LoadFile(path)
				if !w.emit(ctx, ChangeEvent{Path: path, Scenarios: scenarios, Err: err}) {
					return
				}
			}
		}
	}
}

func (w *Watcher) emit(ctx context.Context, ev ChangeEvent) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
