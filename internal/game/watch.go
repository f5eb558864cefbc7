package game

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to rule files under one directory.
type Watcher struct {
	Dir      string
	onChange func(string) // called with path that changed
	watcher  *fsnotify.Watcher
	log      *slog.Logger
}

// NewWatcher watches dir for YAML changes. The directory must exist.
func NewWatcher(dir string, log *slog.Logger, onChange func(string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{Dir: dir, onChange: onChange, watcher: fw, log: log}, nil
}

// WatchLoader invalidates the loader's cache whenever a rule file changes.
func WatchLoader(l *Loader, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	return NewWatcher(l.paths.GamesDir(), log, func(path string) {
		log.Info("rules changed, invalidating cache", "path", path)
		l.Invalidate()
	})
}

// Run delivers change events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			if w.onChange != nil {
				w.onChange(ev.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", "err", err)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ext := filepath.Ext(ev.Name); ext != ".yaml" && ext != ".yml" {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
