package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// CacheWatcher logs cache entries appearing or disappearing on disk
// while the server runs. The cache has no eviction of its own, so
// out-of-band pruning is expected; this makes it visible.
type CacheWatcher struct {
	dir     string
	watcher *fsnotify.Watcher
	logger  *log.Logger
}

func NewCacheWatcher(dir string, logger *log.Logger) (*CacheWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch cache directory: %w", err)
	}

	return &CacheWatcher{dir: dir, watcher: watcher, logger: logger}, nil
}

// Run blocks until ctx is done. Watch errors are logged, never fatal.
func (w *CacheWatcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".txt") {
				continue
			}
			switch {
			case event.Op&fsnotify.Create != 0:
				w.logger.Debug("cache entry created", "path", event.Name)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.logger.Info("cache entry removed", "path", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("cache watch error", "err", err)
		}
	}
}
