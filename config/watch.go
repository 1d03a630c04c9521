package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// pollInterval is the fallback cadence when fsnotify is unavailable.
const pollInterval = 100 * time.Millisecond

// Watch follows the configuration file and sends a freshly resolved Config
// whenever it changes. Overrides are re-applied on every reload. Files that
// fail to load are logged at Warn and skipped, keeping the last good Config
// in effect. The channel is closed when the context is cancelled.
// Uses fsnotify for efficient file watching with polling fallback.
func Watch(ctx context.Context, path string, overrides ...Override) (<-chan Config, error) {
	// Initial load validates the path before any watching starts.
	cfg, err := Load(path, overrides...)
	if err != nil {
		return nil, err
	}

	ch := make(chan Config, 1)
	ch <- cfg

	go func() {
		defer close(ch)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			watchPolling(ctx, ch, path, overrides)
			return
		}
		defer watcher.Close()

		// Watch the directory (more reliable than watching the file
		// directly across editor rename-and-replace saves).
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			watchPolling(ctx, ch, path, overrides)
			return
		}

		watchWithWatcher(ctx, ch, watcher, path, overrides)
	}()

	return ch, nil
}

func watchWithWatcher(ctx context.Context, ch chan<- Config, watcher *fsnotify.Watcher, path string, overrides []Override) {
	baseName := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			reload(ctx, ch, path, overrides)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			// Usually recoverable; keep watching.
			slog.Debug("config watch error", "error", err)
		}
	}
}

func watchPolling(ctx context.Context, ch chan<- Config, path string, overrides []Override) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastMod time.Time
	if info, err := os.Stat(path); err == nil {
		lastMod = info.ModTime()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()
			reload(ctx, ch, path, overrides)
		}
	}
}

func reload(ctx context.Context, ch chan<- Config, path string, overrides []Override) {
	cfg, err := Load(path, overrides...)
	if err != nil {
		slog.Warn("config reload failed, keeping previous", "path", path, "error", err)
		return
	}
	select {
	case ch <- cfg:
	case <-ctx.Done():
	}
}
