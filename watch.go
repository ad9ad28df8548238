package glimmer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of events editors produce on save.
const reloadDebounce = 100 * time.Millisecond

// WatchConfig reloads the config file at path whenever it changes and passes
// each valid result to fn. It blocks until ctx is done. Invalid files are
// logged and skipped, so a half-saved edit never reaches fn.
//
// The containing directory is watched rather than the file so editors that
// save by renaming a temp file over it are still seen.
func WatchConfig(ctx context.Context, path string, fn func(Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("glimmer: watch config: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("glimmer: watch config: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("glimmer: watch config: %w", err)
	}

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(reloadDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			Logger().Warn("glimmer: config watcher", "err", err)
		case <-timer.C:
			cfg, err := LoadConfig(abs)
			if err != nil {
				Logger().Warn("glimmer: config reload rejected", "path", abs, "err", err)
				continue
			}
			fn(cfg)
		}
	}
}
