package config

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch reloads the config file at path whenever it changes and sends each
// successfully parsed Patch on the returned channel. The directory is
// watched so editors that replace the file are seen. The channel closes
// when stop is closed or the watcher fails.
func Watch(path string, stop <-chan struct{}, logger *slog.Logger) (<-chan Patch, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	patches := make(chan Patch, 1)
	target := filepath.Clean(path)

	go func() {
		defer watcher.Close()
		defer close(patches)

		var debounce *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-stop:
				if debounce != nil {
					debounce.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.NewTimer(watchDebounce)
				fire = debounce.C

			case <-fire:
				fire = nil
				p, err := LoadFrom(path)
				if err != nil {
					logger.Warn("config reload failed, keeping previous config", "path", path, "err", err)
					continue
				}
				select {
				case patches <- p:
				case <-stop:
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "err", err)
			}
		}
	}()

	return patches, nil
}
