package internal

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchConfiguration reloads the configuration file at path whenever it is
// written or replaced and passes the new configuration to onChange. A file
// that fails to load is logged and the previous configuration stays in
// effect. It runs until ctx is cancelled.
//
// The parent directory is watched rather than the file, so a save that
// renames a new file over path keeps being seen.
func WatchConfiguration(ctx context.Context, path string, onChange func(*Configuration)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			c, err := LoadConfiguration(path)
			if err != nil {
				slog.Error("config: reload failed, keeping previous configuration",
					"path", path, "err", err)
				continue
			}

			SetConfiguration(c)
			slog.Info("config: reloaded", "path", path)
			if onChange != nil {
				onChange(c)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
