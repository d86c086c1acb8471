package kvstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch reports keys rewritten by another process until ctx is cancelled.
// Writes made through this FileStore are not reported.
func (f *FileStore) Watch(ctx context.Context, logg *logger.Logger, onChange func(key string)) error {
	if onChange == nil {
		return fmt.Errorf("change handler is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// The document is replaced by rename, so the directory is watched instead of the file.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(f.path), err)
	}

	ctx = logg.WithField(ctx, "storage_file", f.path)
	logg.Info(ctx, "storage.watch_started")

	for {
		select {
		case <-ctx.Done():
			logg.Info(ctx, "storage.watch_stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			keys, err := f.changedKeys()
			if err != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "storage.watch_read_failed")
				continue
			}
			for _, key := range keys {
				logg.Debug(logg.WithStorageKey(ctx, key), "storage.external_change")
				onChange(key)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logg.Error(ctx, "storage.watch_error", err)
		}
	}
}
