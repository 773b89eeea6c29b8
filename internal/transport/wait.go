package transport

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// WaitForSocket blocks until the socket at path exists or ctx is done.
// It watches the nearest existing ancestor directory for creations and
// re-anchors as the directory tree fills in, so it works even when the
// compositor's instance directory has not been created yet.
func WaitForSocket(ctx context.Context, path string) error {
	for {
		if _, err := os.Stat(path); err == nil {
			return nil
		}

		dir := nearestExistingDir(filepath.Dir(path))
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return err
		}

		// Re-check after the watch is in place; the socket may have
		// appeared between the Stat and the Add.
		if _, err := os.Stat(path); err == nil {
			watcher.Close()
			return nil
		}
		log.Debug().Str("dir", dir).Str("socket", path).Msg("waiting for event socket")

		if err := awaitCreate(ctx, watcher); err != nil {
			watcher.Close()
			return err
		}
		watcher.Close()
	}
}

// awaitCreate waits for one creation under the watched directory, then
// returns so the caller can re-evaluate the target path.
func awaitCreate(ctx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug().Err(err).Msg("socket watch error")
		}
	}
}

// nearestExistingDir walks up from dir to the first directory that
// exists, ending at the filesystem root.
func nearestExistingDir(dir string) string {
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
