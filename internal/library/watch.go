package library

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"reelsync/internal/logging"
)

// DefaultSettle is how long the share must stay quiet before a change fires.
const DefaultSettle = 5 * time.Second

// WatchOptions configures Watch.
type WatchOptions struct {
	Extensions []string
	Settle     time.Duration
	Logger     *slog.Logger
}

// Watch monitors root recursively and calls onChange once the share has been
// quiet for Settle after a relevant change. New directories are watched as they
// appear. Watch blocks until ctx is done; onChange errors are logged and do not
// stop the watch.
func Watch(ctx context.Context, root string, opts WatchOptions, onChange func(context.Context) error) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, root, logger); err != nil {
		return err
	}
	logger.Info("watching nas share", logging.String("root", root), logging.Duration("settle", settle))

	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, exts) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, event.Name, logger); err != nil {
						logging.WarnWithContext(logger, "watch new directory failed", "nas_watch_add_failed",
							logging.String("path", event.Name),
							logging.Error(err),
							logging.String(logging.FieldErrorHint, "check directory permissions"),
							logging.String(logging.FieldImpact, "changes in this directory are not detected"),
						)
					}
				}
			}
			logger.Debug("nas change", logging.String("path", event.Name), logging.String("op", event.Op.String()))
			timer.Reset(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(logger, "nas watch error", "nas_watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "the share may have been unmounted"),
				logging.String(logging.FieldImpact, "some changes may be missed"),
			)
		case <-timer.C:
			if err := onChange(ctx); err != nil {
				logging.ErrorWithContext(logger, "nas change handler failed", "nas_watch_handler_failed", logging.Error(err))
			}
		}
	}
}

func relevant(event fsnotify.Event, exts []string) bool {
	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext == "" {
		// Directory events and renames away from a name carry no extension.
		return true
	}
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

func addTree(watcher *fsnotify.Watcher, root string, logger *slog.Logger) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			logger.Debug("skip unreadable directory", logging.String("path", path), logging.Error(err))
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
