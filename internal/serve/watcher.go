package serve

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/eightytwo/idspispopd/internal/logfields"
)

// setupFileWatcher watches every existing root recursively. Roots that do
// not exist are skipped with a warning so a site without a static tree
// still gets content and template watching.
func setupFileWatcher(roots []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	watched := 0
	for _, root := range roots {
		info, statErr := os.Stat(root)
		if statErr != nil || !info.IsDir() {
			slog.Warn("watch root missing, skipping", logfields.Path(root))
			continue
		}
		if err := addDirsRecursive(watcher, root); err != nil {
			_ = watcher.Close()
			return nil, err
		}
		watched++
	}
	if watched == 0 {
		_ = watcher.Close()
		return nil, fmt.Errorf("no watchable input directories among %v", roots)
	}

	return watcher, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// handleFileEvent filters noise and requests a rebuild. Newly created
// directories are added to the watch set so files written into them later
// are seen.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func(string)) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("file change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger(TriggerFileEvent)
}

// shouldIgnoreEvent returns true for filesystem events that should not
// trigger rebuilds: hidden files, editor swap and temp files, OS litter.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	if base == ".DS_Store" || base == "Thumbs.db" {
		return true
	}

	return false
}
