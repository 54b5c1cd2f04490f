package catalog

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/persuade/internal/errors"
)

// DefaultDebounce groups the burst of events a single save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a catalog whenever its files change on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	isDir    bool
	debounce time.Duration
}

// NewWatcher watches the catalog at path. For a file the parent directory is
// watched, so editors that replace the file on save are still seen.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewCatalogError("cannot resolve path", err).WithPath(path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.NewCatalogError("cannot watch catalog", err).WithPath(path)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}
	w := &Watcher{watcher: fw, path: abs, isDir: info.IsDir(), debounce: debounce}

	dirs := []string{filepath.Dir(abs)}
	if w.isDir {
		dirs = []string{abs}
		entries, err := os.ReadDir(abs)
		if err == nil {
			for _, e := range entries {
				if e.IsDir() {
					dirs = append(dirs, filepath.Join(abs, e.Name()))
				}
			}
		}
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, errors.NewCatalogError("cannot watch directory", err).WithPath(dir)
		}
	}
	return w, nil
}

// Run blocks until ctx is done, calling onChange with the reloaded dataset
// (or the load error) after each burst of changes.
func (w *Watcher) Run(ctx context.Context, onChange func(*Dataset, error)) error {
	debounceTimer := time.NewTimer(w.debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	defer debounceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.addAgentDir(ev) {
				// Files may land in the new directory before the watch is
				// added, so reload regardless.
				debounceTimer.Reset(w.debounce)
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !w.relevant(ev.Name) {
				continue
			}
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			onChange(Load(w.path))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, errors.Wrap(err, "watch catalog"))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// addAgentDir starts watching a directory created directly under a catalog
// directory, where a new agent's criteria file will appear.
func (w *Watcher) addAgentDir(ev fsnotify.Event) bool {
	if !w.isDir || !ev.Has(fsnotify.Create) || filepath.Dir(ev.Name) != w.path {
		return false
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() {
		return false
	}
	return w.watcher.Add(ev.Name) == nil
}

func (w *Watcher) relevant(name string) bool {
	if w.isDir {
		return filepath.Ext(name) == ".csv"
	}
	return filepath.Clean(name) == w.path
}
