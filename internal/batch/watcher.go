package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// SourceExt is the extension of files whose changes trigger re-formatting in watch mode.
const SourceExt = ".rs"

// buildOutputDir is never watched: it only holds generated files.
const buildOutputDir = "target"

// change is a relevant edit within the marked directory dir.
type change struct {
	dir string
	at  time.Time
}

// Watcher monitors a tree for source changes and re-runs the formatter in the
// marked directory which owns each changed file.
type Watcher struct {
	formatter *Formatter
	logger    *slog.Logger
	Ready     chan struct{}

	debounce   time.Duration
	newWatcher func() (*fsnotify.Watcher, error)
	now        func() time.Time
}

// NewWatcher creates a new Watcher which formats with f.
func NewWatcher(f *Formatter, logger *slog.Logger) *Watcher {
	return &Watcher{
		formatter:  f,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		debounce:   100 * time.Millisecond,
		newWatcher: fsnotify.NewWatcher,
		now:        time.Now,
	}
}

// Watch monitors root until ctx is cancelled or the command can no longer be run.
// The callback, if not nil, receives the Result of every invocation. Invocations are
// sequential. Watch returns ctx.Err() on cancellation, or a *FatalError.
func (w *Watcher) Watch(ctx context.Context, root string, callback func(Result)) error {
	root = filepath.Clean(root)

	fw, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addRecursive(fw, root); err != nil {
		return err
	}

	w.logger.Info("Watching for changes in " + root)
	if w.Ready != nil {
		close(w.Ready)
	}

	changes := make(chan change)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.collect(gctx, fw, root, changes)
	})
	g.Go(func() error {
		return w.dispatch(gctx, changes, callback)
	})
	return g.Wait()
}

// collect turns filesystem events into changes for dispatch.
func (w *Watcher) collect(ctx context.Context, fw *fsnotify.Watcher, root string, changes chan<- change) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			dir := w.handleEvent(fw, root, event)
			if dir == "" {
				continue
			}
			select {
			case changes <- change{dir: dir, at: w.now()}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// dispatch debounces changes and formats each settled directory in turn.
// Changes which arrive within one debounce period of a directory's last run are
// taken to be the formatter's own writes and are dropped.
func (w *Watcher) dispatch(ctx context.Context, changes <-chan change, callback func(Result)) error {
	dirty := make(map[string]struct{})
	lastRun := make(map[string]time.Time)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-changes:
			if t, ok := lastRun[c.dir]; ok && !c.at.After(t.Add(w.debounce)) {
				continue
			}
			dirty[c.dir] = struct{}{}
			timer.Reset(w.debounce)
		case <-timer.C:
			dirs := make([]string, 0, len(dirty))
			for dir := range dirty {
				dirs = append(dirs, dir)
			}
			slices.Sort(dirs)
			clear(dirty)
			for _, dir := range dirs {
				w.logger.Debug("source changed", "dir", dir)
				res := w.formatter.RunDir(ctx, dir)
				lastRun[dir] = w.now()
				if callback != nil {
					callback(res)
				}
				if res.Err != nil {
					return res.Err
				}
			}
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to the
// watcher. For a relevant file change it returns the marked directory to format.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, root string, event fsnotify.Event) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(fw, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return ""
		}
	}

	base := filepath.Base(event.Name)
	if filepath.Ext(base) != SourceExt && base != w.formatter.Marker() {
		return ""
	}
	return w.markedDir(root, filepath.Dir(event.Name))
}

// markedDir returns the nearest directory from dir up to root which contains the
// marker file, or "" if there is none.
func (w *Watcher) markedDir(root, dir string) string {
	for {
		info, err := os.Stat(filepath.Join(dir, w.formatter.Marker()))
		if err == nil && !info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if dir == root || parent == dir {
			return ""
		}
		dir = parent
	}
}

// addRecursive adds the given path and all its subdirectories to the watcher,
// skipping hidden and build output directories.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == buildOutputDir) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
