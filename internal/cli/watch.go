package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgconv/svgconv"
)

// settleDelay is how long a file must stay untouched before
// being converted, since editors often write in several steps.
const settleDelay = 150 * time.Millisecond

// dirWatcher reports the SVG files created or modified below a folder.
type dirWatcher struct {
	root    string
	watcher *fsnotify.Watcher
	logger  *log.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// newDirWatcher watches `root` and its sub-folders.
func newDirWatcher(root string, logger *log.Logger) (*dirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &dirWatcher{root: root, watcher: watcher, logger: logger, pending: map[string]*time.Timer{}}
	if err := w.addTree(root); err != nil {
		watcher.Close() //nolint:errcheck
		return nil, err
	}
	return w, nil
}

// addTree watches `dir` and every folder below it.
func (w *dirWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		w.logger.Debug("watching", "dir", path)
		return w.watcher.Add(path)
	})
}

// run calls `handle` for every settled SVG file, until `ctx` is done.
// `handle` is never called concurrently.
func (w *dirWatcher) run(ctx context.Context, handle func(ctx context.Context, path string)) error {
	defer w.watcher.Close() //nolint:errcheck

	ready := make(chan string)
	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()
		case path := <-ready:
			handle(ctx, path)
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event, ready)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *dirWatcher) handleEvent(ctx context.Context, event fsnotify.Event, ready chan<- string) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("can't watch folder", "dir", event.Name, "err", err)
			}
			return
		}
	}
	if !svgconv.IsSVG(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// a timer which already fired is replaced, never re-armed
	if t, ok := w.pending[event.Name]; ok && t.Stop() {
		t.Reset(settleDelay)
		return
	}
	path := event.Name
	var t *time.Timer
	t = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
	w.pending[path] = t
}

func (w *dirWatcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func newWatchCmd() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Convert SVG files as they are created or modified",
		Long: `Watch converts every SVG file created or modified below DIR,
with the same options as convert. Existing files are left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := opts.baseRequest(cmd)
			if err != nil {
				return err
			}
			// validated once, instead of failing on every file
			if err := base.CheckOptions(); err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			w, err := newDirWatcher(args[0], logger)
			if err != nil {
				return err
			}
			logger.Info("watching for SVG files", "dir", args[0])

			emitter := newPrintEmitter(cmd.OutOrStdout())
			return w.run(ctx, func(ctx context.Context, path string) {
				if err := convertOne(ctx, base, path, emitter, logger); err != nil {
					logger.Warn("skipped", "svg", path, "err", err)
				}
			})
		},
	}

	opts.register(cmd)
	return cmd
}
