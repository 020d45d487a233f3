package folio

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
)

// watchDebounce is how long the watcher waits for a burst of editor writes
// to settle before reloading.
const watchDebounce = 500 * time.Millisecond

// Watcher calls a function after files under a directory change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	logger   echo.Logger

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// WatchContent reloads posts whenever the content directory changes. The
// watcher stops when ctx is cancelled or Close is called.
func (a *App) WatchContent(ctx context.Context) (*Watcher, error) {
	return WatchDir(ctx, a.Config.ContentDir, watchDebounce, a.Echo.Logger, func() {
		if err := a.Reload(ctx); err != nil {
			a.Echo.Logger.Errorf("reload content: %v", err)
			return
		}
		a.Echo.Logger.Info("content reloaded")
	})
}

// WatchDir watches dir and its subdirectories. onChange runs once per burst
// of events, debounce after the last one.
func WatchDir(ctx context.Context, dir string, debounce time.Duration, logger echo.Logger, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("folio: create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}
	if err := w.addTree(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	go w.loop(ctx)
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("folio: watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				w.stopTimer()
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// New subdirectories are not watched automatically.
				if err := w.addTree(event.Name); err != nil && w.logger != nil {
					w.logger.Warnf("watch %s: %v", event.Name, err)
				}
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.stopTimer()
				return
			}
			if w.logger != nil {
				w.logger.Errorf("watcher: %v", err)
			}
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
