// Package watch reloads the dataset when files of the data directory change.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// ErrClosed is returned by Start after Stop.
var ErrClosed = errors.New("watcher closed")

// Watcher debounces CSV changes in one directory into onChange calls.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func(ctx context.Context)

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	wg      sync.WaitGroup
	stopped bool
}

// New creates a watcher for dir. onChange runs on a single goroutine, never
// concurrently with itself.
func New(dir string, onChange func(ctx context.Context), opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		debounce: 500 * time.Millisecond,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrClosed
	}
	if w.fsw != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop(ctx, fsw)
	logger.Get().Info(ctx, "watching data directory", logger.String("dir", w.dir), logger.Duration("debounce", w.debounce))
	return nil
}

// Stop closes the underlying watcher and waits for the loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.stopped = true
	fsw := w.fsw
	w.mu.Unlock()

	var err error
	if fsw != nil {
		err = fsw.Close()
	}
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			logger.Get().Debug(ctx, "data file changed", logger.String("file", ev.Name), logger.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			metrics.RecordErrorByComponent("watch", "fsnotify")
			logger.Get().Warn(ctx, "data watcher error", logger.Error(err))
		case <-timer.C:
			w.onChange(ctx)
		}
	}
}

// relevant keeps content changes to CSV files.
func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".csv") {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
