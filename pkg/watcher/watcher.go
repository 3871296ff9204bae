// Package watcher turns filesystem events on a layout file into coalesced
// structural-change signals.
package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is the quiet period after the last event before a change
// is signalled.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one file. Bursts of events are coalesced with a trailing
// debounce so that at most one signal is delivered per burst.
type Watcher struct {
	path     string
	debounce time.Duration
	onError  func(error)

	changed chan struct{}

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	group   *errgroup.Group
	running bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce window.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives fsnotify errors. The default logs them.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.onError = fn
		}
	}
}

// NewWatcher creates a watcher for path. The file's directory must exist;
// the file itself may appear later.
func NewWatcher(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	if info, err := os.Stat(filepath.Dir(abs)); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("watch directory %s does not exist", filepath.Dir(abs))
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		changed:  make(chan struct{}, 1),
		onError: func(err error) {
			log.Printf("warning: layout watcher: %v", err)
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Changed delivers one value per coalesced burst. A signal that nobody has
// received yet absorbs later ones.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Running reports whether the watch loop is active
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Start begins watching. It is a no-op while already running, and a stopped
// watcher can be started again.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// Editors often replace files by rename, which drops a watch on the file
	// itself, so the directory is watched and events are filtered by name.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return w.loop(ctx, fsw)
	})

	w.fsw = fsw
	w.cancel = cancel
	w.group = group
	w.running = true
	return nil
}

// Stop halts the watch loop and waits for it to exit. Stop is idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel, fsw, group := w.cancel, w.fsw, w.group
	w.cancel, w.fsw, w.group = nil, nil, nil
	w.mu.Unlock()

	cancel()
	fsw.Close()
	if err := group.Wait(); err != nil {
		w.onError(err)
	}
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.signal()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

func (w *Watcher) signal() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
