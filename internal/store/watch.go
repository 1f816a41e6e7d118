package store

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/henri123lemoine/heartline/internal/debug"
)

// ErrNotWatchable is returned by Watch for backends without a watch target.
var ErrNotWatchable = errors.New("backend does not support watching")

// Watchable is implemented by backends whose writes land on the filesystem.
type Watchable interface {
	WatchTarget() (dir string, match func(name string) bool)
}

// Watcher coalesces filesystem writes to a backend's values into change
// notifications. Our own writes are reported too; callers simply reload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	match    func(name string) bool
	changes  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	debounce time.Duration
	once     sync.Once
}

// Watch starts watching b. The returned Watcher must be closed.
func Watch(b Backend, debounce time.Duration) (*Watcher, error) {
	w, ok := b.(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	dir, match := w.WatchTarget()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	sw := &Watcher{
		watcher:  fw,
		match:    match,
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		debounce: debounce,
	}
	go sw.run()
	return sw, nil
}

// Changes delivers at most one pending notification at a time.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.match(filepath.Base(event.Name)) {
				continue
			}
			debug.Log("store: watch %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.Log("store: watch error: %v", err)

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}
