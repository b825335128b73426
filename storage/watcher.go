package storage

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher observes the board document for external edits (the file is
// hand-edited in a notes app) and fans change notifications out to
// subscribers. The document's directory is watched rather than the file
// itself because editors and the atomic store alike replace the file by
// rename, which retires the old inode.
type Watcher struct {
	path     string
	log      *log.Logger
	debounce time.Duration

	mu   sync.Mutex
	subs map[chan time.Time]struct{}

	watcher *fsnotify.Watcher
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for the given document path. Call Start to
// begin watching and Close to stop.
func NewWatcher(path string, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Watcher{
		path:     path,
		log:      logger,
		debounce: 250 * time.Millisecond,
		subs:     map[chan time.Time]struct{}{},
		watcher:  fw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start watches the document's directory in a background goroutine. On
// failure the underlying watcher is released and the Watcher is unusable.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.watcher.Close()
		return err
	}
	w.started = true
	go w.run()
	return nil
}

// Subscribe registers a channel that receives the observation time of each
// board change. The channel is buffered; slow subscribers miss intermediate
// notifications rather than blocking the watcher.
func (w *Watcher) Subscribe() chan time.Time {
	ch := make(chan time.Time, 1)
	w.mu.Lock()
	w.subs[ch] = struct{}{}
	w.mu.Unlock()
	return ch
}

// Unsubscribe removes a previously subscribed channel.
func (w *Watcher) Unsubscribe(ch chan time.Time) {
	w.mu.Lock()
	delete(w.subs, ch)
	w.mu.Unlock()
}

// Close stops the watcher and releases the underlying file watches. Safe to
// call after a failed Start.
func (w *Watcher) Close() error {
	if !w.started {
		return w.watcher.Close()
	}
	close(w.stopCh)
	err := w.watcher.Close()
	<-w.doneCh
	return err
}

// run coalesces bursts of filesystem events: a notification fires once the
// document has been quiet for the debounce interval, carrying the time of the
// last observed change so subscribers see the final state of a rapid edit
// sequence.
func (w *Watcher) run() {
	defer close(w.doneCh)
	base := filepath.Base(w.path)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var pending time.Time
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.Now()
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			if !pending.IsZero() {
				w.notify(pending)
				pending = time.Time{}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("board watcher error")
		}
	}
}

func (w *Watcher) notify(at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.subs {
		select {
		case ch <- at:
		default:
		}
	}
}
