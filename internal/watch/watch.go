// Package watch reports changes to the directory being browsed.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LFroesch/rove/internal/logger"
)

// DefaultSettle is how long events are collected before one Event is sent.
const DefaultSettle = 150 * time.Millisecond

// Event reports that entries in Dir changed.
type Event struct {
	Dir   string
	Names []string
}

// Watcher follows a single directory at a time.
type Watcher struct {
	fs     *fsnotify.Watcher
	settle time.Duration
	events chan Event

	mu  sync.Mutex
	dir string

	done chan struct{}
	wg   sync.WaitGroup
}

func New(settle time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	w := &Watcher{
		fs:     fw,
		settle: settle,
		events: make(chan Event, 8),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events delivers batched changes.
func (w *Watcher) Events() <-chan Event { return w.events }

// Watch switches the watched directory to dir.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.fs.Remove(w.dir)
	}
	w.dir = ""
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	return nil
}

// Close stops the watcher and closes the Events channel.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	pending := map[string]map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			dir := filepath.Dir(ev.Name)
			if pending[dir] == nil {
				pending[dir] = map[string]bool{}
			}
			pending[dir][filepath.Base(ev.Name)] = true
			if timer == nil {
				timer = time.NewTimer(w.settle)
				fire = timer.C
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)

		case <-fire:
			timer, fire = nil, nil
			for dir, names := range pending {
				ev := Event{Dir: dir}
				for n := range names {
					ev.Names = append(ev.Names, n)
				}
				select {
				case w.events <- ev:
				case <-w.done:
					return
				default:
					logger.Debug("watch: dropping event for %s, consumer is behind", dir)
				}
			}
			pending = map[string]map[string]bool{}
		}
	}
}
