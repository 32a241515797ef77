// Package loader runs directory reads off the render loop. Each submission
// gets its own single-slot channel; callers keep only the newest handle and
// simply stop polling older ones.
package loader

import (
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/LFroesch/rove/internal/fscache"
	"github.com/LFroesch/rove/internal/logger"
)

// Lister is the read side of the directory cache.
type Lister interface {
	Listing(dir string, showHidden bool) (fscache.Listing, error)
}

// Result is the outcome of one background read.
type Result struct {
	Dir        string
	ShowHidden bool
	Listing    fscache.Listing
	Err        error
	Elapsed    time.Duration
}

// Handle tracks one submitted load.
type Handle struct {
	ID         uint64
	Dir        string
	ShowHidden bool

	ch     chan Result
	result *Result
}

// Poll returns the result once the load has finished. It never blocks.
// The result is latched, so later polls keep returning it.
func (h *Handle) Poll() (Result, bool) {
	if h == nil {
		return Result{}, false
	}
	if h.result != nil {
		return *h.result, true
	}
	select {
	case r := <-h.ch:
		h.result = &r
		return r, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the load finishes. It is meant for tea.Cmd goroutines
// and tests; the render loop uses Poll.
func (h *Handle) Wait() Result {
	if h.result != nil {
		return *h.result
	}
	r := <-h.ch
	h.result = &r
	return r
}

// Loader submits directory reads to goroutines.
type Loader struct {
	lister Lister
	group  singleflight.Group
	nextID atomic.Uint64
}

// New creates a loader reading through lister.
func New(lister Lister) *Loader {
	return &Loader{lister: lister}
}

// Submit starts reading dir and returns immediately.
func (l *Loader) Submit(dir string, showHidden bool) *Handle {
	h := &Handle{
		ID:         l.nextID.Add(1),
		Dir:        dir,
		ShowHidden: showHidden,
		ch:         make(chan Result, 1),
	}

	go func() {
		start := time.Now()
		v, err, shared := l.group.Do(flightKey(dir, showHidden), func() (any, error) {
			return l.lister.Listing(dir, showHidden)
		})
		listing, _ := v.(fscache.Listing)
		elapsed := time.Since(start)
		if elapsed > 500*time.Millisecond {
			logger.Warn("slow directory load %s: %v (shared=%v)", dir, elapsed, shared)
		}
		h.ch <- Result{
			Dir:        dir,
			ShowHidden: showHidden,
			Listing:    listing,
			Err:        err,
			Elapsed:    elapsed,
		}
	}()

	return h
}

// Forget detaches reads of dir already in flight, so the next Submit starts
// a fresh read instead of sharing one that began earlier.
func (l *Loader) Forget(dir string) {
	l.group.Forget(flightKey(dir, false))
	l.group.Forget(flightKey(dir, true))
}

func flightKey(dir string, showHidden bool) string {
	return dir + "\x00" + strconv.FormatBool(showHidden)
}
