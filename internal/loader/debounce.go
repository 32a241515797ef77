package loader

import "time"

const (
	// BusyInterval applies while the previous load is still outstanding.
	BusyInterval = 100 * time.Millisecond
	// IdleInterval applies when nothing is loading.
	IdleInterval = 300 * time.Millisecond
)

// Debouncer throttles directory-change submissions so a held movement key
// does not spawn one read per repeat.
type Debouncer struct {
	Busy time.Duration
	Idle time.Duration

	last time.Time
}

// NewDebouncer returns a debouncer with the default intervals.
func NewDebouncer() *Debouncer {
	return &Debouncer{Busy: BusyInterval, Idle: IdleInterval}
}

// Ready reports whether a new load may be submitted at now. The first
// request is always ready.
func (d *Debouncer) Ready(now time.Time, loading bool) bool {
	return d.Wait(now, loading) == 0
}

// Wait returns how long a request at now has to be deferred.
func (d *Debouncer) Wait(now time.Time, loading bool) time.Duration {
	if d.last.IsZero() {
		return 0
	}
	interval := d.Idle
	if loading {
		interval = d.Busy
	}
	if elapsed := now.Sub(d.last); elapsed < interval {
		return interval - elapsed
	}
	return 0
}

// Mark records a submission at now.
func (d *Debouncer) Mark(now time.Time) {
	d.last = now
}
