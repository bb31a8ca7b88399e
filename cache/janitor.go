package cache

import (
	"sync"
	"time"
)

// janitor drives the recurring cleanup task. It owns a single time.Timer:
// scheduling a new fire atomically supersedes the pending one, so two runs
// can never race for the same instance. stop is permanent and idempotent —
// after stop returns the timer cannot fire the run callback again.
//
// The engine stays agnostic to scheduling: the janitor only calls the
// synchronous run callback, which returns the delay until the next fire
// (adaptive when the policy knows its next deadline).
type janitor struct {
	mu      sync.Mutex
	timer   *time.Timer
	nextAt  time.Time
	stopped bool

	run func() time.Duration
}

// newJanitor arms the first fire after d.
func newJanitor(d time.Duration, run func() time.Duration) *janitor {
	j := &janitor{run: run}
	j.schedule(d)
	return j
}

// schedule (re)arms the timer to fire after d, superseding any pending fire.
// No-op after stop.
func (j *janitor) schedule(d time.Duration) {
	if d <= 0 {
		d = time.Millisecond
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopped {
		return
	}
	if j.timer != nil {
		j.timer.Stop()
	}
	j.nextAt = time.Now().Add(d)
	j.timer = time.AfterFunc(d, j.fire)
}

// wakeBefore re-arms the timer to fire at t if that precedes the currently
// scheduled fire. Used when a newly written deadline is sooner than the
// standing interval.
func (j *janitor) wakeBefore(t time.Time) {
	j.mu.Lock()
	if j.stopped || !t.Before(j.nextAt) {
		j.mu.Unlock()
		return
	}
	j.mu.Unlock()
	j.schedule(time.Until(t))
}

// stop cancels the pending fire permanently. Idempotent.
func (j *janitor) stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopped = true
	if j.timer != nil {
		j.timer.Stop()
		j.timer = nil
	}
}

func (j *janitor) fire() {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	j.mu.Unlock()

	// run takes the cache lock; a concurrent Close marks the cache closed
	// first, making this run a no-op.
	next := j.run()
	j.schedule(next)
}
