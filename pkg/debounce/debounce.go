// Package debounce delays a value until input has been quiet for a while and
// suppresses emissions equal to the previous one.
package debounce

import (
	"sync"
	"time"
)

// Debouncer emits the last pushed value once no new value arrived for the delay.
type Debouncer[T comparable] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	pending T
	last    T
	emitted bool
	stopped bool
}

// New returns a Debouncer calling fn from its own goroutine. initial is treated as
// already emitted, so pushing it again after the quiet period is a no-op.
func New[T comparable](delay time.Duration, initial T, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn, last: initial, emitted: true}
}

// Push records v and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = v
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Reset overrides the last emitted value, e.g. after the value was set directly.
func (d *Debouncer[T]) Reset(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = v
	d.emitted = true
}

// Stop cancels any pending emission. Later pushes are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.pending
	if d.emitted && v == d.last {
		d.mu.Unlock()
		return
	}
	d.last = v
	d.emitted = true
	d.mu.Unlock()

	d.fn(v)
}
