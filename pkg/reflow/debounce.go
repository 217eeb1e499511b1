package reflow

import (
	"sync"
	"time"
)

// Debounced coalesces rapid changes of a source signal into one delayed
// emission of the last value. On each effective upstream change the
// delay timer restarts; the value is only forwarded (version bump plus
// watcher notification) once the timer elapses without being reset.
// A superseding upstream change before expiry cancels the pending
// emission entirely: last value wins, nothing is queued.
//
// Get and Peek return the last forwarded value, not the pending one.
//
// Stop releases the upstream subscription and any pending timer. A
// stopped Debounced keeps returning its last forwarded value.
type Debounced[T any] struct {
	base signalBase

	// mu guards value, pending, timer, and gen.
	mu      sync.Mutex
	value   T
	pending T
	timer   *time.Timer

	// gen increments on every upstream change. An expiry carries the
	// generation that armed it; Timer.Stop cannot stop a timer whose
	// function is already waiting on mu, so a stale generation is how a
	// superseded expiry is recognized and dropped.
	gen uint64

	delay   time.Duration
	guard   *WatcherGuard
	equal   func(T, T) bool
	stopped bool
}

// NewDebounced wraps src so that changes are forwarded only after they
// settle for the given delay.
func NewDebounced[T any](src Signal[T], delay time.Duration) *Debounced[T] {
	d := &Debounced[T]{
		base: signalBase{
			id: nextID(),
		},
		value: src.Peek(),
		delay: delay,
	}
	d.guard = src.Watch(d.onUpstream)
	return d
}

// onUpstream restarts the settle timer with the newest value.
func (d *Debounced[T]) onUpstream(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = v
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.emit(gen)
	})
}

// emit forwards the pending value once the timer expires. Expiries from
// a timer that was superseded before it could be stopped are dropped.
func (d *Debounced[T]) emit(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	if d.equals(d.value, d.pending) {
		d.mu.Unlock()
		return
	}
	d.value = d.pending
	d.base.bumpVersion()
	d.mu.Unlock()

	instrDebounceEmit()
	d.base.notifySubscribers()
}

// Get returns the last forwarded value and subscribes the current
// listener.
func (d *Debounced[T]) Get() T {
	d.mu.Lock()
	value := d.value
	d.mu.Unlock()

	trackRead(&d.base)

	return value
}

// GetAny returns the last forwarded value as any. It is a tracked read.
// Implements the AnySignal interface.
func (d *Debounced[T]) GetAny() any {
	return d.Get()
}

// Peek returns the last forwarded value without subscribing.
func (d *Debounced[T]) Peek() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Watch registers fn to run on each forwarded change.
func (d *Debounced[T]) Watch(fn func(T)) *WatcherGuard {
	w := newWatcher[T](&d.base, d, fn, d.equals)
	return &WatcherGuard{cancelFn: w.cancel}
}

// WithEquals configures the equality function used to suppress
// emissions that settle back to the current value.
func (d *Debounced[T]) WithEquals(fn func(T, T) bool) *Debounced[T] {
	d.equal = fn
	return d
}

// ID returns the unique identifier for this node.
func (d *Debounced[T]) ID() uint64 {
	return d.base.id
}

// Version returns the number of forwarded changes so far.
func (d *Debounced[T]) Version() uint64 {
	return d.base.version.Load()
}

// Stop cancels the upstream subscription and any pending emission.
// Idempotent and safe to call from any goroutine.
func (d *Debounced[T]) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.guard.Cancel()
}

// equals checks two values using the configured equality function.
func (d *Debounced[T]) equals(a, b T) bool {
	if d.equal != nil {
		return d.equal(a, b)
	}
	return defaultEquals(a, b)
}

var _ Signal[int] = (*Debounced[int])(nil)
var _ AnySignal = (*Debounced[int])(nil)
