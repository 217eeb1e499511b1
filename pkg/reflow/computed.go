package reflow

import (
	"sync"
	"sync/atomic"
)

// Computed is a derived, memoized Signal that automatically tracks its
// dependencies. When any dependency changes, the computed is marked
// dirty and recomputes on the next read.
//
// Computeds are lazy: a dirty mark forwards a notification to this
// node's own watchers immediately (so effects fire promptly), while the
// closure only re-executes when Get or Peek is next called. If several
// upstream signals change before a read, the closure still runs once
// (diamond dependencies coalesce).
//
// The dependency set is re-captured on every run: signals read only in
// a branch no longer taken are unwatched, so stale conditional
// dependencies cannot cause spurious notifications.
type Computed[T any] struct {
	base signalBase

	// compute is the function that produces the value.
	compute func() T

	// value is the cached computed value.
	value T

	// valueMu protects value access.
	valueMu sync.RWMutex

	// valid indicates whether the cached value is current.
	// When false, the next Get will recompute.
	valid atomic.Bool

	// sources are the signals this computed read during its last run.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// equal is the equality function for detecting value changes.
	equal func(T, T) bool

	// computeMu serializes recomputation. A reader on another goroutine
	// waits here for the in-flight run instead of seeing the stale cache.
	computeMu sync.Mutex

	// computeGID is the goroutine currently running the closure, or 0.
	// A read from that same goroutine is a cycle and returns the cache
	// rather than recursing forever.
	computeGID atomic.Uint64
}

// NewComputed creates a new computed with the given closure.
// The closure is not run immediately; it runs lazily on first Get.
func NewComputed[T any](compute func() T) *Computed[T] {
	return &Computed[T]{
		base: signalBase{
			id: nextID(),
		},
		compute: compute,
	}
}

// Get returns the computed value, recomputing first if any dependency
// changed. Creates a dependency on this computed for the current
// listener.
func (c *Computed[T]) Get() T {
	trackRead(&c.base)

	if !c.valid.Load() {
		c.recompute()
	}

	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// GetAny returns the computed value as any. It is a tracked read.
// Implements the AnySignal interface.
func (c *Computed[T]) GetAny() any {
	return c.Get()
}

// Peek returns the computed value without subscribing. It still
// recomputes if the cached value is stale; Peek never returns a value
// older than the dependencies it was derived from.
func (c *Computed[T]) Peek() T {
	if !c.valid.Load() {
		c.recompute()
	}
	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// Watch registers fn to run when the computed's value effectively
// changes. The registration forces an initial computation so delivery
// can start from the next change.
func (c *Computed[T]) Watch(fn func(T)) *WatcherGuard {
	w := newWatcher[T](&c.base, c, fn, c.equals)
	return &WatcherGuard{cancelFn: w.cancel}
}

// MarkDirty invalidates the cache and forwards the notification to this
// node's own watchers. The recomputation itself is deferred to the next
// read. Implements the Listener interface.
func (c *Computed[T]) MarkDirty() {
	// CAS keeps the mark idempotent: several upstream changes before a
	// read collapse into one invalidation and one downstream pass.
	if c.valid.CompareAndSwap(true, false) {
		c.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this computed.
// Implements the Listener interface.
func (c *Computed[T]) ID() uint64 {
	return c.base.id
}

// Version returns the number of effective value changes so far.
func (c *Computed[T]) Version() uint64 {
	return c.base.version.Load()
}

// addSource records a dependency read during the current run.
// Implements the sourceTracker interface.
func (c *Computed[T]) addSource(source *signalBase) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == source {
			return
		}
	}
	c.sources = append(c.sources, source)
}

// WithEquals configures the computed with a custom equality function.
func (c *Computed[T]) WithEquals(fn func(T, T) bool) *Computed[T] {
	c.equal = fn
	return c
}

// recompute runs the closure and updates the cached value, re-capturing
// the dependency set from scratch.
func (c *Computed[T]) recompute() {
	if c.computeGID.Load() == getGoroutineID() {
		// Cyclic read from inside our own closure. Return the stale
		// cache rather than recursing forever.
		return
	}

	c.computeMu.Lock()
	defer c.computeMu.Unlock()

	if c.valid.Load() {
		// Another goroutine computed while we waited for the lock.
		return
	}

	c.computeGID.Store(getGoroutineID())
	defer c.computeGID.Store(0)

	// Drop the previous dependency set. Anything still read will
	// resubscribe during the run; anything no longer read stays gone.
	c.sourcesMu.Lock()
	for _, source := range c.sources {
		source.unsubscribe(c)
	}
	c.sources = c.sources[:0]
	c.sourcesMu.Unlock()

	var newValue T
	WithListener(c, func() {
		newValue = c.compute()
	})

	instrRecomputed()

	c.valueMu.Lock()
	if !c.equals(c.value, newValue) {
		c.value = newValue
		// Downstream watchers fingerprint on this version.
		c.base.bumpVersion()
	}
	c.valueMu.Unlock()

	c.valid.Store(true)
}

// equals checks two values using the configured equality function.
func (c *Computed[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

var _ Signal[int] = (*Computed[int])(nil)
var _ AnySignal = (*Computed[int])(nil)
var _ sourceTracker = (*Computed[int])(nil)
