package reflow

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Listener is anything that can be notified when a dependency changes.
// This interface is implemented by watchers, computeds, and effects.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	// For watchers, this delivers the new value to the callback.
	// For computeds, this invalidates the cached value.
	// For effects, this re-runs the effect.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during subscription and batch processing.
	ID() uint64
}

// sourceTracker is a Listener that records which signals it read during
// a tracked run, so it can unsubscribe from them before the next run.
// Implemented by Computed and Effect.
type sourceTracker interface {
	Listener
	addSource(source *signalBase)
}

// Cleanup is a function returned by effects to clean up resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// signalBase provides type-erased watcher management and the version
// counter. It is embedded in Binding[T], Computed[T], and Debounced[T]
// to share registry logic.
type signalBase struct {
	id uint64

	// version counts effective changes. It only moves forward.
	version atomic.Uint64

	// subs are the listeners subscribed to this signal, in registration
	// order. Delivery walks this order.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// bumpVersion records an effective change.
func (s *signalBase) bumpVersion() {
	s.version.Add(1)
}

// subscribe adds a listener, deduplicating by listener ID.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}

	s.subs = append(s.subs, l)
	instrWatcherAdded()
}

// unsubscribe removes a listener. Registration order of the remaining
// listeners is preserved, since delivery order is part of the contract.
func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			instrWatcherRemoved()
			return
		}
	}
}

// notifySubscribers notifies all subscribers that this signal changed.
// Uses copy-before-notify so no registry lock is held while listener
// code runs; a listener may freely subscribe, unsubscribe, or write
// back to this signal.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	instrNotified(len(subs))

	if getBatchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
		return
	}

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// watcher adapts a user callback into a Listener. It pulls the source's
// current value on each notification and delivers it at most once per
// effective change.
type watcher[T any] struct {
	id   uint64
	src  peeker[T]
	fn   func(T)
	eq   func(T, T) bool
	base *signalBase

	// mu is the delivery lock: held while the callback runs so that
	// Cancel can wait out an in-flight delivery.
	mu sync.Mutex

	// deliverGID is the goroutine currently delivering, or 0. Checked
	// before mu so a callback that writes back to its own source does
	// not deadlock; the nested notification is coalesced into pending.
	deliverGID atomic.Uint64

	pending  atomic.Bool
	canceled atomic.Bool

	// last is the most recently delivered (or initially observed) value.
	last T
}

// peeker is the minimal read surface a watcher needs from its source.
type peeker[T any] interface {
	Peek() T
}

// newWatcher registers fn on base, seeded with the source's current
// value so delivery starts from the next effective change.
func newWatcher[T any](base *signalBase, src peeker[T], fn func(T), eq func(T, T) bool) *watcher[T] {
	w := &watcher[T]{
		id:   nextID(),
		src:  src,
		fn:   fn,
		eq:   eq,
		base: base,
		last: src.Peek(),
	}
	base.subscribe(w)
	return w
}

// MarkDirty pulls the current value and invokes the callback if it is
// an effective change since the last delivery.
// Implements the Listener interface.
func (w *watcher[T]) MarkDirty() {
	gid := getGoroutineID()

	// Reentrant notification from our own callback: coalesce into the
	// in-progress delivery loop instead of deadlocking on mu.
	if w.deliverGID.Load() == gid {
		w.pending.Store(true)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.canceled.Load() {
		return
	}

	w.deliverGID.Store(gid)
	defer w.deliverGID.Store(0)

	for {
		v := w.src.Peek()
		if w.eq(w.last, v) {
			return
		}
		w.last = v
		w.pending.Store(false)
		w.invoke(v)

		if w.canceled.Load() || !w.pending.Swap(false) {
			return
		}
	}
}

// invoke runs the callback, isolating panics so one misbehaving watcher
// cannot break the notification pass for the rest of the registry.
func (w *watcher[T]) invoke(v T) {
	defer func() {
		if r := recover(); r != nil {
			instrWatcherPanic()
			slog.Error("reflow: watcher callback panicked",
				"watcher", w.id,
				"panic", r)
		}
	}()
	w.fn(v)
}

// ID returns the unique identifier for this watcher.
// Implements the Listener interface.
func (w *watcher[T]) ID() uint64 {
	return w.id
}

// cancel stops delivery. After cancel returns, the callback will not be
// invoked again: a delivery in flight on another goroutine holds mu, so
// cancel blocks until it drains. Safe to call from within the watcher's
// own callback.
func (w *watcher[T]) cancel() {
	if w.canceled.Swap(true) {
		return
	}

	if w.deliverGID.Load() != getGoroutineID() {
		// Taking the delivery lock waits out an in-flight delivery.
		w.mu.Lock()
		defer w.mu.Unlock()
	}

	w.base.unsubscribe(w)
}

// WatcherGuard is the handle returned by Watch. Cancelling the guard
// deregisters the watcher; a guard that is never cancelled keeps the
// subscription alive for the life of the signal.
//
// Cancel is idempotent and safe to call from any goroutine, including
// from inside the watched callback itself.
type WatcherGuard struct {
	once     sync.Once
	cancelFn func()
}

// Cancel deregisters the watcher. After Cancel returns, the callback is
// guaranteed not to run again, even if a notification was in flight on
// another goroutine.
func (g *WatcherGuard) Cancel() {
	if g == nil || g.cancelFn == nil {
		return
	}
	g.once.Do(g.cancelFn)
}

// inertGuard returns a guard with nothing to cancel. Used by constants.
func inertGuard() *WatcherGuard {
	return &WatcherGuard{}
}

// trackRead subscribes the current listener (if any) to base and
// records base as one of the listener's sources for re-tracking.
// Called from every tracked read path.
func trackRead(base *signalBase) {
	listener := getCurrentListener()
	if listener == nil {
		return
	}

	base.subscribe(listener)

	if st, ok := listener.(sourceTracker); ok {
		st.addSource(base)
	}
}
