package reflow

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect that re-runs when its dependencies
// change. Dependencies are captured automatically: every signal read
// during the effect body subscribes the effect, and the set is
// re-captured on every run.
//
// Effects run synchronously on the goroutine that performed the
// triggering mutation. Marshaling work onto a specific thread (a UI
// loop, say) is the caller's responsibility, inside the effect body.
//
// The body may return a Cleanup; it runs before the next re-run and on
// Dispose.
type Effect struct {
	id uint64

	// fn is the effect body.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals this effect read during its last run.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// runMu serializes runs; MarkDirty may arrive from any goroutine.
	runMu sync.Mutex

	// runGID is the goroutine currently running the body, or 0. A dirty
	// mark arriving from inside the body (the effect wrote one of its
	// own dependencies) is coalesced into the current run rather than
	// recursing.
	runGID atomic.Uint64

	// pending coalesces dirty marks that land while a run is queued.
	pending atomic.Bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// CreateEffect creates a new effect and runs it immediately. The effect
// re-runs whenever any signal or computed it read changes.
//
// Example:
//
//	eff := CreateEffect(func() Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
//	defer eff.Dispose()
func CreateEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}

	e.run()

	return e
}

// MarkDirty re-runs the effect. Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	if e.runGID.Load() == getGoroutineID() {
		// Reentrant mark from our own body: the run loop picks it up.
		e.pending.Store(true)
		return
	}

	e.run()
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect body with dependency capture, looping while
// reentrant writes from the body keep marking it dirty.
func (e *Effect) run() {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.runGID.Store(getGoroutineID())
	defer e.runGID.Store(0)

	for {
		if e.disposed.Load() {
			return
		}

		e.pending.Store(false)

		if e.cleanup != nil {
			e.cleanup()
			e.cleanup = nil
		}

		// Drop the previous dependency set; the body resubscribes to
		// whatever it actually reads this time.
		e.sourcesMu.Lock()
		for _, source := range e.sources {
			source.unsubscribe(e)
		}
		e.sources = e.sources[:0]
		e.sourcesMu.Unlock()

		WithListener(e, func() {
			defer func() {
				if r := recover(); r != nil {
					instrWatcherPanic()
					slog.Error("reflow: effect body panicked",
						"effect", e.id,
						"panic", r)
				}
			}()
			e.cleanup = e.fn()
		})

		if e.disposed.Load() {
			// Disposed from inside the body; its final cleanup still runs.
			if e.cleanup != nil {
				e.cleanup()
				e.cleanup = nil
			}
			return
		}

		if !e.pending.Swap(false) {
			return
		}
	}
}

// addSource records a dependency read during the current run.
// Implements the sourceTracker interface.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose stops the effect, runs its cleanup, and unsubscribes from all
// sources. Idempotent and safe to call from inside the effect's own
// body; in that case the body's own cleanup runs when it returns.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	reentrant := e.runGID.Load() == getGoroutineID()
	if !reentrant {
		e.runMu.Lock()
		defer e.runMu.Unlock()

		if e.cleanup != nil {
			e.cleanup()
			e.cleanup = nil
		}
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// OnUpdate creates an effect that skips the callback on the first run.
// The deps function establishes dependencies; the callback only fires
// on subsequent changes.
//
// Example:
//
//	OnUpdate(
//	    func() { _ = count.Get() },
//	    func() { fmt.Println("count changed") },
//	)
func OnUpdate(deps func(), callback func()) *Effect {
	first := true
	return CreateEffect(func() Cleanup {
		deps()
		if first {
			first = false
			return nil
		}
		callback()
		return nil
	})
}

var _ sourceTracker = (*Effect)(nil)
