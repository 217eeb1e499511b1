package reflow

import "sync/atomic"

// Instrumentation receives counters from the runtime's hot paths.
// All fields are optional; nil fields are skipped. Install with
// SetInstrumentation. The observe package provides a Prometheus-backed
// implementation.
type Instrumentation struct {
	// BindingCreated fires when NewBinding allocates a cell.
	BindingCreated func()

	// EffectiveSet fires on every announced mutation (no-op writes are
	// not counted).
	EffectiveSet func()

	// RejectedWrite fires when a filtered or ranged binding silently
	// drops a write.
	RejectedWrite func()

	// Notified fires once per notification pass with the fan-out size.
	Notified func(fanout int)

	// Recomputed fires each time a computed closure re-executes.
	Recomputed func()

	// DebounceEmit fires when a debounced signal forwards a value.
	DebounceEmit func()

	// WatcherPanic fires when a watcher callback panics and is isolated.
	WatcherPanic func()

	// WatcherAdded and WatcherRemoved track registry membership.
	WatcherAdded   func()
	WatcherRemoved func()
}

// instrumentation is the installed hook set, or nil.
var instrumentation atomic.Pointer[Instrumentation]

// SetInstrumentation installs runtime hooks. Pass nil to remove them.
// Intended to be called once at startup.
func SetInstrumentation(in *Instrumentation) {
	instrumentation.Store(in)
}

func instrBindingCreated() {
	if in := instrumentation.Load(); in != nil && in.BindingCreated != nil {
		in.BindingCreated()
	}
}

func instrEffectiveSet() {
	if in := instrumentation.Load(); in != nil && in.EffectiveSet != nil {
		in.EffectiveSet()
	}
}

func instrRejectedWrite() {
	if in := instrumentation.Load(); in != nil && in.RejectedWrite != nil {
		in.RejectedWrite()
	}
}

func instrNotified(fanout int) {
	if in := instrumentation.Load(); in != nil && in.Notified != nil {
		in.Notified(fanout)
	}
}

func instrRecomputed() {
	if in := instrumentation.Load(); in != nil && in.Recomputed != nil {
		in.Recomputed()
	}
}

func instrDebounceEmit() {
	if in := instrumentation.Load(); in != nil && in.DebounceEmit != nil {
		in.DebounceEmit()
	}
}

func instrWatcherPanic() {
	if in := instrumentation.Load(); in != nil && in.WatcherPanic != nil {
		in.WatcherPanic()
	}
}

func instrWatcherAdded() {
	if in := instrumentation.Load(); in != nil && in.WatcherAdded != nil {
		in.WatcherAdded()
	}
}

func instrWatcherRemoved() {
	if in := instrumentation.Load(); in != nil && in.WatcherRemoved != nil {
		in.WatcherRemoved()
	}
}
