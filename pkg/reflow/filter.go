package reflow

import "cmp"

// FilteredBinding is a write-gated view over a Binding. Writes whose
// resulting value fails the predicate are silently rejected: the value
// stays unchanged, no version bump, no notification. The mutation API
// stays infallible from the caller's perspective.
//
// Because silent rejection can be hard to debug, every rejected value
// is recorded on a diagnostics signal available via LastRejected.
//
// Reads, Watch, GetMut, and Mutate pass straight through to the
// underlying binding; the gate applies to Set and Update only. Code
// holding the plain *Binding can always write past the gate.
type FilteredBinding[T any] struct {
	*Binding[T]

	accept   func(T) bool
	rejected *Binding[T]
}

// Filtered wraps b so that writes failing accept are dropped.
func Filtered[T any](b *Binding[T], accept func(T) bool) *FilteredBinding[T] {
	return &FilteredBinding[T]{
		Binding:  b,
		accept:   accept,
		rejected: NewBinding(b.Peek()),
	}
}

// Ranged wraps b so that writes outside [lo, hi] are dropped.
func Ranged[T cmp.Ordered](b *Binding[T], lo, hi T) *FilteredBinding[T] {
	return Filtered(b, func(v T) bool {
		return v >= lo && v <= hi
	})
}

// Set replaces the value if it passes the gate; otherwise the write is
// recorded on the diagnostics signal and dropped.
func (f *FilteredBinding[T]) Set(value T) {
	if !f.accept(value) {
		f.reject(value)
		return
	}
	f.Binding.Set(value)
}

// Update applies fn and keeps the result only if it passes the gate.
// A rejected result leaves the current value in place and is recorded
// on the diagnostics signal.
func (f *FilteredBinding[T]) Update(fn func(T) T) {
	var rejected *T
	f.Binding.Update(func(current T) T {
		next := fn(current)
		if f.accept(next) {
			return next
		}
		v := next
		rejected = &v
		return current
	})
	if rejected != nil {
		// Record outside the binding lock so diagnostics watchers can
		// read the gated binding freely.
		f.reject(*rejected)
	}
}

// LastRejected exposes the most recently rejected write for
// diagnostics. It starts at the binding's value at wrap time and only
// moves when a write is dropped.
func (f *FilteredBinding[T]) LastRejected() Signal[T] {
	return f.rejected
}

func (f *FilteredBinding[T]) reject(v T) {
	instrRejectedWrite()
	f.rejected.Set(v)
}

var _ Signal[int] = (*FilteredBinding[int])(nil)
