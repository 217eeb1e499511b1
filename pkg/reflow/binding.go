package reflow

import (
	"reflect"
	"sync"
)

// Signal is the read+subscribe capability shared by every reactive
// node. Consumers (renderers, effects, widget bindings) should depend
// only on this interface, never on which concrete node kind backs it.
type Signal[T any] interface {
	// Get returns the current up-to-date value, performing any pending
	// lazy recomputation first. When called during a tracked run
	// (computed or effect execution), it subscribes the current
	// listener to this signal.
	Get() T

	// Peek returns the current value without subscribing.
	Peek() T

	// Watch registers fn to run once per effective change, starting
	// from the next change. The current value is never replayed; call
	// Get first if it is needed. Delivery happens synchronously on the
	// mutating goroutine, in watcher registration order.
	Watch(fn func(T)) *WatcherGuard
}

// AnySignal is the type-erased read capability. Every reactive node
// implements it; Textf uses it to capture heterogeneous dependencies.
type AnySignal interface {
	// GetAny returns the current value as any. Like Get, it is a
	// tracked read.
	GetAny() any
}

// Binding is a mutable Signal: a single owned value cell plus a shared
// watcher registry. A *Binding is a shared handle; copying the pointer
// clones the Binding, and all clones observe the same cell. The cell
// lives as long as any clone or derived subscription references it.
//
// All methods are safe for concurrent use. Mutations on one Binding are
// strictly ordered by its internal lock, and watchers are notified
// before the mutating call returns.
type Binding[T any] struct {
	base signalBase

	// value is the current cell value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal is the equality function used to suppress no-op writes.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewBinding creates a new binding holding the given initial value.
func NewBinding[T any](initial T) *Binding[T] {
	instrBindingCreated()
	return &Binding[T]{
		base: signalBase{
			id: nextID(),
		},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener,
// if a tracked run is active on this goroutine.
func (b *Binding[T]) Get() T {
	// Read value with lock, then track after releasing it so a
	// subscription callback can never deadlock against the cell lock.
	b.mu.RLock()
	value := b.value
	b.mu.RUnlock()

	trackRead(&b.base)

	return value
}

// GetAny returns the current value as any. It is a tracked read.
// Implements the AnySignal interface.
func (b *Binding[T]) GetAny() any {
	return b.Get()
}

// Peek returns the current value without subscribing.
// Use this when reading inside a computed or effect without wanting a
// dependency on this binding.
func (b *Binding[T]) Peek() T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// Set replaces the value and notifies watchers. If the new value equals
// the current one (per the binding's equality function), the write is a
// no-op: no version bump, no notification.
func (b *Binding[T]) Set(value T) {
	b.mu.Lock()
	changed := !b.equals(b.value, value)
	if changed {
		b.value = value
		b.base.bumpVersion()
	}
	b.mu.Unlock()

	if changed {
		instrEffectiveSet()
		b.base.notifySubscribers()
	}
}

// Update atomically reads and replaces the value. The function receives
// the current value and returns the new one. Because both the old and
// new values are in hand, Update applies the same no-op suppression as
// Set.
func (b *Binding[T]) Update(fn func(T) T) {
	b.mu.Lock()
	oldValue := b.value
	newValue := fn(oldValue)
	changed := !b.equals(oldValue, newValue)
	if changed {
		b.value = newValue
		b.base.bumpVersion()
	}
	b.mu.Unlock()

	if changed {
		instrEffectiveSet()
		b.base.notifySubscribers()
	}
}

// Mutate runs fn with mutable access to the value in place. It is
// always treated as an effective change; use it only when a change is
// actually intended. If fn panics, the lock is released and the
// half-mutated value is not announced: notification is skipped and the
// panic propagates.
func (b *Binding[T]) Mutate(fn func(*T)) {
	b.mu.Lock()
	completed := false
	func() {
		defer func() {
			if !completed {
				b.mu.Unlock()
			}
		}()
		fn(&b.value)
		completed = true
	}()

	b.base.bumpVersion()
	b.mu.Unlock()

	instrEffectiveSet()
	b.base.notifySubscribers()
}

// GetMut returns a scoped mutable guard over the value. The binding's
// lock is held until Release, so the access is exclusive. On Release
// the runtime performs the same effective-change check as Set and
// notifies watchers if the value changed.
//
// For reference types (slices, maps) the pre-mutation snapshot aliases
// the same backing storage, so in-place element mutation can defeat the
// change check; prefer Mutate for those.
//
// Always `defer guard.Release()`: a panic that unwinds past an
// unreleased guard leaves the binding locked forever. Release cannot
// tell a panic unwind from a normal return, so a deferred Release on a
// panicking path still announces whatever was written. If the region
// between GetMut and Release can panic, use Mutate instead, which
// unlocks and skips notification on panic.
func (b *Binding[T]) GetMut() *MutGuard[T] {
	b.mu.Lock()
	return &MutGuard[T]{
		b:        b,
		snapshot: b.value,
	}
}

// Watch registers fn to run on each effective change, starting from the
// next change. Cancel the returned guard to stop delivery.
func (b *Binding[T]) Watch(fn func(T)) *WatcherGuard {
	w := newWatcher[T](&b.base, b, fn, b.equals)
	return &WatcherGuard{cancelFn: w.cancel}
}

// WithEquals returns the binding configured with a custom equality
// function. Useful for types where reflect.DeepEqual is too expensive
// or has the wrong semantics.
func (b *Binding[T]) WithEquals(fn func(T, T) bool) *Binding[T] {
	b.equal = fn
	return b
}

// ID returns the unique identifier for this binding.
func (b *Binding[T]) ID() uint64 {
	return b.base.id
}

// Version returns the number of effective changes applied so far.
// It strictly increases on every announced mutation.
func (b *Binding[T]) Version() uint64 {
	return b.base.version.Load()
}

// equals checks two values using the configured equality function.
func (b *Binding[T]) equals(a, v T) bool {
	if b.equal != nil {
		return b.equal(a, v)
	}
	return defaultEquals(a, v)
}

// MutGuard is the scoped mutable access handle returned by GetMut.
// Release must be called on every exit path, including panics, so defer
// it immediately; it is idempotent. See GetMut for the panic contract.
type MutGuard[T any] struct {
	b        *Binding[T]
	snapshot T
	released bool
}

// Value returns a pointer to the guarded value. Only valid until
// Release is called.
func (g *MutGuard[T]) Value() *T {
	return &g.b.value
}

// Release ends the scoped access. If the value changed since GetMut
// (per the binding's equality function), the version is bumped and
// watchers are notified.
func (g *MutGuard[T]) Release() {
	if g.released {
		return
	}
	g.released = true

	b := g.b
	changed := !b.equals(g.snapshot, b.value)
	if changed {
		b.base.bumpVersion()
	}
	b.mu.Unlock()

	if changed {
		instrEffectiveSet()
		b.base.notifySubscribers()
	}
}

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		// Slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}

var _ Signal[int] = (*Binding[int])(nil)
var _ AnySignal = (*Binding[int])(nil)
