package reflow

// Const is an immutable Signal: Get is a pure return and Watch hands
// back an inert guard that never fires. Constants let APIs that accept
// a Signal be fed a fixed value without special-casing.
type Const[T any] struct {
	value T
}

// NewConst creates a constant signal holding the given value.
func NewConst[T any](value T) *Const[T] {
	return &Const[T]{value: value}
}

// Get returns the constant value. Constants never change, so no
// dependency is recorded for the current listener.
func (c *Const[T]) Get() T {
	return c.value
}

// GetAny returns the constant value as any.
// Implements the AnySignal interface.
func (c *Const[T]) GetAny() any {
	return c.value
}

// Peek returns the constant value.
func (c *Const[T]) Peek() T {
	return c.value
}

// Watch returns an inert guard. The callback will never be invoked.
func (c *Const[T]) Watch(func(T)) *WatcherGuard {
	return inertGuard()
}

var _ Signal[int] = (*Const[int])(nil)
var _ AnySignal = (*Const[int])(nil)
