package reflow

// Pair is the product of two signals, as produced by Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is the product of three signals, as produced by Zip3.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Map derives a new signal by applying fn to the source's value.
// The result recomputes lazily whenever the source effectively changes.
func Map[T, U any](s Signal[T], fn func(T) U) *Computed[U] {
	return NewComputed(func() U {
		return fn(s.Get())
	})
}

// Zip combines two signals into one producing a Pair of their current
// values. The pair is dirty whenever either source changed.
func Zip[A, B any](a Signal[A], b Signal[B]) *Computed[Pair[A, B]] {
	return NewComputed(func() Pair[A, B] {
		return Pair[A, B]{First: a.Get(), Second: b.Get()}
	})
}

// ZipWith combines two signals through fn, skipping the intermediate
// Pair allocation of Zip followed by Map.
func ZipWith[A, B, O any](a Signal[A], b Signal[B], fn func(A, B) O) *Computed[O] {
	return NewComputed(func() O {
		return fn(a.Get(), b.Get())
	})
}

// Zip3 combines three signals into one producing a Triple.
func Zip3[A, B, C any](a Signal[A], b Signal[B], c Signal[C]) *Computed[Triple[A, B, C]] {
	return NewComputed(func() Triple[A, B, C] {
		return Triple[A, B, C]{First: a.Get(), Second: b.Get(), Third: c.Get()}
	})
}

// Zip3With combines three signals through fn.
func Zip3With[A, B, C, O any](a Signal[A], b Signal[B], c Signal[C], fn func(A, B, C) O) *Computed[O] {
	return NewComputed(func() O {
		return fn(a.Get(), b.Get(), c.Get())
	})
}

// Cached wraps a signal in a memoizing node. Reads of the result hit
// the cache; the upstream is consulted at most once per effective
// upstream change, however many times Get is called. Place it in front
// of an expensive Map stage to bound how often the mapping runs.
func Cached[T any](s Signal[T]) *Computed[T] {
	return NewComputed(func() T {
		return s.Get()
	})
}
