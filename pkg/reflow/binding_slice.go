package reflow

import "sort"

// SliceBinding wraps Binding[[]T] with convenience mutators for list
// state. Mutators copy before modifying so previously read slices stay
// valid, and all of them route through Update, preserving
// effective-change semantics.
type SliceBinding[T any] struct {
	*Binding[[]T]
}

// NewSliceBinding creates a new SliceBinding with the given initial
// value. If initial is nil, creates an empty slice.
func NewSliceBinding[T any](initial []T) *SliceBinding[T] {
	if initial == nil {
		initial = []T{}
	}
	return &SliceBinding[T]{NewBinding(initial)}
}

// Append adds an item to the end of the slice.
func (s *SliceBinding[T]) Append(item T) {
	s.Update(func(items []T) []T {
		out := make([]T, len(items), len(items)+1)
		copy(out, items)
		return append(out, item)
	})
}

// AppendAll adds multiple items to the end of the slice.
func (s *SliceBinding[T]) AppendAll(items ...T) {
	s.Update(func(current []T) []T {
		out := make([]T, len(current), len(current)+len(items))
		copy(out, current)
		return append(out, items...)
	})
}

// Prepend adds an item to the beginning of the slice.
func (s *SliceBinding[T]) Prepend(item T) {
	s.Update(func(items []T) []T {
		out := make([]T, 0, len(items)+1)
		out = append(out, item)
		return append(out, items...)
	})
}

// InsertAt inserts an item at the given index. An index past either end
// clamps to an append or prepend.
func (s *SliceBinding[T]) InsertAt(index int, item T) {
	s.Update(func(items []T) []T {
		if index < 0 {
			index = 0
		}
		if index > len(items) {
			index = len(items)
		}
		out := make([]T, 0, len(items)+1)
		out = append(out, items[:index]...)
		out = append(out, item)
		return append(out, items[index:]...)
	})
}

// RemoveAt removes the item at the given index.
// Does nothing if index is out of bounds.
func (s *SliceBinding[T]) RemoveAt(index int) {
	s.Update(func(items []T) []T {
		if index < 0 || index >= len(items) {
			return items
		}
		out := make([]T, 0, len(items)-1)
		out = append(out, items[:index]...)
		return append(out, items[index+1:]...)
	})
}

// SetAt sets the item at the given index.
// Does nothing if index is out of bounds.
func (s *SliceBinding[T]) SetAt(index int, item T) {
	s.Update(func(items []T) []T {
		if index < 0 || index >= len(items) {
			return items
		}
		out := make([]T, len(items))
		copy(out, items)
		out[index] = item
		return out
	})
}

// Sort reorders the slice by the given less function.
func (s *SliceBinding[T]) Sort(less func(a, b T) bool) {
	s.Update(func(items []T) []T {
		out := make([]T, len(items))
		copy(out, items)
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i], out[j])
		})
		return out
	})
}

// Filter keeps only items that satisfy the predicate.
func (s *SliceBinding[T]) Filter(predicate func(T) bool) {
	s.Update(func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, item := range items {
			if predicate(item) {
				out = append(out, item)
			}
		}
		return out
	})
}

// Clear removes all items from the slice.
func (s *SliceBinding[T]) Clear() {
	s.Set([]T{})
}

// Len returns the length of the slice.
// This reads the binding and creates a dependency.
func (s *SliceBinding[T]) Len() int {
	return len(s.Get())
}
