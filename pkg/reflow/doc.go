// Package reflow is a reactive-state runtime: a dependency-tracking
// computation graph that keeps mutable values, derived values, and
// side-effecting observers consistent without manual wiring.
//
// Dependencies are tracked automatically at runtime. Reading a signal
// during a computed's or effect's execution subscribes that node to the
// signal's changes; the set is re-captured on every run, so conditional
// reads shrink and grow the graph as control flow dictates.
//
// # Core Types
//
// Binding[T] is a mutable value cell with a watcher registry:
//
//	count := NewBinding(0)
//	value := count.Get()  // read (subscribes the current listener)
//	count.Set(5)          // write (notifies watchers, no-op if equal)
//	count.Update(func(n int) int { return n + 1 })
//
// Computed[T] is a cached derived value:
//
//	doubled := Map[int, int](count, func(n int) int { return n * 2 })
//	value := doubled.Get()  // recomputes only if dependencies changed
//
// Watch delivers each effective change to a callback; cancelling the
// returned guard tears the subscription down:
//
//	guard := count.Watch(func(n int) { fmt.Println("count:", n) })
//	defer guard.Cancel()
//
// Combinators (Map, Zip, Cached, NewDebounced, Filtered, Ranged) build
// derived nodes; Textf assembles reactive strings from several signals
// at once.
//
// # Batching
//
// Multiple updates can be grouped into a single notification phase:
//
//	Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // one notification pass after both updates
//
// # Thread Safety
//
// All primitives are safe for concurrent use. Mutations on a binding
// are strictly ordered by its lock, and watchers run synchronously on
// the mutating goroutine before Set returns; hopping onto a particular
// thread is the consumer's job. The tracking context is per-goroutine.
package reflow
