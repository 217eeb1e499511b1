package reflow

import "fmt"

// DebugMode enables debug logging throughout the reflow package.
// When true, operations like TxNamed will log transaction boundaries.
// This should be set at startup and not changed during runtime.
var DebugMode bool

// Batch groups multiple signal updates into a single notification
// phase. All updates within the batch function are collected,
// deduplicated by listener, and delivered once when the outermost batch
// completes.
//
// This is useful for updating several related bindings without
// triggering intermediate recomputation storms.
//
// Batches nest; notifications only fire when the outermost completes.
//
// Example:
//
//	Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	    age.Set(30)
//	})
//	// Watchers run once with all three changes applied
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}

// Untracked runs a function without tracking signal reads as
// dependencies. Useful when a computed or effect needs to consult a
// signal without subscribing to it.
//
// For single reads, signal.Peek() is more direct.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// Tx runs fn as a transaction, grouping all signal updates.
// It is an alias for Batch that reads better at mutation call sites.
func Tx(fn func()) {
	Batch(fn)
}

// TxNamed runs fn as a named transaction for debugging and tracing.
// The transaction name is logged in debug mode for observability.
//
// Example:
//
//	TxNamed("profile-update", func() {
//	    user.Set(newUser)
//	    avatar.Set(newAvatar)
//	})
func TxNamed(name string, fn func()) {
	if DebugMode {
		fmt.Printf("[TX] %s start\n", name)
		defer fmt.Printf("[TX] %s end\n", name)
	}
	Batch(fn)
}
