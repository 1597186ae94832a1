package reactive

import "sync/atomic"

// Subscriber is anything a Dep can notify. Watcher is the only
// implementation in this package; tests provide their own.
type Subscriber interface {
	// Update is called synchronously when a dependency changes.
	Update()

	// ID returns a unique identifier used to suppress duplicate
	// subscriptions.
	ID() uint64
}

// Getter reads a single-level property by name. Objects and dvue
// instances implement it; Watchers read through it.
type Getter interface {
	Get(key string) any
}

// globalIDCounter is the source of unique IDs for Deps and Watchers.
var globalIDCounter uint64

// nextID returns the next unique ID. IDs are never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
