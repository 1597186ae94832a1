// Package reactive provides the reactivity engine for dvue.
//
// Data bound to a template lives in a graph of *Object and *Array values.
// Observing the graph installs a reactive cell behind every key of every
// object and links every array to the mutator layer, so that reads made
// while a Watcher is collecting subscribe that Watcher, and writes notify
// it.
//
// # Core Types
//
// Dep is the subscriber list of one observable slot:
//
//	dep := NewDep()
//	dep.Depend() // subscribes the collecting Watcher, if any
//	dep.Notify() // calls Update on every subscriber, in order
//
// Cell[T] is a value with its own Dep:
//
//	count := NewCell(0)
//	count.Get()  // read, subscribes the collecting Watcher
//	count.Set(5) // write, notifies when the value changed
//
// Observer makes an Object or Array reactive:
//
//	data := ObjectOf("count", 0, "list", NewArray(1, 2))
//	Observe(data)
//
//	NewWatcher(data, "count", func(v any) {
//	    fmt.Println("count is now", v)
//	})
//	data.Set("count", 1) // prints "count is now 1"
//
// Array exposes the seven mutators (Push, Pop, Shift, Unshift, Splice,
// Sort, Reverse). Each one performs the native mutation, observes the
// elements it inserted, and notifies the array's Observer-level Dep.
// Index reads, Len and Values are not tracked, and there is no index
// assignment.
//
// # Limitations
//
// Keys added to an Object after it was observed are stored as plain,
// non-reactive slots. Watchers never unsubscribe.
//
// # Collection Context
//
// The collecting Watcher is tracked per goroutine. Collect saves and
// restores the previous subscriber, so collection started on one
// goroutine is invisible to every other goroutine and nested collection
// unwinds correctly.
package reactive
