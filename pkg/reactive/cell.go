package reactive

import (
	"reflect"
	"sync"
)

// Cell is a reactive value container. Reading it while a Watcher is
// collecting subscribes that Watcher; writing a different value notifies
// every subscriber.
type Cell[T any] struct {
	dep *Dep

	// value is the current value.
	value T

	// mu protects value.
	mu sync.RWMutex

	// equal decides whether a write changes the value.
	// If nil, Same is used.
	equal func(T, T) bool
}

// NewCell creates a cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		dep:   NewDep(),
		value: initial,
	}
}

// Get returns the current value and subscribes the collecting Watcher.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	// Track after releasing the value lock.
	c.dep.Depend()
	return value
}

// Peek returns the current value without subscribing.
func (c *Cell[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set stores value and notifies subscribers. It returns false and does
// nothing when value equals the current value.
func (c *Cell[T]) Set(value T) bool {
	c.mu.Lock()
	changed := !c.equals(c.value, value)
	if changed {
		c.value = value
	}
	c.mu.Unlock()

	if changed {
		c.dep.Notify()
	}
	return changed
}

// WithEquals replaces the equality function and returns the cell.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// Dep returns the cell's dependency set.
func (c *Cell[T]) Dep() *Dep {
	return c.dep
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return Same(a, b)
}

// Same reports whether a and b are the same value: equal scalars or the
// same pointer. Values of non-comparable types (slices, maps, funcs)
// are never the same, so assigning one always counts as a change.
func Same(a, b any) (same bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if !ta.Comparable() {
		return false
	}

	// Comparable structs and arrays may still hold non-comparable
	// values behind interface fields.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
