package reactive

import (
	"slices"
	"sync"
)

// ArrayOp identifies one of the seven array mutators.
type ArrayOp uint8

const (
	OpPush    ArrayOp = iota // append at end
	OpPop                    // remove from end
	OpShift                  // remove from start
	OpUnshift                // insert at start
	OpSplice                 // arbitrary insert/remove
	OpSort                   // in-place sort
	OpReverse                // in-place reverse
)

// String returns the mutator's name.
func (op ArrayOp) String() string {
	switch op {
	case OpPush:
		return "push"
	case OpPop:
		return "pop"
	case OpShift:
		return "shift"
	case OpUnshift:
		return "unshift"
	case OpSplice:
		return "splice"
	case OpSort:
		return "sort"
	case OpReverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// Inserts returns the elements a call with args introduces into the
// array: every argument for push and unshift, every argument after the
// first two for splice, none otherwise.
func (op ArrayOp) Inserts(args []any) []any {
	switch op {
	case OpPush, OpUnshift:
		return args
	case OpSplice:
		if len(args) > 2 {
			return args[2:]
		}
		return nil
	default:
		return nil
	}
}

// Array is an ordered list in the data graph. Structural changes made
// through its seven mutators are observable once the array has been
// observed; index reads and Len are not tracked.
type Array struct {
	mu    sync.RWMutex
	items []any

	// ob is the hidden Observer marker.
	ob *Observer
}

// NewArray creates an Array holding items.
func NewArray(items ...any) *Array {
	a := &Array{items: make([]any, len(items))}
	copy(a.items, items)
	return a
}

// Len returns the number of elements.
func (a *Array) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// At returns the element at index i, or nil when i is out of range.
func (a *Array) At(i int) any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Values returns a copy of the elements.
func (a *Array) Values() []any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	items := make([]any, len(a.items))
	copy(items, a.items)
	return items
}

// Observer returns the Observer attached to a, or nil.
func (a *Array) Observer() *Observer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ob
}

// Push appends items and returns the new length.
func (a *Array) Push(items ...any) int {
	return a.mutate(OpPush, items, func() any {
		a.items = append(a.items, items...)
		return len(a.items)
	}).(int)
}

// Pop removes and returns the last element, or nil when empty.
func (a *Array) Pop() any {
	return a.mutate(OpPop, nil, func() any {
		n := len(a.items)
		if n == 0 {
			return nil
		}
		last := a.items[n-1]
		a.items[n-1] = nil
		a.items = a.items[:n-1]
		return last
	})
}

// Shift removes and returns the first element, or nil when empty.
func (a *Array) Shift() any {
	return a.mutate(OpShift, nil, func() any {
		if len(a.items) == 0 {
			return nil
		}
		first := a.items[0]
		a.items = slices.Delete(a.items, 0, 1)
		return first
	})
}

// Unshift inserts items at the start and returns the new length.
func (a *Array) Unshift(items ...any) int {
	return a.mutate(OpUnshift, items, func() any {
		a.items = slices.Insert(a.items, 0, items...)
		return len(a.items)
	}).(int)
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place and returns the removed elements. A negative start counts
// from the end; start and deleteCount are clamped to the array bounds.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	args := append([]any{start, deleteCount}, items...)
	return a.mutate(OpSplice, args, func() any {
		n := len(a.items)
		switch {
		case start < 0:
			start = max(n+start, 0)
		case start > n:
			start = n
		}
		deleteCount = min(max(deleteCount, 0), n-start)

		removed := make([]any, deleteCount)
		copy(removed, a.items[start:start+deleteCount])

		next := make([]any, 0, n-deleteCount+len(items))
		next = append(next, a.items[:start]...)
		next = append(next, items...)
		next = append(next, a.items[start+deleteCount:]...)
		a.items = next
		return removed
	}).([]any)
}

// Sort sorts the elements in place and returns the array. less reports
// whether x sorts before y; nil sorts by string form with nil elements
// last. The sort is stable. less runs on a copy without holding the
// array's lock, so it may read the array.
func (a *Array) Sort(less func(x, y any) bool) *Array {
	if less == nil {
		less = defaultLess
	}
	sorted := a.Values()
	slices.SortStableFunc(sorted, func(x, y any) int {
		switch {
		case less(x, y):
			return -1
		case less(y, x):
			return 1
		default:
			return 0
		}
	})
	return a.mutate(OpSort, nil, func() any {
		a.items = sorted
		return a
	}).(*Array)
}

// Reverse reverses the elements in place and returns the array.
func (a *Array) Reverse() *Array {
	return a.mutate(OpReverse, nil, func() any {
		slices.Reverse(a.items)
		return a
	}).(*Array)
}

// mutate runs fn under the write lock and captures its result. When the
// array is observed, newly inserted elements are observed and the
// Observer-level Dep is notified. The captured result is returned as is.
func (a *Array) mutate(op ArrayOp, args []any, fn func() any) any {
	a.mu.Lock()
	ret := fn()
	ob := a.ob
	a.mu.Unlock()

	if ob == nil {
		return ret
	}
	if inserted := op.Inserts(args); len(inserted) > 0 {
		ob.observeItems(inserted)
	}
	ob.dep.Notify()
	return ret
}

// observe attaches an Observer and observes the current elements.
func (a *Array) observe() *Observer {
	a.mu.Lock()
	if a.ob != nil {
		ob := a.ob
		a.mu.Unlock()
		return ob
	}
	ob := newObserver(a)
	a.ob = ob
	items := make([]any, len(a.items))
	copy(items, a.items)
	a.mu.Unlock()

	ob.observeItems(items)
	return ob
}

// defaultLess orders by string form, nil last.
func defaultLess(x, y any) bool {
	if x == nil {
		return false
	}
	if y == nil {
		return true
	}
	return ToString(x) < ToString(y)
}
