package reactive

import (
	"fmt"
	"sort"
	"sync"
)

// slot is the storage behind one Object key.
type slot struct {
	// cell backs a reactive key. nil for plain slots.
	cell *Cell[any]

	// child is the Observer of the cell's current value, if observable.
	child *Observer

	// value holds the value of a plain slot.
	value any
}

// Object is an ordered, string-keyed record in the data graph.
//
// Until it is observed an Object is a plain record. Observe installs a
// reactive cell behind every key present at that moment; keys added
// afterwards stay plain.
type Object struct {
	mu    sync.RWMutex
	keys  []string
	slots map[string]*slot

	// ob is the hidden Observer marker.
	ob *Observer
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{slots: make(map[string]*slot)}
}

// ObjectOf builds an Object from alternating key/value arguments.
// It panics if a key is not a string or a value is missing.
//
//	data := reactive.ObjectOf("count", 0, "name", "dvue")
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("reactive: ObjectOf requires key/value pairs")
	}
	o := NewObject()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("reactive: ObjectOf key %v is %T, not string", kv[i], kv[i]))
		}
		o.Set(key, kv[i+1])
	}
	return o
}

// FromMap builds an Object from m. Keys are sorted since map order is
// random; nested maps and slices are converted with Wrap.
func FromMap(m map[string]any) *Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	o := NewObject()
	for _, k := range keys {
		o.Set(k, Wrap(m[k]))
	}
	return o
}

// Wrap converts map[string]any into *Object and []any into *Array,
// recursively. Other values are returned unchanged.
func Wrap(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = Wrap(item)
		}
		return NewArray(items...)
	default:
		return v
	}
}

// Get returns the value stored under key, or nil. Reading a reactive key
// while a Watcher is collecting subscribes the Watcher to the key and,
// when the value is itself observed, to the value's Observer.
func (o *Object) Get(key string) any {
	v, _ := o.Lookup(key)
	return v
}

// Lookup is Get with a presence flag.
func (o *Object) Lookup(key string) (any, bool) {
	o.mu.RLock()
	s, ok := o.slots[key]
	if !ok {
		o.mu.RUnlock()
		return nil, false
	}
	if s.cell == nil {
		v := s.value
		o.mu.RUnlock()
		return v, true
	}
	child := s.child
	o.mu.RUnlock()

	v := s.cell.Get()
	if child != nil {
		child.dep.Depend()
	}
	return v, true
}

// peek returns the value under key without subscribing.
func (o *Object) peek(key string) any {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s, ok := o.slots[key]
	if !ok {
		return nil
	}
	if s.cell == nil {
		return s.value
	}
	return s.cell.Peek()
}

// Set stores v under key. For a reactive key, assigning the same value
// is a no-op; otherwise v is observed, the key's subscribers are also
// subscribed to v's Observer, v is stored and the subscribers are
// notified. Unknown keys are appended as plain slots.
func (o *Object) Set(key string, v any) {
	o.mu.Lock()
	s, ok := o.slots[key]
	if !ok {
		o.keys = append(o.keys, key)
		o.slots[key] = &slot{value: v}
		o.mu.Unlock()
		return
	}
	if s.cell == nil {
		s.value = v
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	if Same(s.cell.Peek(), v) {
		return
	}

	child := Observe(v)
	if child != nil {
		// Readers of the key follow mutations of the new value.
		child.dep.subscribeAll(s.cell.Dep().Subscribers())
	}
	o.mu.Lock()
	s.child = child
	o.mu.Unlock()

	s.cell.Set(v)
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.slots[key]
	return ok
}

// IsReactive reports whether key is backed by a reactive cell.
func (o *Object) IsReactive(key string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	s, ok := o.slots[key]
	return ok && s.cell != nil
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.keys)
}

// Observer returns the Observer attached to o, or nil if o has not been
// observed.
func (o *Object) Observer() *Observer {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.ob
}

// observe attaches an Observer and makes every current key reactive.
// The marker is set before walking so cyclic graphs terminate.
func (o *Object) observe() *Observer {
	o.mu.Lock()
	if o.ob != nil {
		ob := o.ob
		o.mu.Unlock()
		return ob
	}
	ob := newObserver(o)
	o.ob = ob
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	o.mu.Unlock()

	ob.walk(o, keys)
	return ob
}

// defineReactive replaces the plain slot under key with a reactive cell,
// observing its value first.
func (o *Object) defineReactive(key string) {
	o.mu.RLock()
	s, ok := o.slots[key]
	if !ok || s.cell != nil {
		o.mu.RUnlock()
		return
	}
	v := s.value
	o.mu.RUnlock()

	child := Observe(v)

	o.mu.Lock()
	s.cell = NewCell(v).WithEquals(Same)
	s.child = child
	s.value = nil
	o.mu.Unlock()
}
