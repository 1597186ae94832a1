package reactive

// Observer makes one Object or Array reactive. It is attached to the
// value as a hidden marker, so every value is observed at most once.
type Observer struct {
	// value is the observed *Object or *Array.
	value any

	// dep is notified on structural changes to the value itself,
	// such as array mutations.
	dep *Dep
}

func newObserver(value any) *Observer {
	return &Observer{value: value, dep: NewDep()}
}

// Observe makes v reactive and returns its Observer. Observing an
// already observed value returns the existing Observer and installs
// nothing. Values other than *Object and *Array are not observable and
// yield nil.
func Observe(v any) *Observer {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		return t.observe()
	case *Array:
		if t == nil {
			return nil
		}
		return t.observe()
	default:
		return nil
	}
}

// Dep returns the Observer-level dependency set.
func (ob *Observer) Dep() *Dep {
	return ob.dep
}

// Value returns the observed value.
func (ob *Observer) Value() any {
	return ob.value
}

// walk installs a reactive cell behind each of the given keys.
func (ob *Observer) walk(o *Object, keys []string) {
	for _, key := range keys {
		o.defineReactive(key)
	}
}

// observeItems observes each item; non-observable items are skipped.
func (ob *Observer) observeItems(items []any) {
	for _, item := range items {
		Observe(item)
	}
}
