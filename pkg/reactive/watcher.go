package reactive

// Watcher is a live binding between one property of a root and a
// callback. Constructing it reads the property once while collecting,
// which subscribes the Watcher to every Dep that read touches. Each
// later notification re-reads the property and passes the fresh value
// to the callback. Watchers never unsubscribe.
type Watcher struct {
	id   uint64
	root Getter
	key  string
	cb   func(value any)
}

// NewWatcher creates a Watcher for root's key and collects its
// dependencies. key is a single-level property name.
func NewWatcher(root Getter, key string, cb func(value any)) *Watcher {
	w := &Watcher{
		id:   nextID(),
		root: root,
		key:  key,
		cb:   cb,
	}
	Collect(w, func() {
		root.Get(key)
	})
	return w
}

// Update re-reads the property and invokes the callback with it.
func (w *Watcher) Update() {
	w.cb(w.root.Get(w.key))
}

// ID returns the unique identifier for this Watcher.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Key returns the watched property name.
func (w *Watcher) Key() string {
	return w.key
}
