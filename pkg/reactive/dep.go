package reactive

import "sync"

// Dep is the ordered subscriber list of one observable slot.
// There is one Dep per reactive key and one per Observer.
type Dep struct {
	id uint64

	// subs are the subscribers, in registration order.
	subs []Subscriber

	// mu protects subs.
	mu sync.RWMutex
}

// NewDep creates an empty dependency set.
func NewDep() *Dep {
	return &Dep{id: nextID()}
}

// ID returns the unique identifier for this Dep.
func (d *Dep) ID() uint64 {
	return d.id
}

// Depend registers the subscriber collecting on the current goroutine.
// It is a no-op when nothing is collecting or the subscriber is already
// registered.
func (d *Dep) Depend() {
	if s := currentSubscriber(); s != nil {
		d.subscribe(s)
	}
}

// subscribe adds s, deduplicating by ID.
func (d *Dep) subscribe(s Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sid := s.ID()
	for _, existing := range d.subs {
		if existing.ID() == sid {
			return
		}
	}
	d.subs = append(d.subs, s)
}

// subscribeAll adds each of subs, deduplicating by ID.
func (d *Dep) subscribeAll(subs []Subscriber) {
	for _, s := range subs {
		d.subscribe(s)
	}
}

// Notify calls Update on every subscriber in registration order.
// Subscribers are copied first so a callback may touch this Dep again
// without deadlocking.
func (d *Dep) Notify() {
	for _, s := range d.Subscribers() {
		s.Update()
	}
}

// Subscribers returns a snapshot of the registered subscribers.
func (d *Dep) Subscribers() []Subscriber {
	d.mu.RLock()
	defer d.mu.RUnlock()

	subs := make([]Subscriber, len(d.subs))
	copy(subs, d.subs)
	return subs
}

// Len returns the number of registered subscribers.
func (d *Dep) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}
