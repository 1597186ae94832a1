package dom

import "sort"

// Listener handles a dispatched event.
type Listener func(ev *Event)

// Event is a DOM event travelling from its target up to the document.
type Event struct {
	// Type is the event name, e.g. "click" or "input".
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listeners are running.
	CurrentTarget *Node

	// Bubbles controls whether ancestors see the event.
	Bubbles bool

	stopped bool
}

// NewEvent creates a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// StopPropagation prevents ancestors from seeing the event.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// AddEventListener registers fn for events of type typ on n.
func (n *Node) AddEventListener(typ string, fn Listener) {
	if fn == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[typ] = append(n.listeners[typ], fn)
}

// ListenerTypes returns the sorted event types n listens for.
func (n *Node) ListenerTypes() []string {
	types := make([]string, 0, len(n.listeners))
	for typ := range n.listeners {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// DispatchEvent runs the listeners registered for ev.Type on n and, if
// the event bubbles, on each ancestor. Listeners on one node run in
// registration order.
func (n *Node) DispatchEvent(ev *Event) {
	if ev.Target == nil {
		ev.Target = n
	}
	for cur := n; cur != nil; cur = cur.parent {
		ev.CurrentTarget = cur
		listeners := append([]Listener(nil), cur.listeners[ev.Type]...)
		for _, fn := range listeners {
			fn(ev)
		}
		if ev.stopped || !ev.Bubbles {
			break
		}
	}
	ev.CurrentTarget = nil
}
