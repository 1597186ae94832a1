package dom

import (
	"strconv"
	"strings"
	"sync"
)

// Document owns a node tree, the HID index and the mutation observers.
//
// A Document is not safe for concurrent mutation; callers serialise
// access (the server runs one event loop per document).
type Document struct {
	root *Node

	hidCounter uint64
	byHID      map[string]*Node

	observersMu sync.RWMutex
	observers   []observer
	observerSeq uint64
}

// observer is a registered mutation callback.
type observer struct {
	id uint64
	fn func(Mutation)
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	d := &Document{
		byHID: make(map[string]*Node),
	}
	d.root = d.newNode(DocumentNode)
	return d
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Node {
	return d.QuerySelector("body")
}

// CreateElement creates a detached element owned by d.
func (d *Document) CreateElement(tag string) *Node {
	n := d.newNode(ElementNode)
	n.tag = strings.ToLower(tag)
	return n
}

// CreateTextNode creates a detached text node owned by d.
func (d *Document) CreateTextNode(text string) *Node {
	n := d.newNode(TextNode)
	n.data = text
	return n
}

// CreateComment creates a detached comment node owned by d.
func (d *Document) CreateComment(text string) *Node {
	n := d.newNode(CommentNode)
	n.data = text
	return n
}

// NodeByHID returns the attached node with the given hydration ID.
func (d *Document) NodeByHID(hid string) *Node {
	return d.byHID[hid]
}

// OnMutation registers fn to receive every mutation made through the
// Node API. The returned function unregisters it.
func (d *Document) OnMutation(fn func(Mutation)) (cancel func()) {
	d.observersMu.Lock()
	d.observerSeq++
	id := d.observerSeq
	d.observers = append(d.observers, observer{id: id, fn: fn})
	d.observersMu.Unlock()

	return func() {
		d.observersMu.Lock()
		defer d.observersMu.Unlock()
		for i, o := range d.observers {
			if o.id == id {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) notify(m Mutation) {
	d.observersMu.RLock()
	observers := make([]observer, len(d.observers))
	copy(observers, d.observers)
	d.observersMu.RUnlock()

	for _, o := range observers {
		o.fn(m)
	}
}

func (d *Document) newNode(typ NodeType) *Node {
	d.hidCounter++
	return &Node{
		typ: typ,
		hid: "h" + strconv.FormatUint(d.hidCounter, 10),
		doc: d,
	}
}

// adopt indexes n and its subtree once it is attached under the root.
func (d *Document) adopt(n *Node) {
	if !d.attached(n) {
		return
	}
	n.Walk(func(c *Node) bool {
		c.doc = d
		d.byHID[c.hid] = c
		return true
	})
}

// unindex drops n and its subtree from the HID index.
func (d *Document) unindex(n *Node) {
	n.Walk(func(c *Node) bool {
		delete(d.byHID, c.hid)
		return true
	})
}

// attached reports whether n is connected to the document root.
func (d *Document) attached(n *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == d.root {
			return true
		}
	}
	return false
}
