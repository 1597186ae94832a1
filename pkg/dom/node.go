package dom

import "strings"

// NodeType is the node type discriminator. Values match the browser's
// Node.nodeType constants.
type NodeType uint8

const (
	ElementNode  NodeType = 1
	TextNode     NodeType = 3
	CommentNode  NodeType = 8
	DocumentNode NodeType = 9
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DocumentNode:
		return "Document"
	default:
		return "Unknown"
	}
}

// Attribute is a single element attribute.
type Attribute struct {
	Name  string
	Value string
}

// Node is a DOM node owned by a Document.
type Node struct {
	typ NodeType
	tag string // lower-case tag name, elements only
	hid string // hydration ID

	// data is the character data of text and comment nodes.
	data string

	attrs    []Attribute
	children []*Node
	parent   *Node
	doc      *Document

	// value is the element's value property once it has been written.
	value    string
	valueSet bool

	listeners map[string][]Listener
}

// NodeType returns the node's type.
func (n *Node) NodeType() NodeType { return n.typ }

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool { return n != nil && n.typ == ElementNode }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.typ == TextNode }

// TagName returns the lower-case tag name of an element, or "".
func (n *Node) TagName() string { return n.tag }

// HID returns the node's hydration ID.
func (n *Node) HID() string { return n.hid }

// Data returns the character data of a text or comment node.
func (n *Node) Data() string { return n.data }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// OwnerDocument returns the Document that owns n.
func (n *Node) OwnerDocument() *Document { return n.doc }

// ChildNodes returns a snapshot of the child nodes.
func (n *Node) ChildNodes() []*Node {
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	return children
}

// HasChildNodes reports whether n has children.
func (n *Node) HasChildNodes() bool { return len(n.children) > 0 }

// Attributes returns a snapshot of the element's attributes.
func (n *Node) Attributes() []Attribute {
	attrs := make([]Attribute, len(n.attrs))
	copy(attrs, n.attrs)
	return attrs
}

// GetAttribute returns the named attribute's value and whether it exists.
func (n *Node) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute exists.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets the named attribute, adding it if needed.
func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	found := false
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
	}
	n.record(Mutation{Op: MutSetAttr, Target: n, Key: name, Value: value})
}

// RemoveAttribute removes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.record(Mutation{Op: MutRemoveAttr, Target: n, Key: name})
			return
		}
	}
}

// TextContent returns the text of a text node, or the concatenated text
// of all descendant text nodes of an element.
func (n *Node) TextContent() string {
	switch n.typ {
	case TextNode, CommentNode:
		return n.data
	}
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	for _, c := range n.children {
		switch c.typ {
		case TextNode:
			sb.WriteString(c.data)
		case ElementNode:
			c.collectText(sb)
		}
	}
}

// SetTextContent replaces the data of a text node, or replaces every
// child of an element with a single text node.
func (n *Node) SetTextContent(s string) {
	switch n.typ {
	case TextNode, CommentNode:
		n.data = s
	default:
		n.detachChildren()
		if s != "" {
			n.attach(n.doc.CreateTextNode(s))
		}
	}
	n.record(Mutation{Op: MutSetText, Target: n, Value: s})
}

// Value returns the element's value property. Until it is written it
// reflects the value attribute (or the text of a textarea).
func (n *Node) Value() string {
	if n.valueSet {
		return n.value
	}
	if n.tag == "textarea" {
		return n.TextContent()
	}
	v, _ := n.GetAttribute("value")
	return v
}

// SetValue writes the element's value property.
func (n *Node) SetValue(v string) {
	n.value = v
	n.valueSet = true
	n.record(Mutation{Op: MutSetValue, Target: n, Value: v})
}

// SyncValue updates the value property without recording a mutation.
// It is used when the value already changed on the other side of a
// mirror, e.g. a user typing into the browser.
func (n *Node) SyncValue(v string) {
	n.value = v
	n.valueSet = true
}

// AppendChild appends child to n, detaching it from its old parent.
func (n *Node) AppendChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	n.attach(child)
}

// RemoveChild removes child from n. It is a no-op if child is not a
// child of n.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			if n.doc != nil {
				n.doc.unindex(child)
			}
			return
		}
	}
}

// attach appends child without recording a mutation.
func (n *Node) attach(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
	if n.doc != nil {
		n.doc.adopt(child)
	}
}

// detachChildren removes every child without recording a mutation.
func (n *Node) detachChildren() {
	for _, c := range n.children {
		c.parent = nil
		if n.doc != nil {
			n.doc.unindex(c)
		}
	}
	n.children = nil
}

// Walk calls fn for n and each descendant in document order. Returning
// false from fn skips that node's descendants.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.ChildNodes() {
		c.Walk(fn)
	}
}

// record forwards a mutation to the owning document's observers.
func (n *Node) record(m Mutation) {
	if n.doc != nil {
		n.doc.notify(m)
	}
}
