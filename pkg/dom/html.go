package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses an HTML document. The result always has the html, head
// and body elements the HTML5 parsing algorithm inserts.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := NewDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := d.fromHTML(c); n != nil {
			d.root.attach(n)
		}
	}
	return d, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// fromHTML converts a parsed html.Node subtree into a detached subtree
// owned by d. Doctype and unknown node types are dropped.
func (d *Document) fromHTML(h *html.Node) *Node {
	var n *Node
	switch h.Type {
	case html.ElementNode:
		n = d.CreateElement(h.Data)
		for _, a := range h.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.attrs = append(n.attrs, Attribute{Name: strings.ToLower(name), Value: a.Val})
		}
	case html.TextNode:
		return d.CreateTextNode(h.Data)
	case html.CommentNode:
		return d.CreateComment(h.Data)
	default:
		return nil
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := d.fromHTML(c); child != nil {
			n.attach(child)
		}
	}
	return n
}

// toHTML converts n and its subtree into an html.Node tree.
func (n *Node) toHTML() *html.Node {
	var h *html.Node
	switch n.typ {
	case ElementNode:
		h = &html.Node{
			Type:     html.ElementNode,
			Data:     n.tag,
			DataAtom: atom.Lookup([]byte(n.tag)),
		}
		for _, a := range n.attrs {
			h.Attr = append(h.Attr, html.Attribute{Key: a.Name, Val: a.Value})
		}
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.data}
	case CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.data}
	case DocumentNode:
		h = &html.Node{Type: html.DocumentNode}
	default:
		return nil
	}
	for _, c := range n.children {
		if child := c.toHTML(); child != nil {
			h.AppendChild(child)
		}
	}
	return h
}

// InnerHTML serialises the children of n.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	for _, c := range n.children {
		if h := c.toHTML(); h != nil {
			_ = html.Render(&sb, h)
		}
	}
	return sb.String()
}

// OuterHTML serialises n itself.
func (n *Node) OuterHTML() string {
	h := n.toHTML()
	if h == nil {
		return ""
	}
	var sb strings.Builder
	_ = html.Render(&sb, h)
	return sb.String()
}

// SetInnerHTML parses s as a fragment in the context of n and replaces
// n's children with the result. Listeners on the old children are lost.
func (n *Node) SetInnerHTML(s string) error {
	if n.typ != ElementNode {
		n.SetTextContent(s)
		return nil
	}
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     n.tag,
		DataAtom: atom.Lookup([]byte(n.tag)),
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return err
	}
	n.detachChildren()
	for _, h := range nodes {
		if child := n.doc.fromHTML(h); child != nil {
			n.attach(child)
		}
	}
	n.record(Mutation{Op: MutSetHTML, Target: n, Value: s})
	return nil
}

// voidElements cannot have children and are written without an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether tag is an HTML void element.
func IsVoidElement(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}
