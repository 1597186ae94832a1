package compiler

import (
	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/reactive"
)

// Directive identifies how a bound value is written to its node.
type Directive uint8

const (
	DirText  Directive = iota + 1 // textContent
	DirHTML                       // innerHTML
	DirModel                      // value property, two-way
	DirBind                       // a named attribute
)

// String returns the string representation of the Directive.
func (d Directive) String() string {
	switch d {
	case DirText:
		return "text"
	case DirHTML:
		return "html"
	case DirModel:
		return "model"
	case DirBind:
		return "bind"
	default:
		return "unknown"
	}
}

// ParseDirective maps the name of a v-NAME attribute to its Directive.
// Attribute bindings are recognised by their colon, not by name, so
// "bind" is not a valid name here.
func ParseDirective(name string) (Directive, bool) {
	switch name {
	case "text":
		return DirText, true
	case "html":
		return DirHTML, true
	case "model":
		return DirModel, true
	default:
		return 0, false
	}
}

// Apply writes value to n the way d does. arg is the attribute name for
// DirBind and ignored otherwise.
func (d Directive) Apply(n *dom.Node, value any, arg string) error {
	s := reactive.ToString(value)
	switch d {
	case DirText:
		n.SetTextContent(s)
	case DirHTML:
		return n.SetInnerHTML(s)
	case DirModel:
		// Skip when the value came from the element itself.
		if n.Value() != s {
			n.SetValue(s)
		}
	case DirBind:
		n.SetAttribute(arg, s)
	}
	return nil
}
