package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/dvue/pkg/dom"
)

// HIDAttr and EventsAttr are the marker attributes the thin client reads.
const (
	HIDAttr    = "data-hid"
	EventsAttr = "data-on"
)

// emptyTextMarker holds the place of an empty text node. The thin client
// swaps it for a text node when the first text patch arrives.
const emptyTextMarker = "<!---->"

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// OmitHIDs disables the data-hid and data-on markers. Used for
	// static output that will never be mirrored.
	OmitHIDs bool
}

// Renderer writes DOM subtrees as HTML.
type Renderer struct {
	config RendererConfig

	// beforeBodyEnd is written just before </body> when set.
	beforeBodyEnd string
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	return &Renderer{config: config}
}

// RenderToString renders n and its subtree to an HTML string.
func (r *Renderer) RenderToString(n *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams n and its subtree to w.
func (r *Renderer) RenderToWriter(w io.Writer, n *dom.Node) error {
	return r.renderNode(w, n, false)
}

// RenderChildren renders only the children of n. This is what replaces
// an element's content on the client after SetInnerHTML.
func (r *Renderer) RenderChildren(w io.Writer, n *dom.Node) error {
	raw := rawTextElements[n.TagName()]
	for _, c := range n.ChildNodes() {
		if err := r.renderNode(w, c, raw); err != nil {
			return err
		}
	}
	return nil
}

// InnerHTML returns RenderChildren's output as a string.
func (r *Renderer) InnerHTML(n *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderChildren(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderNode dispatches rendering based on node type. raw is true inside
// raw text elements.
func (r *Renderer) renderNode(w io.Writer, n *dom.Node, raw bool) error {
	if n == nil {
		return nil
	}

	switch n.NodeType() {
	case dom.ElementNode:
		return r.renderElement(w, n)
	case dom.TextNode:
		text := n.Data()
		if text == "" && !raw && !r.config.OmitHIDs {
			// An empty text node would vanish when the browser parses
			// the page, shifting the child indexes text patches use.
			text = emptyTextMarker
		} else if !raw {
			text = escapeHTML(text)
		}
		_, err := io.WriteString(w, text)
		return err
	case dom.CommentNode:
		_, err := fmt.Fprintf(w, "<!--%s-->", n.Data())
		return err
	case dom.DocumentNode:
		return r.RenderChildren(w, n)
	default:
		return fmt.Errorf("unknown node type: %d", n.NodeType())
	}
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, n *dom.Node) error {
	tag := n.TagName()

	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, n); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if dom.IsVoidElement(tag) {
		return nil
	}

	if tag == "textarea" {
		if _, err := io.WriteString(w, escapeHTML(n.Value())); err != nil {
			return err
		}
	} else if err := r.RenderChildren(w, n); err != nil {
		return err
	}

	if tag == "body" && r.beforeBodyEnd != "" {
		if _, err := io.WriteString(w, r.beforeBodyEnd); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", tag)
	return err
}

// renderAttributes renders the element's attributes in document order,
// followed by the hydration markers.
func (r *Renderer) renderAttributes(w io.Writer, n *dom.Node) error {
	withValue := valueElements[n.TagName()]

	for _, a := range n.Attributes() {
		if a.Name == HIDAttr || a.Name == EventsAttr {
			continue
		}
		if withValue && a.Name == "value" {
			continue
		}
		if a.Value == "" && isBooleanAttr(a.Name) {
			if _, err := fmt.Fprintf(w, " %s", a.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}

	if withValue {
		if v := n.Value(); v != "" || n.HasAttribute("value") {
			if _, err := fmt.Fprintf(w, ` value="%s"`, escapeAttr(v)); err != nil {
				return err
			}
		}
	}

	if r.config.OmitHIDs {
		return nil
	}

	if _, err := fmt.Fprintf(w, ` %s="%s"`, HIDAttr, n.HID()); err != nil {
		return err
	}
	if types := n.ListenerTypes(); len(types) > 0 {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, EventsAttr, escapeAttr(strings.Join(types, ","))); err != nil {
			return err
		}
	}
	return nil
}
