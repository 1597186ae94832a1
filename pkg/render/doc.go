// Package render serialises an in-memory DOM to HTML for the first
// paint of a mirrored page.
//
// Every element is written with a data-hid attribute carrying its
// hydration ID, and elements with event listeners get a data-on marker
// listing the event types the thin client must forward:
//
//	<button data-hid="h7" data-on="click">+</button>
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	err := renderer.RenderPage(w, render.PageData{
//	    Doc:       doc,
//	    SessionID: session.ID,
//	})
//
// RenderPage injects the thin client script just before </body>.
//
// # Security
//
// Text and attribute values are escaped. The children of script and
// style elements are written verbatim, as the HTML parser read them.
package render
