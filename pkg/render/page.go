package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/dvue/pkg/dom"
)

// DefaultClientScript is where the server mounts the thin client.
const DefaultClientScript = "/_dvue/client.js"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Doc is the mounted document.
	Doc *dom.Document

	// SessionID is handed to the thin client so it can open the session's
	// WebSocket.
	SessionID string

	// ClientScript is the path to the thin client JavaScript.
	// Defaults to DefaultClientScript if not specified.
	ClientScript string

	// NoClient disables the client script, producing a static page.
	NoClient bool
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if page.Doc == nil {
		return fmt.Errorf("render: page has no document")
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}

	if !page.NoClient {
		src := page.ClientScript
		if src == "" {
			src = DefaultClientScript
		}
		r.beforeBodyEnd = fmt.Sprintf(`<script src="%s" data-session="%s" defer></script>`,
			escapeAttr(src), escapeAttr(page.SessionID))
		defer func() { r.beforeBodyEnd = "" }()
	}

	if err := r.RenderToWriter(w, page.Doc.Root()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
