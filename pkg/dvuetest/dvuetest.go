// Package dvuetest provides helpers for testing templates and methods
// without a browser.
//
//	h := dvuetest.Mount(t, `<div id="app"><p id="n">{{ n }}</p><button @click="inc">+</button></div>`,
//	    dvue.Options{Data: reactive.ObjectOf("n", 0), Methods: methods})
//	h.Click("button")
//	dvuetest.ExpectText(t, h, "#n", "1")
package dvuetest

import (
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/dvue"
	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/render"
)

// DefaultEl is the mount selector used when Options.El is empty.
const DefaultEl = "#app"

// Harness is a mounted instance plus the DOM writes made since mount.
type Harness struct {
	tb  testing.TB
	VM  *dvue.Instance
	Doc *dom.Document

	mu        sync.Mutex
	mutations []dom.Mutation
}

// Mount parses html and mounts an instance on it. The test fails if the
// template does not parse or nothing matches the mount selector.
// Mutations made while mounting are not recorded.
func Mount(tb testing.TB, html string, opts dvue.Options) *Harness {
	tb.Helper()
	doc, err := dom.ParseString(html)
	if err != nil {
		tb.Fatalf("dvuetest: parse template: %v", err)
	}
	if opts.El == "" {
		opts.El = DefaultEl
	}

	vm := dvue.New(doc, opts)
	if vm.El() == nil {
		tb.Fatalf("dvuetest: nothing matches %q", opts.El)
	}

	h := &Harness{tb: tb, VM: vm, Doc: doc}
	tb.Cleanup(doc.OnMutation(h.record))
	return h
}

func (h *Harness) record(m dom.Mutation) {
	h.mu.Lock()
	h.mutations = append(h.mutations, m)
	h.mu.Unlock()
}

// Query returns the first node matching selector, failing the test if
// there is none.
func (h *Harness) Query(selector string) *dom.Node {
	h.tb.Helper()
	n := h.Doc.QuerySelector(selector)
	if n == nil {
		h.tb.Fatalf("dvuetest: no element matches %q", selector)
	}
	return n
}

// Dispatch fires a bubbling event of type typ at selector.
func (h *Harness) Dispatch(selector, typ string) {
	h.tb.Helper()
	h.Query(selector).DispatchEvent(dom.NewEvent(typ))
}

// Click fires a click at selector.
func (h *Harness) Click(selector string) {
	h.tb.Helper()
	h.Dispatch(selector, "click")
}

// Input types value into selector the way a browser would: the value
// changes without a recorded write, then an input event fires.
func (h *Harness) Input(selector, value string) {
	h.tb.Helper()
	n := h.Query(selector)
	n.SyncValue(value)
	n.DispatchEvent(dom.NewEvent("input"))
}

// Text returns the text content of selector.
func (h *Harness) Text(selector string) string {
	h.tb.Helper()
	return h.Query(selector).TextContent()
}

// Mutations returns the writes recorded since mount or the last Reset.
func (h *Harness) Mutations() []dom.Mutation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]dom.Mutation(nil), h.mutations...)
}

// Reset clears the recorded mutations.
func (h *Harness) Reset() {
	h.mu.Lock()
	h.mutations = nil
	h.mu.Unlock()
}

// HTML renders the mount element without hydration markers.
func (h *Harness) HTML() string {
	h.tb.Helper()
	return RenderToString(h.tb, h.VM.El())
}

// RenderToString renders n without hydration markers.
func RenderToString(tb testing.TB, n *dom.Node) string {
	tb.Helper()
	s, err := render.NewRenderer(render.RendererConfig{OmitHIDs: true}).RenderToString(n)
	if err != nil {
		tb.Fatalf("dvuetest: render: %v", err)
	}
	return s
}

// ExpectText asserts the text content of selector.
func ExpectText(tb testing.TB, h *Harness, selector, want string) {
	tb.Helper()
	if got := h.Text(selector); got != want {
		tb.Errorf("text of %s = %q, want %q", selector, got, want)
	}
}

// ExpectAttribute asserts an attribute of selector.
func ExpectAttribute(tb testing.TB, h *Harness, selector, attr, want string) {
	tb.Helper()
	got, ok := h.Query(selector).GetAttribute(attr)
	if !ok {
		tb.Errorf("%s has no %s attribute, want %q", selector, attr, want)
		return
	}
	if got != want {
		tb.Errorf("%s[%s] = %q, want %q", selector, attr, got, want)
	}
}

// ExpectContains asserts that the rendered mount element contains s.
func ExpectContains(tb testing.TB, h *Harness, s string) {
	tb.Helper()
	if html := h.HTML(); !strings.Contains(html, s) {
		tb.Errorf("expected rendered output to contain %q, got:\n%s", s, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered mount element lacks s.
func ExpectNotContains(tb testing.TB, h *Harness, s string) {
	tb.Helper()
	if html := h.HTML(); strings.Contains(html, s) {
		tb.Errorf("expected rendered output to NOT contain %q, got:\n%s", s, truncate(html, 500))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
