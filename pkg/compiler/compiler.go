package compiler

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/reactive"
)

// interpolation matches a {{ expr }} text node.
var interpolation = regexp.MustCompile(`{{(.*)}}`)

// VM is the view model a template is compiled against.
type VM interface {
	// Get reads a data key. Reads made while a watcher is collecting
	// subscribe that watcher.
	Get(key string) any

	// Set writes a data key.
	Set(key string, value any)

	// Listener returns the method registered under name, bound to the
	// view model, or false if there is none.
	Listener(name string) (dom.Listener, bool)
}

// Stats counts what a compilation installed.
type Stats struct {
	Bindings  int // watchers created
	Listeners int // event listeners added, including v-model's
	Skipped   int // directives and events that were ignored
}

// Compiler compiles DOM subtrees against one VM.
type Compiler struct {
	vm     VM
	logger *slog.Logger
	stats  Stats
}

// New creates a Compiler. A nil logger uses slog.Default.
func New(vm VM, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		vm:     vm,
		logger: logger.With("component", "compiler"),
	}
}

// Mount compiles the first element matching selector and returns it.
// If nothing matches, nothing is compiled and Mount returns nil.
func (c *Compiler) Mount(doc *dom.Document, selector string) *dom.Node {
	el := doc.QuerySelector(selector)
	if el == nil {
		c.logger.Debug("mount target not found", "selector", selector)
		return nil
	}
	c.Compile(el)
	c.logger.Debug("compiled",
		"selector", selector,
		"bindings", c.stats.Bindings,
		"listeners", c.stats.Listeners,
		"skipped", c.stats.Skipped,
	)
	return el
}

// Compile walks the children of el depth-first. An element's children
// are compiled before its own attributes.
func (c *Compiler) Compile(el *dom.Node) {
	for _, n := range el.ChildNodes() {
		switch {
		case n.IsElement():
			if n.HasChildNodes() {
				c.Compile(n)
			}
			c.compileElement(n)
		case n.IsText():
			if m := interpolation.FindStringSubmatch(n.Data()); m != nil {
				c.bind(n, strings.TrimSpace(m[1]), DirText, "")
			}
		}
	}
}

// Stats returns the running totals for this Compiler.
func (c *Compiler) Stats() Stats {
	return c.stats
}

// compileElement classifies each attribute of n by prefix.
func (c *Compiler) compileElement(n *dom.Node) {
	for _, attr := range n.Attributes() {
		name, expr := attr.Name, attr.Value

		switch {
		case isEvent(name):
			c.compileEvent(n, eventName(name), expr)

		case isDirective(name):
			if i := strings.IndexByte(name, ':'); i >= 0 {
				arg := name[i+1:]
				if j := strings.IndexByte(arg, ':'); j >= 0 {
					arg = arg[:j]
				}
				n.RemoveAttribute(name)
				c.bind(n, expr, DirBind, arg)
				continue
			}

			dir, ok := ParseDirective(name[2:])
			if !ok {
				c.stats.Skipped++
				c.logger.Debug("unknown directive", "attr", name, "hid", n.HID())
				continue
			}
			c.bind(n, expr, dir, "")
			if dir == DirModel {
				c.compileModel(n, expr)
			}
		}
	}
}

// bind paints n once and installs the watcher that keeps it current.
func (c *Compiler) bind(n *dom.Node, expr string, dir Directive, arg string) {
	update := func(value any) {
		if err := dir.Apply(n, value, arg); err != nil {
			c.logger.Debug("update failed", "directive", dir, "expr", expr, "error", err)
		}
	}
	update(c.vm.Get(expr))
	reactive.NewWatcher(c.vm, expr, update)
	c.stats.Bindings++
}

// compileModel writes the element's value back on input.
func (c *Compiler) compileModel(n *dom.Node, expr string) {
	n.AddEventListener("input", func(ev *dom.Event) {
		c.vm.Set(expr, ev.Target.Value())
	})
	c.stats.Listeners++
}

// compileEvent attaches the named method as a listener for typ.
func (c *Compiler) compileEvent(n *dom.Node, typ, method string) {
	fn, ok := c.vm.Listener(method)
	if !ok {
		c.stats.Skipped++
		c.logger.Debug("method not found", "method", method, "event", typ, "hid", n.HID())
		return
	}
	n.AddEventListener(typ, fn)
	c.stats.Listeners++
}

func isEvent(name string) bool {
	return strings.HasPrefix(name, "v-on:") || strings.HasPrefix(name, "@")
}

func isDirective(name string) bool {
	return strings.HasPrefix(name, "v-") || strings.HasPrefix(name, ":")
}

// eventName strips the v-on: or @ prefix.
func eventName(name string) string {
	if strings.HasPrefix(name, "v-on:") {
		return name[len("v-on:"):]
	}
	return name[1:]
}
