package compiler

import (
	"testing"

	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/reactive"
)

// testVM is a minimal VM backed by an observed Object.
type testVM struct {
	data    *reactive.Object
	methods map[string]func(vm *testVM, ev *dom.Event)
}

func newTestVM(data *reactive.Object) *testVM {
	reactive.Observe(data)
	return &testVM{data: data, methods: make(map[string]func(*testVM, *dom.Event))}
}

func (vm *testVM) Get(key string) any        { return vm.data.Get(key) }
func (vm *testVM) Set(key string, value any) { vm.data.Set(key, value) }
func (vm *testVM) Listener(name string) (dom.Listener, bool) {
	fn, ok := vm.methods[name]
	if !ok {
		return nil, false
	}
	return func(ev *dom.Event) { fn(vm, ev) }, true
}

func mount(t *testing.T, src string, vm *testVM) (*dom.Document, *Compiler) {
	t.Helper()
	doc, err := dom.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	c := New(vm, nil)
	if c.Mount(doc, "#app") == nil {
		t.Fatal("Mount returned nil")
	}
	return doc, c
}

func TestCounter(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("count", 0))
	vm.methods["add"] = func(vm *testVM, ev *dom.Event) {
		vm.Set("count", vm.Get("count").(int)+1)
	}

	doc, c := mount(t, `<div id="app"><p id="out">{{ count }}</p><button id="btn" @click="add">+</button></div>`, vm)
	out := doc.GetElementByID("out")
	btn := doc.GetElementByID("btn")

	if out.TextContent() != "0" {
		t.Errorf("first paint = %q, want 0", out.TextContent())
	}

	btn.DispatchEvent(dom.NewEvent("click"))
	btn.DispatchEvent(dom.NewEvent("click"))

	if out.TextContent() != "2" {
		t.Errorf("after two clicks = %q, want 2", out.TextContent())
	}
	if got := vm.Get("count"); got != 2 {
		t.Errorf("count = %v, want 2", got)
	}

	stats := c.Stats()
	if stats.Bindings != 1 || stats.Listeners != 1 || stats.Skipped != 0 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestModelRoundTrip(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("name", "ann"))
	doc, _ := mount(t, `<div id="app"><input id="in" v-model="name"><span id="echo" v-text="name"></span></div>`, vm)
	input := doc.GetElementByID("in")
	echo := doc.GetElementByID("echo")

	if input.Value() != "ann" || echo.TextContent() != "ann" {
		t.Fatalf("first paint: value=%q text=%q", input.Value(), echo.TextContent())
	}

	// View to model.
	input.SyncValue("bob")
	input.DispatchEvent(dom.NewEvent("input"))

	if vm.Get("name") != "bob" {
		t.Errorf("name = %v, want bob", vm.Get("name"))
	}
	if echo.TextContent() != "bob" {
		t.Errorf("echo = %q, want bob", echo.TextContent())
	}

	// Model to view.
	vm.Set("name", "cy")
	if input.Value() != "cy" {
		t.Errorf("input value = %q, want cy", input.Value())
	}
}

func TestModelDoesNotEchoTypedValue(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("name", ""))
	doc, _ := mount(t, `<div id="app"><input id="in" v-model="name"></div>`, vm)
	input := doc.GetElementByID("in")

	var writes []dom.Mutation
	cancel := doc.OnMutation(func(m dom.Mutation) { writes = append(writes, m) })
	defer cancel()

	input.SyncValue("typed")
	input.DispatchEvent(dom.NewEvent("input"))
	if len(writes) != 0 {
		t.Errorf("typed value written back: %+v", writes)
	}

	vm.Set("name", "reset")
	if len(writes) != 1 || writes[0].Op != dom.MutSetValue || writes[0].Value != "reset" {
		t.Errorf("writes = %+v, want one SetValue", writes)
	}
}

func TestBindAttribute(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("url", "/a", "tip", "go"))
	doc, _ := mount(t, `<div id="app"><a id="link" :href="url" v-bind:title="tip">x</a></div>`, vm)
	link := doc.GetElementByID("link")

	if link.HasAttribute(":href") || link.HasAttribute("v-bind:title") {
		t.Error("compiled bind attributes should be removed")
	}
	if v, _ := link.GetAttribute("href"); v != "/a" {
		t.Errorf("href = %q, want /a", v)
	}

	vm.Set("url", "/b")
	if v, _ := link.GetAttribute("href"); v != "/b" {
		t.Errorf("href = %q, want /b", v)
	}
	if v, _ := link.GetAttribute("title"); v != "go" {
		t.Errorf("title = %q, want go", v)
	}
}

func TestHTMLDirective(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("raw", "<b>hi</b>"))
	doc, _ := mount(t, `<div id="app"><div id="box" v-html="raw"></div></div>`, vm)
	box := doc.GetElementByID("box")

	if box.QuerySelector("b") == nil {
		t.Fatalf("expected <b> child, got %q", box.InnerHTML())
	}

	vm.Set("raw", "<i>x</i>")
	if box.QuerySelector("i") == nil || box.QuerySelector("b") != nil {
		t.Errorf("innerHTML = %q", box.InnerHTML())
	}
}

func TestInterpolationReplacesWholeTextNode(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("name", "world"))
	doc, _ := mount(t, `<div id="app"><p id="p">Hello {{ name }}!</p></div>`, vm)

	if got := doc.GetElementByID("p").TextContent(); got != "world" {
		t.Errorf("text = %q, want world", got)
	}
}

func TestArrayBindingFollowsMutators(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("items", reactive.NewArray(1, 2)))
	doc, _ := mount(t, `<div id="app"><p id="p">{{ items }}</p></div>`, vm)
	p := doc.GetElementByID("p")

	if p.TextContent() != "1,2" {
		t.Fatalf("first paint = %q", p.TextContent())
	}

	items := vm.Get("items").(*reactive.Array)
	items.Push(3)
	if p.TextContent() != "1,2,3" {
		t.Errorf("after Push = %q", p.TextContent())
	}
	items.Reverse()
	if p.TextContent() != "3,2,1" {
		t.Errorf("after Reverse = %q", p.TextContent())
	}
}

func TestNilRendersEmpty(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("x", nil))
	doc, _ := mount(t, `<div id="app"><p id="p" v-text="x">placeholder</p></div>`, vm)

	if got := doc.GetElementByID("p").TextContent(); got != "" {
		t.Errorf("text = %q, want empty", got)
	}
}

func TestSkipsUnknownDirectivesAndMissingMethods(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("a", 1))
	doc, c := mount(t, `<div id="app"><p id="p" v-show="a" @click="nope" class="c">x</p></div>`, vm)
	p := doc.GetElementByID("p")

	if p.TextContent() != "x" {
		t.Errorf("text changed to %q", p.TextContent())
	}
	if len(p.ListenerTypes()) != 0 {
		t.Errorf("unexpected listeners %v", p.ListenerTypes())
	}
	if got := c.Stats(); got.Skipped != 2 || got.Bindings != 0 {
		t.Errorf("Stats = %+v", got)
	}
}

func TestChildrenCompiledBeforeAttributes(t *testing.T) {
	vm := newTestVM(reactive.ObjectOf("a", "outer", "b", "inner"))
	doc, c := mount(t, `<div id="app"><p id="p" v-text="a">{{ b }}</p></div>`, vm)

	if got := doc.GetElementByID("p").TextContent(); got != "outer" {
		t.Errorf("text = %q, want outer", got)
	}
	if c.Stats().Bindings != 2 {
		t.Errorf("Bindings = %d, want 2", c.Stats().Bindings)
	}
}

func TestOneWatcherPerBinding(t *testing.T) {
	data := reactive.ObjectOf("n", 0)
	vm := newTestVM(data)
	doc, _ := mount(t, `<div id="app"><p>{{ n }}</p><p>{{ n }}</p></div>`, vm)

	var muts int
	doc.OnMutation(func(dom.Mutation) { muts++ })

	vm.Set("n", 1)
	if muts != 2 {
		t.Errorf("mutations = %d, want 2", muts)
	}

	// Same value: no notification.
	vm.Set("n", 1)
	if muts != 2 {
		t.Errorf("mutations after same-value write = %d, want 2", muts)
	}
}

func TestMountMissingTarget(t *testing.T) {
	doc, _ := dom.ParseString(`<div id="other">{{ x }}</div>`)
	c := New(newTestVM(reactive.ObjectOf("x", 1)), nil)

	if el := c.Mount(doc, "#app"); el != nil {
		t.Errorf("Mount = %v, want nil", el)
	}
	if got := doc.GetElementByID("other").TextContent(); got != "{{ x }}" {
		t.Errorf("unmounted template changed to %q", got)
	}
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name string
		want Directive
		ok   bool
	}{
		{"text", DirText, true},
		{"html", DirHTML, true},
		{"model", DirModel, true},
		{"bind", 0, false},
		{"show", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDirective(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDirective(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
