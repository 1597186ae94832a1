package dvue

import (
	"reflect"
	"testing"

	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/reactive"
)

func parse(t *testing.T, src string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func TestCounterApp(t *testing.T) {
	doc := parse(t, `<div id="app"><p id="out">{{ count }}</p><button id="btn" @click="add">+</button></div>`)

	vm := New(doc, Options{
		El:   "#app",
		Data: reactive.ObjectOf("count", 0),
		Methods: map[string]Method{
			"add": func(vm *Instance, ev *dom.Event) {
				vm.Set("count", vm.Get("count").(int)+1)
			},
		},
	})

	if vm.El() != doc.GetElementByID("app") {
		t.Fatal("El should be the #app element")
	}

	btn := doc.GetElementByID("btn")
	for i := 0; i < 3; i++ {
		btn.DispatchEvent(dom.NewEvent("click"))
	}

	if got := doc.GetElementByID("out").TextContent(); got != "3" {
		t.Errorf("text = %q, want 3", got)
	}
	if got := vm.Data().Get("count"); got != 3 {
		t.Errorf("$data.count = %v, want 3", got)
	}
}

func TestProxyForwardsToData(t *testing.T) {
	data := reactive.ObjectOf("a", 1, "b", "x")
	vm := New(nil, Options{Data: data})

	vm.Set("a", 2)
	if data.Get("a") != 2 {
		t.Errorf("data.a = %v, want 2", data.Get("a"))
	}

	data.Set("b", "y")
	if vm.Get("b") != "y" {
		t.Errorf("vm.b = %v, want y", vm.Get("b"))
	}

	if !reflect.DeepEqual(vm.Keys(), []string{"a", "b"}) {
		t.Errorf("Keys = %v", vm.Keys())
	}
}

func TestReservedNamesAreNotProxied(t *testing.T) {
	data := reactive.ObjectOf("$data", "shadow", "$el", "x", "$methods", "y", "ok", true)
	vm := New(nil, Options{Data: data})

	for _, key := range []string{KeyData, KeyEl, KeyMethods} {
		if got := vm.Get(key); got != nil {
			t.Errorf("Get(%q) = %v, want nil", key, got)
		}
	}
	if !reflect.DeepEqual(vm.Keys(), []string{"ok"}) {
		t.Errorf("Keys = %v, want [ok]", vm.Keys())
	}

	vm.Set(KeyData, "overwritten")
	if data.Get("$data") != "shadow" {
		t.Error("Set on a reserved name should not reach the data")
	}
}

func TestKeysAddedLaterAreNotProxied(t *testing.T) {
	data := reactive.ObjectOf("a", 1)
	vm := New(nil, Options{Data: data})

	data.Set("late", 5)

	if vm.Get("late") != nil {
		t.Errorf("Get(late) = %v, want nil", vm.Get("late"))
	}
	if data.IsReactive("late") {
		t.Error("late key should not be reactive")
	}
}

func TestMissingMountTarget(t *testing.T) {
	doc := parse(t, `<div id="other">{{ a }}</div>`)
	vm := New(doc, Options{El: "#app", Data: reactive.ObjectOf("a", 1)})

	if vm.El() != nil {
		t.Error("El should be nil when the selector matches nothing")
	}
	if vm.Stats().Bindings != 0 {
		t.Errorf("Bindings = %d, want 0", vm.Stats().Bindings)
	}
	if vm.Selector() != "#app" {
		t.Errorf("Selector = %q", vm.Selector())
	}
}

func TestNilDataIsEmpty(t *testing.T) {
	vm := New(nil, Options{})
	if vm.Data() == nil || vm.Data().Len() != 0 {
		t.Error("expected an empty data object")
	}
	if vm.Document() != nil {
		t.Error("Document should be nil")
	}
}

func TestMethodsAreBoundToInstance(t *testing.T) {
	doc := parse(t, `<div id="app"><button id="b" v-on:click="who">?</button></div>`)

	var got *Instance
	var target *dom.Node
	vm := New(doc, Options{
		El:   "#app",
		Data: reactive.NewObject(),
		Methods: map[string]Method{
			"who": func(vm *Instance, ev *dom.Event) {
				got = vm
				target = ev.Target
			},
		},
	})

	b := doc.GetElementByID("b")
	b.DispatchEvent(dom.NewEvent("click"))

	if got != vm {
		t.Error("method should receive the instance")
	}
	if target != b {
		t.Error("event target should be the button")
	}
	if _, ok := vm.Method("missing"); ok {
		t.Error("Method(missing) should report false")
	}
	if _, ok := vm.Methods()["who"]; !ok {
		t.Error("Methods should expose the table")
	}
}

func TestDataWritesUpdateDOMSynchronously(t *testing.T) {
	doc := parse(t, `<div id="app"><input id="in" v-model="msg"><p id="p">{{ msg }}</p></div>`)
	vm := New(doc, Options{El: "#app", Data: reactive.ObjectOf("msg", "a")})

	in := doc.GetElementByID("in")
	in.SyncValue("typed")
	in.DispatchEvent(dom.NewEvent("input"))

	if vm.Get("msg") != "typed" {
		t.Errorf("msg = %v, want typed", vm.Get("msg"))
	}
	if got := doc.GetElementByID("p").TextContent(); got != "typed" {
		t.Errorf("p = %q, want typed", got)
	}
}

func TestReassignedArrayKeepsBindingLive(t *testing.T) {
	doc := parse(t, `<div id="app"><p id="out">{{ list }}</p></div>`)
	vm := New(doc, Options{El: "#app", Data: reactive.ObjectOf("list", reactive.NewArray(1, 2))})

	next := reactive.NewArray(7)
	vm.Set("list", next)
	next.Push(8)

	if got := doc.GetElementByID("out").TextContent(); got != "7,8" {
		t.Errorf("text = %q, want 7,8", got)
	}
}
