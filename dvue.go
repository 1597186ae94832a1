// Package dvue binds reactive data to an HTML template.
//
// Usage:
//
//	doc, _ := dom.ParseString(`<div id="app"><p>{{ count }}</p><button @click="add">+</button></div>`)
//	vm := dvue.New(doc, dvue.Options{
//	    El:   "#app",
//	    Data: reactive.ObjectOf("count", 0),
//	    Methods: map[string]dvue.Method{
//	        "add": func(vm *dvue.Instance, ev *dom.Event) {
//	            vm.Set("count", vm.Get("count").(int)+1)
//	        },
//	    },
//	})
//
// Writes through the instance (or directly to the data Object) update the
// bound nodes synchronously, before Set returns.
package dvue

import (
	"log/slog"

	"github.com/vango-dev/dvue/pkg/compiler"
	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/reactive"
)

// =============================================================================
// Options
// =============================================================================

// Method is an event handler bound to an instance.
type Method func(vm *Instance, ev *dom.Event)

// Options configures a new Instance.
type Options struct {
	// Data is the root data object. It is observed in place.
	// A nil Data is treated as an empty object.
	Data *reactive.Object

	// El is the selector of the element to mount on, e.g. "#app".
	El string

	// Methods are the handlers v-on / @ attributes refer to by name.
	Methods map[string]Method

	// Logger receives debug output from compilation.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Reserved instance names. Data keys with these names are not proxied.
const (
	KeyData    = "$data"
	KeyEl      = "$el"
	KeyMethods = "$methods"
)

func isReserved(key string) bool {
	return key == KeyData || key == KeyEl || key == KeyMethods
}

// =============================================================================
// Instance
// =============================================================================

// Instance is a mounted view model.
type Instance struct {
	data     *reactive.Object
	methods  map[string]Method
	selector string
	el       *dom.Node
	doc      *dom.Document

	// keys are the proxied data keys, in data order.
	keys    []string
	proxied map[string]bool

	compiler *compiler.Compiler
	logger   *slog.Logger
}

// New observes opts.Data, proxies its keys onto the instance and, if the
// document has an element matching opts.El, compiles it. A missing mount
// target is not an error: El returns nil and nothing is bound.
func New(doc *dom.Document, opts Options) *Instance {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	data := opts.Data
	if data == nil {
		data = reactive.NewObject()
	}

	vm := &Instance{
		data:     data,
		methods:  opts.Methods,
		selector: opts.El,
		doc:      doc,
		proxied:  make(map[string]bool),
		logger:   logger.With("component", "instance"),
	}

	reactive.Observe(data)
	vm.proxy()

	vm.compiler = compiler.New(vm, logger)
	if doc != nil && opts.El != "" {
		vm.el = vm.compiler.Mount(doc, opts.El)
	}
	return vm
}

// proxy records the data keys present now. Keys added to the data later
// are not reachable through the instance.
func (vm *Instance) proxy() {
	for _, key := range vm.data.Keys() {
		if isReserved(key) {
			continue
		}
		vm.keys = append(vm.keys, key)
		vm.proxied[key] = true
	}
}

// Data returns the root data object ($data).
func (vm *Instance) Data() *reactive.Object { return vm.data }

// El returns the mounted element ($el), or nil if nothing was mounted.
func (vm *Instance) El() *dom.Node { return vm.el }

// Selector returns the mount selector the instance was created with.
func (vm *Instance) Selector() string { return vm.selector }

// Methods returns the method table ($methods).
func (vm *Instance) Methods() map[string]Method { return vm.methods }

// Document returns the document the instance was compiled against.
func (vm *Instance) Document() *dom.Document { return vm.doc }

// Stats returns what compilation installed.
func (vm *Instance) Stats() compiler.Stats { return vm.compiler.Stats() }

// Keys returns the proxied data keys in order.
func (vm *Instance) Keys() []string {
	keys := make([]string, len(vm.keys))
	copy(keys, vm.keys)
	return keys
}

// Get reads a proxied data key. It returns nil for keys that are not
// proxied, including the reserved names.
func (vm *Instance) Get(key string) any {
	if !vm.proxied[key] {
		return nil
	}
	return vm.data.Get(key)
}

// Set writes a proxied data key. Writes to other keys are dropped.
func (vm *Instance) Set(key string, value any) {
	if !vm.proxied[key] {
		vm.logger.Debug("set on unknown key", "key", key)
		return
	}
	vm.data.Set(key, value)
}

// Method returns the named method.
func (vm *Instance) Method(name string) (Method, bool) {
	m, ok := vm.methods[name]
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

// Listener returns the named method bound to vm as a DOM listener.
func (vm *Instance) Listener(name string) (dom.Listener, bool) {
	m, ok := vm.Method(name)
	if !ok {
		return nil, false
	}
	return func(ev *dom.Event) { m(vm, ev) }, true
}
