// Package actions turns declarative method entries from the config file
// into instance methods, so that an app can be served without Go code.
package actions

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/vango-dev/dvue"
	"github.com/vango-dev/dvue/internal/config"
	"github.com/vango-dev/dvue/internal/errors"
	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/reactive"
)

// Action updates one data key. arg is the configured value.
type Action func(vm *dvue.Instance, key string, arg any, ev *dom.Event, logger *slog.Logger)

var registry = map[string]Action{
	"increment": func(vm *dvue.Instance, key string, arg any, _ *dom.Event, _ *slog.Logger) {
		vm.Set(key, add(vm.Get(key), step(arg), 1))
	},
	"decrement": func(vm *dvue.Instance, key string, arg any, _ *dom.Event, _ *slog.Logger) {
		vm.Set(key, add(vm.Get(key), step(arg), -1))
	},
	"toggle": func(vm *dvue.Instance, key string, _ any, _ *dom.Event, _ *slog.Logger) {
		b, _ := vm.Get(key).(bool)
		vm.Set(key, !b)
	},
	"set": func(vm *dvue.Instance, key string, arg any, _ *dom.Event, _ *slog.Logger) {
		vm.Set(key, reactive.Wrap(arg))
	},
	"clear": func(vm *dvue.Instance, key string, _ any, _ *dom.Event, _ *slog.Logger) {
		switch v := vm.Get(key).(type) {
		case *reactive.Array:
			v.Splice(0, v.Len())
		case bool:
			vm.Set(key, false)
		case float64, int:
			vm.Set(key, zeroOf(v))
		default:
			vm.Set(key, "")
		}
	},
	"push":    arrayAction(func(a *reactive.Array, arg any) { a.Push(arg) }, true),
	"unshift": arrayAction(func(a *reactive.Array, arg any) { a.Unshift(arg) }, true),
	"pop":     arrayAction(func(a *reactive.Array, _ any) { a.Pop() }, false),
	"shift":   arrayAction(func(a *reactive.Array, _ any) { a.Shift() }, false),
	"reverse": arrayAction(func(a *reactive.Array, _ any) { a.Reverse() }, false),
	"sort":    arrayAction(func(a *reactive.Array, _ any) { a.Sort(nil) }, false),
}

// arrayAction adapts an array mutator. When takesValue is set and no
// value is configured, the event target's value is used.
func arrayAction(fn func(a *reactive.Array, arg any), takesValue bool) Action {
	return func(vm *dvue.Instance, key string, arg any, ev *dom.Event, logger *slog.Logger) {
		a, ok := vm.Get(key).(*reactive.Array)
		if !ok {
			logger.Debug("action needs an array", "key", key, "value", vm.Get(key))
			return
		}
		if takesValue && arg == nil && ev != nil && ev.Target != nil {
			arg = ev.Target.Value()
		}
		fn(a, reactive.Wrap(arg))
	}
}

// step returns the configured step, defaulting to 1.
func step(arg any) any {
	if arg == nil {
		return 1
	}
	return arg
}

// add returns v + sign*by. Two ints stay int; anything else numeric is
// float64. A non-numeric v counts as 0.
func add(v, by any, sign int) any {
	vi, vInt := v.(int)
	bi, bInt := by.(int)
	if (vInt || v == nil) && bInt {
		return vi + sign*bi
	}
	return toFloat(v) + float64(sign)*toFloat(by)
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	default:
		return 0
	}
}

func zeroOf(v any) any {
	if _, ok := v.(int); ok {
		return 0
	}
	return float64(0)
}

// Names returns the registered action names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named action.
func Lookup(name string) (Action, bool) {
	a, ok := registry[name]
	return a, ok
}

// Build returns one method per config entry.
func Build(methods map[string]config.MethodConfig, logger *slog.Logger) (map[string]dvue.Method, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "actions")

	out := make(map[string]dvue.Method, len(methods))
	for name, m := range methods {
		action, ok := Lookup(m.Action)
		if !ok {
			return nil, errors.New("E143").
				WithDetail("methods." + name + " uses unknown action " + m.Action).
				WithSuggestion("Use one of: " + strings.Join(Names(), ", "))
		}
		key, arg := m.Key, m.Value
		out[name] = func(vm *dvue.Instance, ev *dom.Event) {
			action(vm, key, arg, ev, logger)
		}
	}
	return out, nil
}
