// Package funcs provides the builtin function library for templates
// and the registry that templates resolve function names through.
package funcs

import (
	"fmt"
	"sort"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

// Func is a template-callable function. Pipeline stages receive the
// piped value as their first argument.
type Func func(args []value.Value) (value.Value, error)

// Registry maps function names to implementations. A Registry is not
// global state; it is passed to the template parser so different
// templates can carry different function sets.
type Registry struct {
	funcs map[string]Func
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds or replaces a function.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup returns the named function.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns all registered function names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtins returns a registry populated with the standard function
// library.
func Builtins() *Registry {
	r := New()

	// Strings
	r.Register("uppercase", uppercase)
	r.Register("lowercase", lowercase)
	r.Register("title", title)
	r.Register("trim", trim)
	r.Register("trimPrefix", trimPrefix)
	r.Register("trimSuffix", trimSuffix)
	r.Register("split", split)
	r.Register("join", join)
	r.Register("replace", replace)
	r.Register("length", length)

	// Collections
	r.Register("first", first)
	r.Register("last", last)
	r.Register("keys", keys)
	r.Register("values", valuesFunc)
	r.Register("hasKey", hasKey)
	r.Register("pluck", pluck)

	// Defaulting
	r.Register("default", defaultFunc)
	r.Register("coalesce", coalesce)

	// Math
	r.Register("add", add)
	r.Register("sub", sub)
	r.Register("mul", mul)
	r.Register("divf", divf)
	r.Register("round", round)
	r.Register("abs", abs)
	r.Register("min", minFunc)
	r.Register("max", maxFunc)

	// Conversion
	r.Register("toInt", toInt)
	r.Register("toFloat", toFloat)
	r.Register("toString", toString)
	r.Register("toBool", toBool)
	r.Register("toJson", toJson)
	r.Register("toJsonPretty", toJsonPretty)
	r.Register("fromJson", fromJson)

	// Misc
	r.Register("uuid", uuidFunc)
	r.Register("jq", jqFunc)

	return r
}

func arity(name string, args []value.Value, want int) error {
	if len(args) != want {
		return &errors.SignatureError{
			Function: name,
			Message:  fmt.Sprintf("expected %d argument(s), got %d", want, len(args)),
		}
	}
	return nil
}

func arityAtLeast(name string, args []value.Value, min int) error {
	if len(args) < min {
		return &errors.SignatureError{
			Function: name,
			Message:  fmt.Sprintf("expected at least %d argument(s), got %d", min, len(args)),
		}
	}
	return nil
}
