package template

import (
	"github.com/tombee/stencil/pkg/funcs"
)

// FuncRegistry resolves function names used in expressions and
// pipeline stages. Parse uses funcs.Builtins; ParseWithFuncs accepts
// any implementation, so callers can extend or restrict the function
// set per template.
type FuncRegistry interface {
	Lookup(name string) (funcs.Func, bool)
}
