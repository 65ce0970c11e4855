// Package template implements a text templating language with
// embedded expressions. Templates interleave literal text with
// {{ ... }} expressions that read data from a Context, call registered
// functions, and combine values with operators and pipelines.
package template

import (
	"fmt"
	"strings"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/funcs"
	"github.com/tombee/stencil/pkg/value"
)

// Template is a parsed template, ready to render against any Context.
// A Template is immutable after parsing and safe for concurrent use.
type Template struct {
	source   string
	elements []Element
	funcs    FuncRegistry
	deps     *Dependencies
}

// Parse parses source using the builtin function set.
func Parse(source string) (*Template, error) {
	return ParseWithFuncs(source, funcs.Builtins())
}

// ParseWithFuncs parses source with a caller-supplied function
// registry.
func ParseWithFuncs(source string, registry FuncRegistry) (*Template, error) {
	elements, err := parseElements(source)
	if err != nil {
		return nil, err
	}
	deps := newDependencies()
	for _, el := range elements {
		if el.Expr != nil {
			deps.collect(el.Expr.AST())
		}
	}
	return &Template{source: source, elements: elements, funcs: registry, deps: deps}, nil
}

// MustParse is like Parse but panics on error. Intended for templates
// known valid at compile time.
func MustParse(source string) *Template {
	tmpl, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Render evaluates every expression against ctx and concatenates the
// results with the literal text. Expression values are coerced to
// strings; values with no string form (arrays, objects) make Render
// fail.
func (t *Template) Render(ctx *Context) (string, error) {
	ev := &evaluator{ctx: ctx, funcs: t.funcs}
	var sb strings.Builder
	for _, el := range t.elements {
		if el.Expr == nil {
			sb.WriteString(el.Text)
			continue
		}
		v, err := ev.eval(el.Expr.AST())
		if err != nil {
			return "", err
		}
		s, err := v.AsString()
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Evaluate evaluates the template's single expression and returns the
// raw value without string coercion. The template must consist of
// exactly one expression and no literal text; otherwise Evaluate
// falls back to Render and returns the result as a string value.
func (t *Template) Evaluate(ctx *Context) (value.Value, error) {
	if len(t.elements) == 1 && t.elements[0].Expr != nil {
		ev := &evaluator{ctx: ctx, funcs: t.funcs}
		return ev.eval(t.elements[0].Expr.AST())
	}
	s, err := t.Render(ctx)
	if err != nil {
		return value.Value{}, err
	}
	return value.String(s), nil
}

// ValidateContext checks that the data the template depends on is
// present in ctx: input data when any $input path is referenced, an
// output for every referenced node id, and a value for every
// referenced environment variable. Sub-path navigation and the
// always-present $system, $execution, and $workflow channels are not
// checked. All references count, including those in branches
// evaluation would skip. Returns the first missing dependency.
func (t *Template) ValidateContext(ctx *Context) error {
	if len(t.deps.InputPaths()) > 0 {
		if _, ok := ctx.Input(); !ok {
			return &errors.DataNotFoundError{
				Path:      "$input",
				Available: []string{"Input data required but not provided"},
			}
		}
	}
	for _, id := range t.deps.NodeIDs() {
		if _, ok := ctx.NodeOutput(id); !ok {
			return &errors.DataNotFoundError{
				Path:      fmt.Sprintf("$node('%s')", id),
				Available: ctx.AvailableDataSources(),
			}
		}
	}
	for _, name := range t.deps.EnvVars() {
		if _, ok := ctx.Env(name); !ok {
			return &errors.DataNotFoundError{
				Path:      "$env." + name,
				Available: []string{"Environment variable not set"},
			}
		}
	}
	return nil
}

// Dependencies returns the data sources and functions the template
// references, collected once from the parsed expressions.
func (t *Template) Dependencies() *Dependencies {
	return t.deps
}

// Source returns the original template text.
func (t *Template) Source() string { return t.source }

// IsStatic reports whether the template contains no expressions, so
// rendering always returns the source unchanged.
func (t *Template) IsStatic() bool {
	for _, el := range t.elements {
		if el.Expr != nil {
			return false
		}
	}
	return true
}

// ExpressionCount returns the number of expressions in the template.
func (t *Template) ExpressionCount() int {
	n := 0
	for _, el := range t.elements {
		if el.Expr != nil {
			n++
		}
	}
	return n
}

// Expressions returns the parsed expressions in source order.
func (t *Template) Expressions() []*Expression {
	var exprs []*Expression
	for _, el := range t.elements {
		if el.Expr != nil {
			exprs = append(exprs, el.Expr)
		}
	}
	return exprs
}

// UsesFunction reports whether the named function appears anywhere in
// the template, as a call or a pipeline stage.
func (t *Template) UsesFunction(name string) bool {
	for _, fn := range t.Dependencies().Functions() {
		if fn == name {
			return true
		}
	}
	return false
}
