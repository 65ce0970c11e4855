package template

import (
	"fmt"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

// evaluator walks an expression AST against a Context, resolving data
// references and dispatching function calls through the registry.
type evaluator struct {
	ctx   *Context
	funcs FuncRegistry
}

func (e *evaluator) eval(expr Expr) (value.Value, error) {
	switch n := expr.(type) {
	case *Literal:
		return n.Value, nil

	case *DataAccess:
		return e.ctx.ResolveDataSource(n.Source, n.Path)

	case *FunctionCall:
		return e.call(n.Name, nil, n.Args)

	case *Pipeline:
		current, err := e.eval(n.Input)
		if err != nil {
			return value.Value{}, err
		}
		for _, stage := range n.Stages {
			current, err = e.call(stage.Name, &current, stage.Args)
			if err != nil {
				return value.Value{}, err
			}
		}
		return current, nil

	case *BinaryOp:
		return e.evalBinary(n)

	case *UnaryOp:
		return e.evalUnary(n)

	case *Ternary:
		cond, err := e.eval(n.Cond)
		if err != nil {
			return value.Value{}, err
		}
		if cond.IsTruthy() {
			return e.eval(n.Then)
		}
		return e.eval(n.Else)

	case *IfFunc:
		cond, err := e.eval(n.Cond)
		if err != nil {
			return value.Value{}, err
		}
		if cond.IsTruthy() {
			return e.eval(n.Then)
		}
		if n.Else == nil {
			return value.Null(), nil
		}
		return e.eval(n.Else)
	}
	return value.Value{}, &errors.EvaluationError{Message: fmt.Sprintf("unsupported expression node %T", expr)}
}

// call evaluates arguments left to right and invokes the named
// function. For pipeline stages the piped value is prepended as the
// first argument.
func (e *evaluator) call(name string, piped *value.Value, argExprs []Expr) (value.Value, error) {
	fn, ok := e.funcs.Lookup(name)
	if !ok {
		return value.Value{}, &errors.FunctionError{Function: name, Message: "function not found"}
	}
	args := make([]value.Value, 0, len(argExprs)+1)
	if piped != nil {
		args = append(args, *piped)
	}
	for _, arg := range argExprs {
		v, err := e.eval(arg)
		if err != nil {
			return value.Value{}, err
		}
		args = append(args, v)
	}
	return fn(args)
}

func (e *evaluator) evalBinary(n *BinaryOp) (value.Value, error) {
	left, err := e.eval(n.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.eval(n.Right)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case OpAdd:
		if left.IsNumber() && right.IsNumber() {
			l, _ := left.AsFloat()
			r, _ := right.AsFloat()
			return value.Float(l + r), nil
		}
		ls, err := left.AsString()
		if err != nil {
			return value.Value{}, err
		}
		rs, err := right.AsString()
		if err != nil {
			return value.Value{}, err
		}
		return value.String(ls + rs), nil

	case OpSubtract:
		l, r, err := floatOperands(left, right)
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(l - r), nil

	case OpMultiply:
		l, r, err := floatOperands(left, right)
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(l * r), nil

	case OpDivide:
		l, r, err := floatOperands(left, right)
		if err != nil {
			return value.Value{}, err
		}
		if r == 0 {
			return value.Value{}, &errors.MathError{Message: "division by zero"}
		}
		return value.Float(l / r), nil

	case OpEqual:
		return value.Bool(left.Equal(right)), nil

	case OpNotEqual:
		return value.Bool(!left.Equal(right)), nil

	case OpLessThan:
		l, r, err := floatOperands(left, right)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(l < r), nil

	case OpAnd:
		return value.Bool(left.IsTruthy() && right.IsTruthy()), nil

	case OpOr:
		return value.Bool(left.IsTruthy() || right.IsTruthy()), nil
	}

	return value.Value{}, &errors.EvaluationError{
		Message: fmt.Sprintf("operator %q is not implemented", n.Op.String()),
	}
}

func (e *evaluator) evalUnary(n *UnaryOp) (value.Value, error) {
	operand, err := e.eval(n.Operand)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case OpNot:
		return value.Bool(!operand.IsTruthy()), nil
	case OpMinus:
		if operand.IsInteger() {
			i, _ := operand.AsInteger()
			return value.Integer(-i), nil
		}
		f, err := operand.AsFloat()
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(-f), nil
	}
	return value.Value{}, &errors.EvaluationError{
		Message: fmt.Sprintf("unknown unary operator %d", n.Op),
	}
}

func floatOperands(left, right value.Value) (float64, float64, error) {
	l, err := left.AsFloat()
	if err != nil {
		return 0, 0, err
	}
	r, err := right.AsFloat()
	if err != nil {
		return 0, 0, err
	}
	return l, r, nil
}
