package funcs

import (
	"math"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

func allIntegers(args []value.Value) bool {
	for _, arg := range args {
		if !arg.IsInteger() {
			return false
		}
	}
	return true
}

// add sums its arguments. The result stays an integer when every
// argument is one.
func add(args []value.Value) (value.Value, error) {
	if err := arityAtLeast("add", args, 1); err != nil {
		return value.Value{}, err
	}
	if allIntegers(args) {
		var sum int64
		for _, arg := range args {
			i, _ := arg.AsInteger()
			sum += i
		}
		return value.Integer(sum), nil
	}
	var sum float64
	for _, arg := range args {
		f, err := arg.AsFloat()
		if err != nil {
			return value.Value{}, err
		}
		sum += f
	}
	return value.Float(sum), nil
}

func sub(args []value.Value) (value.Value, error) {
	if err := arity("sub", args, 2); err != nil {
		return value.Value{}, err
	}
	if allIntegers(args) {
		a, _ := args[0].AsInteger()
		b, _ := args[1].AsInteger()
		return value.Integer(a - b), nil
	}
	a, err := args[0].AsFloat()
	if err != nil {
		return value.Value{}, err
	}
	b, err := args[1].AsFloat()
	if err != nil {
		return value.Value{}, err
	}
	return value.Float(a - b), nil
}

func mul(args []value.Value) (value.Value, error) {
	if err := arityAtLeast("mul", args, 1); err != nil {
		return value.Value{}, err
	}
	if allIntegers(args) {
		var product int64 = 1
		for _, arg := range args {
			i, _ := arg.AsInteger()
			product *= i
		}
		return value.Integer(product), nil
	}
	var product float64 = 1
	for _, arg := range args {
		f, err := arg.AsFloat()
		if err != nil {
			return value.Value{}, err
		}
		product *= f
	}
	return value.Float(product), nil
}

func divf(args []value.Value) (value.Value, error) {
	if err := arity("divf", args, 2); err != nil {
		return value.Value{}, err
	}
	a, err := args[0].AsFloat()
	if err != nil {
		return value.Value{}, err
	}
	b, err := args[1].AsFloat()
	if err != nil {
		return value.Value{}, err
	}
	if b == 0 {
		return value.Value{}, &errors.MathError{Message: "division by zero"}
	}
	return value.Float(a / b), nil
}

// round rounds half away from zero and returns an integer.
func round(args []value.Value) (value.Value, error) {
	if err := arity("round", args, 1); err != nil {
		return value.Value{}, err
	}
	f, err := args[0].AsFloat()
	if err != nil {
		return value.Value{}, err
	}
	return value.Integer(int64(math.Round(f))), nil
}

func abs(args []value.Value) (value.Value, error) {
	if err := arity("abs", args, 1); err != nil {
		return value.Value{}, err
	}
	if args[0].IsInteger() {
		i, _ := args[0].AsInteger()
		if i < 0 {
			i = -i
		}
		return value.Integer(i), nil
	}
	f, err := args[0].AsFloat()
	if err != nil {
		return value.Value{}, err
	}
	return value.Float(math.Abs(f)), nil
}

func minFunc(args []value.Value) (value.Value, error) {
	return extremum("min", args, func(a, b float64) bool { return a < b })
}

func maxFunc(args []value.Value) (value.Value, error) {
	return extremum("max", args, func(a, b float64) bool { return a > b })
}

func extremum(name string, args []value.Value, better func(a, b float64) bool) (value.Value, error) {
	if err := arityAtLeast(name, args, 1); err != nil {
		return value.Value{}, err
	}
	best := args[0]
	bestF, err := best.AsFloat()
	if err != nil {
		return value.Value{}, err
	}
	for _, arg := range args[1:] {
		f, err := arg.AsFloat()
		if err != nil {
			return value.Value{}, err
		}
		if better(f, bestF) {
			best, bestF = arg, f
		}
	}
	return best, nil
}
