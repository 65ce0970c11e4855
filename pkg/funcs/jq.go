package funcs

import (
	"github.com/google/uuid"
	"github.com/itchyny/gojq"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

func uuidFunc(args []value.Value) (value.Value, error) {
	if err := arity("uuid", args, 0); err != nil {
		return value.Value{}, err
	}
	return value.String(uuid.NewString()), nil
}

// jqFunc evaluates a jq program against a value. A program producing
// one result returns that result; multiple results come back as an
// array; zero results yield null.
func jqFunc(args []value.Value) (value.Value, error) {
	if err := arity("jq", args, 2); err != nil {
		return value.Value{}, err
	}
	program, err := args[1].AsString()
	if err != nil {
		return value.Value{}, err
	}

	query, err := gojq.Parse(program)
	if err != nil {
		return value.Value{}, &errors.FunctionError{
			Function: "jq",
			Message:  "parse error: " + err.Error(),
		}
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return value.Value{}, &errors.FunctionError{
			Function: "jq",
			Message:  "compile error: " + err.Error(),
		}
	}

	iter := code.Run(jqInput(args[0]))
	var results []interface{}
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if runErr, isErr := v.(error); isErr {
			return value.Value{}, &errors.FunctionError{
				Function: "jq",
				Message:  runErr.Error(),
			}
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return value.Null(), nil
	case 1:
		return value.FromAny(results[0]), nil
	default:
		return value.FromAny(results), nil
	}
}

// jqInput converts a value into the input shape gojq accepts: it wants
// plain int rather than int64.
func jqInput(v value.Value) interface{} {
	return normalizeInt(v.ToAny())
}

func normalizeInt(item interface{}) interface{} {
	switch raw := item.(type) {
	case int64:
		return int(raw)
	case []interface{}:
		for i, it := range raw {
			raw[i] = normalizeInt(it)
		}
		return raw
	case map[string]interface{}:
		for k, it := range raw {
			raw[k] = normalizeInt(it)
		}
		return raw
	default:
		return raw
	}
}
