package funcs

import (
	"sort"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

func first(args []value.Value) (value.Value, error) {
	if err := arity("first", args, 1); err != nil {
		return value.Value{}, err
	}
	items, err := arrayItems("first", args[0])
	if err != nil {
		return value.Value{}, err
	}
	if len(items) == 0 {
		return value.Value{}, &errors.IndexError{Index: 0, Size: 0}
	}
	return items[0], nil
}

func last(args []value.Value) (value.Value, error) {
	if err := arity("last", args, 1); err != nil {
		return value.Value{}, err
	}
	items, err := arrayItems("last", args[0])
	if err != nil {
		return value.Value{}, err
	}
	if len(items) == 0 {
		return value.Value{}, &errors.IndexError{Index: -1, Size: 0}
	}
	return items[len(items)-1], nil
}

// keys returns an object's field names as a sorted array of strings.
func keys(args []value.Value) (value.Value, error) {
	if err := arity("keys", args, 1); err != nil {
		return value.Value{}, err
	}
	fields, err := objectFields("keys", args[0])
	if err != nil {
		return value.Value{}, err
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]value.Value, len(names))
	for i, name := range names {
		items[i] = value.String(name)
	}
	return value.Array(items...), nil
}

// valuesFunc returns an object's field values ordered by sorted key,
// so the result is deterministic.
func valuesFunc(args []value.Value) (value.Value, error) {
	if err := arity("values", args, 1); err != nil {
		return value.Value{}, err
	}
	fields, err := objectFields("values", args[0])
	if err != nil {
		return value.Value{}, err
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]value.Value, len(names))
	for i, name := range names {
		items[i] = fields[name]
	}
	return value.Array(items...), nil
}

func hasKey(args []value.Value) (value.Value, error) {
	if err := arity("hasKey", args, 2); err != nil {
		return value.Value{}, err
	}
	fields, err := objectFields("hasKey", args[0])
	if err != nil {
		return value.Value{}, err
	}
	key, err := args[1].AsString()
	if err != nil {
		return value.Value{}, err
	}
	_, ok := fields[key]
	return value.Bool(ok), nil
}

// pluck extracts the named field from every object in an array.
// Elements without the field contribute null.
func pluck(args []value.Value) (value.Value, error) {
	if err := arity("pluck", args, 2); err != nil {
		return value.Value{}, err
	}
	items, err := arrayItems("pluck", args[0])
	if err != nil {
		return value.Value{}, err
	}
	field, err := args[1].AsString()
	if err != nil {
		return value.Value{}, err
	}
	out := make([]value.Value, len(items))
	for i, item := range items {
		if v, ok := item.Get(field); ok {
			out[i] = v
		} else {
			out[i] = value.Null()
		}
	}
	return value.Array(out...), nil
}

// defaultFunc returns the fallback when the first argument is null or
// empty, the first argument otherwise.
func defaultFunc(args []value.Value) (value.Value, error) {
	if err := arity("default", args, 2); err != nil {
		return value.Value{}, err
	}
	if args[0].IsEmpty() {
		return args[1], nil
	}
	return args[0], nil
}

// coalesce returns the first argument that is neither null nor empty,
// or null when none qualifies.
func coalesce(args []value.Value) (value.Value, error) {
	for _, arg := range args {
		if !arg.IsEmpty() {
			return arg, nil
		}
	}
	return value.Null(), nil
}

func arrayItems(name string, v value.Value) ([]value.Value, error) {
	items, err := v.Items()
	if err != nil {
		return nil, &errors.SignatureError{
			Function: name,
			Message:  "argument must be an array, got " + v.TypeName(),
		}
	}
	return items, nil
}

func objectFields(name string, v value.Value) (map[string]value.Value, error) {
	fields, err := v.Fields()
	if err != nil {
		return nil, &errors.SignatureError{
			Function: name,
			Message:  "argument must be an object, got " + v.TypeName(),
		}
	}
	return fields, nil
}
