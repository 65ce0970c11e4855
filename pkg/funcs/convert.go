package funcs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

// maxJSONSize bounds fromJson input so a template cannot force the
// engine to parse arbitrarily large documents.
const maxJSONSize = 1 * 1024 * 1024 // 1MB

func toInt(args []value.Value) (value.Value, error) {
	if err := arity("toInt", args, 1); err != nil {
		return value.Value{}, err
	}
	i, err := args[0].AsInteger()
	if err != nil {
		return value.Value{}, err
	}
	return value.Integer(i), nil
}

func toFloat(args []value.Value) (value.Value, error) {
	if err := arity("toFloat", args, 1); err != nil {
		return value.Value{}, err
	}
	f, err := args[0].AsFloat()
	if err != nil {
		return value.Value{}, err
	}
	return value.Float(f), nil
}

func toString(args []value.Value) (value.Value, error) {
	if err := arity("toString", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	return value.String(s), nil
}

func toBool(args []value.Value) (value.Value, error) {
	if err := arity("toBool", args, 1); err != nil {
		return value.Value{}, err
	}
	b, err := args[0].AsBool()
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(b), nil
}

func toJson(args []value.Value) (value.Value, error) {
	if err := arity("toJson", args, 1); err != nil {
		return value.Value{}, err
	}
	return marshalJSON("toJson", args[0], "")
}

func toJsonPretty(args []value.Value) (value.Value, error) {
	if err := arity("toJsonPretty", args, 1); err != nil {
		return value.Value{}, err
	}
	return marshalJSON("toJsonPretty", args[0], "  ")
}

func marshalJSON(name string, v value.Value, indent string) (value.Value, error) {
	var (
		data []byte
		err  error
	)
	if indent == "" {
		data, err = json.Marshal(v.ToAny())
	} else {
		data, err = json.MarshalIndent(v.ToAny(), "", indent)
	}
	if err != nil {
		return value.Value{}, &errors.FunctionError{
			Function: name,
			Message:  fmt.Sprintf("cannot marshal %s: %v", v.TypeName(), err),
		}
	}
	return value.String(string(data)), nil
}

func fromJson(args []value.Value) (value.Value, error) {
	if err := arity("fromJson", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	if len(s) > maxJSONSize {
		return value.Value{}, &errors.FunctionError{
			Function: "fromJson",
			Message:  fmt.Sprintf("input exceeds maximum size of %d bytes", maxJSONSize),
		}
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return value.Value{}, &errors.FunctionError{
			Function: "fromJson",
			Message:  "invalid JSON: " + err.Error(),
		}
	}
	// reject trailing content after the first document
	if dec.More() {
		return value.Value{}, &errors.FunctionError{
			Function: "fromJson",
			Message:  "invalid JSON: trailing data after document",
		}
	}
	return value.FromAny(raw), nil
}
