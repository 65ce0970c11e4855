package funcs

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tombee/stencil/pkg/errors"
	"github.com/tombee/stencil/pkg/value"
)

func uppercase(args []value.Value) (value.Value, error) {
	if err := arity("uppercase", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToUpper(s)), nil
}

func lowercase(args []value.Value) (value.Value, error) {
	if err := arity("lowercase", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToLower(s)), nil
}

// title upper-cases the first letter of every word and lower-cases the
// rest, preserving the original whitespace.
func title(args []value.Value) (value.Value, error) {
	if err := arity("title", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	var sb strings.Builder
	sb.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			startOfWord = true
			sb.WriteRune(r)
		case startOfWord:
			startOfWord = false
			sb.WriteRune(unicode.ToUpper(r))
		default:
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return value.String(sb.String()), nil
}

func trim(args []value.Value) (value.Value, error) {
	if err := arity("trim", args, 1); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.TrimSpace(s)), nil
}

func trimPrefix(args []value.Value) (value.Value, error) {
	return trimAffix("trimPrefix", args, strings.TrimPrefix)
}

func trimSuffix(args []value.Value) (value.Value, error) {
	return trimAffix("trimSuffix", args, strings.TrimSuffix)
}

func trimAffix(name string, args []value.Value, fn func(string, string) string) (value.Value, error) {
	if err := arity(name, args, 2); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	affix, err := args[1].AsString()
	if err != nil {
		return value.Value{}, err
	}
	return value.String(fn(s, affix)), nil
}

func split(args []value.Value) (value.Value, error) {
	if err := arity("split", args, 2); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	sep, err := args[1].AsString()
	if err != nil {
		return value.Value{}, err
	}
	parts := strings.Split(s, sep)
	items := make([]value.Value, len(parts))
	for i, p := range parts {
		items[i] = value.String(p)
	}
	return value.Array(items...), nil
}

func join(args []value.Value) (value.Value, error) {
	if err := arity("join", args, 2); err != nil {
		return value.Value{}, err
	}
	if !args[0].IsArray() {
		return value.Value{}, &errors.SignatureError{
			Function: "join",
			Message:  "first argument must be an array, got " + args[0].TypeName(),
		}
	}
	sep, err := args[1].AsString()
	if err != nil {
		return value.Value{}, err
	}
	items, _ := args[0].Items()
	parts := make([]string, len(items))
	for i, item := range items {
		s, err := item.AsString()
		if err != nil {
			return value.Value{}, err
		}
		parts[i] = s
	}
	return value.String(strings.Join(parts, sep)), nil
}

func replace(args []value.Value) (value.Value, error) {
	if err := arity("replace", args, 3); err != nil {
		return value.Value{}, err
	}
	s, err := args[0].AsString()
	if err != nil {
		return value.Value{}, err
	}
	old, err := args[1].AsString()
	if err != nil {
		return value.Value{}, err
	}
	repl, err := args[2].AsString()
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ReplaceAll(s, old, repl)), nil
}

// length returns the rune count for strings and the element or field
// count for arrays and objects.
func length(args []value.Value) (value.Value, error) {
	if err := arity("length", args, 1); err != nil {
		return value.Value{}, err
	}
	v := args[0]
	switch {
	case v.IsString():
		s, _ := v.Str()
		return value.Integer(int64(utf8.RuneCountInString(s))), nil
	case v.IsArray(), v.IsObject():
		n, _ := v.Len()
		return value.Integer(int64(n)), nil
	}
	return value.Value{}, &errors.SignatureError{
		Function: "length",
		Message:  "argument must be a string, array or object, got " + v.TypeName(),
	}
}
