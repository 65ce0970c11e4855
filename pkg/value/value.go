// Package value implements the dynamic data model for template
// expressions: a closed tagged union of null, boolean, integer, float,
// string, array, and object.
//
// Values are constructed by literals, by context resolution, or by
// registry functions, and are treated as immutable once built. Equality
// is structural and type-sensitive: Integer(1) and Float(1) are not
// equal unless compared through an explicit numeric coercion.
package value

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tombee/stencil/pkg/errors"
)

// Kind identifies the variant stored in a Value.
type Kind int

const (
	// KindNull is the null variant. The zero Value is null.
	KindNull Kind = iota
	// KindBool is the boolean variant.
	KindBool
	// KindInteger is the 64-bit signed integer variant.
	KindInteger
	// KindFloat is the 64-bit floating point variant.
	KindFloat
	// KindString is the string variant.
	KindString
	// KindArray is the ordered list variant.
	KindArray
	// KindObject is the string-keyed mapping variant.
	KindObject
)

// String returns the human-readable type name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a dynamic template value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Integer returns an integer value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, i: i}
}

// Float returns a float value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Array returns an array value holding the given items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Object returns an object value holding the given fields.
func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, obj: fields}
}

// Kind returns the variant stored in v.
func (v Value) Kind() Kind {
	return v.kind
}

// TypeName returns the human-readable type name of v.
func (v Value) TypeName() string {
	return v.kind.String()
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBool reports whether v is a boolean.
func (v Value) IsBool() bool { return v.kind == KindBool }

// IsNumber reports whether v is an integer or a float.
func (v Value) IsNumber() bool { return v.kind == KindInteger || v.kind == KindFloat }

// IsInteger reports whether v is an integer.
func (v Value) IsInteger() bool { return v.kind == KindInteger }

// IsFloat reports whether v is a float.
func (v Value) IsFloat() bool { return v.kind == KindFloat }

// IsString reports whether v is a string.
func (v Value) IsString() bool { return v.kind == KindString }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsObject reports whether v is an object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsEmpty reports whether v is null, an empty string, an empty array,
// or an empty object.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == ""
	case KindArray:
		return len(v.arr) == 0
	case KindObject:
		return len(v.obj) == 0
	default:
		return false
	}
}

// IsTruthy converts v to a boolean for conditional and logical
// operators: null is false, booleans are themselves, numbers are true
// when non-zero (and not NaN), strings/arrays/objects are true when
// non-empty.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInteger:
		return v.i != 0
	case KindFloat:
		return v.f != 0 && v.f == v.f
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return len(v.obj) > 0
	default:
		return false
	}
}

// AsBool coerces v to a boolean. Strings accept the usual spellings
// ("true"/"yes"/"1"/"on" and their negatives, case-insensitive); other
// strings are a TypeError. Arrays and objects fall back to truthiness.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindNull:
		return false, nil
	case KindInteger:
		return v.i != 0, nil
	case KindFloat:
		return v.f != 0 && v.f == v.f, nil
	case KindString:
		switch strings.ToLower(v.s) {
		case "true", "yes", "1", "on":
			return true, nil
		case "false", "no", "0", "off", "":
			return false, nil
		default:
			return false, &errors.TypeError{From: v.TypeName(), To: "boolean"}
		}
	default:
		return v.IsTruthy(), nil
	}
}

// AsInteger coerces v to an integer. Floats truncate toward zero,
// booleans map to 1/0, and strings must parse as a base-10 integer.
func (v Value) AsInteger() (int64, error) {
	switch v.kind {
	case KindInteger:
		return v.i, nil
	case KindFloat:
		return int64(v.f), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindString:
		i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, &errors.TypeError{From: v.TypeName(), To: "integer"}
		}
		return i, nil
	default:
		return 0, &errors.TypeError{From: v.TypeName(), To: "integer"}
	}
}

// AsFloat coerces v to a float. Integers widen, booleans map to 1/0,
// and strings must parse as a decimal number.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInteger:
		return float64(v.i), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, &errors.TypeError{From: v.TypeName(), To: "float"}
		}
		return f, nil
	default:
		return 0, &errors.TypeError{From: v.TypeName(), To: "float"}
	}
}

// AsString coerces v to its string form. Null renders as "null".
// Arrays and objects are a TypeError: there is no implicit structural
// serialization at render time.
func (v Value) AsString() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindNull:
		return "null", nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	case KindInteger:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64), nil
	default:
		return "", &errors.TypeError{From: v.TypeName(), To: "string"}
	}
}

// Str returns the underlying string of a string value without coercion.
func (v Value) Str() (string, error) {
	if v.kind != KindString {
		return "", &errors.TypeError{From: v.TypeName(), To: "string"}
	}
	return v.s, nil
}

// Items returns the underlying slice of an array value.
func (v Value) Items() ([]Value, error) {
	if v.kind != KindArray {
		return nil, &errors.TypeError{From: v.TypeName(), To: "array"}
	}
	return v.arr, nil
}

// Fields returns the underlying map of an object value.
func (v Value) Fields() (map[string]Value, error) {
	if v.kind != KindObject {
		return nil, &errors.TypeError{From: v.TypeName(), To: "object"}
	}
	return v.obj, nil
}

// Len returns the length of a string, array, or object.
func (v Value) Len() (int, error) {
	switch v.kind {
	case KindString:
		return len(v.s), nil
	case KindArray:
		return len(v.arr), nil
	case KindObject:
		return len(v.obj), nil
	default:
		return 0, &errors.TypeError{From: v.TypeName(), To: "string, array, or object"}
	}
}

// Get looks up a field on an object, or an element on an array when the
// key parses as a non-negative integer index. Any other receiver or a
// missing key reports false.
func (v Value) Get(key string) (Value, bool) {
	switch v.kind {
	case KindObject:
		child, ok := v.obj[key]
		return child, ok
	case KindArray:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(v.arr) {
			return Value{}, false
		}
		return v.arr[idx], true
	default:
		return Value{}, false
	}
}

// GetIndex returns the array element at index i.
func (v Value) GetIndex(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Navigate follows a dotted path ("user.profile.name") through nested
// objects and arrays, short-circuiting on the first missing segment.
// The empty path resolves to v itself.
func (v Value) Navigate(path string) (Value, bool) {
	if path == "" {
		return v, true
	}
	current := v
	for _, part := range strings.Split(path, ".") {
		child, ok := current.Get(part)
		if !ok {
			return Value{}, false
		}
		current = child
	}
	return current, true
}

// Set assigns a field on an object, or an element on an array when the
// key parses as an integer index. Array indexes out of range are an
// IndexError; receivers that are neither array nor object are a
// TypeError. Set is intended for context construction, before a value
// is shared with renders.
func (v *Value) Set(key string, item Value) error {
	switch v.kind {
	case KindObject:
		if v.obj == nil {
			v.obj = map[string]Value{}
		}
		v.obj[key] = item
		return nil
	case KindArray:
		idx, err := strconv.Atoi(key)
		if err != nil {
			return &errors.TypeError{From: "string", To: "array index"}
		}
		if idx < 0 || idx >= len(v.arr) {
			return &errors.IndexError{Index: idx, Size: len(v.arr)}
		}
		v.arr[idx] = item
		return nil
	default:
		return &errors.TypeError{From: v.TypeName(), To: "object or array"}
	}
}

// Equal reports structural, type-sensitive equality. An integer and a
// float never compare equal, and NaN is unequal to itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInteger:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, item := range v.obj {
			o, ok := other.obj[k]
			if !ok || !item.Equal(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.Clone()
		}
		return Value{kind: KindArray, arr: items}
	case KindObject:
		fields := make(map[string]Value, len(v.obj))
		for k, item := range v.obj {
			fields[k] = item.Clone()
		}
		return Value{kind: KindObject, obj: fields}
	default:
		return v
	}
}

// String renders a diagnostic form of v, including bracketed arrays and
// objects with sorted keys. It is for logs and error messages; template
// output goes through AsString.
func (v Value) String() string {
	switch v.kind {
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, item := range v.arr {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.obj[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		s, _ := v.AsString()
		return s
	}
}
