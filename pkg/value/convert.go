package value

import (
	"encoding/json"
	"math/big"
	"strings"
)

// FromAny converts a JSON-shaped Go value (the decoded forms produced
// by encoding/json, yaml, or gojq) into a Value. Unsupported types
// collapse to null.
func FromAny(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case bool:
		return Bool(val)
	case int:
		return Integer(int64(val))
	case int8:
		return Integer(int64(val))
	case int16:
		return Integer(int64(val))
	case int32:
		return Integer(int64(val))
	case int64:
		return Integer(val)
	case uint:
		return Integer(int64(val))
	case uint8:
		return Integer(int64(val))
	case uint16:
		return Integer(int64(val))
	case uint32:
		return Integer(int64(val))
	case uint64:
		return Integer(int64(val))
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case json.Number:
		if !strings.ContainsAny(val.String(), ".eE") {
			if i, err := val.Int64(); err == nil {
				return Integer(i)
			}
		}
		f, _ := val.Float64()
		return Float(f)
	case *big.Int:
		// gojq promotes large integers to big.Int
		return Integer(val.Int64())
	case string:
		return String(val)
	case []interface{}:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = FromAny(item)
		}
		return Array(items...)
	case []Value:
		return Array(val...)
	case map[string]interface{}:
		fields := make(map[string]Value, len(val))
		for k, item := range val {
			fields[k] = FromAny(item)
		}
		return Object(fields)
	case map[string]Value:
		return Object(val)
	case map[interface{}]interface{}:
		// older yaml decoders produce interface-keyed maps
		fields := make(map[string]Value, len(val))
		for k, item := range val {
			if key, ok := k.(string); ok {
				fields[key] = FromAny(item)
			}
		}
		return Object(fields)
	default:
		return Null()
	}
}

// ToAny converts v into the JSON-shaped Go form (nil, bool, int64,
// float64, string, []interface{}, map[string]interface{}) accepted by
// encoding/json, yaml, and gojq.
func (v Value) ToAny() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		items := make([]interface{}, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.ToAny()
		}
		return items
	case KindObject:
		fields := make(map[string]interface{}, len(v.obj))
		for k, item := range v.obj {
			fields[k] = item.ToAny()
		}
		return fields
	default:
		return nil
	}
}
