// Package models defines the core domain models for canvas-based pipeline graphs.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ValueKind identifies the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a closed variant over the JSON data model. Node properties, port
// defaults, node outputs and global variables all carry Values so consumers
// can switch on Kind exhaustively instead of type-asserting interface{}.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	arr  []Value
	obj  map[string]Value
}

func NullValue() Value {
	return Value{kind: KindNull}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func ArrayValue(items ...Value) Value {
	return Value{kind: KindArray, arr: items}
}

func ObjectValue(fields map[string]Value) Value {
	return Value{kind: KindObject, obj: fields}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsString returns the string payload. The second return is false when the
// value is not a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

func (v Value) AsObject() (map[string]Value, bool) {
	return v.obj, v.kind == KindObject
}

// Equal reports deep equality. Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
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

		for k, val := range v.obj {
			o, ok := other.obj[k]
			if !ok || !val.Equal(o) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String renders a human-readable form for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return strconv.FormatInt(int64(v.num), 10)
		}

		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindArray, KindObject:
		data, err := v.MarshalJSON()
		if err != nil {
			return fmt.Sprintf("<invalid %s>", v.kind)
		}

		return string(data)
	default:
		return "<unknown>"
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}

		return json.Marshal(v.arr)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}

		// Deterministic key order keeps serialized canvases diffable.
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		buf := []byte{'{'}

		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}

			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}

			vb, err := v.obj[k].MarshalJSON()
			if err != nil {
				return nil, err
			}

			buf = append(buf, kb...)
			buf = append(buf, ':')
			buf = append(buf, vb...)
		}

		return append(buf, '}'), nil
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %d", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	decoded, err := ValueFromAny(raw)
	if err != nil {
		return err
	}

	*v = decoded

	return nil
}

// ValueFromAny converts decoded JSON (any-typed) into the closed variant.
// Unsupported Go types yield an error rather than a silent null.
func ValueFromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case float64:
		return NumberValue(t), nil
	case int:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return NullValue(), fmt.Errorf("invalid number %q: %w", t.String(), err)
		}

		return NumberValue(f), nil
	case []any:
		items := make([]Value, 0, len(t))

		for _, item := range t {
			v, err := ValueFromAny(item)
			if err != nil {
				return NullValue(), err
			}

			items = append(items, v)
		}

		return ArrayValue(items...), nil
	case map[string]any:
		fields := make(map[string]Value, len(t))

		for k, item := range t {
			v, err := ValueFromAny(item)
			if err != nil {
				return NullValue(), err
			}

			fields[k] = v
		}

		return ObjectValue(fields), nil
	default:
		return NullValue(), fmt.Errorf("cannot convert %T to a value", raw)
	}
}

// ToAny converts back to the any-typed form expected by encoding/json
// consumers such as schema validators.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToAny()
		}

		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.ToAny()
		}

		return out
	default:
		return nil
	}
}
