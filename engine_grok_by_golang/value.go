package engine_grok_by_golang

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBytes
	KindInteger
	KindFloat
	KindBoolean
	KindArray
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBytes:
		return "bytes"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is the dynamically typed scalar that flows through filter chains.
// Bytes doubles as the string variant: extracted fields arrive as raw byte
// spans, and decoded JSON strings land there too.
//
// A Value is immutable once built. Filters never mutate their input; they
// return a fresh Value.
type Value struct {
	kind ValueKind
	b    []byte
	i    int64
	f    float64
	bl   bool
	arr  []Value
	obj  map[string]Value
}

func NullValue() Value { return Value{kind: KindNull} }

func BytesValue(b []byte) Value {
	cp := append([]byte(nil), b...)
	return Value{kind: KindBytes, b: cp}
}

func StringValue(s string) Value { return Value{kind: KindBytes, b: []byte(s)} }

func IntegerValue(i int64) Value { return Value{kind: KindInteger, i: i} }

// FloatValue builds a float variant. NaN is not representable; feeding one in
// is an internal invariant violation, so it panics rather than returning an
// error.
func FloatValue(f float64) Value {
	if math.IsNaN(f) {
		panic("engine_grok_by_golang: float value must not be NaN")
	}
	return Value{kind: KindFloat, f: f}
}

func BooleanValue(b bool) Value { return Value{kind: KindBoolean, bl: b} }

func ArrayValue(items []Value) Value {
	return Value{kind: KindArray, arr: append([]Value(nil), items...)}
}

func ObjectValue(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{kind: KindObject, obj: cp}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.b, true
}

func (v Value) Integer() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.i, true
}

func (v Value) Float() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

func (v Value) Boolean() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.bl, true
}

func (v Value) Array() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) Object() (map[string]Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// String renders the value in its canonical textual form. The rendering is
// deterministic: the same value always produces the same string. It is used
// for error messages and for nullIf sentinel comparison.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBytes:
		return strings.ToValidUTF8(string(v.b), "�")
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.bl)
	case KindArray, KindObject:
		b, err := json.Marshal(v.ToInterface())
		if err != nil {
			return fmt.Sprintf("<unrenderable %s>", v.kind)
		}
		return string(b)
	default:
		return fmt.Sprintf("<unknown %d>", int(v.kind))
	}
}

// FromJSON maps a value decoded by encoding/json into the model. Decode with
// UseNumber so integral JSON numbers become Integer rather than Float.
func FromJSON(v any) Value {
	switch t := v.(type) {
	case nil:
		return NullValue()
	case bool:
		return BooleanValue(t)
	case string:
		return StringValue(t)
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return IntegerValue(i)
		}
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil || math.IsNaN(f) {
			return NullValue()
		}
		return FloatValue(f)
	case float64:
		if t == math.Trunc(t) && t >= math.MinInt64 && t < math.MaxInt64 {
			return IntegerValue(int64(t))
		}
		if math.IsNaN(t) {
			return NullValue()
		}
		return FloatValue(t)
	case []any:
		items := make([]Value, 0, len(t))
		for _, it := range t {
			items = append(items, FromJSON(it))
		}
		return Value{kind: KindArray, arr: items}
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, it := range t {
			fields[k] = FromJSON(it)
		}
		return Value{kind: KindObject, obj: fields}
	default:
		return NullValue()
	}
}

// ToInterface maps the value back to plain Go types for output assembly and
// JSON encoding. Bytes becomes a (lossily decoded) string.
func (v Value) ToInterface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBytes:
		return strings.ToValidUTF8(string(v.b), "�")
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindBoolean:
		return v.bl
	case KindArray:
		out := make([]any, 0, len(v.arr))
		for _, it := range v.arr {
			out = append(out, it.ToInterface())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, it := range v.obj {
			out[k] = it.ToInterface()
		}
		return out
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToInterface())
}
