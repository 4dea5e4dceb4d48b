package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	engine "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang"
)

// Apply runs one resolved filter against one value. It is pure and
// deterministic: the input value is never mutated, the result is freshly
// built, and no state outlives the call, so it is safe to call from any
// number of goroutines at once.
//
// Every type or content mismatch fails the same way, with
// *engine.FailedToApplyFilterError carrying the filter's display name and the
// rendered input.
func Apply(v engine.Value, f Filter) (engine.Value, error) {
	switch f.kind {
	case Integer:
		b, ok := v.Bytes()
		if !ok {
			return engine.Value{}, failure(f, v)
		}
		n, err := strconv.ParseInt(lossy(b), 10, 64)
		if err != nil {
			return engine.Value{}, failure(f, v)
		}
		return engine.IntegerValue(n), nil

	case IntegerExt:
		b, ok := v.Bytes()
		if !ok {
			return engine.Value{}, failure(f, v)
		}
		fl, err := strconv.ParseFloat(lossy(b), 64)
		if err != nil {
			return engine.Value{}, failure(f, v)
		}
		return engine.IntegerValue(truncateToInt64(fl)), nil

	case Number, NumberExt:
		b, ok := v.Bytes()
		if !ok {
			return engine.Value{}, failure(f, v)
		}
		fl, err := strconv.ParseFloat(lossy(b), 64)
		if err != nil || math.IsNaN(fl) {
			return engine.Value{}, failure(f, v)
		}
		return engine.FloatValue(fl), nil

	case Scale:
		if i, ok := v.Integer(); ok {
			return scaled(float64(i), f.factor), nil
		}
		if fl, ok := v.Float(); ok {
			return scaled(fl, f.factor), nil
		}
		return engine.Value{}, failure(f, v)

	case Lowercase:
		b, ok := v.Bytes()
		if !ok {
			return engine.Value{}, failure(f, v)
		}
		return engine.StringValue(strings.ToLower(lossy(b))), nil

	case Uppercase:
		b, ok := v.Bytes()
		if !ok {
			return engine.Value{}, failure(f, v)
		}
		return engine.StringValue(strings.ToUpper(lossy(b))), nil

	case Json:
		b, ok := v.Bytes()
		if !ok {
			return engine.Value{}, failure(f, v)
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var doc any
		if err := dec.Decode(&doc); err != nil {
			return engine.Value{}, failure(f, v)
		}
		// One document per value: trailing content is a parse failure.
		if dec.More() {
			return engine.Value{}, failure(f, v)
		}
		return engine.FromJSON(doc), nil

	case NullIf:
		if _, ok := v.Bytes(); !ok {
			return engine.Value{}, failure(f, v)
		}
		if v.String() == f.sentinel {
			return engine.NullValue(), nil
		}
		return v, nil

	default:
		return engine.Value{}, fmt.Errorf("unreachable filter kind %d", int(f.kind))
	}
}

// scaled multiplies and wraps. FloatValue panics on NaN; a NaN product is an
// internal invariant violation, not a recoverable filter failure.
func scaled(v, factor float64) engine.Value {
	return engine.FloatValue(v * factor)
}

// truncateToInt64 converts toward zero, saturating at the int64 bounds.
func truncateToInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// lossy decodes bytes as UTF-8, replacing invalid sequences instead of
// rejecting them.
func lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

func failure(f Filter, v engine.Value) error {
	return &engine.FailedToApplyFilterError{Filter: f.String(), Value: v.String()}
}
