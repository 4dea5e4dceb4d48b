package filter

import (
	engine "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang"
)

// FromFunction resolves a parsed filter invocation into a Filter, or fails
// with one of the two static error kinds: *engine.UnknownFilterError for a
// name missing from the table, *engine.InvalidFunctionArgumentsError for a
// known name with a bad argument list. Names are case-sensitive.
//
// The argument list is length-checked before any indexing, so a malformed
// invocation can never fault the resolver.
func FromFunction(f *engine.Function) (Filter, error) {
	switch f.Name {
	case "scale":
		if len(f.Args) != 1 {
			return Filter{}, invalidArgs(f)
		}
		lit := f.Args[0].Value
		if lit == nil {
			return Filter{}, invalidArgs(f)
		}
		if i, ok := lit.Integer(); ok {
			return ScaleFilter(float64(i)), nil
		}
		if fl, ok := lit.Float(); ok {
			return ScaleFilter(fl), nil
		}
		return Filter{}, invalidArgs(f)
	case "integer":
		return zeroArity(f, IntegerFilter())
	case "integerExt":
		return zeroArity(f, IntegerExtFilter())
	case "number":
		return zeroArity(f, NumberFilter())
	case "numberExt":
		return zeroArity(f, NumberExtFilter())
	case "lowercase":
		return zeroArity(f, LowercaseFilter())
	case "uppercase":
		return zeroArity(f, UppercaseFilter())
	case "json":
		return zeroArity(f, JsonFilter())
	case "nullIf":
		if len(f.Args) != 1 {
			return Filter{}, invalidArgs(f)
		}
		lit := f.Args[0].Value
		if lit == nil {
			return Filter{}, invalidArgs(f)
		}
		// Any literal type works; its canonical rendering is the sentinel.
		return NullIfFilter(lit.String()), nil
	default:
		return Filter{}, &engine.UnknownFilterError{Name: f.Name}
	}
}

func zeroArity(f *engine.Function, out Filter) (Filter, error) {
	if len(f.Args) != 0 {
		return Filter{}, invalidArgs(f)
	}
	return out, nil
}

func invalidArgs(f *engine.Function) error {
	return &engine.InvalidFunctionArgumentsError{Name: f.Name}
}
