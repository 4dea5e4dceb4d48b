package filter

import (
	"errors"
	"testing"

	engine "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang"
)

func TestResolveZeroArityFilters(t *testing.T) {
	cases := []struct {
		name string
		want Kind
	}{
		{"integer", Integer},
		{"integerExt", IntegerExt},
		{"number", Number},
		{"numberExt", NumberExt},
		{"lowercase", Lowercase},
		{"uppercase", Uppercase},
		{"json", Json},
	}
	for _, c := range cases {
		f, err := FromFunction(&engine.Function{Name: c.name})
		if err != nil {
			t.Fatalf("resolve %s: %v", c.name, err)
		}
		if f.Kind() != c.want {
			t.Fatalf("resolve %s: want kind %d, got %d", c.name, c.want, f.Kind())
		}
	}
}

func TestResolveZeroArityRejectsArguments(t *testing.T) {
	fn := &engine.Function{
		Name: "integer",
		Args: []engine.FunctionArgument{engine.LiteralArg(engine.IntegerValue(5))},
	}
	_, err := FromFunction(fn)
	var invalid *engine.InvalidFunctionArgumentsError
	if !errors.As(err, &invalid) {
		t.Fatalf("want InvalidFunctionArgumentsError, got %v", err)
	}
}

func TestResolveScale(t *testing.T) {
	f, err := FromFunction(&engine.Function{
		Name: "scale",
		Args: []engine.FunctionArgument{engine.LiteralArg(engine.FloatValue(0.5))},
	})
	if err != nil {
		t.Fatalf("scale(0.5): %v", err)
	}
	if f.Kind() != Scale || f.Factor() != 0.5 {
		t.Fatalf("scale(0.5): got %v factor=%v", f.Kind(), f.Factor())
	}

	// Integer literal promotes to float.
	f, err = FromFunction(&engine.Function{
		Name: "scale",
		Args: []engine.FunctionArgument{engine.LiteralArg(engine.IntegerValue(3))},
	})
	if err != nil {
		t.Fatalf("scale(3): %v", err)
	}
	if f.Factor() != 3.0 {
		t.Fatalf("scale(3): want factor 3.0, got %v", f.Factor())
	}
}

func TestResolveScaleBadArguments(t *testing.T) {
	bad := []*engine.Function{
		{Name: "scale"}, // empty list must error, not fault
		{Name: "scale", Args: []engine.FunctionArgument{}},
		{Name: "scale", Args: []engine.FunctionArgument{engine.LiteralArg(engine.StringValue("x"))}},
		{Name: "scale", Args: []engine.FunctionArgument{
			engine.LiteralArg(engine.FloatValue(1)),
			engine.LiteralArg(engine.FloatValue(2)),
		}},
		{Name: "scale", Args: []engine.FunctionArgument{engine.CallArg(engine.Function{Name: "number"})}},
	}
	for i, fn := range bad {
		_, err := FromFunction(fn)
		var invalid *engine.InvalidFunctionArgumentsError
		if !errors.As(err, &invalid) {
			t.Fatalf("case %d: want InvalidFunctionArgumentsError, got %v", i, err)
		}
		if invalid.Name != "scale" {
			t.Fatalf("case %d: error must carry the filter name, got %q", i, invalid.Name)
		}
	}
}

func TestResolveNullIf(t *testing.T) {
	f, err := FromFunction(&engine.Function{
		Name: "nullIf",
		Args: []engine.FunctionArgument{engine.LiteralArg(engine.StringValue("-"))},
	})
	if err != nil {
		t.Fatalf("nullIf(\"-\"): %v", err)
	}
	if f.Kind() != NullIf || f.Sentinel() != "-" {
		t.Fatalf("nullIf: kind=%v sentinel=%q", f.Kind(), f.Sentinel())
	}

	// Any literal works; the sentinel is its rendering.
	f, err = FromFunction(&engine.Function{
		Name: "nullIf",
		Args: []engine.FunctionArgument{engine.LiteralArg(engine.IntegerValue(0))},
	})
	if err != nil {
		t.Fatalf("nullIf(0): %v", err)
	}
	if f.Sentinel() != "0" {
		t.Fatalf("nullIf(0): want sentinel \"0\", got %q", f.Sentinel())
	}
}

func TestResolveNullIfEmptyArgsDoesNotPanic(t *testing.T) {
	_, err := FromFunction(&engine.Function{Name: "nullIf"})
	var invalid *engine.InvalidFunctionArgumentsError
	if !errors.As(err, &invalid) {
		t.Fatalf("nullIf(): want InvalidFunctionArgumentsError, got %v", err)
	}
}

func TestResolveUnknownFilter(t *testing.T) {
	for _, name := range []string{"bogus", "Integer", "NULLIF", "scale2", ""} {
		_, err := FromFunction(&engine.Function{Name: name})
		var unknown *engine.UnknownFilterError
		if !errors.As(err, &unknown) {
			t.Fatalf("resolve %q: want UnknownFilterError, got %v", name, err)
		}
		var invalid *engine.InvalidFunctionArgumentsError
		if errors.As(err, &invalid) {
			t.Fatalf("resolve %q: unknown name must never report invalid arguments", name)
		}
	}
}
