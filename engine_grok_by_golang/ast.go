package engine_grok_by_golang

// Function is one parsed filter invocation from a pipeline definition:
// a name plus an optional list of literal arguments, e.g. scale(0.001).
type Function struct {
	Name string
	Args []FunctionArgument
}

// FunctionArgument is either a literal value or a nested call. Exactly one of
// the two fields is set. Filters only accept literal arguments; the nested
// form exists so the parser can carry it to the resolver, which rejects it.
type FunctionArgument struct {
	Value    *Value
	Function *Function
}

// LiteralArg wraps a literal value as a function argument.
func LiteralArg(v Value) FunctionArgument {
	return FunctionArgument{Value: &v}
}

// CallArg wraps a nested invocation as a function argument.
func CallArg(f Function) FunctionArgument {
	return FunctionArgument{Function: &f}
}
