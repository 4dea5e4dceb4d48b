package engine_grok_by_golang

import "fmt"

// Static (compile-time) errors. Once a pipeline compiles, neither can occur
// again for it.

// UnknownFilterError reports a filter name missing from the filter table.
type UnknownFilterError struct {
	Name string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter %q", e.Name)
}

// InvalidFunctionArgumentsError reports a known filter invoked with the wrong
// argument count or argument types.
type InvalidFunctionArgumentsError struct {
	Name string
}

func (e *InvalidFunctionArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for filter %q", e.Name)
}

// FailedToApplyFilterError is the single runtime error kind. It carries the
// filter's display name and the rendered input value; callers that need finer
// distinctions than that have to inspect the strings.
type FailedToApplyFilterError struct {
	Filter string
	Value  string
}

func (e *FailedToApplyFilterError) Error() string {
	return fmt.Sprintf("failed to apply filter %s to value %q", e.Filter, e.Value)
}
