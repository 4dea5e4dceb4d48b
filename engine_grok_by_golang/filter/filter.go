package filter

import (
	"fmt"
	"strconv"
)

// Kind enumerates the closed set of filters. The set is fixed at build time
// of the engine itself, so resolution is a switch over this enum, not a
// registry.
type Kind int

const (
	Integer Kind = iota
	IntegerExt
	Number
	NumberExt
	NullIf
	Scale
	Lowercase
	Uppercase
	Json
)

// Filter is a resolved, validated filter. It is immutable and carries all
// state needed to apply itself repeatedly: the sentinel text for NullIf, the
// multiplicative factor for Scale, nothing for the rest.
type Filter struct {
	kind     Kind
	sentinel string
	factor   float64
}

func IntegerFilter() Filter    { return Filter{kind: Integer} }
func IntegerExtFilter() Filter { return Filter{kind: IntegerExt} }
func NumberFilter() Filter     { return Filter{kind: Number} }
func NumberExtFilter() Filter  { return Filter{kind: NumberExt} }
func LowercaseFilter() Filter  { return Filter{kind: Lowercase} }
func UppercaseFilter() Filter  { return Filter{kind: Uppercase} }
func JsonFilter() Filter       { return Filter{kind: Json} }

func NullIfFilter(sentinel string) Filter {
	return Filter{kind: NullIf, sentinel: sentinel}
}

func ScaleFilter(factor float64) Filter {
	return Filter{kind: Scale, factor: factor}
}

func (f Filter) Kind() Kind { return f.kind }

// Sentinel returns the NullIf sentinel text; meaningless for other kinds.
func (f Filter) Sentinel() string { return f.sentinel }

// Factor returns the Scale factor; meaningless for other kinds.
func (f Filter) Factor() float64 { return f.factor }

// String renders the filter the way pipeline authors write it, payload
// included, so runtime errors point back at the definition.
func (f Filter) String() string {
	switch f.kind {
	case Integer:
		return "integer"
	case IntegerExt:
		return "integerExt"
	case Number:
		return "number"
	case NumberExt:
		return "numberExt"
	case NullIf:
		return fmt.Sprintf("nullIf(%q)", f.sentinel)
	case Scale:
		return "scale(" + strconv.FormatFloat(f.factor, 'g', -1, 64) + ")"
	case Lowercase:
		return "lowercase"
	case Uppercase:
		return "uppercase"
	case Json:
		return "json"
	default:
		return fmt.Sprintf("Filter(%d)", int(f.kind))
	}
}
