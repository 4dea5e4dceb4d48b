package compiler

import (
	"fmt"
	"strconv"
	"strings"

	engine "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang"
)

// ParseInvocation parses one filter invocation string from a pipeline
// definition into a Function AST node. Accepted forms:
//
//	integer
//	scale(0.001)
//	nullIf("-")
//	nullIf('N/A')
//
// Arguments are literals: signed integers, floats, quoted strings (single or
// double quotes, backslash escapes), true, false, null. A nested call like
// f(g()) parses but is rejected later by the resolver, which only takes
// literal arguments.
func ParseInvocation(s string) (*engine.Function, error) {
	p := &callParser{in: s}
	p.skipSpace()
	fn, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.in) {
		return nil, p.errorf("unexpected trailing input %q", p.in[p.pos:])
	}
	return fn, nil
}

type callParser struct {
	in  string
	pos int
}

func (p *callParser) errorf(format string, args ...any) error {
	return fmt.Errorf("ParseError: %s at offset %d in %q", fmt.Sprintf(format, args...), p.pos, p.in)
}

func (p *callParser) skipSpace() {
	for p.pos < len(p.in) && (p.in[p.pos] == ' ' || p.in[p.pos] == '\t') {
		p.pos++
	}
}

func (p *callParser) peek() byte {
	if p.pos >= len(p.in) {
		return 0
	}
	return p.in[p.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *callParser) parseIdent() (string, error) {
	if !isIdentStart(p.peek()) {
		return "", p.errorf("expected filter name")
	}
	start := p.pos
	for p.pos < len(p.in) && isIdentPart(p.in[p.pos]) {
		p.pos++
	}
	return p.in[start:p.pos], nil
}

func (p *callParser) parseCall() (*engine.Function, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	fn := &engine.Function{Name: name}
	p.skipSpace()
	if p.peek() != '(' {
		return fn, nil
	}
	if err := p.parseArgList(fn); err != nil {
		return nil, err
	}
	return fn, nil
}

// parseArgList consumes '(' args... ')' and appends onto fn.Args.
func (p *callParser) parseArgList(fn *engine.Function) error {
	p.pos++ // consume '('
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return nil
	}
	for {
		arg, err := p.parseArgument()
		if err != nil {
			return err
		}
		fn.Args = append(fn.Args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
		case ')':
			p.pos++
			return nil
		default:
			return p.errorf("expected ',' or ')'")
		}
	}
}

func (p *callParser) parseArgument() (engine.FunctionArgument, error) {
	c := p.peek()
	switch {
	case c == '"' || c == '\'':
		s, err := p.parseQuoted(c)
		if err != nil {
			return engine.FunctionArgument{}, err
		}
		return engine.LiteralArg(engine.StringValue(s)), nil
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case isIdentStart(c):
		word, err := p.parseIdent()
		if err != nil {
			return engine.FunctionArgument{}, err
		}
		switch word {
		case "true":
			return engine.LiteralArg(engine.BooleanValue(true)), nil
		case "false":
			return engine.LiteralArg(engine.BooleanValue(false)), nil
		case "null":
			return engine.LiteralArg(engine.NullValue()), nil
		}
		// Not a keyword: must be a nested call.
		p.skipSpace()
		if p.peek() != '(' {
			return engine.FunctionArgument{}, p.errorf("unexpected bare word %q", word)
		}
		nested := &engine.Function{Name: word}
		if err := p.parseArgList(nested); err != nil {
			return engine.FunctionArgument{}, err
		}
		return engine.CallArg(*nested), nil
	default:
		return engine.FunctionArgument{}, p.errorf("expected argument")
	}
}

func (p *callParser) parseNumber() (engine.FunctionArgument, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	digits := 0
	float := false
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' || c == 'e' || c == 'E':
			float = true
		case c == '-' || c == '+':
			// exponent sign, only valid right after e/E
			if p.pos == start || (p.in[p.pos-1] != 'e' && p.in[p.pos-1] != 'E') {
				goto done
			}
		default:
			goto done
		}
		p.pos++
	}
done:
	if digits == 0 {
		return engine.FunctionArgument{}, p.errorf("malformed number")
	}
	text := p.in[start:p.pos]
	if !float {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return engine.LiteralArg(engine.IntegerValue(i)), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return engine.FunctionArgument{}, p.errorf("malformed number %q", text)
	}
	return engine.LiteralArg(engine.FloatValue(f)), nil
}

func (p *callParser) parseQuoted(quote byte) (string, error) {
	p.pos++ // consume opening quote
	var out strings.Builder
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		switch c {
		case quote:
			p.pos++
			return out.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.in) {
				return "", p.errorf("unterminated escape")
			}
			switch e := p.in[p.pos]; e {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r':
				out.WriteByte('\r')
			case '\\', '"', '\'':
				out.WriteByte(e)
			default:
				return "", p.errorf("unsupported escape \\%c", e)
			}
			p.pos++
		default:
			out.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}
