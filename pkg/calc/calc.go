// Package calc evaluates restricted arithmetic expressions on behalf of
// the pipeline agents. The grammar admits numeric literals, parentheses,
// unary minus, and the binary operators + - * / // % ^ (also spelled **).
// Identifiers, calls, and any other syntax are rejected: the input comes
// from model output and must never reach a general evaluator.
//
// Evaluate never returns an error to the caller; failures produce the
// ErrPrefix sentinel string, which agents record as "no usable result".
package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrPrefix marks an evaluation failure sentinel.
const ErrPrefix = "[tool-error]"

// NoResult is recorded when no candidate expression was found at all.
const NoResult = "[no-tool-result]"

// Evaluate parses and evaluates expr, returning the stringified numeric
// result, or a sentinel string beginning with ErrPrefix on any parse or
// evaluation failure.
func Evaluate(expr string) string {
	v, err := eval(expr)
	if err != nil {
		return fmt.Sprintf("%s %v", ErrPrefix, err)
	}
	return v.String()
}

// IsError reports whether a tool result is a failure sentinel.
func IsError(result string) bool {
	return strings.HasPrefix(strings.TrimSpace(result), ErrPrefix)
}

// value is a number that stays integral until true division or a float
// literal forces it to float.
type value struct {
	i       int64
	f       float64
	isFloat bool
}

func intVal(i int64) value     { return value{i: i} }
func floatVal(f float64) value { return value{f: f, isFloat: true} }

func (v value) toFloat() float64 {
	if v.isFloat {
		return v.f
	}
	return float64(v.i)
}

// String formats the value. Integers print without a decimal point; floats
// use the shortest representation that round-trips.
func (v value) String() string {
	if !v.isFloat {
		return strconv.FormatInt(v.i, 10)
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}

func eval(expr string) (value, error) {
	p := &parser{input: expr}
	p.skipSpace()
	if p.eof() {
		return value{}, fmt.Errorf("empty expression")
	}
	v, err := p.parseSum()
	if err != nil {
		return value{}, err
	}
	p.skipSpace()
	if !p.eof() {
		return value{}, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return v, nil
}

// parser is a recursive-descent parser over the restricted grammar:
//
//	sum     = product { ("+" | "-") product }
//	product = power { ("*" | "/" | "//" | "%") power }
//	power   = unary [ ("^" | "**") power ]        (right-associative)
//	unary   = "-" unary | atom
//	atom    = number | "(" sum ")"
type parser struct {
	input string
	pos   int
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) skipSpace() {
	for !p.eof() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

// accept consumes s if it appears at the cursor.
func (p *parser) accept(s string) bool {
	if strings.HasPrefix(p.input[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) parseSum() (value, error) {
	left, err := p.parseProduct()
	if err != nil {
		return value{}, err
	}
	for {
		p.skipSpace()
		switch {
		case p.accept("+"):
			right, err := p.parseProduct()
			if err != nil {
				return value{}, err
			}
			left = add(left, right)
		case p.accept("-"):
			right, err := p.parseProduct()
			if err != nil {
				return value{}, err
			}
			left = add(left, neg(right))
		default:
			return left, nil
		}
	}
}

func (p *parser) parseProduct() (value, error) {
	left, err := p.parsePower()
	if err != nil {
		return value{}, err
	}
	for {
		p.skipSpace()
		switch {
		case p.accept("//"):
			right, err := p.parsePower()
			if err != nil {
				return value{}, err
			}
			left, err = floorDiv(left, right)
			if err != nil {
				return value{}, err
			}
		case p.accept("*"):
			right, err := p.parsePower()
			if err != nil {
				return value{}, err
			}
			left = mul(left, right)
		case p.accept("/"):
			right, err := p.parsePower()
			if err != nil {
				return value{}, err
			}
			left, err = trueDiv(left, right)
			if err != nil {
				return value{}, err
			}
		case p.accept("%"):
			right, err := p.parsePower()
			if err != nil {
				return value{}, err
			}
			left, err = mod(left, right)
			if err != nil {
				return value{}, err
			}
		default:
			return left, nil
		}
	}
}

func (p *parser) parsePower() (value, error) {
	base, err := p.parseUnary()
	if err != nil {
		return value{}, err
	}
	p.skipSpace()
	if p.accept("**") || p.accept("^") {
		exp, err := p.parsePower()
		if err != nil {
			return value{}, err
		}
		return pow(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseUnary() (value, error) {
	p.skipSpace()
	if p.accept("-") {
		v, err := p.parseUnary()
		if err != nil {
			return value{}, err
		}
		return neg(v), nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (value, error) {
	p.skipSpace()
	if p.accept("(") {
		v, err := p.parseSum()
		if err != nil {
			return value{}, err
		}
		p.skipSpace()
		if !p.accept(")") {
			return value{}, fmt.Errorf("missing closing parenthesis at position %d", p.pos)
		}
		return v, nil
	}
	return p.parseNumber()
}

func (p *parser) parseNumber() (value, error) {
	start := p.pos
	for !p.eof() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	isFloat := false
	if !p.eof() && p.input[p.pos] == '.' {
		isFloat = true
		p.pos++
		for !p.eof() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
	}
	if p.pos == start || (isFloat && p.pos == start+1) {
		if p.eof() {
			return value{}, fmt.Errorf("unexpected end of expression")
		}
		return value{}, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}

	text := p.input[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return value{}, fmt.Errorf("invalid number %q", text)
		}
		return floatVal(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Too large for int64; degrade to float.
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return value{}, fmt.Errorf("invalid number %q", text)
		}
		return floatVal(f), nil
	}
	return intVal(i), nil
}

func add(a, b value) value {
	if a.isFloat || b.isFloat {
		return floatVal(a.toFloat() + b.toFloat())
	}
	return intVal(a.i + b.i)
}

func neg(v value) value {
	if v.isFloat {
		return floatVal(-v.f)
	}
	return intVal(-v.i)
}

func mul(a, b value) value {
	if a.isFloat || b.isFloat {
		return floatVal(a.toFloat() * b.toFloat())
	}
	return intVal(a.i * b.i)
}

func trueDiv(a, b value) (value, error) {
	if b.toFloat() == 0 {
		return value{}, fmt.Errorf("division by zero")
	}
	return floatVal(a.toFloat() / b.toFloat()), nil
}

// floorDiv floors toward negative infinity, matching the source semantics
// rather than Go's truncation.
func floorDiv(a, b value) (value, error) {
	if b.toFloat() == 0 {
		return value{}, fmt.Errorf("integer division by zero")
	}
	if a.isFloat || b.isFloat {
		return floatVal(math.Floor(a.toFloat() / b.toFloat())), nil
	}
	q := a.i / b.i
	if (a.i%b.i != 0) && ((a.i < 0) != (b.i < 0)) {
		q--
	}
	return intVal(q), nil
}

// mod takes the sign of the divisor, matching the source semantics.
func mod(a, b value) (value, error) {
	if b.toFloat() == 0 {
		return value{}, fmt.Errorf("modulo by zero")
	}
	if a.isFloat || b.isFloat {
		af, bf := a.toFloat(), b.toFloat()
		return floatVal(af - math.Floor(af/bf)*bf), nil
	}
	r := a.i % b.i
	if r != 0 && ((r < 0) != (b.i < 0)) {
		r += b.i
	}
	return intVal(r), nil
}

func pow(a, b value) value {
	if !a.isFloat && !b.isFloat && b.i >= 0 {
		// Integer exponentiation by squaring keeps small results exact.
		result := int64(1)
		base, exp := a.i, b.i
		overflow := false
		for exp > 0 && !overflow {
			if exp&1 == 1 {
				if r := result * base; base != 0 && r/base != result {
					overflow = true
				} else {
					result = r
				}
			}
			exp >>= 1
			if exp > 0 {
				if sq := base * base; base != 0 && sq/base != base {
					overflow = true
				} else {
					base = sq
				}
			}
		}
		if !overflow {
			return intVal(result)
		}
	}
	return floatVal(math.Pow(a.toFloat(), b.toFloat()))
}
