package schema

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/teranos/typereflect/errors"
)

// primitive spellings accepted in type expressions
var primitiveNames = map[string]Primitive{
	"string":  String,
	"str":     String,
	"number":  Number,
	"int":     Number,
	"integer": Number,
	"float":   Number,
	"i8":      Number,
	"i16":     Number,
	"i32":     Number,
	"i64":     Number,
	"u8":      Number,
	"u16":     Number,
	"u32":     Number,
	"u64":     Number,
	"f32":     Number,
	"f64":     Number,
	"boolean": Boolean,
	"bool":    Boolean,
}

// ParseType parses a compact type expression:
//
//	string | number | boolean | Name | T[] | T? | [A, B] | Record<string, T> | (T)
//
// Postfix operators bind left to right, so "Point[]?" is an optional array.
func ParseType(expr string) (Type, error) {
	p := &typeParser{src: expr}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

// MustParseType is ParseType for literals in code; it panics on error.
func MustParseType(expr string) Type {
	t, err := ParseType(expr)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(errors.ErrInvalidSchema, "type %q at offset %d: %s",
		p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) eof() bool { return p.pos >= len(p.src) }

func (p *typeParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(c byte) error {
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, found end of input", c)
		}
		return p.errorf("expected %q, found %q", c, p.src[p.pos])
	}
	p.pos++
	return nil
}

func (p *typeParser) parseType() (Type, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '?':
			p.pos++
			t = OptionalOf(t)
		case '[':
			if !strings.HasPrefix(p.src[p.pos:], "[]") {
				return t, nil
			}
			p.pos += 2
			t = ArrayOf(t)
		default:
			return t, nil
		}
	}
}

func (p *typeParser) parsePrimary() (Type, error) {
	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("expected a type, found end of input")
	case c == '(':
		p.pos++
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return t, p.expect(')')
	case c == '[':
		p.pos++
		return p.parseTuple()
	case isIdentStart(c):
		name := p.ident()
		if name == "Record" && p.peek() == '<' {
			return p.parseRecord()
		}
		if prim, ok := primitiveNames[name]; ok {
			return prim, nil
		}
		return Ref(name), nil
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *typeParser) parseTuple() (Type, error) {
	var members []Type
	if p.peek() == ']' {
		p.pos++
		return TupleOf(members...), nil
	}
	for {
		m, err := p.parseType()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
		if p.peek() == ',' {
			p.pos++
			continue
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		return TupleOf(members...), nil
	}
}

func (p *typeParser) parseRecord() (Type, error) {
	p.pos++ // '<'
	p.skipSpace()
	if key := p.ident(); key != "string" {
		return nil, p.errorf("record keys must be string, found %q", key)
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	value, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect('>'); err != nil {
		return nil, err
	}
	return MapOf(value), nil
}

func (p *typeParser) ident() string {
	start := p.pos
	for !p.eof() && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
