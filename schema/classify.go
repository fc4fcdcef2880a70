package schema

import (
	"github.com/teranos/typereflect/errors"
)

// CaseLayout is the resolved wire layout of one enum case.
type CaseLayout struct {
	Case EnumCase

	// Literal is the inflected case name: the tag value for Complex enums, the
	// string literal for Simple enums and unit cases, the wrapper key otherwise.
	Literal string

	// TypeName is the <Enum>Case<Case> declaration name.
	TypeName string

	Shape CaseShape

	// Elided is set for single-member tuple cases: no case type is declared
	// and the payload is the member type itself.
	Elided bool
}

// Payload returns the single member of an elided case.
func (c CaseLayout) Payload() Type {
	if !c.Elided {
		return nil
	}
	return c.Case.Fields.(TupleCase).Members[0]
}

// Layout is the classification of an enum shared by every emitter.
type Layout struct {
	Enum           *Enum
	Representation RepresentationKind
	CaseKey        string
	ContentKey     string
	Cases          []CaseLayout
}

// Units returns the unit cases in declaration order.
func (l *Layout) Units() []CaseLayout {
	return l.filter(func(c CaseLayout) bool { return c.Shape == UnitShape })
}

// Payloads returns the non-unit cases in declaration order.
func (l *Layout) Payloads() []CaseLayout {
	return l.filter(func(c CaseLayout) bool { return c.Shape != UnitShape })
}

func (l *Layout) filter(keep func(CaseLayout) bool) []CaseLayout {
	var out []CaseLayout
	for _, c := range l.Cases {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Classify resolves the case literals and payload shapes of e and rejects
// representations that cannot be emitted unambiguously.
func Classify(e *Enum) (*Layout, error) {
	l := &Layout{
		Enum:           e,
		Representation: e.Representation(),
		Cases:          make([]CaseLayout, 0, len(e.Cases)),
	}
	if c, ok := e.Type.(Complex); ok {
		l.CaseKey = c.CaseKey
		l.ContentKey = c.ContentKey
	}

	for _, c := range e.Cases {
		cl := CaseLayout{
			Case:     c,
			Literal:  e.CaseLiteral(c),
			TypeName: e.CaseTypeName(c),
			Shape:    c.Shape(),
		}
		if t, ok := c.Fields.(TupleCase); ok && len(t.Members) == 1 {
			cl.Elided = true
		}
		l.Cases = append(l.Cases, cl)
	}

	switch l.Representation {
	case SimpleRepresentation:
		for _, c := range l.Cases {
			if c.Shape != UnitShape {
				return nil, errors.WithHint(
					errors.Wrapf(errors.ErrInvalidSchema, "simple enum case %s carries a %s payload", c.Case.Name, c.Shape),
					"use a complex or untagged representation for enums with payloads",
				)
			}
		}
		if err := uniqueLiterals(l.Cases, errors.ErrDuplicateCaseTag); err != nil {
			return nil, err
		}

	case ComplexRepresentation:
		if l.CaseKey == "" {
			return nil, errors.WithHint(
				errors.Wrap(errors.ErrInvalidSchema, "complex enum without a case key"),
				"set case_key on the enum representation",
			)
		}
		if l.ContentKey == "" {
			for _, c := range l.Cases {
				if c.Shape != UnitShape {
					return nil, errors.WithHint(
						errors.Wrapf(errors.ErrMissingContentKey, "case %s", c.Case.Name),
						"set content_key on the enum representation",
					)
				}
			}
		}
		if l.ContentKey != "" && l.ContentKey == l.CaseKey {
			return nil, errors.Wrapf(errors.ErrInvalidSchema, "case key and content key are both %q", l.CaseKey)
		}
		if err := uniqueLiterals(l.Cases, errors.ErrDuplicateCaseTag); err != nil {
			return nil, err
		}

	case UntaggedRepresentation:
		if err := uniqueLiterals(l.Payloads(), errors.ErrDuplicateWrapperKey); err != nil {
			return nil, err
		}
		if err := uniqueLiterals(l.Units(), errors.ErrDuplicateCaseTag); err != nil {
			return nil, err
		}
	}

	return l, nil
}

func uniqueLiterals(cases []CaseLayout, sentinel error) error {
	seen := make(map[string]string, len(cases))
	for _, c := range cases {
		if prev, dup := seen[c.Literal]; dup {
			return errors.WithHint(
				errors.Wrapf(sentinel, "cases %s and %s both inflect to %q", prev, c.Case.Name, c.Literal),
				"rename one of the cases or give it its own inflection",
			)
		}
		seen[c.Literal] = c.Case.Name
	}
	return nil
}
