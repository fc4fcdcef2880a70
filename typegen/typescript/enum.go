package typescript

import (
	"fmt"
	"strings"

	"github.com/teranos/typereflect/schema"
)

func quoteLiterals(cases []schema.CaseLayout) []string {
	lits := make([]string, len(cases))
	for i, c := range cases {
		lits[i] = quote(c.Literal)
	}
	return lits
}

func unionOf(members []string) string {
	if len(members) == 0 {
		return "never"
	}
	return strings.Join(members, " | ")
}

// payloadType is the inline TypeScript type of a tuple case payload.
func payloadType(c schema.CaseLayout) string {
	if c.Elided {
		return TypeExpr(c.Payload())
	}
	t, _ := c.Case.Fields.(schema.TupleCase)
	return TypeExpr(schema.TupleOf(t.Members...))
}

// wrappedType is the type held under an untagged wrapper key.
func wrappedType(c schema.CaseLayout) string {
	if c.Elided {
		return TypeExpr(c.Payload())
	}
	return c.TypeName
}

// Simple

func writeSimpleType(w *codeWriter, l *schema.Layout) {
	w.line("export type %s = %s;", l.Enum.Name, unionOf(quoteLiterals(l.Cases)))
}

func writeSimpleValidator(w *codeWriter, l *schema.Layout) {
	name := l.Enum.Name
	root := RootPath(name)
	w.block("export namespace "+name, func() {
		w.line("export const values: %s[] = [%s];", name, strings.Join(quoteLiterals(l.Cases), ", "))
		w.line("")
		w.block(fmt.Sprintf("export function validate(input: any): %s", name), func() {
			w.block("if (values.indexOf(input) === -1)", func() {
				w.line("throw new Error(`Error parsing %s: value not in set: ${JSON.stringify(input)}`);", root.label)
			})
			w.line("return input as %s;", name)
		})
	})
}

// Complex

func writeComplexTypes(w *codeWriter, l *schema.Layout) {
	name := l.Enum.Name
	w.line("export type %sCase = %s;", name, unionOf(quoteLiterals(l.Cases)))
	w.line("")
	w.blockWith(fmt.Sprintf("export const %sCaseKey =", name), "} as const;", func() {
		for _, c := range l.Cases {
			w.line("%s: %s,", propertyKey(c.Case.Name), quote(c.Literal))
		}
	})

	names := make([]string, 0, len(l.Cases))
	for _, c := range l.Cases {
		names = append(names, c.TypeName)
		w.line("")
		docComment(w, c.Case.Doc)
		w.blockWith(fmt.Sprintf("export type %s =", c.TypeName), "};", func() {
			w.line("%s: %s;", propertyKey(l.CaseKey), quote(c.Literal))
			switch fields := c.Case.Fields.(type) {
			case schema.NamedCase:
				objectType(w, propertyKey(l.ContentKey)+": ", fields.Fields, ";")
			case schema.TupleCase:
				w.line("%s: %s;", propertyKey(l.ContentKey), payloadType(c))
			}
		})
	}

	w.line("")
	docComment(w, l.Enum.Doc)
	w.line("export type %s = %s;", name, unionOf(names))
}

func writeComplexValidator(w *codeWriter, l *schema.Layout, set *schema.Set) error {
	name := l.Enum.Name
	root := RootPath(name)
	tag := root.Field(l.CaseKey)

	return validatorNamespace(w, name, func() error {
		writeRecordCheck(w, root)
		for _, c := range l.Cases {
			var err error
			w.block(fmt.Sprintf("if (%s === %s)", tag.expr, quote(c.Literal)), func() {
				err = writeCaseBody(w, root.Field(l.ContentKey), c, set)
				w.line("return input as %s;", name)
			})
			if err != nil {
				return err
			}
		}
		w.line("throw new Error(`Error parsing %s: no case matched tag: ${JSON.stringify(%s)}`);", root.label, tag.expr)
		return nil
	})
}

// writeCaseBody validates the payload of c found at p.
func writeCaseBody(w *codeWriter, p Path, c schema.CaseLayout, set *schema.Set) error {
	switch fields := c.Case.Fields.(type) {
	case schema.NamedCase:
		return writeNamedFields(w, p, fields.Fields, set)
	case schema.TupleCase:
		if c.Elided {
			return writeValidation(w, p, c.Payload(), set)
		}
		return writeValidation(w, p, schema.TupleOf(fields.Members...), set)
	}
	return nil
}

// Untagged

func writeUntaggedTypes(w *codeWriter, l *schema.Layout) {
	name := l.Enum.Name
	payloads := l.Payloads()

	for _, c := range payloads {
		if c.Elided {
			continue
		}
		docComment(w, c.Case.Doc)
		switch fields := c.Case.Fields.(type) {
		case schema.NamedCase:
			objectType(w, fmt.Sprintf("export type %s = ", c.TypeName), fields.Fields, ";")
		case schema.TupleCase:
			w.line("export type %s = %s;", c.TypeName, payloadType(c))
		}
		w.line("")
	}

	docComment(w, l.Enum.Doc)
	units := quoteLiterals(l.Units())
	if len(payloads) == 0 {
		w.line("export type %s = %s;", name, unionOf(units))
		return
	}
	head := fmt.Sprintf("export type %s =", name)
	if len(units) > 0 {
		head += " " + strings.Join(units, " | ") + " |"
	}
	w.blockWith(head, "};", func() {
		for _, c := range payloads {
			w.line("%s?: %s;", propertyKey(c.Literal), wrappedType(c))
		}
	})
}

func writeUntaggedValidators(w *codeWriter, l *schema.Layout, set *schema.Set) error {
	name := l.Enum.Name
	root := RootPath(name)
	payloads := l.Payloads()

	for _, c := range payloads {
		if c.Elided {
			continue
		}
		err := validatorNamespace(w, c.TypeName, func() error {
			if err := writeCaseBody(w, RootPath(c.TypeName), c, set); err != nil {
				return err
			}
			w.line("return input as %s;", c.TypeName)
			return nil
		})
		if err != nil {
			return err
		}
		w.line("")
	}

	return validatorNamespace(w, name, func() error {
		if units := l.Units(); len(units) > 0 {
			w.block("if (typeof input === 'string')", func() {
				for _, c := range units {
					w.block(fmt.Sprintf("if (input === %s)", quote(c.Literal)), func() {
						w.line("return input as %s;", name)
					})
				}
				w.line("throw new Error(`Error parsing %s: no case matched: ${JSON.stringify(input)}`);", root.label)
			})
		}
		writeRecordCheck(w, root)
		for _, c := range payloads {
			p := root.Field(c.Literal)
			var err error
			w.block(fmt.Sprintf("if (%s)", p.expr), func() {
				if c.Elided {
					err = writeValidation(w, p, c.Payload(), set)
				} else {
					err = writeValidation(w, p, schema.Ref(c.TypeName), nil)
				}
				w.line("return input as %s;", name)
			})
			if err != nil {
				return err
			}
		}
		w.line("throw new Error(`Error parsing %s: no case matched`);", root.label)
		return nil
	})
}

// validatorNamespace wraps body in the exported validate function of name.
func validatorNamespace(w *codeWriter, name string, body func() error) error {
	var err error
	w.block("export namespace "+name, func() {
		w.block(fmt.Sprintf("export function validate(input: any): %s", name), func() {
			err = body()
		})
	})
	return err
}
