package typescript

import (
	"fmt"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/schema"
)

// Path locates a value being validated: the JavaScript expression that reads
// it and the label used in error messages. Labels are template-literal text
// so loop indices can be interpolated.
type Path struct {
	expr  string
	label string
	depth int
}

// RootPath is the path of a validator's input for the named entity.
func RootPath(entity string) Path {
	return Path{expr: "input", label: templateText(entity)}
}

// NewPath builds a path from an expression and a plain-text label.
func NewPath(expr, label string) Path {
	return Path{expr: expr, label: templateText(label)}
}

// Expr is the JavaScript expression of the path.
func (p Path) Expr() string { return p.expr }

// Field descends into a named property.
func (p Path) Field(key string) Path {
	return Path{
		expr:  member(p.expr, key),
		label: p.label + templateText(member("", key)),
		depth: p.depth,
	}
}

// Index descends into a fixed tuple position.
func (p Path) Index(i int) Path {
	return Path{
		expr:  fmt.Sprintf("%s[%d]", p.expr, i),
		label: fmt.Sprintf("%s[%d]", p.label, i),
		depth: p.depth,
	}
}

// loop descends into an element addressed by a loop variable, returning the
// variable name and the element path.
func (p Path) loop(prefix string, quoteLabel bool) (string, Path) {
	v := fmt.Sprintf("%s%d", prefix, p.depth)
	label := fmt.Sprintf("%s[${%s}]", p.label, v)
	if quoteLabel {
		label = fmt.Sprintf("%s[\"${%s}\"]", p.label, v)
	}
	return v, Path{
		expr:  fmt.Sprintf("%s[%s]", p.expr, v),
		label: label,
		depth: p.depth + 1,
	}
}

// unTemplate is the inverse of templateText for labels built without interpolation.
func unTemplate(label string) string {
	out := make([]byte, 0, len(label))
	for i := 0; i < len(label); i++ {
		if label[i] == '\\' && i+1 < len(label) {
			i++
		}
		out = append(out, label[i])
	}
	return string(out)
}

// ValidateFragment returns TypeScript statements that throw unless the value
// at path conforms to t. References to other entities delegate to their
// validate function; they are never inlined.
func ValidateFragment(path Path, t schema.Type, set *schema.Set) (string, error) {
	w := &codeWriter{}
	if err := writeValidation(w, path, t, set); err != nil {
		return "", err
	}
	return w.String(), nil
}

func writeValidation(w *codeWriter, p Path, t schema.Type, set *schema.Set) error {
	switch v := t.(type) {
	case schema.Primitive:
		w.block(fmt.Sprintf("if (typeof %s !== '%s')", p.expr, v.Of), func() {
			throwMismatch(w, p, string(v.Of))
		})

	case schema.NamedReference:
		if set != nil && !set.Has(v.Name) {
			return errors.Wrapf(errors.ErrUnknownReference, "%s: %s", unTemplate(p.label), v.Name)
		}
		w.block("try", func() {
			w.line("%s.validate(%s);", v.Name, p.expr)
		})
		w.block("catch (e)", func() {
			w.line("throw nested(`%s`, e);", p.label)
		})

	case schema.Array:
		w.block(fmt.Sprintf("if (!Array.isArray(%s))", p.expr), func() {
			throwMismatch(w, p, "Array")
		})
		i, elem := p.loop("i", false)
		var err error
		w.block(fmt.Sprintf("for (let %s = 0; %s < %s.length; %s++)", i, i, p.expr, i), func() {
			err = writeValidation(w, elem, v.Element, set)
		})
		return err

	case schema.Tuple:
		n := len(v.Members)
		w.block(fmt.Sprintf("if (!Array.isArray(%s) || %s.length !== %d)", p.expr, p.expr, n), func() {
			throwMismatch(w, p, fmt.Sprintf("Array(%d)", n))
		})
		for i, m := range v.Members {
			if err := writeValidation(w, p.Index(i), m, set); err != nil {
				return err
			}
		}

	case schema.Optional:
		var err error
		w.block(fmt.Sprintf("if (%s !== undefined && %s !== null)", p.expr, p.expr), func() {
			err = writeValidation(w, p, v.Inner, set)
		})
		return err

	case schema.Map:
		w.block(fmt.Sprintf("if (!isRecord(%s))", p.expr), func() {
			throwMismatch(w, p, "Record")
		})
		k, value := p.loop("k", true)
		var err error
		w.block(fmt.Sprintf("for (const %s of Object.keys(%s))", k, p.expr), func() {
			err = writeValidation(w, value, v.Value, set)
		})
		return err

	default:
		return errors.Newf("unsupported type %T at %s", t, unTemplate(p.label))
	}
	return nil
}

func throwMismatch(w *codeWriter, p Path, expected string) {
	w.line("throw new Error(`Error parsing %s: expected: %s, found: ${kindOf(%s)}`);", p.label, expected, p.expr)
}

// writeRecordCheck rejects anything but a plain object at p.
func writeRecordCheck(w *codeWriter, p Path) {
	w.block(fmt.Sprintf("if (!isRecord(%s))", p.expr), func() {
		throwMismatch(w, p, "Record")
	})
}

// writeNamedFields validates a record of named fields at p: the record itself,
// presence of every required field, then each field's value.
func writeNamedFields(w *codeWriter, p Path, fields []schema.NamedField, set *schema.Set) error {
	writeRecordCheck(w, p)
	for _, f := range fields {
		fp := p.Field(f.Key())
		if !f.IsOptional() {
			w.block(fmt.Sprintf("if (%s === undefined)", fp.expr), func() {
				w.line("throw new Error(`Error parsing %s: missing required field`);", fp.label)
			})
		}
		if err := writeValidation(w, fp, f.Type, set); err != nil {
			return err
		}
	}
	return nil
}
