// Package typescript emits TypeScript type declarations and the runtime
// validators that re-derive those types from parsed JSON.
//
// Two emitters share one destination file: Types ("typescript") writes the
// declarations and Validators ("validation") writes one
// `export namespace X { export function validate(input: any): X }` per entity.
// Both read case literals from schema.Classify, so a type label, its const
// map entry and the literal its validator compares against never disagree.
package typescript

import (
	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/schema"
	"github.com/teranos/typereflect/typegen"
	"github.com/teranos/typereflect/version"
)

// Types emits type declarations.
type Types struct {
	typegen.Base
}

// NewTypes creates the declaration emitter
func NewTypes() *Types {
	return &Types{}
}

func (t *Types) Name() string { return "typescript" }

func (t *Types) Prefix(*schema.Set) (string, error) {
	return "// " + version.Header() + "\n/* eslint-disable */", nil
}

func (t *Types) EmitStruct(s *schema.Struct, set *schema.Set) (string, error) {
	if err := set.CheckReferences(s); err != nil {
		return "", err
	}
	w := &codeWriter{}
	docComment(w, s.Doc)
	objectType(w, "export type "+s.Name+" = ", s.Fields, ";")
	return w.String(), nil
}

func (t *Types) EmitAlias(a *schema.Alias, set *schema.Set) (string, error) {
	if err := set.CheckReferences(a); err != nil {
		return "", err
	}
	w := &codeWriter{}
	docComment(w, a.Doc)
	w.line("export type %s = %s;", a.Name, TypeExpr(a.Type))
	return w.String(), nil
}

func (t *Types) EmitEnum(e *schema.Enum, set *schema.Set) (string, error) {
	if err := set.CheckReferences(e); err != nil {
		return "", err
	}
	l, err := schema.Classify(e)
	if err != nil {
		return "", err
	}
	w := &codeWriter{}
	switch l.Representation {
	case schema.SimpleRepresentation:
		docComment(w, e.Doc)
		writeSimpleType(w, l)
	case schema.ComplexRepresentation:
		writeComplexTypes(w, l)
	case schema.UntaggedRepresentation:
		writeUntaggedTypes(w, l)
	default:
		return "", errors.Newf("enum %s: unknown representation %s", e.Name, l.Representation)
	}
	return w.String(), nil
}

// Validators emits runtime validators.
type Validators struct {
	typegen.Base
}

// NewValidators creates the validator emitter
func NewValidators() *Validators {
	return &Validators{}
}

func (v *Validators) Name() string { return "validation" }

// Prefix writes the module-local helpers every validator relies on.
func (v *Validators) Prefix(*schema.Set) (string, error) {
	return prelude, nil
}

func (v *Validators) EmitStruct(s *schema.Struct, set *schema.Set) (string, error) {
	w := &codeWriter{}
	err := validatorNamespace(w, s.Name, func() error {
		if err := writeNamedFields(w, RootPath(s.Name), s.Fields, set); err != nil {
			return err
		}
		w.line("return input as %s;", s.Name)
		return nil
	})
	if err != nil {
		return "", err
	}
	return w.String(), nil
}

func (v *Validators) EmitAlias(a *schema.Alias, set *schema.Set) (string, error) {
	w := &codeWriter{}
	err := validatorNamespace(w, a.Name, func() error {
		if err := writeValidation(w, RootPath(a.Name), a.Type, set); err != nil {
			return err
		}
		w.line("return input as %s;", a.Name)
		return nil
	})
	if err != nil {
		return "", err
	}
	return w.String(), nil
}

func (v *Validators) EmitEnum(e *schema.Enum, set *schema.Set) (string, error) {
	l, err := schema.Classify(e)
	if err != nil {
		return "", err
	}
	w := &codeWriter{}
	switch l.Representation {
	case schema.SimpleRepresentation:
		writeSimpleValidator(w, l)
	case schema.ComplexRepresentation:
		err = writeComplexValidator(w, l, set)
	case schema.UntaggedRepresentation:
		err = writeUntaggedValidators(w, l, set)
	default:
		err = errors.Newf("enum %s: unknown representation %s", e.Name, l.Representation)
	}
	if err != nil {
		return "", err
	}
	return w.String(), nil
}

const prelude = `function isRecord(value: any): value is Record<string, any> {
  return typeof value === 'object' && value !== null && !Array.isArray(value);
}

function kindOf(value: any): string {
  if (value === null) {
    return 'null';
  }
  if (Array.isArray(value)) {
    return ` + "`Array(${value.length})`" + `;
  }
  return typeof value;
}

function nested(path: string, e: unknown): Error {
  const message = e instanceof Error ? e.message : String(e);
  const prefix = 'Error parsing ';
  if (!message.startsWith(prefix)) {
    return new Error(` + "`Error parsing ${path}: ${message}`" + `);
  }
  const rest = message.slice(prefix.length);
  let i = 0;
  while (i < rest.length && rest[i] !== '.' && rest[i] !== '[' && rest[i] !== ':') {
    i++;
  }
  return new Error(` + "`Error parsing ${path}${rest.slice(i)}`" + `);
}`
