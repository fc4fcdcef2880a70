// Package rust emits serde-annotated Rust declarations whose JSON form
// matches the TypeScript output.
package rust

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/inflect"
	"github.com/teranos/typereflect/logger"
	"github.com/teranos/typereflect/schema"
	"github.com/teranos/typereflect/typegen"
	"github.com/teranos/typereflect/version"
)

const (
	deriveData = "#[derive(Debug, Clone, PartialEq, Serialize, Deserialize)]"
	deriveUnit = "#[derive(Debug, Clone, Copy, PartialEq, Eq, Hash, Serialize, Deserialize)]"
)

// Emitter writes Rust declarations.
type Emitter struct {
	typegen.Base

	// Rustfmt is the formatter binary looked up at finalize. Empty disables formatting.
	Rustfmt string
}

// NewEmitter creates a Rust emitter that formats with rustfmt when it is on PATH.
func NewEmitter(typegen.Options) (*Emitter, error) {
	return &Emitter{Rustfmt: "rustfmt"}, nil
}

func (e *Emitter) Name() string { return "rust" }

func (e *Emitter) Prefix(*schema.Set) (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("// %s\n\n", version.Header()))
	sb.WriteString("#![allow(clippy::all)]\n")
	sb.WriteString("#![allow(unused_imports)]\n\n")
	sb.WriteString("use serde::{Deserialize, Serialize};\n")
	sb.WriteString("use std::collections::HashMap;")
	return sb.String(), nil
}

func (e *Emitter) EmitStruct(s *schema.Struct, set *schema.Set) (string, error) {
	if err := set.CheckReferences(s); err != nil {
		return "", err
	}
	var sb strings.Builder
	writeDoc(&sb, "", s.Doc)
	sb.WriteString(deriveData + "\n")
	sb.WriteString(fmt.Sprintf("pub struct %s {\n", s.Name))
	writeFields(&sb, "    ", "pub ", s.Fields)
	sb.WriteString("}")
	return sb.String(), nil
}

func (e *Emitter) EmitAlias(a *schema.Alias, set *schema.Set) (string, error) {
	if err := set.CheckReferences(a); err != nil {
		return "", err
	}
	var sb strings.Builder
	writeDoc(&sb, "", a.Doc)
	sb.WriteString(fmt.Sprintf("pub type %s = %s;", a.Name, RustType(a.Type)))
	return sb.String(), nil
}

func (e *Emitter) EmitEnum(en *schema.Enum, set *schema.Set) (string, error) {
	if err := set.CheckReferences(en); err != nil {
		return "", err
	}
	l, err := schema.Classify(en)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	writeDoc(&sb, "", en.Doc)
	switch l.Representation {
	case schema.SimpleRepresentation:
		sb.WriteString(deriveUnit + "\n")
	case schema.ComplexRepresentation:
		sb.WriteString(deriveData + "\n")
		if l.ContentKey == "" {
			sb.WriteString(fmt.Sprintf("#[serde(tag = %s)]\n", rustString(l.CaseKey)))
		} else {
			sb.WriteString(fmt.Sprintf("#[serde(tag = %s, content = %s)]\n", rustString(l.CaseKey), rustString(l.ContentKey)))
		}
	default:
		// Externally tagged: unit variants are bare strings and payload
		// variants are single-key objects, which is the untagged wire form.
		sb.WriteString(deriveData + "\n")
	}
	sb.WriteString(fmt.Sprintf("pub enum %s {\n", en.Name))
	for _, c := range l.Cases {
		writeVariant(&sb, c)
	}
	sb.WriteString("}")
	return sb.String(), nil
}

func writeVariant(sb *strings.Builder, c schema.CaseLayout) {
	name := VariantName(c.Case.Name)
	writeDoc(sb, "    ", c.Case.Doc)
	if c.Literal != name {
		sb.WriteString(fmt.Sprintf("    #[serde(rename = %s)]\n", rustString(c.Literal)))
	}
	switch fields := c.Case.Fields.(type) {
	case schema.TupleCase:
		if len(fields.Members) == 0 {
			sb.WriteString(fmt.Sprintf("    %s(),\n", name))
			return
		}
		members := make([]string, len(fields.Members))
		for i, m := range fields.Members {
			members[i] = RustType(m)
		}
		sb.WriteString(fmt.Sprintf("    %s(%s),\n", name, strings.Join(members, ", ")))
	case schema.NamedCase:
		sb.WriteString(fmt.Sprintf("    %s {\n", name))
		writeFields(sb, "        ", "", fields.Fields)
		sb.WriteString("    },\n")
	default:
		sb.WriteString(fmt.Sprintf("    %s,\n", name))
	}
}

func writeFields(sb *strings.Builder, indent, visibility string, fields []schema.NamedField) {
	for _, f := range fields {
		ident := FieldName(f.Name)
		if key := f.Key(); key != strings.TrimPrefix(ident, "r#") {
			sb.WriteString(fmt.Sprintf("%s#[serde(rename = %s)]\n", indent, rustString(key)))
		}
		if f.IsOptional() {
			sb.WriteString(indent + "#[serde(default, skip_serializing_if = \"Option::is_none\")]\n")
		}
		sb.WriteString(fmt.Sprintf("%s%s%s: %s,\n", indent, visibility, ident, RustType(f.Type)))
	}
}

func writeDoc(sb *strings.Builder, indent, doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			sb.WriteString(indent + "///\n")
			continue
		}
		sb.WriteString(fmt.Sprintf("%s/// %s\n", indent, line))
	}
}

// RustType maps a schema type to a Rust type expression. Optional references
// are boxed so recursive declarations have a finite size.
func RustType(t schema.Type) string {
	switch v := t.(type) {
	case schema.Primitive:
		switch v.Of {
		case schema.NumberKind:
			return "f64"
		case schema.BooleanKind:
			return "bool"
		default:
			return "String"
		}
	case schema.NamedReference:
		return v.Name
	case schema.Array:
		return "Vec<" + RustType(v.Element) + ">"
	case schema.Tuple:
		members := make([]string, len(v.Members))
		for i, m := range v.Members {
			members[i] = RustType(m)
		}
		if len(members) == 1 {
			return "(" + members[0] + ",)"
		}
		return "(" + strings.Join(members, ", ") + ")"
	case schema.Optional:
		inner := v.Inner
		for {
			nested, ok := inner.(schema.Optional)
			if !ok {
				break
			}
			inner = nested.Inner
		}
		if ref, ok := inner.(schema.NamedReference); ok {
			return "Option<Box<" + ref.Name + ">>"
		}
		return "Option<" + RustType(inner) + ">"
	case schema.Map:
		return "HashMap<String, " + RustType(v.Value) + ">"
	default:
		return "serde_json::Value"
	}
}

// Rust keywords that need raw identifier prefix (r#)
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "static": true, "struct": true, "super": true,
	"trait": true, "true": true, "type": true, "unsafe": true, "use": true,
	"where": true, "while": true, "yield": true,
}

// FieldName converts a field name to a snake_case Rust identifier, adding the
// r# prefix for keywords.
func FieldName(name string) string {
	id := inflect.Apply(name, inflect.Snake)
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = "f_" + id
	}
	if rustKeywords[id] {
		return "r#" + id
	}
	return id
}

// VariantName converts a case name to a PascalCase variant identifier.
func VariantName(name string) string {
	id := inflect.Apply(name, inflect.Pascal)
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		return "V" + id
	}
	// Self and self are reserved even as raw identifiers.
	if id == "Self" {
		return "SelfCase"
	}
	return id
}

func rustString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// Finalize runs rustfmt over the written file. A missing rustfmt binary is
// logged and skipped.
func (e *Emitter) Finalize(path string) error {
	if e.Rustfmt == "" {
		return nil
	}
	bin, err := exec.LookPath(e.Rustfmt)
	if err != nil {
		logger.ComponentLogger("rust").Debugw("rustfmt not found, leaving output unformatted",
			"path", path)
		return nil
	}
	var stderr bytes.Buffer
	cmd := exec.Command(bin, "--edition", "2021", path)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.WrapOutput(
			errors.WithDetail(err, strings.TrimSpace(stderr.String())),
			"rustfmt %s", path,
		)
	}
	return nil
}
