// Package golang emits Go declarations with the same JSON wire shape as the
// TypeScript output, using jennifer for code construction and goimports for
// the final import block.
package golang

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/inflect"
	"github.com/teranos/typereflect/schema"
	"github.com/teranos/typereflect/typegen"
	"github.com/teranos/typereflect/version"
)

const jsonPkg = "encoding/json"

// Emitter writes Go type declarations.
type Emitter struct {
	typegen.Base
	pkg string
}

// NewEmitter creates a Go emitter. An empty package name is derived from
// the destination directory.
func NewEmitter(opts typegen.Options) (*Emitter, error) {
	pkg := opts.GoPackage
	if pkg == "" {
		pkg = PackageName(opts.Path)
	}
	if !validPackageName(pkg) {
		return nil, errors.WithHint(
			errors.Newf("invalid Go package name %q", pkg),
			"set go_package on the destination",
		)
	}
	return &Emitter{pkg: pkg}, nil
}

var (
	nonIdent    = regexp.MustCompile(`[^a-z0-9_]`)
	packageName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// PackageName derives a package clause from the directory of path.
func PackageName(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	name := nonIdent.ReplaceAllString(strings.ToLower(dir), "")
	if name == "" || name == "." || (name[0] >= '0' && name[0] <= '9') {
		return "types"
	}
	return name
}

func validPackageName(s string) bool {
	return packageName.MatchString(s)
}

func (e *Emitter) Name() string { return "go" }

func (e *Emitter) Prefix(*schema.Set) (string, error) {
	return fmt.Sprintf("// %s\n\npackage %s", version.Header(), e.pkg), nil
}

func (e *Emitter) EmitStruct(s *schema.Struct, set *schema.Set) (string, error) {
	if err := set.CheckReferences(s); err != nil {
		return "", err
	}
	return render(withDoc(s.Name, s.Doc, jen.Type().Id(s.Name).Struct(fieldCodes(s.Fields)...)))
}

func (e *Emitter) EmitAlias(a *schema.Alias, set *schema.Set) (string, error) {
	if err := set.CheckReferences(a); err != nil {
		return "", err
	}
	return render(withDoc(a.Name, a.Doc, jen.Type().Id(a.Name).Add(goType(a.Type))))
}

func (e *Emitter) EmitEnum(en *schema.Enum, set *schema.Set) (string, error) {
	if err := set.CheckReferences(en); err != nil {
		return "", err
	}
	l, err := schema.Classify(en)
	if err != nil {
		return "", err
	}
	switch l.Representation {
	case schema.SimpleRepresentation:
		return render(simpleEnum(l)...)
	case schema.ComplexRepresentation:
		return render(complexEnum(l)...)
	default:
		return render(untaggedEnum(l)...)
	}
}

// Finalize resolves the import block of the written file.
func (e *Emitter) Finalize(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapOutput(err, "failed to read %s", path)
	}
	out, err := imports.Process(path, src, nil)
	if err != nil {
		return errors.WrapOutput(err, "goimports %s", path)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.WrapOutput(err, "failed to write %s", path)
	}
	return nil
}

func render(stmts ...jen.Code) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("render Go source: %v", r)
		}
	}()
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = fmt.Sprintf("%#v", s)
	}
	return strings.Join(parts, "\n\n"), nil
}

func withDoc(name, doc string, decl *jen.Statement) *jen.Statement {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return decl
	}
	if !strings.HasPrefix(doc, name+" ") {
		doc = name + " " + lowerFirst(doc)
	}
	return jen.Comment(doc).Line().Add(decl)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// GoName converts a schema identifier into an exported Go identifier.
func GoName(name string) string {
	id := inflect.Apply(name, inflect.Pascal)
	if id == "" {
		return "X"
	}
	if id[0] >= '0' && id[0] <= '9' {
		return "X" + id
	}
	return id
}

// goType maps a schema type to a Go type expression.
func goType(t schema.Type) *jen.Statement {
	switch v := t.(type) {
	case schema.Primitive:
		switch v.Of {
		case schema.NumberKind:
			return jen.Float64()
		case schema.BooleanKind:
			return jen.Bool()
		default:
			return jen.String()
		}
	case schema.NamedReference:
		return jen.Id(v.Name)
	case schema.Array:
		return jen.Index().Add(goType(v.Element))
	case schema.Tuple:
		return jen.Index(jen.Lit(len(v.Members))).Add(tupleElement(v.Members))
	case schema.Optional:
		if nilable(v.Inner) {
			return goType(v.Inner)
		}
		return jen.Op("*").Add(goType(v.Inner))
	case schema.Map:
		return jen.Map(jen.String()).Add(goType(v.Value))
	default:
		return jen.Any()
	}
}

// tupleElement is the shared element type of a tuple, or any when members differ.
func tupleElement(members []schema.Type) *jen.Statement {
	if len(members) == 0 {
		return jen.Any()
	}
	first := members[0].String()
	for _, m := range members[1:] {
		if m.String() != first {
			return jen.Any()
		}
	}
	return goType(members[0])
}

// nilable types already express absence.
func nilable(t schema.Type) bool {
	switch t.(type) {
	case schema.Array, schema.Map, schema.Optional:
		return true
	}
	return false
}

func fieldCodes(fields []schema.NamedField) []jen.Code {
	codes := make([]jen.Code, 0, len(fields))
	for _, f := range fields {
		tag := f.Key()
		if f.IsOptional() {
			tag += ",omitempty"
		}
		codes = append(codes, jen.Id(GoName(f.Name)).Add(goType(f.Type)).Tag(map[string]string{"json": tag}))
	}
	return codes
}

// Simple: a string type with one constant per case.
func simpleEnum(l *schema.Layout) []jen.Code {
	name := l.Enum.Name
	consts := make([]jen.Code, 0, len(l.Cases))
	values := make([]jen.Code, 0, len(l.Cases))
	for _, c := range l.Cases {
		id := name + GoName(c.Case.Name)
		consts = append(consts, jen.Id(id).Id(name).Op("=").Lit(c.Literal))
		values = append(values, jen.Id(id))
	}

	out := []jen.Code{withDoc(name, l.Enum.Doc, jen.Type().Id(name).String())}
	if len(consts) > 0 {
		out = append(out, jen.Const().Defs(consts...))
	}
	out = append(out,
		jen.Comment(fmt.Sprintf("%sValues lists every %s in declaration order.", name, name)).Line().
			Var().Id(name+"Values").Op("=").Index().Id(name).Values(values...),
		jen.Comment("Valid reports whether v is one of the declared cases.").Line().
			Func().Params(jen.Id("v").Id(name)).Id("Valid").Params().Bool().Block(
			jen.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id(name+"Values")).Block(
				jen.If(jen.Id("c").Op("==").Id("v")).Block(jen.Return(jen.True())),
			),
			jen.Return(jen.False()),
		),
	)
	return out
}

// payloadDecls declares the named types of non-elided payload cases.
func payloadDecls(l *schema.Layout) []jen.Code {
	var out []jen.Code
	for _, c := range l.Payloads() {
		if c.Elided {
			continue
		}
		switch fields := c.Case.Fields.(type) {
		case schema.NamedCase:
			out = append(out, withDoc(c.TypeName, c.Case.Doc, jen.Type().Id(c.TypeName).Struct(fieldCodes(fields.Fields)...)))
		case schema.TupleCase:
			out = append(out, withDoc(c.TypeName, c.Case.Doc, jen.Type().Id(c.TypeName).Add(goType(schema.TupleOf(fields.Members...)))))
		}
	}
	return out
}

// Complex: a tag field plus the raw content.
func complexEnum(l *schema.Layout) []jen.Code {
	name := l.Enum.Name
	tagType := name + "Case"

	consts := make([]jen.Code, 0, len(l.Cases))
	for _, c := range l.Cases {
		consts = append(consts, jen.Id(tagType+"Key"+GoName(c.Case.Name)).Id(tagType).Op("=").Lit(c.Literal))
	}

	out := []jen.Code{jen.Type().Id(tagType).String()}
	if len(consts) > 0 {
		out = append(out, jen.Const().Defs(consts...))
	}
	out = append(out, payloadDecls(l)...)

	fields := []jen.Code{jen.Id("Case").Id(tagType).Tag(map[string]string{"json": l.CaseKey})}
	if l.ContentKey != "" {
		fields = append(fields, jen.Id("Content").Qual(jsonPkg, "RawMessage").Tag(map[string]string{"json": l.ContentKey + ",omitempty"}))
	}
	return append(out, withDoc(name, l.Enum.Doc, jen.Type().Id(name).Struct(fields...)))
}

// Untagged: one field per case; unit cases marshal as bare strings.
func untaggedEnum(l *schema.Layout) []jen.Code {
	name := l.Enum.Name
	out := payloadDecls(l)

	var fields []jen.Code
	for _, c := range l.Cases {
		field := jen.Id(GoName(c.Case.Name))
		switch {
		case c.Shape == schema.UnitShape:
			fields = append(fields, field.Bool().Tag(map[string]string{"json": "-"}))
		case c.Elided && nilable(c.Payload()):
			fields = append(fields, field.Add(goType(c.Payload())).Tag(map[string]string{"json": c.Literal + ",omitempty"}))
		case c.Elided:
			fields = append(fields, field.Op("*").Add(goType(c.Payload())).Tag(map[string]string{"json": c.Literal + ",omitempty"}))
		default:
			fields = append(fields, field.Op("*").Id(c.TypeName).Tag(map[string]string{"json": c.Literal + ",omitempty"}))
		}
	}
	out = append(out, withDoc(name, l.Enum.Doc, jen.Type().Id(name).Struct(fields...)))

	units := l.Units()
	if len(units) == 0 {
		return out
	}

	marshalCases := make([]jen.Code, 0, len(units))
	unmarshalCases := make([]jen.Code, 0, len(units))
	for _, c := range units {
		field := GoName(c.Case.Name)
		marshalCases = append(marshalCases, jen.Case(jen.Id("v").Dot(field)).Block(
			jen.Return(jen.Qual(jsonPkg, "Marshal").Call(jen.Lit(c.Literal))),
		))
		unmarshalCases = append(unmarshalCases, jen.Case(jen.Lit(c.Literal)).Block(
			jen.Op("*").Id("v").Op("=").Id(name).Values(jen.Id(field).Op(":").True()),
			jen.Return(jen.Nil()),
		))
	}

	out = append(out,
		jen.Func().Params(jen.Id("v").Id(name)).Id("MarshalJSON").Params().Params(jen.Index().Byte(), jen.Error()).Block(
			jen.Switch().Block(marshalCases...),
			jen.Type().Id("wire").Id(name),
			jen.Return(jen.Qual(jsonPkg, "Marshal").Call(jen.Id("wire").Call(jen.Id("v")))),
		),
		jen.Func().Params(jen.Id("v").Op("*").Id(name)).Id("UnmarshalJSON").Params(jen.Id("data").Index().Byte()).Error().Block(
			jen.Var().Id("s").String(),
			jen.If(jen.Qual(jsonPkg, "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("s")).Op("==").Nil()).Block(
				jen.Switch(jen.Id("s")).Block(unmarshalCases...),
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(name+": no case matched: %q"), jen.Id("s"))),
			),
			jen.Type().Id("wire").Id(name),
			jen.Return(jen.Qual(jsonPkg, "Unmarshal").Call(jen.Id("data"), jen.Parens(jen.Op("*").Id("wire")).Call(jen.Id("v")))),
		),
	)
	return out
}
