// Package gosource builds a schema set from Go source code.
//
// Exported struct types become structs, `type X string` declarations with
// typed string constants become simple enums, and other exported named types
// become aliases. Field keys follow json tags; pointer fields and fields
// tagged omitempty are optional.
package gosource

import (
	"go/ast"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/logger"
	"github.com/teranos/typereflect/schema"
)

// Primitives maps Go type names to schema primitives.
var Primitives = map[string]schema.Type{
	"string":        schema.String,
	"bool":          schema.Boolean,
	"int":           schema.Number,
	"int8":          schema.Number,
	"int16":         schema.Number,
	"int32":         schema.Number,
	"int64":         schema.Number,
	"uint":          schema.Number,
	"uint8":         schema.Number,
	"uint16":        schema.Number,
	"uint32":        schema.Number,
	"uint64":        schema.Number,
	"float32":       schema.Number,
	"float64":       schema.Number,
	"byte":          schema.Number,
	"rune":          schema.Number,
	"time.Time":     schema.String,
	"time.Duration": schema.Number,
}

// Load reads the Go packages matching patterns, resolved from dir (the
// working directory when empty), and converts their exported types.
func Load(dir string, patterns ...string) (*schema.Set, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %v", patterns)
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found for %v", patterns)
	}

	merged := schema.MustSet()
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.Newf("package %s: %v", pkg.PkgPath, pkg.Errors)
		}
		set, err := FromFiles(pkg.Syntax...)
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", pkg.PkgPath)
		}
		if merged, err = merged.Merge(set); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// FromFiles converts the exported declarations of parsed files, in file and
// declaration order.
func FromFiles(files ...*ast.File) (*schema.Set, error) {
	log := logger.ComponentLogger("gosource")

	consts := make(map[string][]schema.EnumCase)
	for _, file := range files {
		for _, decl := range file.Decls {
			if gen, ok := decl.(*ast.GenDecl); ok && gen.Tok == token.CONST {
				collectConsts(gen, consts)
			}
		}
	}

	var entities []schema.Entity
	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				if !ts.Name.IsExported() || ts.TypeParams != nil {
					continue
				}
				doc := commentText(ts.Doc)
				if doc == "" && len(gen.Specs) == 1 {
					doc = commentText(gen.Doc)
				}
				entity, err := convert(ts, doc, consts[ts.Name.Name])
				if err != nil {
					log.Debugw("Skipping type", "type", ts.Name.Name, "reason", err.Error())
					continue
				}
				entities = append(entities, entity)
			}
		}
	}
	return schema.NewSet(entities...)
}

func convert(ts *ast.TypeSpec, doc string, cases []schema.EnumCase) (schema.Entity, error) {
	name := ts.Name.Name
	switch t := ts.Type.(type) {
	case *ast.StructType:
		return &schema.Struct{Name: name, Doc: doc, Fields: structFields(name, t)}, nil
	case *ast.InterfaceType, *ast.FuncType, *ast.ChanType:
		return nil, errors.Newf("%T has no JSON form", t)
	}

	if ident, ok := ts.Type.(*ast.Ident); ok && ident.Name == "string" && len(cases) > 0 {
		return &schema.Enum{Name: name, Doc: doc, Cases: cases}, nil
	}
	typ, err := typeOf(ts.Type)
	if err != nil {
		return nil, err
	}
	return &schema.Alias{Name: name, Doc: doc, Type: typ}, nil
}

// collectConsts groups typed string constants by their declared type.
func collectConsts(decl *ast.GenDecl, out map[string][]schema.EnumCase) {
	for _, spec := range decl.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok || vs.Type == nil {
			continue
		}
		ident, ok := vs.Type.(*ast.Ident)
		if !ok {
			continue
		}
		for _, value := range vs.Values {
			lit, ok := value.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			s, err := strconv.Unquote(lit.Value)
			if err != nil {
				continue
			}
			doc := commentText(vs.Doc)
			if doc == "" {
				doc = commentText(vs.Comment)
			}
			out[ident.Name] = append(out[ident.Name], schema.EnumCase{Name: s, Doc: doc})
		}
	}
}

// FieldTag is the parsed json tag of a struct field.
type FieldTag struct {
	Key       string
	Omitempty bool
	Skip      bool
}

// ParseFieldTag reads the json tag of a field.
func ParseFieldTag(tag *ast.BasicLit) FieldTag {
	var info FieldTag
	if tag == nil {
		return info
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return info
	}
	jsonTag, ok := reflect.StructTag(raw).Lookup("json")
	if !ok {
		return info
	}
	parts := strings.Split(jsonTag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		info.Skip = true
		return info
	}
	info.Key = parts[0]
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			info.Omitempty = true
		}
	}
	return info
}

// structFields converts the exported, serialised fields of st. Fields whose
// type has no schema form are dropped.
func structFields(owner string, st *ast.StructType) []schema.NamedField {
	var fields []schema.NamedField
	for _, field := range st.Fields.List {
		tag := ParseFieldTag(field.Tag)
		if tag.Skip || len(field.Names) == 0 {
			continue
		}
		typ, err := typeOf(field.Type)
		if err != nil {
			logger.ComponentLogger("gosource").Debugw("Skipping field",
				"type", owner, "field", field.Names[0].Name, "reason", err.Error())
			continue
		}
		if tag.Omitempty {
			if _, ok := typ.(schema.Optional); !ok {
				typ = schema.OptionalOf(typ)
			}
		}
		for _, n := range field.Names {
			if !n.IsExported() {
				continue
			}
			key := tag.Key
			if key == "" {
				key = n.Name
			}
			fields = append(fields, schema.NamedField{Name: key, Type: typ})
		}
	}
	return fields
}

// typeOf converts a Go type expression.
func typeOf(expr ast.Expr) (schema.Type, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if p, ok := Primitives[t.Name]; ok {
			return p, nil
		}
		if t.Name == "any" || t.Name == "error" {
			return nil, errors.Newf("unsupported Go type %s", t.Name)
		}
		return schema.Ref(t.Name), nil
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			if p, ok := Primitives[pkg.Name+"."+t.Sel.Name]; ok {
				return p, nil
			}
		}
		return nil, errors.Newf("unsupported qualified type %s", t.Sel.Name)
	case *ast.StarExpr:
		inner, err := typeOf(t.X)
		if err != nil {
			return nil, err
		}
		return schema.OptionalOf(inner), nil
	case *ast.ArrayType:
		if ident, ok := t.Elt.(*ast.Ident); ok && ident.Name == "byte" && t.Len == nil {
			// encoding/json writes []byte as base64 text.
			return schema.String, nil
		}
		elem, err := typeOf(t.Elt)
		if err != nil {
			return nil, err
		}
		if t.Len == nil {
			return schema.ArrayOf(elem), nil
		}
		n, err := arrayLen(t.Len)
		if err != nil {
			return nil, err
		}
		members := make([]schema.Type, n)
		for i := range members {
			members[i] = elem
		}
		return schema.TupleOf(members...), nil
	case *ast.MapType:
		if key, ok := t.Key.(*ast.Ident); !ok || key.Name != "string" {
			return nil, errors.New("only string-keyed maps are supported")
		}
		value, err := typeOf(t.Value)
		if err != nil {
			return nil, err
		}
		return schema.MapOf(value), nil
	default:
		return nil, errors.Newf("unsupported Go type expression %T", expr)
	}
}

func arrayLen(expr ast.Expr) (int, error) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, errors.New("array length must be an integer literal")
	}
	n, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, errors.Wrap(err, "array length")
	}
	return n, nil
}

func commentText(group *ast.CommentGroup) string {
	if group == nil {
		return ""
	}
	return strings.TrimSpace(group.Text())
}
