package golang

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/inflect"
	"github.com/teranos/typereflect/schema"
	"github.com/teranos/typereflect/typegen"
)

func shapesSet() *schema.Set {
	rect := &schema.Struct{Name: "Rectangle", Doc: "is an axis-aligned box.", Fields: []schema.NamedField{
		{Name: "width", Type: schema.Number},
		{Name: "corner_radius", Type: schema.OptionalOf(schema.Number), Inflection: inflect.Camel},
		{Name: "tags", Type: schema.OptionalOf(schema.ArrayOf(schema.String))},
	}}
	color := &schema.Enum{Name: "Color", Inflection: inflect.Kebab,
		Cases: []schema.EnumCase{{Name: "DarkRed"}, {Name: "Blue"}}}
	shape := &schema.Enum{Name: "Shape", Inflection: inflect.ScreamingSnake,
		Type: schema.Complex{CaseKey: "_case", ContentKey: "data"},
		Cases: []schema.EnumCase{
			{Name: "Circle", Fields: schema.NamedCase{Fields: []schema.NamedField{{Name: "radius", Type: schema.Number}}}},
			{Name: "Square", Fields: schema.TupleCase{Members: []schema.Type{schema.Number}}},
		}}
	transform := &schema.Enum{Name: "Transform", Inflection: inflect.Camel, Type: schema.Untagged{},
		Cases: []schema.EnumCase{
			{Name: "Identity"},
			{Name: "Scale", Fields: schema.TupleCase{Members: []schema.Type{schema.Number}}},
			{Name: "Translate", Fields: schema.TupleCase{Members: []schema.Type{schema.Number, schema.Number}}},
		}}
	pair := &schema.Alias{Name: "Pair", Type: schema.TupleOf(schema.Number, schema.String)}
	return schema.MustSet(rect, color, shape, transform, pair)
}

func TestGenerateGoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes", "shapes.go")
	em, err := NewEmitter(typegen.Options{Path: path})
	require.NoError(t, err)

	_, err = typegen.NewPipeline(shapesSet()).Generate(typegen.Destination{
		Path:     path,
		Emitters: []typegen.Emitter{em},
	})
	require.NoError(t, err)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	code := string(src)

	_, err = parser.ParseFile(token.NewFileSet(), path, src, parser.AllErrors)
	require.NoError(t, err, code)

	assert.Contains(t, code, "// Code generated by typereflect. DO NOT EDIT.")
	assert.Contains(t, code, "package shapes")
	assert.Contains(t, code, `import (`)
	assert.Contains(t, code, `"encoding/json"`)
	assert.Contains(t, code, "// Rectangle is an axis-aligned box.")
	assert.Regexp(t, "CornerRadius +\\*float64 +`json:\"cornerRadius,omitempty\"`", code)
	assert.Regexp(t, "Tags +\\[\\]string +`json:\"tags,omitempty\"`", code)
	assert.Regexp(t, `ColorDarkRed +Color = "dark-red"`, code)
	assert.Contains(t, code, "func (v Color) Valid() bool")
	assert.Regexp(t, `ShapeCaseKeyCircle +ShapeCase = "CIRCLE"`, code)
	assert.Contains(t, code, "type ShapeCaseCircle struct")
	assert.NotContains(t, code, "type ShapeCaseSquare")
	assert.Regexp(t, "Content +json.RawMessage +`json:\"data,omitempty\"`", code)
	assert.Contains(t, code, "type TransformCaseTranslate [2]float64")
	assert.Regexp(t, "Scale +\\*float64 +`json:\"scale,omitempty\"`", code)
	assert.Contains(t, code, "func (v *Transform) UnmarshalJSON(data []byte) error")
	assert.Contains(t, code, "type Pair [2]any")
}

func TestGoNameAndPackage(t *testing.T) {
	assert.Equal(t, "CornerRadius", GoName("corner_radius"))
	assert.Equal(t, "X2d", GoName("2d"))
	assert.Equal(t, "shapes", PackageName("gen/shapes/a.go"))
	assert.Equal(t, "types", PackageName("a.go"))
	assert.Equal(t, "mytypes", PackageName("out/my-types/a.go"))

	_, err := NewEmitter(typegen.Options{Path: "a.go", GoPackage: "Not-Valid"})
	assert.Error(t, err)

	for name, want := range map[string]bool{"shapes": true, "_x1": true, "Shapes": false, "1x": false, "a.b": false, "": false} {
		assert.Equal(t, want, validPackageName(name), name)
	}
}

func TestRejectsUnknownReference(t *testing.T) {
	em, err := NewEmitter(typegen.Options{GoPackage: "x"})
	require.NoError(t, err)
	s := &schema.Struct{Name: "A", Fields: []schema.NamedField{{Name: "b", Type: schema.Ref("B")}}}
	_, err = em.EmitStruct(s, schema.MustSet(s))
	assert.True(t, errors.Is(err, errors.ErrUnknownReference))
}

func TestFinalizeRejectsBrokenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.go")
	require.NoError(t, os.WriteFile(path, []byte("package x\nfunc {"), 0o644))
	em, err := NewEmitter(typegen.Options{GoPackage: "x"})
	require.NoError(t, err)
	err = em.Finalize(path)
	assert.True(t, errors.IsOutputError(err))
}
