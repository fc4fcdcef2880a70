package typescript

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/inflect"
	"github.com/teranos/typereflect/schema"
	"github.com/teranos/typereflect/typegen"
)

var rectangle = &schema.Struct{
	Name: "Rectangle",
	Fields: []schema.NamedField{
		{Name: "width", Type: schema.Number},
		{Name: "height", Type: schema.Number},
		{Name: "corner_radius", Type: schema.OptionalOf(schema.Number), Inflection: inflect.Camel},
	},
}

func shape() *schema.Enum {
	return &schema.Enum{
		Name:       "Shape",
		Inflection: inflect.ScreamingSnake,
		Type:       schema.Complex{CaseKey: "_case", ContentKey: "data"},
		Cases: []schema.EnumCase{
			{Name: "Circle", Fields: schema.NamedCase{Fields: []schema.NamedField{{Name: "radius", Type: schema.Number}}}},
			{Name: "Square", Fields: schema.TupleCase{Members: []schema.Type{schema.Number}}},
			{Name: "Rectangle", Fields: schema.TupleCase{Members: []schema.Type{schema.Ref("Rectangle")}}},
			{Name: "Segment", Fields: schema.TupleCase{Members: []schema.Type{schema.Number, schema.Number}}},
			{Name: "EmptyShape"},
		},
	}
}

func transform() *schema.Enum {
	return &schema.Enum{
		Name:       "Transform",
		Inflection: inflect.Camel,
		Type:       schema.Untagged{},
		Cases: []schema.EnumCase{
			{Name: "Identity"},
			{Name: "Scale", Fields: schema.TupleCase{Members: []schema.Type{schema.Number}}},
			{Name: "ScaledRectangle", Fields: schema.NamedCase{Fields: []schema.NamedField{
				{Name: "factor", Type: schema.Number},
				{Name: "target", Type: schema.Ref("Rectangle")},
			}}},
			{Name: "Translate", Fields: schema.TupleCase{Members: []schema.Type{schema.Number, schema.Number}}},
		},
	}
}

func TestStructDeclarationAndValidator(t *testing.T) {
	m, source := load(t, schema.MustSet(rectangle))

	assert.Contains(t, source, "export type Rectangle = {\n  width: number;\n  height: number;\n  cornerRadius?: number | null;\n};")

	runValidations(t, m, "Rectangle", []validationCase{
		{"valid", `{"width": 1, "height": 2}`, ""},
		{"optional null", `{"width": 1, "height": 2, "cornerRadius": null}`, ""},
		{"optional present", `{"width": 1, "height": 2, "cornerRadius": 3}`, ""},
		{"missing field", `{"width": 1}`, "Error parsing Rectangle.height: missing required field"},
		{"wrong kind", `{"width": "1", "height": 2}`, "Error parsing Rectangle.width: expected: number, found: string"},
		{"optional wrong kind", `{"width": 1, "height": 2, "cornerRadius": true}`, "Error parsing Rectangle.cornerRadius: expected: number, found: boolean"},
		{"not a record", `[1, 2]`, "Error parsing Rectangle: expected: Record, found: Array(2)"},
		{"null", `null`, "Error parsing Rectangle: expected: Record, found: null"},
	})
}

// Type label, const map entry and validator literal come from one inflection.
func TestInflectionAgreement(t *testing.T) {
	_, source := load(t, schema.MustSet(rectangle, shape()))

	for name, lit := range map[string]string{
		"Circle":     "CIRCLE",
		"Square":     "SQUARE",
		"EmptyShape": "EMPTY_SHAPE",
	} {
		quoted := fmt.Sprintf("%q", lit)
		assert.Contains(t, source, fmt.Sprintf("  %s: %s,", name, quoted), "const map")
		assert.Contains(t, source, fmt.Sprintf("  _case: %s;", quoted), "case type")
		assert.Contains(t, source, fmt.Sprintf("if (input._case === %s)", quoted), "validator")
	}
	assert.Contains(t, source, `export type ShapeCase = "CIRCLE" | "SQUARE" | "RECTANGLE" | "SEGMENT" | "EMPTY_SHAPE";`)
	assert.Contains(t, source, "} as const;")
}

func TestSimpleRoundTrip(t *testing.T) {
	color := &schema.Enum{
		Name:       "Color",
		Inflection: inflect.Kebab,
		Cases:      []schema.EnumCase{{Name: "DarkRed"}, {Name: "Blue"}, {Name: "LightGreen", Inflection: inflect.ScreamingSnake}},
	}
	m, source := load(t, schema.MustSet(color))

	assert.Contains(t, source, `export type Color = "dark-red" | "blue" | "LIGHT_GREEN";`)

	for _, lit := range []string{"dark-red", "blue", "LIGHT_GREEN"} {
		out, err := m.Validate("Color", fmt.Sprintf("%q", lit))
		require.NoError(t, err)
		assert.Equal(t, lit, out)
	}
	runValidations(t, m, "Color", []validationCase{
		{"unknown literal", `"DarkRed"`, `Error parsing Color: value not in set: "DarkRed"`},
		{"wrong kind", `3`, "Error parsing Color: value not in set: 3"},
	})

	values, err := m.Eval("m.Color.values.join(',')")
	require.NoError(t, err)
	assert.Equal(t, "dark-red,blue,LIGHT_GREEN", values)
}

func TestComplexTagDispatch(t *testing.T) {
	m, source := load(t, schema.MustSet(rectangle, shape()))

	assert.Contains(t, source, "export type ShapeCaseCircle = {\n  _case: \"CIRCLE\";\n  data: {\n    radius: number;\n  };\n};")
	assert.Contains(t, source, "export type ShapeCaseSquare = {\n  _case: \"SQUARE\";\n  data: number;\n};")
	assert.Contains(t, source, "export type ShapeCaseSegment = {\n  _case: \"SEGMENT\";\n  data: [number, number];\n};")
	assert.Contains(t, source, "export type ShapeCaseEmptyShape = {\n  _case: \"EMPTY_SHAPE\";\n};")
	assert.Contains(t, source, "export type Shape = ShapeCaseCircle | ShapeCaseSquare | ShapeCaseRectangle | ShapeCaseSegment | ShapeCaseEmptyShape;")

	runValidations(t, m, "Shape", []validationCase{
		{"named", `{"_case": "CIRCLE", "data": {"radius": 2}}`, ""},
		{"single tuple", `{"_case": "SQUARE", "data": 4}`, ""},
		{"reference", `{"_case": "RECTANGLE", "data": {"width": 1, "height": 2}}`, ""},
		{"tuple", `{"_case": "SEGMENT", "data": [0, 1]}`, ""},
		{"unit", `{"_case": "EMPTY_SHAPE"}`, ""},
		{"named wrong kind", `{"_case": "CIRCLE", "data": {"radius": "2"}}`, "Error parsing Shape.data.radius: expected: number, found: string"},
		{"named missing", `{"_case": "CIRCLE", "data": {}}`, "Error parsing Shape.data.radius: missing required field"},
		{"single tuple wrong kind", `{"_case": "SQUARE", "data": [4]}`, "Error parsing Shape.data: expected: number, found: Array(1)"},
		{"nested reference", `{"_case": "RECTANGLE", "data": {"width": 1}}`, "Error parsing Shape.data.height: missing required field"},
		{"unknown tag", `{"_case": "Circle", "data": {"radius": 2}}`, `Error parsing Shape: no case matched tag: "Circle"`},
		{"missing tag", `{"data": 4}`, "Error parsing Shape: no case matched tag: undefined"},
		{"not a record", `"CIRCLE"`, "Error parsing Shape: expected: Record, found: string"},
	})
}

func TestUntaggedOrdering(t *testing.T) {
	m, source := load(t, schema.MustSet(rectangle, transform()))

	assert.Contains(t, source, "export type TransformCaseScaledRectangle = {\n  factor: number;\n  target: Rectangle;\n};")
	assert.Contains(t, source, "export type TransformCaseTranslate = [number, number];")
	assert.NotContains(t, source, "TransformCaseScale ", "single-member tuple case type is elided")
	assert.NotContains(t, source, "TransformCaseScale =")
	assert.Contains(t, source, "export type Transform = \"identity\" | {\n  scale?: number;\n  scaledRectangle?: TransformCaseScaledRectangle;\n  translate?: TransformCaseTranslate;\n};")

	scaleAt := strings.Index(source, "if (input.scale)")
	scaledAt := strings.Index(source, "if (input.scaledRectangle)")
	require.True(t, scaleAt > 0 && scaledAt > 0)
	assert.Less(t, scaleAt, scaledAt, "wrapper keys are tested in declaration order")

	out, err := m.Validate("Transform", `{"scaledRectangle": {"factor": 2, "target": {"width": 1, "height": 1}}}`)
	require.NoError(t, err)
	assert.Contains(t, out.(map[string]interface{}), "scaledRectangle")

	out, err = m.Validate("Transform", `{"scale": 2, "scaledRectangle": {"factor": 2}}`)
	require.NoError(t, err, "first declared wrapper key wins")
	assert.Equal(t, int64(2), out.(map[string]interface{})["scale"])

	out, err = m.Validate("Transform", `{"scale": 2, "note": "kept"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"scale": int64(2), "note": "kept"}, out, "validated input is returned whole")

	out, err = m.Validate("Transform", `"identity"`)
	require.NoError(t, err)
	assert.Equal(t, "identity", out)

	runValidations(t, m, "Transform", []validationCase{
		{"tuple case", `{"translate": [1, 2]}`, ""},
		{"unknown unit", `"scale"`, `Error parsing Transform: no case matched: "scale"`},
		{"no wrapper", `{"rotate": 1}`, "Error parsing Transform: no case matched"},
		{"not a record", `7`, "Error parsing Transform: expected: Record, found: number"},
		{"elided payload", `{"scale": "big"}`, "Error parsing Transform.scale: expected: number, found: string"},
		{"case validator", `{"scaledRectangle": {"factor": 2}}`, "Error parsing Transform.scaledRectangle.target: missing required field"},
		{"tuple arity", `{"translate": [1]}`, "Error parsing Transform.translate: expected: Array(2), found: Array(1)"},
	})

	runValidations(t, m, "TransformCaseTranslate", []validationCase{
		{"direct", `[1, 2]`, ""},
	})
}

func TestUntaggedEdgeShapes(t *testing.T) {
	empty := &schema.Enum{Name: "Nothing", Type: schema.Untagged{}}
	units := &schema.Enum{Name: "Level", Type: schema.Untagged{}, Inflection: inflect.Lower,
		Cases: []schema.EnumCase{{Name: "Low"}, {Name: "High"}}}
	wrapped := &schema.Enum{Name: "Boxed", Type: schema.Untagged{}, Inflection: inflect.Snake,
		Cases: []schema.EnumCase{{Name: "Text", Fields: schema.TupleCase{Members: []schema.Type{schema.String}}}}}

	m, source := load(t, schema.MustSet(empty, units, wrapped))

	assert.Contains(t, source, "export type Nothing = never;")
	assert.Contains(t, source, `export type Level = "low" | "high";`)
	assert.Contains(t, source, "export type Boxed = {\n  text?: string;\n};")

	runValidations(t, m, "Nothing", []validationCase{
		{"anything", `{}`, "Error parsing Nothing: no case matched"},
		{"string", `"x"`, "Error parsing Nothing: expected: Record, found: string"},
	})
	runValidations(t, m, "Level", []validationCase{
		{"unit", `"high"`, ""},
		{"object", `{"high": 1}`, "Error parsing Level: no case matched"},
	})
	runValidations(t, m, "Boxed", []validationCase{
		{"wrapped", `{"text": "hi"}`, ""},
		{"string input", `"text"`, "Error parsing Boxed: expected: Record, found: string"},
	})
}

func TestTupleArity(t *testing.T) {
	pair := &schema.Alias{Name: "Pair", Type: schema.TupleOf(schema.Number, schema.String)}
	m, source := load(t, schema.MustSet(pair))

	assert.Contains(t, source, "export type Pair = [number, string];")
	runValidations(t, m, "Pair", []validationCase{
		{"exact", `[1, "a"]`, ""},
		{"too short", `[1]`, "Error parsing Pair: expected: Array(2), found: Array(1)"},
		{"too long", `[1, "a", 3]`, "Error parsing Pair: expected: Array(2), found: Array(3)"},
		{"member kind", `["a", "a"]`, "Error parsing Pair[0]: expected: number, found: string"},
		{"not an array", `{"0": 1, "1": "a", "length": 2}`, "Error parsing Pair: expected: Array(2), found: object"},
	})
}

func TestRecursiveReferenceIsLinear(t *testing.T) {
	node := &schema.Struct{Name: "Node", Fields: []schema.NamedField{
		{Name: "label", Type: schema.String},
		{Name: "children", Type: schema.ArrayOf(schema.Ref("Node"))},
	}}
	m, source := load(t, schema.MustSet(node))

	assert.Equal(t, 1, strings.Count(source, "Node.validate("), "references delegate instead of inlining")
	assert.Equal(t, 1, strings.Count(source, "export function validate"))

	deep := `{"label": "leaf", "children": []}`
	for i := 0; i < 40; i++ {
		deep = fmt.Sprintf(`{"label": "n%d", "children": [%s]}`, i, deep)
	}
	_, err := m.Validate("Node", deep)
	require.NoError(t, err)

	runValidations(t, m, "Node", []validationCase{
		{"bad grandchild", `{"label": "a", "children": [{"label": "b", "children": [{"label": 3, "children": []}]}]}`,
			"Error parsing Node.children[0].children[0].label: expected: string, found: number"},
	})

	// adding a second recursive field grows the output by a bounded amount
	grown := *node
	grown.Fields = append(append([]schema.NamedField{}, node.Fields...), schema.NamedField{Name: "next", Type: schema.OptionalOf(schema.Ref("Node"))})
	bigger := render(t, schema.MustSet(&grown))
	assert.Less(t, len(bigger)-len(source), 600)
}

func TestMapAndAlias(t *testing.T) {
	scores := &schema.Alias{Name: "Scores", Doc: "Points by player.", Type: schema.MapOf(schema.ArrayOf(schema.Number))}
	m, source := load(t, schema.MustSet(scores))

	assert.Contains(t, source, "/** Points by player. */\nexport type Scores = Record<string, number[]>;")
	runValidations(t, m, "Scores", []validationCase{
		{"valid", `{"ann": [1, 2], "bob": []}`, ""},
		{"bad value", `{"ann": [1, "2"]}`, "Error parsing Scores[\"ann\"][1]: expected: number, found: string"},
		{"array", `[]`, "Error parsing Scores: expected: Record, found: Array(0)"},
	})
}

func TestNonIdentifierKeys(t *testing.T) {
	headers := &schema.Struct{Name: "Headers", Fields: []schema.NamedField{
		{Name: "content_type", Type: schema.String, Inflection: inflect.Kebab},
	}}
	m, source := load(t, schema.MustSet(headers))

	assert.Contains(t, source, `"content-type": string;`)
	runValidations(t, m, "Headers", []validationCase{
		{"valid", `{"content-type": "text/plain"}`, ""},
		{"missing", `{"content_type": "text/plain"}`, `Error parsing Headers["content-type"]: missing required field`},
	})
}

func TestGenerationRejection(t *testing.T) {
	noContent := shape()
	noContent.Name = "Broken"
	noContent.Type = schema.Complex{CaseKey: "_case"}

	clash := &schema.Enum{Name: "Clash", Type: schema.Untagged{}, Inflection: inflect.Camel, Cases: []schema.EnumCase{
		{Name: "ScaleBy", Fields: schema.TupleCase{Members: []schema.Type{schema.Number}}},
		{Name: "scale_by", Fields: schema.TupleCase{Members: []schema.Type{schema.String}}},
	}}

	dangling := &schema.Struct{Name: "Dangling", Fields: []schema.NamedField{{Name: "x", Type: schema.Ref("Nowhere")}}}

	set := schema.MustSet(rectangle, noContent, clash, dangling)
	content, written, err := typegen.NewPipeline(set).Render(typegen.Destination{
		Path:     "shapes.ts",
		Emitters: []typegen.Emitter{NewTypes(), NewValidators()},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingContentKey))
	assert.True(t, errors.Is(err, errors.ErrDuplicateWrapperKey))
	assert.True(t, errors.Is(err, errors.ErrUnknownReference))
	assert.True(t, errors.IsGenerationError(err))

	var genErrs *errors.GenerationErrors
	require.ErrorAs(t, err, &genErrs)
	assert.Len(t, genErrs.Errors, 3)

	assert.Equal(t, []string{"Rectangle"}, written)
	for _, name := range []string{"Broken", "Clash", "Dangling"} {
		assert.NotRegexp(t, regexp.MustCompile(`\b`+name+`\b`), string(content))
	}
}

func TestEveryEntityGetsAValidatorNamespace(t *testing.T) {
	_, source := load(t, schema.MustSet(rectangle, shape(), transform()))
	for _, name := range []string{"Rectangle", "Shape", "Transform", "TransformCaseScaledRectangle", "TransformCaseTranslate"} {
		assert.Contains(t, source, "export namespace "+name+" {\n  export function validate(input: any): "+name+" {")
	}
}

func TestPrefixes(t *testing.T) {
	set := schema.MustSet()
	types, err := NewTypes().Prefix(set)
	require.NoError(t, err)
	assert.Equal(t, "// Code generated by typereflect. DO NOT EDIT.\n/* eslint-disable */", types)

	helpers, err := NewValidators().Prefix(set)
	require.NoError(t, err)
	for _, fn := range []string{"function isRecord(", "function kindOf(", "function nested("} {
		assert.Contains(t, helpers, fn)
	}
}
