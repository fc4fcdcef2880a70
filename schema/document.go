package schema

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/inflect"
)

// SupportedVersions is the document version constraint this build understands.
const SupportedVersions = "^1"

// Document is the on-disk form of a schema set.
//
//	version: "1"
//	entities:
//	  - struct: Rectangle
//	    fields:
//	      - {name: width, type: number}
//	  - enum: Shape
//	    representation: {kind: complex, case_key: _case, content_key: data}
//	    inflection: SCREAMING_SNAKE_CASE
//	    cases:
//	      - {name: Circle, fields: [{name: radius, type: number}]}
//	      - {name: Square, tuple: [number]}
type Document struct {
	Version  string           `yaml:"version" json:"version" toml:"version"`
	Entities []EntityDocument `yaml:"entities" json:"entities" toml:"entities"`
}

// EntityDocument declares exactly one of struct, enum or alias.
type EntityDocument struct {
	Struct string `yaml:"struct,omitempty" json:"struct,omitempty" toml:"struct,omitempty"`
	Enum   string `yaml:"enum,omitempty" json:"enum,omitempty" toml:"enum,omitempty"`
	Alias  string `yaml:"alias,omitempty" json:"alias,omitempty" toml:"alias,omitempty"`
	Doc    string `yaml:"doc,omitempty" json:"doc,omitempty" toml:"doc,omitempty"`

	// Type is the aliased type expression
	Type string `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`

	// Inflection is the default for struct fields or enum cases
	Inflection inflect.Convention `yaml:"inflection,omitempty" json:"inflection,omitempty" toml:"inflection,omitempty"`

	Fields         []FieldDocument         `yaml:"fields,omitempty" json:"fields,omitempty" toml:"fields,omitempty"`
	Representation *RepresentationDocument `yaml:"representation,omitempty" json:"representation,omitempty" toml:"representation,omitempty"`
	Cases          []CaseDocument          `yaml:"cases,omitempty" json:"cases,omitempty" toml:"cases,omitempty"`
}

// FieldDocument is a named field; Type is a type expression.
type FieldDocument struct {
	Name       string             `yaml:"name" json:"name" toml:"name"`
	Type       string             `yaml:"type" json:"type" toml:"type"`
	Inflection inflect.Convention `yaml:"inflection,omitempty" json:"inflection,omitempty" toml:"inflection,omitempty"`
}

// RepresentationDocument selects the enum representation.
type RepresentationDocument struct {
	Kind       string `yaml:"kind" json:"kind" toml:"kind"`
	CaseKey    string `yaml:"case_key,omitempty" json:"case_key,omitempty" toml:"case_key,omitempty"`
	ContentKey string `yaml:"content_key,omitempty" json:"content_key,omitempty" toml:"content_key,omitempty"`
}

// CaseDocument is an enum case. Fields makes it a named case, Tuple a tuple
// case, neither a unit case.
type CaseDocument struct {
	Name       string             `yaml:"name" json:"name" toml:"name"`
	Doc        string             `yaml:"doc,omitempty" json:"doc,omitempty" toml:"doc,omitempty"`
	Inflection inflect.Convention `yaml:"inflection,omitempty" json:"inflection,omitempty" toml:"inflection,omitempty"`
	Tuple      []string           `yaml:"tuple,omitempty" json:"tuple,omitempty" toml:"tuple,omitempty"`
	Fields     []FieldDocument    `yaml:"fields,omitempty" json:"fields,omitempty" toml:"fields,omitempty"`
}

// Format is a schema document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatForPath picks the document format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.WithHint(
			errors.Wrapf(errors.ErrInvalidSchema, "unrecognised schema file extension %q", filepath.Ext(path)),
			"schema files end in .yaml, .yml, .json or .toml",
		)
	}
}

// LoadFile reads and converts one schema document.
func LoadFile(path string) (*Set, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema %s", path)
	}
	set, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", path)
	}
	return set, nil
}

// LoadFiles loads several documents into one Set, in argument order.
func LoadFiles(paths ...string) (*Set, error) {
	merged := MustSet()
	for _, path := range paths {
		set, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if merged, err = merged.Merge(set); err != nil {
			return nil, errors.Wrapf(err, "schema %s", path)
		}
	}
	return merged, nil
}

// Parse decodes a document and converts it to a Set.
func Parse(data []byte, format Format) (*Set, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// Decode decodes a document without converting it.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			err = errors.Wrap(err, "failed to parse YAML schema")
			if strings.Contains(err.Error(), "did not find expected ',' or '}'") {
				// a bare `?` inside {...} is read as a YAML complex-key indicator
				err = errors.WithHint(err, `quote optional types inside flow mappings: {name: x, type: "number?"}`)
			}
			return nil, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON schema")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse TOML schema")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Wrapf(errors.ErrInvalidSchema, "unknown TOML key %s", undecoded[0].String())
		}
	default:
		return nil, errors.Wrapf(errors.ErrInvalidSchema, "unknown schema format %q", format)
	}
	return &doc, nil
}

// Build checks the document version and converts every entity.
func (d *Document) Build() (*Set, error) {
	if err := checkVersion(d.Version); err != nil {
		return nil, err
	}
	entities := make([]Entity, 0, len(d.Entities))
	for i, ed := range d.Entities {
		e, err := ed.build()
		if err != nil {
			return nil, errors.Wrapf(err, "entity %d", i)
		}
		entities = append(entities, e)
	}
	return NewSet(entities...)
}

func checkVersion(v string) error {
	if v == "" {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidSchema, "schema document has no version"),
			`add version: "1" at the top of the document`,
		)
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidSchema, "invalid schema version %q: %v", v, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.Wrap(err, "invalid supported version constraint")
	}
	if !constraint.Check(version) {
		return errors.Wrapf(errors.ErrInvalidSchema, "schema version %s not supported, need %s", v, SupportedVersions)
	}
	return nil
}

func (ed EntityDocument) build() (Entity, error) {
	declared := 0
	for _, name := range []string{ed.Struct, ed.Enum, ed.Alias} {
		if name != "" {
			declared++
		}
	}
	if declared != 1 {
		return nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidSchema, "entity must declare exactly one of struct, enum or alias"),
			"write struct: Name, enum: Name or alias: Name",
		)
	}

	switch {
	case ed.Struct != "":
		fields, err := buildFields(ed.Fields, ed.Inflection)
		if err != nil {
			return nil, errors.Wrapf(err, "struct %s", ed.Struct)
		}
		return &Struct{Name: ed.Struct, Doc: ed.Doc, Fields: fields}, nil

	case ed.Alias != "":
		t, err := ParseType(ed.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "alias %s", ed.Alias)
		}
		return &Alias{Name: ed.Alias, Doc: ed.Doc, Type: t}, nil

	default:
		e, err := ed.buildEnum()
		if err != nil {
			return nil, errors.Wrapf(err, "enum %s", ed.Enum)
		}
		return e, nil
	}
}

func (ed EntityDocument) buildEnum() (*Enum, error) {
	e := &Enum{Name: ed.Enum, Doc: ed.Doc, Inflection: ed.Inflection, Type: Simple{}}
	if r := ed.Representation; r != nil {
		switch strings.ToLower(r.Kind) {
		case "", "simple":
		case "complex":
			e.Type = Complex{CaseKey: r.CaseKey, ContentKey: r.ContentKey}
		case "untagged":
			e.Type = Untagged{}
		default:
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrInvalidSchema, "unknown representation %q", r.Kind),
				"representation kind is simple, complex or untagged",
			)
		}
	}

	for _, cd := range ed.Cases {
		c := EnumCase{Name: cd.Name, Doc: cd.Doc, Inflection: cd.Inflection, Fields: UnitCase{}}
		switch {
		case len(cd.Fields) > 0 && len(cd.Tuple) > 0:
			return nil, errors.Wrapf(errors.ErrInvalidSchema, "case %s declares both tuple and fields", cd.Name)
		case len(cd.Fields) > 0:
			fields, err := buildFields(cd.Fields, inflect.None)
			if err != nil {
				return nil, errors.Wrapf(err, "case %s", cd.Name)
			}
			c.Fields = NamedCase{Fields: fields}
		case len(cd.Tuple) > 0:
			members := make([]Type, 0, len(cd.Tuple))
			for _, expr := range cd.Tuple {
				t, err := ParseType(expr)
				if err != nil {
					return nil, errors.Wrapf(err, "case %s", cd.Name)
				}
				members = append(members, t)
			}
			c.Fields = TupleCase{Members: members}
		}
		e.Cases = append(e.Cases, c)
	}
	return e, nil
}

func buildFields(docs []FieldDocument, inherit inflect.Convention) ([]NamedField, error) {
	fields := make([]NamedField, 0, len(docs))
	for _, fd := range docs {
		if fd.Name == "" {
			return nil, errors.Wrap(errors.ErrInvalidSchema, "field without a name")
		}
		t, err := ParseType(fd.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", fd.Name)
		}
		conv := fd.Inflection
		if conv == inflect.None {
			conv = inherit
		}
		fields = append(fields, NamedField{Name: fd.Name, Type: t, Inflection: conv})
	}
	return fields, nil
}
