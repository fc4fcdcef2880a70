package schema

import (
	"github.com/teranos/typereflect/inflect"
)

// EntityKind identifies the variant of an Entity.
type EntityKind int

const (
	StructEntity EntityKind = iota
	EnumEntity
	AliasEntity
)

func (k EntityKind) String() string {
	switch k {
	case StructEntity:
		return "struct"
	case EnumEntity:
		return "enum"
	case AliasEntity:
		return "alias"
	default:
		return "unknown"
	}
}

// Entity is a named top-level declaration: *Struct, *Enum or *Alias.
type Entity interface {
	EntityName() string
	EntityKind() EntityKind
}

// NamedField is a struct field or a field of a named enum case.
type NamedField struct {
	Name       string
	Type       Type
	Inflection inflect.Convention
}

// Key is the wire name of the field.
func (f NamedField) Key() string {
	return inflect.Apply(f.Name, f.Inflection)
}

// IsOptional reports whether the field may be absent on the wire.
func (f NamedField) IsOptional() bool {
	_, ok := f.Type.(Optional)
	return ok
}

// Struct is a record with ordered fields.
type Struct struct {
	Name   string
	Doc    string
	Fields []NamedField
}

// Alias names a free-standing type expression.
type Alias struct {
	Name string
	Doc  string
	Type Type
}

func (s *Struct) EntityName() string     { return s.Name }
func (s *Struct) EntityKind() EntityKind { return StructEntity }
func (a *Alias) EntityName() string      { return a.Name }
func (a *Alias) EntityKind() EntityKind  { return AliasEntity }
func (e *Enum) EntityName() string       { return e.Name }
func (e *Enum) EntityKind() EntityKind   { return EnumEntity }

// CaseShape identifies the variant of CaseFields.
type CaseShape int

const (
	UnitShape CaseShape = iota
	TupleShape
	NamedShape
)

func (s CaseShape) String() string {
	switch s {
	case UnitShape:
		return "unit"
	case TupleShape:
		return "tuple"
	case NamedShape:
		return "named"
	default:
		return "unknown"
	}
}

// CaseFields is the payload of an enum case: UnitCase, TupleCase or NamedCase.
type CaseFields interface {
	Shape() CaseShape
	isCaseFields()
}

// UnitCase carries no payload.
type UnitCase struct{}

// TupleCase carries positional members.
type TupleCase struct {
	Members []Type
}

// NamedCase carries a record of named fields.
type NamedCase struct {
	Fields []NamedField
}

func (UnitCase) Shape() CaseShape  { return UnitShape }
func (TupleCase) Shape() CaseShape { return TupleShape }
func (NamedCase) Shape() CaseShape { return NamedShape }

func (UnitCase) isCaseFields()  {}
func (TupleCase) isCaseFields() {}
func (NamedCase) isCaseFields() {}

// EnumCase is one case of an Enum. A nil Fields is a unit case.
// An Inflection of None inherits the enum's default inflection.
type EnumCase struct {
	Name       string
	Doc        string
	Fields     CaseFields
	Inflection inflect.Convention
}

// Shape returns the payload shape of the case.
func (c EnumCase) Shape() CaseShape {
	if c.Fields == nil {
		return UnitShape
	}
	return c.Fields.Shape()
}

// RepresentationKind identifies the variant of an EnumType.
type RepresentationKind int

const (
	SimpleRepresentation RepresentationKind = iota
	ComplexRepresentation
	UntaggedRepresentation
)

func (k RepresentationKind) String() string {
	switch k {
	case SimpleRepresentation:
		return "simple"
	case ComplexRepresentation:
		return "complex"
	case UntaggedRepresentation:
		return "untagged"
	default:
		return "unknown"
	}
}

// EnumType selects how an enum is represented on the wire: Simple, Complex or Untagged.
type EnumType interface {
	Representation() RepresentationKind
	isEnumType()
}

// Simple enums are a closed set of string literals; every case is a unit case.
type Simple struct{}

// Complex enums are tagged records: CaseKey holds the case literal and
// ContentKey (empty when absent) holds the payload.
type Complex struct {
	CaseKey    string
	ContentKey string
}

// Untagged enums encode unit cases as bare literals and payload cases as a
// single-key object keyed by the case literal.
type Untagged struct{}

func (Simple) Representation() RepresentationKind   { return SimpleRepresentation }
func (Complex) Representation() RepresentationKind  { return ComplexRepresentation }
func (Untagged) Representation() RepresentationKind { return UntaggedRepresentation }

func (Simple) isEnumType()   {}
func (Complex) isEnumType()  {}
func (Untagged) isEnumType() {}

// Enum is a sum type. Case order is significant for every representation.
type Enum struct {
	Name       string
	Doc        string
	Cases      []EnumCase
	Inflection inflect.Convention
	Type       EnumType
}

// CaseConvention returns the inflection that applies to c.
func (e *Enum) CaseConvention(c EnumCase) inflect.Convention {
	if c.Inflection != inflect.None {
		return c.Inflection
	}
	return e.Inflection
}

// CaseLiteral returns the wire literal of c: its tag value, unit literal or wrapper key.
func (e *Enum) CaseLiteral(c EnumCase) string {
	return inflect.Apply(c.Name, e.CaseConvention(c))
}

// CaseTypeName returns the declaration name used for the payload type of c.
func (e *Enum) CaseTypeName(c EnumCase) string {
	return e.Name + "Case" + c.Name
}

// Representation returns the enum's representation kind; a nil Type is Simple.
func (e *Enum) Representation() RepresentationKind {
	if e.Type == nil {
		return SimpleRepresentation
	}
	return e.Type.Representation()
}
