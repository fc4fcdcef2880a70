// Package schema is the in-memory model consumed by every emitter: structs,
// aliases and enums whose fields and cases carry Type expressions.
//
// Every value in this package is treated as immutable once a Set has been
// built from it; emitters read the model and never modify it.
package schema

import (
	"strings"
)

// TypeKind identifies the variant of a Type.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindNamed
	KindArray
	KindTuple
	KindOptional
	KindMap
)

func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindNamed:
		return "named"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindOptional:
		return "optional"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Type is a type expression. Consumers switch exhaustively over the concrete
// variants: Primitive, NamedReference, Array, Tuple, Optional and Map.
type Type interface {
	Kind() TypeKind
	// String renders the type in the compact expression syntax accepted by ParseType.
	String() string
	isType()
}

// PrimitiveKind is the runtime tag of a primitive value.
type PrimitiveKind string

const (
	StringKind  PrimitiveKind = "string"
	NumberKind  PrimitiveKind = "number"
	BooleanKind PrimitiveKind = "boolean"
)

// Primitive is a scalar value of the given kind.
type Primitive struct {
	Of PrimitiveKind
}

// NamedReference refers to another entity of the schema set by name.
type NamedReference struct {
	Name string
}

// Array is a homogeneous sequence.
type Array struct {
	Element Type
}

// Tuple is a fixed-arity positional sequence.
type Tuple struct {
	Members []Type
}

// Optional marks a value that may be absent or null.
type Optional struct {
	Inner Type
}

// Map is a string-keyed record whose values share one type.
type Map struct {
	Value Type
}

// Primitive shorthands
var (
	String  = Primitive{Of: StringKind}
	Number  = Primitive{Of: NumberKind}
	Boolean = Primitive{Of: BooleanKind}
)

// Ref returns a NamedReference to name
func Ref(name string) NamedReference { return NamedReference{Name: name} }

// ArrayOf returns an Array of element
func ArrayOf(element Type) Array { return Array{Element: element} }

// TupleOf returns a Tuple of members
func TupleOf(members ...Type) Tuple { return Tuple{Members: members} }

// OptionalOf returns an Optional wrapping inner
func OptionalOf(inner Type) Optional { return Optional{Inner: inner} }

// MapOf returns a Map with values of type value
func MapOf(value Type) Map { return Map{Value: value} }

func (Primitive) Kind() TypeKind      { return KindPrimitive }
func (NamedReference) Kind() TypeKind { return KindNamed }
func (Array) Kind() TypeKind          { return KindArray }
func (Tuple) Kind() TypeKind          { return KindTuple }
func (Optional) Kind() TypeKind       { return KindOptional }
func (Map) Kind() TypeKind            { return KindMap }

func (Primitive) isType()      {}
func (NamedReference) isType() {}
func (Array) isType()          {}
func (Tuple) isType()          {}
func (Optional) isType()       {}
func (Map) isType()            {}

func (p Primitive) String() string      { return string(p.Of) }
func (n NamedReference) String() string { return n.Name }

func (a Array) String() string {
	if _, ok := a.Element.(Optional); ok {
		return "(" + a.Element.String() + ")[]"
	}
	return a.Element.String() + "[]"
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (o Optional) String() string { return o.Inner.String() + "?" }
func (m Map) String() string      { return "Record<string, " + m.Value.String() + ">" }

// References returns the entity names t refers to, in first-occurrence order.
func References(t Type) []string {
	var names []string
	seen := make(map[string]bool)
	walkType(t, func(n NamedReference) {
		if !seen[n.Name] {
			seen[n.Name] = true
			names = append(names, n.Name)
		}
	})
	return names
}

func walkType(t Type, fn func(NamedReference)) {
	switch v := t.(type) {
	case NamedReference:
		fn(v)
	case Array:
		walkType(v.Element, fn)
	case Tuple:
		for _, m := range v.Members {
			walkType(m, fn)
		}
	case Optional:
		walkType(v.Inner, fn)
	case Map:
		walkType(v.Value, fn)
	case Primitive:
	}
}
