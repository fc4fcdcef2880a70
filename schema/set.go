package schema

import (
	"sort"

	"github.com/teranos/typereflect/errors"
)

// Set is the ordered, read-only collection of entities for one generation run.
type Set struct {
	entities []Entity
	byName   map[string]Entity
}

// NewSet builds a Set preserving the given order. Entity names must be unique.
func NewSet(entities ...Entity) (*Set, error) {
	s := &Set{
		entities: make([]Entity, 0, len(entities)),
		byName:   make(map[string]Entity, len(entities)),
	}
	for _, e := range entities {
		if e == nil {
			continue
		}
		name := e.EntityName()
		if name == "" {
			return nil, errors.Wrapf(errors.ErrInvalidSchema, "%s entity without a name", e.EntityKind())
		}
		if _, dup := s.byName[name]; dup {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrInvalidSchema, "entity %s declared twice", name),
				"entity names share one namespace across all schema files",
			)
		}
		s.byName[name] = e
		s.entities = append(s.entities, e)
	}
	return s, nil
}

// MustSet is NewSet for statically known schemas; it panics on error.
func MustSet(entities ...Entity) *Set {
	s, err := NewSet(entities...)
	if err != nil {
		panic(err)
	}
	return s
}

// Entities returns the entities in schema order.
func (s *Set) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Len returns the number of entities.
func (s *Set) Len() int { return len(s.entities) }

// Lookup resolves an entity by name.
func (s *Set) Lookup(name string) (Entity, bool) {
	e, ok := s.byName[name]
	return e, ok
}

// Has reports whether name is declared in the set.
func (s *Set) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names returns the sorted entity names.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named entities in schema order. An empty names list
// selects every entity.
func (s *Set) Select(names []string) ([]Entity, error) {
	if len(names) == 0 {
		return s.Entities(), nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if !s.Has(name) {
			return nil, errors.Wrapf(errors.ErrUnknownReference, "destination selects %s", name)
		}
		want[name] = true
	}
	var out []Entity
	for _, e := range s.entities {
		if want[e.EntityName()] {
			out = append(out, e)
		}
	}
	return out, nil
}

// Merge returns a new Set holding the entities of s followed by those of other.
func (s *Set) Merge(other *Set) (*Set, error) {
	all := append(s.Entities(), other.entities...)
	return NewSet(all...)
}

// CheckReferences verifies that every NamedReference reachable from e
// resolves within the set.
func (s *Set) CheckReferences(e Entity) error {
	for _, t := range EntityTypes(e) {
		for _, name := range References(t.Type) {
			if !s.Has(name) {
				return errors.Wrapf(errors.ErrUnknownReference, "%s: %s", t.Path, name)
			}
		}
	}
	return nil
}

// PathType pairs a type expression with a human-readable location inside its entity.
type PathType struct {
	Path string
	Type Type
}

// EntityTypes lists every type expression directly held by e, in declaration order.
func EntityTypes(e Entity) []PathType {
	var out []PathType
	switch v := e.(type) {
	case *Struct:
		for _, f := range v.Fields {
			out = append(out, PathType{Path: "field " + f.Name, Type: f.Type})
		}
	case *Alias:
		out = append(out, PathType{Path: "alias " + v.Name, Type: v.Type})
	case *Enum:
		for _, c := range v.Cases {
			switch fields := c.Fields.(type) {
			case TupleCase:
				for _, m := range fields.Members {
					out = append(out, PathType{Path: "case " + c.Name, Type: m})
				}
			case NamedCase:
				for _, f := range fields.Fields {
					out = append(out, PathType{Path: "case " + c.Name + " field " + f.Name, Type: f.Type})
				}
			}
		}
	}
	return out
}
