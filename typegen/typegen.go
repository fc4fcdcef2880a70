// Package typegen turns a schema.Set into generated source files.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. The schema package resolves names, references and enum layouts once
//  2. Emitters (typescript/, golang/, rust/, tsformat/) turn entities into text
//
// A Destination is one output file produced by an ordered list of emitters.
// The Pipeline writes, per destination, every emitter's prefix and then each
// entity in schema order with the contributions of every emitter in emitter
// order. An entity that any emitter fails on is withheld from the file and
// its error is collected; the rest of the file is still written. Finalize
// hooks run once per destination after the write.
//
// # Implementing a New Emitter
//
//  1. Create package: typegen/<lang>/
//  2. Implement the Emitter interface
//  3. Register a Factory for it in typegen/builtin
//  4. Add the name to the emitters list of a destination in typereflect.toml
package typegen

import (
	"sort"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/schema"
)

// Emitter renders schema entities for one concern of a destination file
// (type declarations, validators, formatting, a target language).
type Emitter interface {
	// Name is the registry name (e.g., "typescript", "validation", "go")
	Name() string

	// Prefix returns text written once at the top of the destination
	Prefix(set *schema.Set) (string, error)

	EmitStruct(s *schema.Struct, set *schema.Set) (string, error)
	EmitEnum(e *schema.Enum, set *schema.Set) (string, error)
	EmitAlias(a *schema.Alias, set *schema.Set) (string, error)

	// Finalize runs after the destination has been written to path
	Finalize(path string) error
}

// Emit dispatches entity to the matching Emitter method.
func Emit(em Emitter, entity schema.Entity, set *schema.Set) (string, error) {
	switch e := entity.(type) {
	case *schema.Struct:
		return em.EmitStruct(e, set)
	case *schema.Enum:
		return em.EmitEnum(e, set)
	case *schema.Alias:
		return em.EmitAlias(e, set)
	default:
		return "", errors.Newf("unsupported entity %T", entity)
	}
}

// Base provides no-op implementations of every Emitter method except Name.
// Emitters embed it and override what they contribute.
type Base struct{}

func (Base) Prefix(*schema.Set) (string, error)                    { return "", nil }
func (Base) EmitStruct(*schema.Struct, *schema.Set) (string, error) { return "", nil }
func (Base) EmitEnum(*schema.Enum, *schema.Set) (string, error)     { return "", nil }
func (Base) EmitAlias(*schema.Alias, *schema.Set) (string, error)   { return "", nil }
func (Base) Finalize(string) error                                  { return nil }

// Options configure the emitters built for one destination.
type Options struct {
	// Path is the destination file
	Path string

	IndentWidth int
	LineWidth   int

	// GoPackage names the package clause of Go destinations;
	// empty derives it from the destination directory
	GoPackage string
}

// Factory builds an emitter for a destination.
type Factory func(opts Options) (Emitter, error)

// Registry maps emitter names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory; registering a name twice replaces the earlier factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the registered emitter names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the named emitters in order.
func (r *Registry) Build(names []string, opts Options) ([]Emitter, error) {
	emitters := make([]Emitter, 0, len(names))
	for _, name := range names {
		f, ok := r.factories[name]
		if !ok {
			return nil, errors.WithHintf(
				errors.Newf("unknown emitter %q", name),
				"available emitters: %v", r.Names(),
			)
		}
		em, err := f(opts)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build emitter %s", name)
		}
		emitters = append(emitters, em)
	}
	return emitters, nil
}
