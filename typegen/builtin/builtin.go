// Package builtin registers the emitters shipped with typereflect.
package builtin

import (
	"github.com/teranos/typereflect/typegen"
	"github.com/teranos/typereflect/typegen/golang"
	"github.com/teranos/typereflect/typegen/rust"
	"github.com/teranos/typereflect/typegen/tsformat"
	"github.com/teranos/typereflect/typegen/typescript"
)

// Registry returns a registry holding every built-in emitter.
func Registry() *typegen.Registry {
	r := typegen.NewRegistry()
	r.Register("typescript", func(typegen.Options) (typegen.Emitter, error) {
		return typescript.NewTypes(), nil
	})
	r.Register("validation", func(typegen.Options) (typegen.Emitter, error) {
		return typescript.NewValidators(), nil
	})
	r.Register("format", func(opts typegen.Options) (typegen.Emitter, error) {
		fo := tsformat.DefaultOptions()
		if opts.IndentWidth != 0 {
			fo.IndentWidth = opts.IndentWidth
		}
		if opts.LineWidth != 0 {
			fo.LineWidth = opts.LineWidth
		}
		return tsformat.NewEmitter(fo)
	})
	r.Register("go", func(opts typegen.Options) (typegen.Emitter, error) {
		return golang.NewEmitter(opts)
	})
	r.Register("rust", func(opts typegen.Options) (typegen.Emitter, error) {
		return rust.NewEmitter(opts)
	})
	return r
}
