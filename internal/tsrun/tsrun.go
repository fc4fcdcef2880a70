// Package tsrun executes generated TypeScript in-process for tests: esbuild
// strips the types and goja runs the resulting CommonJS module.
package tsrun

import (
	"strings"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/teranos/typereflect/errors"
)

// ValidationError is an error thrown by a generated validator.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Module is a loaded TypeScript module.
type Module struct {
	vm      *goja.Runtime
	exports *goja.Object
	parse   goja.Callable
}

// Load transpiles source and evaluates it.
func Load(source string) (*Module, error) {
	result := api.Transform(source, api.TransformOptions{
		Loader: api.LoaderTS,
		Format: api.FormatCommonJS,
		Target: api.ES2015,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, len(result.Errors))
		for i, m := range result.Errors {
			msgs[i] = m.Text
			if m.Location != nil {
				msgs[i] = m.Location.LineText + ": " + m.Text
			}
		}
		return nil, errors.Newf("transpile failed: %s", strings.Join(msgs, "; "))
	}

	vm := goja.New()
	if _, err := vm.RunString("var module = { exports: {} }; var exports = module.exports;\n" + string(result.Code)); err != nil {
		return nil, errors.Wrap(err, "evaluate module")
	}

	parse, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("parse"))
	if !ok {
		return nil, errors.New("JSON.parse unavailable")
	}

	return &Module{
		vm:      vm,
		exports: vm.Get("module").ToObject(vm).Get("exports").ToObject(vm),
		parse:   parse,
	}, nil
}

// Exports lists the names exported by the module.
func (m *Module) Exports() []string {
	return m.exports.Keys()
}

// Validate parses inputJSON and passes it to name.validate. A validator
// throw is returned as a *ValidationError.
func (m *Module) Validate(name, inputJSON string) (interface{}, error) {
	ns := m.exports.Get(name)
	if ns == nil || goja.IsUndefined(ns) {
		return nil, errors.Newf("module has no export %s", name)
	}
	validate, ok := goja.AssertFunction(ns.ToObject(m.vm).Get("validate"))
	if !ok {
		return nil, errors.Newf("%s has no validate function", name)
	}

	input, err := m.parse(goja.Undefined(), m.vm.ToValue(inputJSON))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid JSON input %s", inputJSON)
	}

	out, err := validate(goja.Undefined(), input)
	if err != nil {
		var exc *goja.Exception
		if errors.As(err, &exc) {
			msg := exc.Value().ToObject(m.vm).Get("message")
			if msg != nil && !goja.IsUndefined(msg) {
				return nil, &ValidationError{Message: msg.String()}
			}
			return nil, &ValidationError{Message: exc.Value().String()}
		}
		return nil, err
	}
	return out.Export(), nil
}

// Eval evaluates a JavaScript expression against the module's exports,
// bound as `m`.
func (m *Module) Eval(expr string) (interface{}, error) {
	if err := m.vm.Set("m", m.exports); err != nil {
		return nil, err
	}
	v, err := m.vm.RunString(expr)
	if err != nil {
		return nil, err
	}
	return v.Export(), nil
}
