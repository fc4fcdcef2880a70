package tsformat

import (
	"os"

	"github.com/teranos/typereflect/errors"
	"github.com/teranos/typereflect/typegen"
)

// Emitter formats a TypeScript destination in place once it has been written.
// It contributes no text of its own.
type Emitter struct {
	typegen.Base
	opts Options
}

// NewEmitter creates the formatting emitter.
func NewEmitter(opts Options) (*Emitter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Emitter{opts: opts}, nil
}

func (e *Emitter) Name() string { return "format" }

// Finalize rewrites path with its formatted content.
func (e *Emitter) Finalize(path string) error {
	return FormatFile(path, e.opts)
}

// FormatFile formats the file at path in place.
func FormatFile(path string, opts Options) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapOutput(err, "failed to read %s", path)
	}
	formatted, err := Format(string(src), opts)
	if err != nil {
		return errors.WrapOutput(err, "failed to format %s", path)
	}
	if formatted == string(src) {
		return nil
	}
	if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
		return errors.WrapOutput(err, "failed to write %s", path)
	}
	return nil
}
