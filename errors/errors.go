// Package errors provides error handling for typereflect.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for operator-facing schema and config problems
//
// Usage:
//
//	// Wrap with context
//	if err := emitter.Finalize(path); err != nil {
//	    return errors.Wrapf(err, "failed to finalize %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "set content_key on the enum")
//
//	// Check errors
//	if errors.Is(err, errors.ErrMissingContentKey) {
//	    // schema defect
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
	CombineErrors      = crdb.CombineErrors
	Join               = crdb.Join
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Generation-time sentinels. These describe schema defects, never input-data
// defects, and abort generation of the affected entity only.
var (
	// ErrMissingContentKey: a Complex enum has a non-unit case but no content key
	ErrMissingContentKey = New("content key required on enums containing at least one non-unit case")

	// ErrDuplicateWrapperKey: two Untagged non-unit cases inflect to the same wrapper key
	ErrDuplicateWrapperKey = New("duplicate untagged wrapper key")

	// ErrDuplicateCaseTag: two cases of a Simple or Complex enum inflect to the same literal
	ErrDuplicateCaseTag = New("duplicate case tag")

	// ErrUnknownReference: a NamedReference names an entity absent from the schema set
	ErrUnknownReference = New("reference to unknown entity")

	// ErrInvalidSchema indicates a schema document could not be turned into a schema set
	ErrInvalidSchema = New("invalid schema")
)

// ErrOutput marks formatter and destination-write failures. It is kept apart
// from the generation sentinels so callers can tell I/O trouble from schema defects.
var ErrOutput = New("output failure")

// IsGenerationError reports whether err is (or wraps) one of the generation-time sentinels.
func IsGenerationError(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range []error{
		ErrMissingContentKey,
		ErrDuplicateWrapperKey,
		ErrDuplicateCaseTag,
		ErrUnknownReference,
	} {
		if Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsOutputError reports whether err is (or wraps) ErrOutput
func IsOutputError(err error) bool {
	return err != nil && Is(err, ErrOutput)
}

// WrapOutput marks err as an I/O-class failure with context.
// Returns nil when err is nil.
func WrapOutput(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, format, args...), ErrOutput)
}

// EntityError records a generation failure for a single schema entity.
type EntityError struct {
	Entity string
	Err    error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Entity, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// NewEntityError wraps err with the name of the entity whose generation failed.
func NewEntityError(entity string, err error) error {
	return &EntityError{Entity: entity, Err: err}
}

// GenerationErrors collects per-entity failures of one destination so that
// the remaining entities can still be written.
type GenerationErrors struct {
	Destination string
	Errors      []error
}

func (g *GenerationErrors) Error() string {
	msgs := make([]string, 0, len(g.Errors))
	for _, err := range g.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("generation failed for %d entit%s in %s: %s",
		len(g.Errors), plural(len(g.Errors)), g.Destination, strings.Join(msgs, "; "))
}

// Is matches when any collected error matches target.
func (g *GenerationErrors) Is(target error) bool {
	for _, err := range g.Errors {
		if Is(err, target) {
			return true
		}
	}
	return false
}

func (g *GenerationErrors) Unwrap() []error {
	return g.Errors
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
