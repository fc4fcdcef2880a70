package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across typereflect.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Schema
	FieldEntity     = "entity"
	FieldEntityKind = "entity_kind"
	FieldSchema     = "schema"
	FieldPackage    = "package"

	// Pipeline
	FieldDestination = "destination"
	FieldEmitter     = "emitter"
	FieldComponent   = "component"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Files
	FieldFile = "file"
	FieldOp   = "op"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Pipeline struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewPipeline() *Pipeline {
//	    return &Pipeline{
//	        logger: logger.ComponentLogger("pipeline"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	destLogger := logger.ChildLogger(baseLogger, logger.FieldDestination, dest.Path)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
