// Package config loads typereflect.toml: which schemas to read and which
// destinations to generate.
package config

import (
	"path/filepath"

	"github.com/teranos/typereflect/typegen"
	"github.com/teranos/typereflect/typegen/tsformat"
)

// FileName is the project configuration file discovered by walking up from
// the working directory.
const FileName = "typereflect.toml"

// Config is the project configuration.
type Config struct {
	// Schemas are schema documents (.yaml, .yml, .json, .toml), merged in order
	Schemas []string `mapstructure:"schemas" toml:"schemas"`

	// Packages are Go package patterns read with the Go-source front end
	Packages []string `mapstructure:"packages" toml:"packages"`

	// Concurrency bounds how many destinations are generated at once
	Concurrency int `mapstructure:"concurrency" toml:"concurrency" validate:"min=1,max=64"`

	Format tsformat.Options `mapstructure:"format" toml:"format"`

	Destinations []Destination `mapstructure:"destinations" toml:"destinations" validate:"required,min=1,dive"`

	// path is the file the configuration was read from
	path string
}

// Destination is one generated output file.
type Destination struct {
	Path     string   `mapstructure:"path" toml:"path" validate:"required"`
	Emitters []string `mapstructure:"emitters" toml:"emitters" validate:"required,min=1,dive,required"`

	// Entities restricts the destination to a subset; empty means all
	Entities []string `mapstructure:"entities" toml:"entities,omitempty"`

	// Index writes an index.ts barrel next to TypeScript destinations
	Index bool `mapstructure:"index" toml:"index"`

	GoPackage string `mapstructure:"go_package" toml:"go_package,omitempty"`
}

// Path returns the file the configuration was loaded from, empty for
// in-memory configurations.
func (c *Config) Path() string {
	return c.path
}

// Dir is the directory relative paths resolve against.
func (c *Config) Dir() string {
	if c.path == "" {
		return "."
	}
	return filepath.Dir(c.path)
}

// Resolve makes p relative to the configuration directory unless it is absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// SchemaPaths returns the resolved schema document paths.
func (c *Config) SchemaPaths() []string {
	paths := make([]string, len(c.Schemas))
	for i, s := range c.Schemas {
		paths[i] = c.Resolve(s)
	}
	return paths
}

// EmitterOptions returns the emitter options of a destination written to path.
func (c *Config) EmitterOptions(d Destination, path string) typegen.Options {
	return typegen.Options{
		Path:        path,
		IndentWidth: c.Format.IndentWidth,
		LineWidth:   c.Format.LineWidth,
		GoPackage:   d.GoPackage,
	}
}
