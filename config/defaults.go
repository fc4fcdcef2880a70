package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/typereflect/typegen"
	"github.com/teranos/typereflect/typegen/tsformat"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("schemas", []string{})
	v.SetDefault("packages", []string{})
	v.SetDefault("concurrency", typegen.DefaultConcurrency)

	v.SetDefault("format.indent_width", tsformat.DefaultIndentWidth)
	v.SetDefault("format.line_width", tsformat.DefaultLineWidth)
}

// Default returns the configuration written by `generate --init`.
func Default() *Config {
	return &Config{
		Schemas:     []string{"schema/types.yaml"},
		Concurrency: typegen.DefaultConcurrency,
		Format:      tsformat.DefaultOptions(),
		Destinations: []Destination{
			{
				Path:     "generated/types.ts",
				Emitters: []string{"typescript", "validation", "format"},
				Index:    true,
			},
		},
	}
}
