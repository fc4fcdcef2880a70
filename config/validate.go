package config

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/teranos/typereflect/errors"
)

// Validate checks struct constraints and the rules that span fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return errors.WithHint(
				errors.Newf("config validation failed: %s", describe(fieldErrs)),
				"see 'typereflect generate --init' for a complete example",
			)
		}
		return errors.Wrap(err, "config validation failed")
	}

	if len(c.Schemas) == 0 && len(c.Packages) == 0 {
		return errors.WithHint(
			errors.New("no schema sources configured"),
			"list schema documents under schemas or Go packages under packages",
		)
	}

	seen := make(map[string]bool, len(c.Destinations))
	for _, d := range c.Destinations {
		clean := filepath.Clean(d.Path)
		if seen[clean] {
			return errors.Newf("destination %s is declared twice", d.Path)
		}
		seen[clean] = true

		if d.Index && filepath.Ext(d.Path) != ".ts" {
			return errors.Newf("destination %s: index is only supported for .ts destinations", d.Path)
		}
	}
	return nil
}

// describe renders validator errors with their config keys.
func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		default:
			msgs = append(msgs, field+" must satisfy "+fe.Tag()+"="+fe.Param())
		}
	}
	return strings.Join(msgs, "; ")
}
