package inflect

import (
	"strings"

	"github.com/teranos/typereflect/errors"
)

// Convention is a naming convention applied to declared identifiers to obtain
// their wire form.
type Convention int

const (
	None           Convention = iota // identifier unchanged
	Lower                            // lowercase
	Upper                            // UPPERCASE
	Camel                            // camelCase
	Pascal                           // PascalCase
	Snake                            // snake_case
	ScreamingSnake                   // SCREAMING_SNAKE_CASE
	Kebab                            // kebab-case
	ScreamingKebab                   // SCREAMING-KEBAB-CASE
)

var conventionNames = map[Convention]string{
	None:           "none",
	Lower:          "lowercase",
	Upper:          "UPPERCASE",
	Camel:          "camelCase",
	Pascal:         "PascalCase",
	Snake:          "snake_case",
	ScreamingSnake: "SCREAMING_SNAKE_CASE",
	Kebab:          "kebab-case",
	ScreamingKebab: "SCREAMING-KEBAB-CASE",
}

// Conventions lists every convention in declaration order.
func Conventions() []Convention {
	return []Convention{None, Lower, Upper, Camel, Pascal, Snake, ScreamingSnake, Kebab, ScreamingKebab}
}

// String returns the conventional spelling (the same one Parse accepts)
func (c Convention) String() string {
	if name, ok := conventionNames[c]; ok {
		return name
	}
	return "unknown"
}

// Parse resolves a convention name. Matching is exact for the canonical
// spellings and also accepts the lower-case aliases used in config files
// ("screaming_snake", "camel", "kebab", ...). An empty string means None.
func Parse(name string) (Convention, error) {
	if name == "" {
		return None, nil
	}
	for c, canonical := range conventionNames {
		if name == canonical {
			return c, nil
		}
	}
	switch strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(name)) {
	case "none", "unchanged":
		return None, nil
	case "lower", "lowercase":
		return Lower, nil
	case "upper", "uppercase":
		return Upper, nil
	case "camel", "camelcase", "camel_case":
		return Camel, nil
	case "pascal", "pascalcase", "pascal_case":
		return Pascal, nil
	case "snake", "snake_case":
		return Snake, nil
	case "screaming_snake", "screaming_snake_case":
		return ScreamingSnake, nil
	case "kebab", "kebab_case":
		return Kebab, nil
	case "screaming_kebab", "screaming_kebab_case":
		return ScreamingKebab, nil
	}
	return None, errors.WithHint(
		errors.Newf("unknown inflection %q", name),
		"use one of: none, lowercase, UPPERCASE, camelCase, PascalCase, snake_case, SCREAMING_SNAKE_CASE, kebab-case, SCREAMING-KEBAB-CASE",
	)
}

// MarshalText implements encoding.TextMarshaler
func (c Convention) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so conventions can be
// decoded straight from YAML, JSON and TOML schema documents.
func (c *Convention) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
