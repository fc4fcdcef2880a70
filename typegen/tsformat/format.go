// Package tsformat normalizes generated TypeScript: indentation by nesting
// depth, single blank lines between blocks, and long type unions wrapped one
// member per line.
package tsformat

import (
	"regexp"
	"strings"

	"github.com/teranos/typereflect/errors"
)

// Defaults
const (
	DefaultIndentWidth = 2
	DefaultLineWidth   = 80
)

// Options control the output layout.
type Options struct {
	IndentWidth int `mapstructure:"indent_width" toml:"indent_width" validate:"min=1"`
	LineWidth   int `mapstructure:"line_width" toml:"line_width" validate:"min=1"`
}

// DefaultOptions returns indent width 2 and line width 80.
func DefaultOptions() Options {
	return Options{IndentWidth: DefaultIndentWidth, LineWidth: DefaultLineWidth}
}

// Validate rejects non-positive widths.
func (o Options) Validate() error {
	if o.IndentWidth < 1 {
		return errors.Newf("indent width must be at least 1, got %d", o.IndentWidth)
	}
	if o.LineWidth < 1 {
		return errors.Newf("line width must be at least 1, got %d", o.LineWidth)
	}
	return nil
}

var unionDecl = regexp.MustCompile(`^((?:export )?type [A-Za-z_$][A-Za-z0-9_$]* =) (.+);$`)

// Format lays out src according to opts.
func Format(src string, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	var out []string
	var lx lexer
	blank := false
	for n, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		inTemplate := lx.inTemplate()

		if line == "" && !inTemplate && !lx.blockComment {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}

		switch {
		case inTemplate:
			// template literal text is significant
			out = append(out, strings.TrimRight(raw, " \t"))
		case line == "":
			out = append(out, "")
		default:
			level := lx.depth() - leadingClosers(line)
			if level < 0 {
				level = 0
			}
			indent := strings.Repeat(" ", level*opts.IndentWidth)
			if lx.blockComment && strings.HasPrefix(line, "*") {
				indent += " "
			}
			out = append(out, wrapUnion(indent, line, opts)...)
		}

		if err := lx.scan(raw); err != nil {
			return "", errors.Wrapf(err, "line %d", n+1)
		}
	}

	if err := lx.finish(); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", nil
	}
	return strings.Join(out, "\n") + "\n", nil
}

// leadingClosers counts the closing delimiters that start line.
func leadingClosers(line string) int {
	n := 0
	for _, c := range line {
		switch c {
		case '}', ']', ')':
			n++
		default:
			return n
		}
	}
	return n
}

// wrapUnion splits an over-long single-line union declaration into one
// member per line.
func wrapUnion(indent, line string, opts Options) []string {
	if len(indent)+len(line) <= opts.LineWidth {
		return []string{indent + line}
	}
	m := unionDecl.FindStringSubmatch(line)
	if m == nil {
		return []string{indent + line}
	}
	members := splitTopLevel(m[2], " | ")
	if len(members) < 2 {
		return []string{indent + line}
	}
	inner := indent + strings.Repeat(" ", opts.IndentWidth)
	lines := []string{indent + m[1]}
	for i, member := range members {
		l := inner + "| " + member
		if i == len(members)-1 {
			l += ";"
		}
		lines = append(lines, l)
	}
	return lines
}

// splitTopLevel splits s on sep where sep is outside brackets and strings.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{', '[', '(', '<':
			depth++
		case '}', ']', ')', '>':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				parts = append(parts, s[start:i])
				start = i + len(sep)
				i += len(sep) - 1
			}
		}
	}
	return append(parts, s[start:])
}
