package typescript

import (
	"bytes"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/teranos/typereflect/schema"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// TypeExpr renders t as a TypeScript type expression.
func TypeExpr(t schema.Type) string {
	switch v := t.(type) {
	case schema.Primitive:
		return string(v.Of)
	case schema.NamedReference:
		return v.Name
	case schema.Array:
		elem := TypeExpr(v.Element)
		if _, union := v.Element.(schema.Optional); union {
			elem = "(" + elem + ")"
		}
		return elem + "[]"
	case schema.Tuple:
		members := make([]string, len(v.Members))
		for i, m := range v.Members {
			members[i] = TypeExpr(m)
		}
		return "[" + strings.Join(members, ", ") + "]"
	case schema.Optional:
		inner := TypeExpr(v.Inner)
		if _, already := v.Inner.(schema.Optional); already {
			return inner
		}
		return inner + " | null"
	case schema.Map:
		return "Record<string, " + TypeExpr(v.Value) + ">"
	default:
		return "unknown"
	}
}

// quote renders s as a TypeScript string literal.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimRight(buf.String(), "\n")
}

// propertyKey renders a key for an object type or literal.
func propertyKey(key string) string {
	if identPattern.MatchString(key) {
		return key
	}
	return quote(key)
}

// member renders property access on a JavaScript expression.
func member(expr, key string) string {
	if identPattern.MatchString(key) {
		return expr + "." + key
	}
	return expr + "[" + quote(key) + "]"
}

// templateText escapes s for use inside a template literal.
func templateText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`", "${", "\\${")
	return r.Replace(s)
}

// docComment renders doc as a JSDoc block, or nothing.
func docComment(w *codeWriter, doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	lines := strings.Split(doc, "\n")
	if len(lines) == 1 {
		w.line("/** %s */", strings.ReplaceAll(lines[0], "*/", "*\\/"))
		return
	}
	w.line("/**")
	for _, l := range lines {
		w.line(" * %s", strings.ReplaceAll(strings.TrimSpace(l), "*/", "*\\/"))
	}
	w.line(" */")
}

// objectFields writes the body of an object type for named fields.
func objectFields(w *codeWriter, fields []schema.NamedField) {
	for _, f := range fields {
		if f.IsOptional() {
			w.line("%s?: %s;", propertyKey(f.Key()), TypeExpr(f.Type))
			continue
		}
		w.line("%s: %s;", propertyKey(f.Key()), TypeExpr(f.Type))
	}
}

// objectType writes "prefix{ fields }suffix", collapsing empty records to {}.
func objectType(w *codeWriter, prefix string, fields []schema.NamedField, suffix string) {
	if len(fields) == 0 {
		w.line("%s{}%s", prefix, suffix)
		return
	}
	w.blockWith(strings.TrimSuffix(prefix, " "), "}"+suffix, func() {
		objectFields(w, fields)
	})
}
