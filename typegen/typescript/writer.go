package typescript

import (
	"fmt"
	"strings"
)

// indentUnit is the indentation of emitted code before formatting.
const indentUnit = "  "

// codeWriter accumulates indented lines of TypeScript.
type codeWriter struct {
	sb     strings.Builder
	indent int
}

func (w *codeWriter) line(format string, args ...interface{}) {
	if format == "" {
		w.sb.WriteString("\n")
		return
	}
	w.sb.WriteString(strings.Repeat(indentUnit, w.indent))
	if len(args) > 0 {
		fmt.Fprintf(&w.sb, format, args...)
	} else {
		w.sb.WriteString(format)
	}
	w.sb.WriteString("\n")
}

// block writes "header {", the body one level deeper, then the closing brace.
func (w *codeWriter) block(header string, body func()) {
	w.blockWith(header, "}", body)
}

func (w *codeWriter) blockWith(header, closing string, body func()) {
	w.line("%s {", header)
	w.indent++
	body()
	w.indent--
	w.line("%s", closing)
}

// lines writes pre-rendered text, one line at a time, at the current indentation.
func (w *codeWriter) lines(text string) {
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.TrimSpace(l) == "" {
			w.line("")
			continue
		}
		w.line("%s", l)
	}
}

func (w *codeWriter) String() string {
	return w.sb.String()
}
