package tsformat

import (
	"github.com/teranos/typereflect/errors"
)

// lexer tracks open delimiters across lines. Stack entries are '{', '[',
// '(' for code, '`' for template text and '$' for a ${ expression.
type lexer struct {
	stack        []byte
	blockComment bool
}

func (l *lexer) top() byte {
	if len(l.stack) == 0 {
		return 0
	}
	return l.stack[len(l.stack)-1]
}

func (l *lexer) inTemplate() bool { return l.top() == '`' }

// depth is the number of open code delimiters.
func (l *lexer) depth() int {
	n := 0
	for _, c := range l.stack {
		if c == '{' || c == '[' || c == '(' {
			n++
		}
	}
	return n
}

func (l *lexer) pop(want byte, got byte) error {
	if l.top() != want {
		return errors.Newf("unbalanced %q", got)
	}
	l.stack = l.stack[:len(l.stack)-1]
	return nil
}

func (l *lexer) scan(line string) error {
	for i := 0; i < len(line); i++ {
		c := line[i]

		if l.blockComment {
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				l.blockComment = false
				i++
			}
			continue
		}

		if l.inTemplate() {
			switch {
			case c == '\\':
				i++
			case c == '`':
				l.stack = l.stack[:len(l.stack)-1]
			case c == '$' && i+1 < len(line) && line[i+1] == '{':
				l.stack = append(l.stack, '$')
				i++
			}
			continue
		}

		switch c {
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return nil
			}
			if i+1 < len(line) && line[i+1] == '*' {
				l.blockComment = true
				i++
			}
		case '\'', '"':
			end := skipString(line, i)
			if end < 0 {
				return errors.Newf("unterminated string")
			}
			i = end
		case '`':
			l.stack = append(l.stack, '`')
		case '{', '[', '(':
			l.stack = append(l.stack, c)
		case '}':
			if l.top() == '$' {
				l.stack = l.stack[:len(l.stack)-1]
				continue
			}
			if err := l.pop('{', c); err != nil {
				return err
			}
		case ']':
			if err := l.pop('[', c); err != nil {
				return err
			}
		case ')':
			if err := l.pop('(', c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *lexer) finish() error {
	if l.blockComment {
		return errors.New("unterminated block comment")
	}
	if len(l.stack) > 0 {
		return errors.Newf("unclosed %q", l.top())
	}
	return nil
}

// skipString returns the index of the quote closing the string opened at
// line[start], or -1.
func skipString(line string, start int) int {
	q := line[start]
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return -1
}
