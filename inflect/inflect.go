// Package inflect maps declared identifiers to their wire-form spelling.
//
// Apply is a pure function of its two arguments: the same (identifier,
// convention) pair yields the same string in type labels, constant maps,
// field keys and validators. Casing goes through golang.org/x/text/cases with
// the undetermined language tag, so results never depend on the host locale.
package inflect

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Apply converts identifier to the given convention.
func Apply(identifier string, convention Convention) string {
	switch convention {
	case None:
		return identifier
	case Lower:
		return lower(strings.Join(Words(identifier), ""))
	case Upper:
		return upper(strings.Join(Words(identifier), ""))
	case Camel:
		return camel(Words(identifier))
	case Pascal:
		return pascal(Words(identifier))
	case Snake:
		return lower(strings.Join(Words(identifier), "_"))
	case ScreamingSnake:
		return upper(strings.Join(Words(identifier), "_"))
	case Kebab:
		return lower(strings.Join(Words(identifier), "-"))
	case ScreamingKebab:
		return upper(strings.Join(Words(identifier), "-"))
	default:
		return identifier
	}
}

// Words splits an identifier into its words.
// Handles acronyms properly (e.g., "HTTPSConnection" -> ["HTTPS", "Connection"]).
//
// Word boundaries are '_', '-' and whitespace (dropped), a lower-case letter or
// digit followed by an upper-case letter, and the last capital of an acronym
// when a lower-case letter follows it. Every other rune stays in its word.
func Words(identifier string) []string {
	var words []string
	var current strings.Builder
	runes := []rune(identifier)

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			prevLowerOrDigit := unicode.IsLower(prev) || unicode.IsDigit(prev)
			// End of acronym: "HTTPServer" splits before the 'S' of Server
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLowerOrDigit || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}

		current.WriteRune(r)
	}
	flush()

	return words
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// title upper-cases the first rune of a word and lower-cases the rest
func title(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(lower(word))
	first := upper(string(runes[0]))
	return first + string(runes[1:])
}

func pascal(words []string) string {
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(title(w))
	}
	return sb.String()
}

func camel(words []string) string {
	if len(words) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(lower(words[0]))
	for _, w := range words[1:] {
		sb.WriteString(title(w))
	}
	return sb.String()
}
