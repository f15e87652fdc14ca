package db

import "strings"

// Binder is implemented by dialects whose driver understands :name
// placeholders itself. Bind returns the statement and its driver arguments.
type Binder interface {
	Bind(query string, params map[string]any) (string, []any, error)
}

// EscapeColons prepares a statement for sqlx's named binder, which reads
// "::" as a literal colon. Colons inside quoted text and comments are
// escaped so only bare :name tokens become placeholders, and "::" casts
// outside them are doubled so they survive.
func EscapeColons(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"':
			end := closingQuote(query, i+1, c)
			writeEscaped(&b, query[i:end])
			i = end - 1
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end == -1 {
				end = len(query)
			} else {
				end += i
			}
			writeEscaped(&b, query[i:end])
			i = end - 1
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end == -1 {
				end = len(query)
			} else {
				end += i + 4
			}
			writeEscaped(&b, query[i:end])
			i = end - 1
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			b.WriteString("::::")
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// closingQuote returns the index just past the quote closing the literal
// that starts at from. Doubled quotes stay inside the literal.
func closingQuote(query string, from int, quote byte) int {
	for i := from; i < len(query); i++ {
		if query[i] != quote {
			continue
		}
		if i+1 < len(query) && query[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return len(query)
}

func writeEscaped(b *strings.Builder, s string) {
	b.WriteString(strings.ReplaceAll(s, ":", "::"))
}
