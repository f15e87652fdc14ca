package query

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DebugSQL renders sql with each :name placeholder replaced by a literal.
// The output is for error messages only and must never be executed.
//
// Placeholders are resolved in a single pass over sql, so substituted values
// are never scanned again. A placeholder name runs until the first rune that
// is not a letter, digit or underscore.
func DebugSQL(sql string, params map[string]any) string {
	if len(params) == 0 {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql))

	for i := 0; i < len(sql); {
		if sql[i] != ':' {
			b.WriteByte(sql[i])
			i++
			continue
		}

		// :: is a cast, not a placeholder
		if i+1 < len(sql) && sql[i+1] == ':' {
			b.WriteString("::")
			i += 2
			continue
		}

		end := i + 1
		for end < len(sql) {
			r, size := utf8.DecodeRuneInString(sql[end:])
			if !isNameRune(r) {
				break
			}
			end += size
		}

		v, ok := params[sql[i+1:end]]
		if end == i+1 || !ok {
			b.WriteString(sql[i:end])
		} else {
			b.WriteString(literal(v))
		}
		i = end
	}
	return b.String()
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	default:
		return fmt.Sprint(x)
	}
}
