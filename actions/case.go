package actions

import (
	"strings"
	"unicode"
)

// toSnake converts a reflected type name to snake_case. Punctuation that can
// show up in reflected names (pointers, generic brackets, dots) is collapsed
// to underscores; leaving it in would produce cache keys some backends
// reject and would break prefix-based invalidation.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && boundaryBefore(runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return strings.Trim(collapseUnderscores(b.String()), "_")
}

// boundaryBefore reports whether a word boundary precedes the upper-case
// rune at i, e.g. userID -> user_id, HTTPServer -> http_server.
func boundaryBefore(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

func collapseUnderscores(s string) string {
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}
