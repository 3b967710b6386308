package repositorycount

import (
	"strings"
	"unicode"
)

// toSnake turns a Go type name into a resource key: "DiscussionRecord"
// becomes "discussion_record". Generic arguments are dropped and any run of
// punctuation collapses to a single underscore.
func toSnake(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)
	sep := false
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && !sep {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			sep = false
		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			sep = false
		default:
			if !sep && b.Len() > 0 {
				b.WriteByte('_')
				sep = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
