package helpers

import (
	"strings"
	"unicode"
)

// Slugify lowercases s and collapses anything that is not a letter or digit
// into single hyphens. Good enough for URL slugs from tour names.
func Slugify(s string) string {
	var b strings.Builder
	prevHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
