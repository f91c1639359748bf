package titlecase

import (
	"strings"
	"unicode"
)

// Title upper-cases every letter that follows a non-letter (or starts the
// string) and lower-cases the rest, so "t-spin double" becomes
// "T-Spin Double".
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
