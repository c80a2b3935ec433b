// Package sanitize strips text down to 7-bit ASCII before it reaches the
// completion provider or the mail transport.
package sanitize

import (
	"strings"
	"unicode/utf8"
)

// Clean drops every character outside 7-bit ASCII. Nothing is replaced or
// escaped: the characters are simply lost. Invalid UTF-8 bytes are dropped too.
func Clean(s string) string {
	if isASCII(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
