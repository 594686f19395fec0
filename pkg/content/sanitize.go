package content

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Sanitize returns s as valid NFC-normalized UTF-8 with control characters
// (other than tab, newline and carriage return), replacement runes and
// encoded surrogates removed.
func Sanitize(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if r == utf8.RuneError {
			continue
		}
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cs, r) {
			continue
		}
		// zero-width no-break space left over from BOMs inside the text
		if r == '\uFEFF' {
			continue
		}
		b.WriteRune(r)
	}

	return norm.NFC.String(b.String())
}
