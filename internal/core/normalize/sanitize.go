package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops what postgres text columns reject or what corrupts a CSV export:
// NUL and other C0 controls except tab and line breaks, DEL, C1 controls and invalid UTF-8.
// A clean input is returned as is without allocating.
func Sanitize(s string) string {
	i := firstDirty(s)
	if i == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if keepRune(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// firstDirty returns the offset of the first rune Sanitize would drop, or len(s)
func firstDirty(s string) int {
	for i := 0; i < len(s); {
		if c := s[i]; c >= 0x20 && c < 0x7F {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keepRune(r, size) {
			return i
		}
		i += size
	}
	return len(s)
}

func keepRune(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return false
	case r == '\t', r == '\n', r == '\r':
		return true
	case r < 0x20, r == 0x7F:
		return false
	case r >= 0x80 && r <= 0x9F:
		return false
	}
	return true
}
