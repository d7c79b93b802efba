// Package normalize folds CSV header keys and cell values into a stable form
//
// Key pipeline
// 1 sanitize and repair UTF-8
// 2 NFKC, case fold, drop format chars (BOM, zero-width), width fold
// 3 spaces, dashes, dots and slashes become '_', runs collapse, edges trimmed
//
// Cell pipeline
// 1 sanitize and repair UTF-8
// 2 NFKC and drop format chars, case is preserved
// 3 trim surrounding whitespace
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transform chains carry state so each goroutine borrows its own
var (
	keyChains = sync.Pool{New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	}}
	cellChains = sync.Pool{New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)),
		)
	}}
)

func apply(pool *sync.Pool, s string) string {
	tr := pool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	pool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// Key returns the canonical header key for s, e.g. " Phone Number " -> "phone_number"
func Key(s string) string {
	if s == "" {
		return ""
	}
	s = apply(&keyChains, strings.ToValidUTF8(Sanitize(s), ""))

	var b strings.Builder
	b.Grow(len(s))
	sep := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '_', r == '-', r == '.', r == '/':
			sep = true
		default:
			// other punctuation is dropped without splitting words, "e-mail*" -> "e_mail"
		}
	}
	return b.String()
}

// Cell returns the normalized cell value, case preserved and surrounding whitespace trimmed
func Cell(s string) string {
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(s)
	if isPlainASCII(s) {
		return s
	}
	return strings.TrimSpace(apply(&cellChains, strings.ToValidUTF8(Sanitize(s), "")))
}

// isPlainASCII reports whether s is printable ASCII, the common case for CSV cells
func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c >= 0x7F {
			return false
		}
	}
	return true
}
