// Package textnorm maps arbitrary Unicode text onto the ASCII range that the
// PDF core fonts can draw.
//
// Go Pattern: golang.org/x/text/unicode/norm does the Unicode decomposition;
// the rest is a single pass with strings.Map.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Placeholder replaces every rune that survives decomposition outside ASCII.
const Placeholder = '?'

// Normalize decomposes s with NFKD and replaces each remaining non-ASCII
// rune with Placeholder. Accented letters keep their base letter and lose
// the combining mark ("é" → "e?"), compatibility forms expand ("ﬁ" → "fi").
//
// Normalize is total and idempotent.
func Normalize(s string) string {
	decomposed := norm.NFKD.String(s)
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return Placeholder
		}
		return r
	}, decomposed)
}
