// Package similarity scores how closely two free-text names match.
package similarity

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Score returns a normalized similarity between a and b in [0,1], computed
// as 1 - editDistance/max(len(a), len(b)) over runes. Two empty strings
// score 1.0; one empty and one non-empty score 0.0. Comparison is
// case-sensitive; callers normalize first when they want folding.
func Score(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize prepares a name for comparison or cache keying: lowercased,
// diacritics folded ("Motörhead" -> "motorhead"), whitespace collapsed to
// single spaces, leading/trailing whitespace trimmed.
func Normalize(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
