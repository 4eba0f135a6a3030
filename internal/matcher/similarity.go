package matcher

import (
	"regexp"
	"strings"
)

var (
	// Strips everything that is not a letter, digit, underscore, whitespace,
	// hyphen, apostrophe, or ampersand. Hyphen/apostrophe/ampersand survive so
	// "Don't" and "Rock & Roll" keep their distinguishing tokens.
	punctRe = regexp.MustCompile(`[^\p{L}\p{N}_\s'&-]+`)
	wsRe    = regexp.MustCompile(`\s+`)
)

// Normalize lowercases, trims, strips punctuation, and collapses internal
// whitespace. The result is only ever compared, never displayed.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctRe.ReplaceAllString(s, "")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Similarity returns a ratio in [0, 1] between the normalized forms of a and b.
//
// The ratio is 2*M/T where M is the total length of the longest matching
// blocks shared by the two strings and T is the sum of their lengths. Two
// empty strings are perfectly similar; one empty string against a non-empty
// one scores zero.
func Similarity(a, b string) float64 {
	return ratio(Normalize(a), Normalize(b))
}

func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	// Canonical argument order: longestMatch breaks ties on position, so
	// equal-length blocks can resolve differently for (a, b) and (b, a).
	// Fixing the order keeps the ratio symmetric.
	if b < a {
		a, b = b, a
	}

	ra, rb := []rune(a), []rune(b)
	m := matchTotal(ra, rb)
	return 2.0 * float64(m) / float64(len(ra)+len(rb))
}

// matchTotal sums the matching blocks found by recursively taking the longest
// common substring and splitting around it (Ratcliff/Obershelp).
func matchTotal(a, b []rune) int {
	i, j, n := longestMatch(a, b)
	if n == 0 {
		return 0
	}
	return n + matchTotal(a[:i], b[:j]) + matchTotal(a[i+n:], b[j+n:])
}

// longestMatch finds the longest common substring of a and b, preferring the
// earliest occurrence in a, then in b, on ties.
func longestMatch(a, b []rune) (bestI, bestJ, bestN int) {
	lengths := make([]int, len(b)+1)
	for i := range a {
		next := make([]int, len(b)+1)
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := lengths[j] + 1
			next[j+1] = k
			if k > bestN {
				bestI, bestJ, bestN = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return bestI, bestJ, bestN
}
