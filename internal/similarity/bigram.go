package similarity

import "strings"

// Bigram computes a Dice-like bigram string similarity between a and b.
// Both strings are lowercased first. Equal strings are fully similar (1);
// otherwise a string shorter than 2 characters is defined as fully
// dissimilar (0) against any other string (including another short
// string), per spec §4.C.
func Bigram(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	countA := bigramCounts(a)
	countB := bigramCounts(b)

	overlap := 0
	for bg, na := range countA {
		nb := countB[bg]
		if nb < na {
			overlap += nb
		} else {
			overlap += na
		}
	}

	denom := (len(a) - 1) + (len(b) - 1)
	if denom <= 0 {
		return 0
	}
	return 2 * float64(overlap) / float64(denom)
}

// FuzzyEqual reports whether a and b are "fuzzy equal" per the decision
// reuse threshold: Bigram(a, b) > FuzzyEqualThreshold.
func FuzzyEqual(a, b string) bool {
	return Bigram(a, b) > FuzzyEqualThreshold
}

// bigramCounts returns a multiset of the two-rune windows of s.
func bigramCounts(s string) map[string]int {
	runes := []rune(s)
	counts := make(map[string]int, len(runes))
	for i := 0; i < len(runes)-1; i++ {
		counts[string(runes[i:i+2])]++
	}
	return counts
}
