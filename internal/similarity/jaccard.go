// Package similarity provides the string and set similarity primitives the
// Stability Tracker uses to detect structural drift between rounds. These heuristics are intentionally weak: they
// exist to catch blatant drift, not to validate semantic equivalence.
package similarity

// FuzzyEqualThreshold is the bigram similarity above which two strings are
// considered a "fuzzy" match for decision-reuse purposes (spec §4.C).
const FuzzyEqualThreshold = 0.7

// Jaccard computes the Jaccard set similarity |A ∩ B| / |A ∪ B| between two
// string sets. Two empty sets are defined as fully similar (1); one empty
// and one non-empty set is defined as fully dissimilar (0).
func Jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1
	}
	return float64(intersection) / float64(union)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
