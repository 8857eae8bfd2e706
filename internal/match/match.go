// Package match provides the string-similarity primitives shared by the
// journal classifier and the concept tagger.
package match

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio returns a similarity score between 0.0 and 1.0 for two strings,
// computed as one minus the normalized Levenshtein distance. Identical
// strings score 1.0; strings with no characters in common score 0.0.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}

	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// Closest returns the candidate most similar to target whose similarity
// clears the cutoff, best-of-1. Candidates are scanned in declared order and
// ties resolve to the earliest candidate. The boolean is false when no
// candidate clears the cutoff.
func Closest(target string, candidates []string, cutoff float64) (string, bool) {
	best := ""
	bestScore := 0.0
	found := false

	for _, c := range candidates {
		score := Ratio(target, c)
		if score < cutoff {
			continue
		}
		if !found || score > bestScore {
			best = c
			bestScore = score
			found = true
		}
	}

	return best, found
}
