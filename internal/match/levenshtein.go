package match

import (
	"cmp"
	"slices"
	"strings"
)

// MinSimilarity is the lowest similarity Suggest reports.
const MinSimilarity = 0.6

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-byte insertions, deletions or substitutions turning one
// into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	// Two rows instead of the full matrix.
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity scores two identifiers between 0 and 1 after folding case and
// dropping separators. 1 means equal.
func Similarity(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	if len(a) == 0 && len(b) == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(max(len(a), len(b)))
}

// Suggest returns up to limit candidates similar to name, best first. Key
// maps a candidate to the text compared with name; nil compares the
// candidate itself.
func Suggest(name string, candidates []string, key func(string) string, limit int) []string {
	if key == nil {
		key = func(s string) string { return s }
	}

	type scored struct {
		name  string
		score float64
	}

	var hits []scored
	for _, c := range candidates {
		if s := Similarity(name, key(c)); s >= MinSimilarity {
			hits = append(hits, scored{c, s})
		}
	}

	slices.SortFunc(hits, func(x, y scored) int {
		if c := cmp.Compare(y.score, x.score); c != 0 {
			return c
		}

		return strings.Compare(x.name, y.name)
	})

	out := make([]string, 0, min(limit, len(hits)))
	for _, h := range hits[:min(limit, len(hits))] {
		out = append(out, h.name)
	}

	return out
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || r == ' ' {
			return -1
		}

		return r
	}, strings.ToLower(s))
}
