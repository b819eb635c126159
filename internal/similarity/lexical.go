// Package similarity implements the near-duplicate detection core: lexical
// (edit-distance) scoring for short texts, semantic (cosine) scoring for
// everything else, and the matcher that selects between them, filters by
// threshold, and ranks results.
package similarity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeText lowercases, strips punctuation, and collapses whitespace so
// that lexical comparison ignores formatting noise.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// LexicalScore computes an edit-distance-based similarity between two texts
// after normalization. The result is in [0, 1]: 1 means the normalized texts
// are identical, 0 means no character survives between them. Two texts that
// normalize to empty strings score 1.
func LexicalScore(a, b string) float64 {
	na := NormalizeText(a)
	nb := NormalizeText(b)

	la := utf8.RuneCountInString(na)
	lb := utf8.RuneCountInString(nb)

	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}

	dist := levenshtein([]rune(na), []rune(nb))
	return 1.0 - float64(dist)/float64(longest)
}

// levenshtein computes the classic edit distance (insert, delete, substitute,
// each cost 1) using the two-row formulation.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
