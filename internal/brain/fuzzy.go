package brain

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// match is one scored candidate question.
type match struct {
	Question string
	Score    int
}

// ratio is a Levenshtein-based similarity in [0, 100] between two strings.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(longest))))
}

// tokenSet returns the sorted distinct whitespace-delimited words of s.
func tokenSet(s string) []string {
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		seen[w] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// TokenSetRatio scores the similarity of two strings by comparing their
// word sets, robust to word order and partial overlap. The shared-word
// string is compared against itself plus each side's remainder, and the
// best of the three pairings wins; equal word sets always score 100.
func TokenSetRatio(a, b string) int {
	setA, setB := tokenSet(a), tokenSet(b)

	// A side with no words has nothing to share; without this guard the
	// all-empty pairings below would compare "" against "" and score 100.
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(setB))
	for _, w := range setB {
		inB[w] = struct{}{}
	}
	inA := make(map[string]struct{}, len(setA))
	for _, w := range setA {
		inA[w] = struct{}{}
	}

	var common, diffA, diffB []string
	for _, w := range setA {
		if _, ok := inB[w]; ok {
			common = append(common, w)
		} else {
			diffA = append(diffA, w)
		}
	}
	for _, w := range setB {
		if _, ok := inA[w]; !ok {
			diffB = append(diffB, w)
		}
	}

	base := strings.Join(common, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(diffA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(diffB, " "))

	best := ratio(base, combinedA)
	if s := ratio(base, combinedB); s > best {
		best = s
	}
	if s := ratio(combinedA, combinedB); s > best {
		best = s
	}
	return best
}

// hasMatchableTokens reports whether s contains anything the scorer can
// work with. A query with no letter or digit produces no match at all.
func hasMatchableTokens(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// extract scores query against every candidate and returns up to limit
// best matches, highest score first. The sort is stable so equal scores
// keep candidate order, which keeps tests reproducible; a random pick
// among survivors follows anyway.
func extract(query string, candidates []string, limit int) []match {
	matches := make([]match, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, match{Question: c, Score: TokenSetRatio(query, c)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
