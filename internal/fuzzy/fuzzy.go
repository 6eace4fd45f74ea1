package fuzzy

import (
	"sort"
	"strings"
)

// Scoring weights. Consecutive runs compound: the bonus grows by
// runStep for every additional adjacent match, so "rg" in "ripgrep"
// scores below "rg" in "rg".
const (
	matchPoint     = 1
	runStep        = 2
	boundaryBonus  = 3
	exactBonus     = 100
	prefixBonus    = 50
	gapPenaltyUnit = 1
)

func isSeparator(r rune) bool {
	return r == ' ' || r == '-' || r == '_'
}

// Score reports whether query matches candidate as a case-insensitive
// subsequence, and the rank score of the match when it does. It is a
// pure function: identical inputs always produce identical output.
func Score(query, candidate string) (int, bool) {
	score, _, ok := match(query, candidate, false)
	return score, ok
}

// Positions is Score plus the rune offsets of the matched characters
// in candidate, for highlight rendering.
func Positions(query, candidate string) (int, []int, bool) {
	return match(query, candidate, true)
}

func match(query, candidate string, keepPositions bool) (int, []int, bool) {
	q := []rune(strings.ToLower(query))
	c := []rune(strings.ToLower(candidate))
	if len(q) == 0 {
		return 0, nil, true
	}

	var positions []int
	if keepPositions {
		positions = make([]int, 0, len(q))
	}

	score := 0
	qi := 0
	prev := -1
	run := 0
	for ci, r := range c {
		if qi >= len(q) || r != q[qi] {
			continue
		}
		score += matchPoint
		if prev >= 0 {
			if ci == prev+1 {
				run += runStep
				score += run
			} else {
				run = 0
				score -= (ci - prev - 1) * gapPenaltyUnit
			}
		}
		if ci == 0 || isSeparator(c[ci-1]) {
			score += boundaryBonus
		}
		if keepPositions {
			positions = append(positions, ci)
		}
		prev = ci
		qi++
	}
	if qi < len(q) {
		return 0, nil, false
	}

	if string(q) == string(c) {
		score += exactBonus
	} else if strings.HasPrefix(string(c), string(q)) {
		score += prefixBonus
	}
	return score, positions, true
}

// Match pairs a candidate index with its score.
type Match struct {
	Index     int
	Candidate string
	Score     int
}

// Rank scores every candidate against query and returns the matches
// ordered best-first: higher score, then shorter candidate, then
// lexicographic.
func Rank(query string, candidates []string) []Match {
	matches := make([]Match, 0, len(candidates))
	for i, cand := range candidates {
		if score, ok := Score(query, cand); ok {
			matches = append(matches, Match{Index: i, Candidate: cand, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Candidate) != len(b.Candidate) {
			return len(a.Candidate) < len(b.Candidate)
		}
		return a.Candidate < b.Candidate
	})
	return matches
}
