package fuzzy

import (
	"reflect"
	"testing"
)

func TestScoreRequiresSubsequence(t *testing.T) {
	cases := []struct {
		query, candidate string
		want             bool
	}{
		{"rg", "ripgrep", true},
		{"rg", "rg", true},
		{"rg", "argon", true},
		{"rg", "gr", false},
		{"xyz", "ripgrep", false},
		{"RG", "ripgrep", true},
		{"", "anything", true},
	}
	for _, tc := range cases {
		if _, ok := Score(tc.query, tc.candidate); ok != tc.want {
			t.Errorf("Score(%q, %q) match = %v, want %v", tc.query, tc.candidate, ok, tc.want)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	first, _ := Score("fd", "fd-find")
	for i := 0; i < 5; i++ {
		again, _ := Score("fd", "fd-find")
		if again != first {
			t.Fatalf("Score not deterministic: %d then %d", first, again)
		}
	}
}

func TestRankOrdersExactMatchFirst(t *testing.T) {
	matches := Rank("rg", []string{"ripgrep", "argon", "rg"})
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Candidate != "rg" {
		t.Fatalf("expected exact match ranked first, got %q", matches[0].Candidate)
	}
}

func TestRankTieBreaksByLengthThenName(t *testing.T) {
	// Both candidates start with the query and have no gaps, so the
	// raw scores are equal; ordering falls back to length then name.
	matches := Rank("to", []string{"tooling", "tool"})
	if matches[0].Candidate != "tool" {
		t.Fatalf("expected shorter candidate first, got %q", matches[0].Candidate)
	}

	matches = Rank("ab", []string{"abz", "aba"})
	if matches[0].Candidate != "aba" {
		t.Fatalf("expected lexicographic tie break, got %q", matches[0].Candidate)
	}
}

func TestBoundaryBonusPrefersSeparatorStarts(t *testing.T) {
	gap, _ := Score("fg", "flamegraph")
	sep, _ := Score("fg", "flame-graph")
	if sep <= gap {
		t.Fatalf("separator match should outscore mid-word match: %d <= %d", sep, gap)
	}
}

func TestGapPenalty(t *testing.T) {
	tight, _ := Score("grep", "ripgrep")
	loose, _ := Score("grep", "gargantuan-repo")
	if tight <= loose {
		t.Fatalf("tight match should outscore gappy match: %d <= %d", tight, loose)
	}
}

func TestPositions(t *testing.T) {
	_, pos, ok := Positions("rg", "ripgrep")
	if !ok {
		t.Fatal("expected match")
	}
	if !reflect.DeepEqual(pos, []int{0, 3}) {
		t.Fatalf("unexpected positions %v", pos)
	}
}
