package discover

import (
	"sort"
	"strings"
)

// Origin identifies where a discovered tool can be installed from.
type Origin int

const (
	OriginCratesIo Origin = iota
	OriginNpm
	OriginPyPI
	OriginHomebrew
	OriginApt
	OriginGo
	OriginGitHub
	OriginAI
)

func (o Origin) String() string {
	switch o {
	case OriginCratesIo:
		return "crates.io"
	case OriginNpm:
		return "npm"
	case OriginPyPI:
		return "PyPI"
	case OriginHomebrew:
		return "brew"
	case OriginApt:
		return "apt"
	case OriginGo:
		return "go"
	case OriginGitHub:
		return "GitHub"
	case OriginAI:
		return "AI"
	default:
		return "unknown"
	}
}

// sortRank fixes the display order used by the source sort key.
func (o Origin) sortRank() int { return int(o) }

// InstallOption is one way to install a discovered tool.
type InstallOption struct {
	Origin  Origin
	Command string
}

// Result is one discovered tool, possibly merged from several
// adapters. Stars is -1 when no adapter reported a count.
type Result struct {
	Name        string
	Description string
	Origins     []Origin
	Stars       int64
	URL         string
	Language    string
	Install     []InstallOption
}

// NewResult builds a single-origin result the way adapters produce
// them.
func NewResult(name, description string, origin Origin, installCmd string) Result {
	return Result{
		Name:        name,
		Description: description,
		Origins:     []Origin{origin},
		Stars:       -1,
		Install:     []InstallOption{{Origin: origin, Command: installCmd}},
	}
}

// Key returns the dedup key for the result.
func (r Result) Key() string {
	return Normalize(r.Name)
}

// HasOrigin reports whether origin is already part of the merged set.
func (r Result) HasOrigin(origin Origin) bool {
	for _, o := range r.Origins {
		if o == origin {
			return true
		}
	}
	return false
}

// Normalize lowercases a tool name and strips separator punctuation so
// "rip-grep", "rip_grep" and "ripgrep" collapse to one key.
func Normalize(name string) string {
	lowered := strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return -1
		}
		return r
	}, lowered)
}

func isGitHubURL(url string) bool {
	return strings.Contains(url, "github.com") || strings.Contains(url, "github.io")
}

// Merge folds other into r. Origins and install options union (install
// options keyed by origin, never dropped), stars take the maximum,
// the description keeps the first non-empty value in merge order, and
// a GitHub URL wins over any non-GitHub URL.
func (r *Result) Merge(other Result) {
	for _, o := range other.Origins {
		if !r.HasOrigin(o) {
			r.Origins = append(r.Origins, o)
		}
	}
	for _, opt := range other.Install {
		exists := false
		for _, have := range r.Install {
			if have.Origin == opt.Origin {
				exists = true
				break
			}
		}
		if !exists {
			r.Install = append(r.Install, opt)
		}
	}
	if other.Stars > r.Stars {
		r.Stars = other.Stars
	}
	if r.Description == "" {
		r.Description = other.Description
	}
	if other.URL != "" && (r.URL == "" || (isGitHubURL(other.URL) && !isGitHubURL(r.URL))) {
		r.URL = other.URL
	}
	if r.Language == "" {
		r.Language = other.Language
	}
}

// SortKey selects the ordering of the accumulated result list.
type SortKey int

const (
	SortStars SortKey = iota
	SortName
	SortSource
)

func (k SortKey) String() string {
	switch k {
	case SortStars:
		return "stars"
	case SortName:
		return "name"
	case SortSource:
		return "source"
	default:
		return "unknown"
	}
}

// Next cycles through the available sort keys.
func (k SortKey) Next() SortKey {
	switch k {
	case SortStars:
		return SortName
	case SortName:
		return SortSource
	default:
		return SortStars
	}
}

// SortResults orders results in place by the given key. Star order is
// descending with unknown counts last; all keys tie-break by
// lowercased name ascending.
func SortResults(results []Result, key SortKey) {
	byName := func(a, b Result) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		switch key {
		case SortName:
			return byName(a, b)
		case SortSource:
			ar, br := a.Origins[0].sortRank(), b.Origins[0].sortRank()
			if ar != br {
				return ar < br
			}
			return byName(a, b)
		default:
			if a.Stars != b.Stars {
				return a.Stars > b.Stars
			}
			return byName(a, b)
		}
	})
}
