package state

import (
	"sort"
	"strings"
)

// SortKey selects the ordering of a tab's rows.
type SortKey int

const (
	SortName SortKey = iota
	SortUsage
	SortRecent
	SortStars
)

func (k SortKey) String() string {
	switch k {
	case SortName:
		return "name"
	case SortUsage:
		return "usage"
	case SortRecent:
		return "recent"
	case SortStars:
		return "stars"
	default:
		return "unknown"
	}
}

// Next cycles through the sort keys used by the tool tabs.
func (k SortKey) Next() SortKey {
	switch k {
	case SortName:
		return SortUsage
	case SortUsage:
		return SortRecent
	default:
		return SortName
	}
}

// SortRows orders rows in place. Usage, recency, and stars sort
// descending; every key breaks ties by name ascending.
func SortRows(rows []Row, key SortKey) {
	byName := func(a, b Row) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch key {
		case SortUsage:
			if a.UsageCount != b.UsageCount {
				return a.UsageCount > b.UsageCount
			}
		case SortRecent:
			if !a.LastUsed.Equal(b.LastUsed) {
				return a.LastUsed.After(b.LastUsed)
			}
		case SortStars:
			if a.Stars != b.Stars {
				return a.Stars > b.Stars
			}
		}
		return byName(a, b)
	})
}
