// Package state holds the per-tab interactive state: the projected
// row list, filter, sort key, cursor, scroll offset, and selection.
// All of it is owned by the interactive loop; nothing here is safe for
// concurrent use.
package state

import "time"

// Row is one displayable entry in a tab. Rows are projections of
// store snapshots or discovery results; the ID always originates from
// the source of the data, never from this package.
type Row struct {
	ID          string
	Name        string
	Description string
	Source      string
	Version     string
	Latest      string
	Installed   bool
	Favorite    bool
	Stars       int64
	UsageCount  int
	LastUsed    time.Time
	Labels      []string
}

// HasUpdate reports whether the row's latest version differs from the
// installed one.
func (r Row) HasUpdate() bool {
	return r.Installed && r.Latest != "" && r.Latest != r.Version
}

// CloneRows produces a shallow copy of the provided rows.
func CloneRows(rows []Row) []Row {
	dup := make([]Row, len(rows))
	copy(dup, rows)
	return dup
}
