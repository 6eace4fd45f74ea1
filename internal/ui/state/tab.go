package state

import "strings"

// Kind identifies one of the fixed dashboard tabs.
type Kind int

const (
	TabInstalled Kind = iota
	TabAvailable
	TabUpdates
	TabBundles
	TabDiscover
)

func (k Kind) String() string {
	switch k {
	case TabInstalled:
		return "Installed"
	case TabAvailable:
		return "Available"
	case TabUpdates:
		return "Updates"
	case TabBundles:
		return "Bundles"
	case TabDiscover:
		return "Discover"
	default:
		return "unknown"
	}
}

// Kinds lists the tabs in display order.
func Kinds() []Kind {
	return []Kind{TabInstalled, TabAvailable, TabUpdates, TabBundles, TabDiscover}
}

// Tab owns the interactive state of one dashboard tab. Rows is the
// current projection of Full through the filter and sort key; Cursor
// is -1 only when Rows is empty.
type Tab struct {
	Kind           Kind
	Full           []Row
	Rows           []Row
	Filter         string
	FilterCursor   int
	Sort           SortKey
	Cursor         int
	LastCursor     int
	Selected       map[string]struct{}
	ViewportOffset int
}

// NewTab constructs an empty tab.
func NewTab(kind Kind) *Tab {
	return &Tab{
		Kind:       kind,
		Cursor:     -1,
		LastCursor: -1,
		Selected:   make(map[string]struct{}),
	}
}

// SetRows replaces the tab's backing rows, keeping the cursor on the
// same entry where possible and pruning selections that no longer
// resolve.
func (t *Tab) SetRows(rows []Row) {
	currentID := t.CurrentID()
	prevOffset := t.ViewportOffset
	t.Full = CloneRows(rows)
	t.CleanupSelections()
	t.project()
	if len(t.Rows) == 0 {
		t.ViewportOffset = 0
		return
	}
	if currentID != "" {
		if idx := t.IndexOf(currentID); idx >= 0 {
			t.Cursor = idx
		}
	}
	t.clampCursor()
	if prevOffset >= 0 && prevOffset < len(t.Rows) {
		t.ViewportOffset = prevOffset
	} else {
		t.ViewportOffset = 0
	}
}

// SetSort replaces the sort key and resorts the projection in place.
// The cursor follows the entry it was on.
func (t *Tab) SetSort(key SortKey) {
	currentID := t.CurrentID()
	t.Sort = key
	t.project()
	if currentID != "" {
		if idx := t.IndexOf(currentID); idx >= 0 {
			t.Cursor = idx
		}
	}
	t.clampCursor()
}

// CycleSort advances to the next sort key.
func (t *Tab) CycleSort() {
	t.SetSort(t.Sort.Next())
}

// CurrentRow returns the row under the cursor.
func (t *Tab) CurrentRow() (Row, bool) {
	if t.Cursor < 0 || t.Cursor >= len(t.Rows) {
		return Row{}, false
	}
	return t.Rows[t.Cursor], true
}

// CurrentID returns the id of the row under the cursor, or empty.
func (t *Tab) CurrentID() string {
	row, ok := t.CurrentRow()
	if !ok {
		return ""
	}
	return row.ID
}

// IndexOf returns the projected index for a given row identifier.
func (t *Tab) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, row := range t.Rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

// project recomputes Rows from Full through the filter and sort key.
// With an active filter the fuzzy ranking decides the order; otherwise
// the sort key does.
func (t *Tab) project() {
	trimmed := strings.TrimSpace(t.Filter)
	if trimmed == "" {
		t.Rows = CloneRows(t.Full)
		SortRows(t.Rows, t.Sort)
	} else {
		t.Rows = filterRows(t.Full, trimmed)
	}
	t.clampCursor()
	if t.ViewportOffset > len(t.Rows)-1 {
		t.ViewportOffset = 0
	}
}

func (t *Tab) clampCursor() {
	if len(t.Rows) == 0 {
		t.Cursor = -1
		return
	}
	if t.Cursor < 0 {
		t.Cursor = 0
	}
	if t.Cursor >= len(t.Rows) {
		t.Cursor = len(t.Rows) - 1
	}
}
