package state

import (
	"fmt"
	"testing"
	"time"
)

func rows(names ...string) []Row {
	out := make([]Row, len(names))
	for i, name := range names {
		out[i] = Row{ID: "tool:" + name, Name: name}
	}
	return out
}

func TestSetRowsKeepsCursorOnSameEntry(t *testing.T) {
	tab := NewTab(TabInstalled)
	tab.SetRows(rows("bat", "fd", "ripgrep"))
	tab.Cursor = tab.IndexOf("tool:fd")

	tab.SetRows(rows("bat", "exa", "fd", "ripgrep"))
	if got, _ := tab.CurrentRow(); got.Name != "fd" {
		t.Fatalf("cursor on %q, want fd", got.Name)
	}
}

func TestSetRowsClampsWhenEntryVanishes(t *testing.T) {
	tab := NewTab(TabInstalled)
	tab.SetRows(rows("bat", "fd", "ripgrep"))
	tab.MoveCursorEnd()

	tab.SetRows(rows("bat", "fd"))
	if tab.Cursor != 1 {
		t.Fatalf("cursor = %d, want clamped to last row", tab.Cursor)
	}

	tab.SetRows(nil)
	if tab.Cursor != -1 {
		t.Fatalf("cursor = %d, want -1 on empty list", tab.Cursor)
	}
}

func TestRefreshPrunesStaleSelections(t *testing.T) {
	tab := NewTab(TabInstalled)
	tab.SetRows(rows("bat", "fd", "ripgrep"))
	tab.ToggleSelection("tool:bat")
	tab.ToggleSelection("tool:ripgrep")

	tab.SetRows(rows("bat", "fd"))
	if tab.IsSelected("tool:ripgrep") {
		t.Fatal("removed entry still selected")
	}
	if !tab.IsSelected("tool:bat") {
		t.Fatal("surviving selection dropped")
	}
}

func TestFilterProjectsAndRestoresCursor(t *testing.T) {
	tab := NewTab(TabAvailable)
	tab.SetRows(rows("bat", "fd", "ripgrep", "argon"))
	tab.Cursor = tab.IndexOf("tool:fd")

	tab.SetFilter("rg", 2)
	if len(tab.Rows) != 2 {
		t.Fatalf("filtered rows = %d, want ripgrep and argon", len(tab.Rows))
	}
	if tab.Cursor != 0 {
		t.Fatalf("cursor = %d, want best match under cursor", tab.Cursor)
	}

	tab.ClearFilter()
	if got, _ := tab.CurrentRow(); got.Name != "fd" {
		t.Fatalf("cursor on %q after clearing filter, want fd restored", got.Name)
	}
}

func TestFilterNoMatchesYieldsEmptyProjection(t *testing.T) {
	tab := NewTab(TabAvailable)
	tab.SetRows(rows("bat", "fd"))
	tab.SetFilter("zzz", 3)
	if len(tab.Rows) != 0 || tab.Cursor != -1 {
		t.Fatalf("rows = %d cursor = %d, want empty with sentinel", len(tab.Rows), tab.Cursor)
	}
}

func TestSortKeysAndNameTieBreak(t *testing.T) {
	now := time.Now()
	tab := NewTab(TabInstalled)
	tab.SetRows([]Row{
		{ID: "1", Name: "fd", UsageCount: 3, LastUsed: now.Add(-time.Hour)},
		{ID: "2", Name: "bat", UsageCount: 7, LastUsed: now},
		{ID: "3", Name: "ripgrep", UsageCount: 7, LastUsed: now.Add(-2 * time.Hour)},
	})

	if tab.Rows[0].Name != "bat" {
		t.Fatalf("default sort first = %q, want name order", tab.Rows[0].Name)
	}

	tab.SetSort(SortUsage)
	// bat and ripgrep tie on usage; name breaks the tie.
	want := []string{"bat", "ripgrep", "fd"}
	for i, name := range want {
		if tab.Rows[i].Name != name {
			t.Fatalf("usage sort[%d] = %q, want %q", i, tab.Rows[i].Name, name)
		}
	}

	tab.SetSort(SortRecent)
	if tab.Rows[0].Name != "bat" || tab.Rows[2].Name != "ripgrep" {
		t.Fatalf("recent sort = %v", tab.Rows)
	}
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	var input []Row
	for i := 0; i < 5; i++ {
		input = append(input, Row{ID: fmt.Sprintf("%d", i), Name: "same", UsageCount: 1})
	}
	SortRows(input, SortUsage)
	for i, row := range input {
		if row.ID != fmt.Sprintf("%d", i) {
			t.Fatalf("equal-key order changed at %d: %q", i, row.ID)
		}
	}
}

func TestSetSortFollowsCursorEntry(t *testing.T) {
	tab := NewTab(TabInstalled)
	tab.SetRows([]Row{
		{ID: "1", Name: "bat", UsageCount: 1},
		{ID: "2", Name: "fd", UsageCount: 9},
	})
	tab.Cursor = tab.IndexOf("1")

	tab.SetSort(SortUsage)
	if got, _ := tab.CurrentRow(); got.Name != "bat" {
		t.Fatalf("cursor on %q after resort, want bat", got.Name)
	}
}

func TestMoveCursorClamps(t *testing.T) {
	tab := NewTab(TabInstalled)
	tab.SetRows(rows("a", "b", "c"))

	tab.MoveCursor(10)
	if tab.Cursor != 2 {
		t.Fatalf("cursor = %d, want clamped to 2", tab.Cursor)
	}
	tab.MoveCursor(-10)
	if tab.Cursor != 0 {
		t.Fatalf("cursor = %d, want clamped to 0", tab.Cursor)
	}

	empty := NewTab(TabInstalled)
	if empty.MoveCursor(1) || empty.Cursor != -1 {
		t.Fatalf("empty tab cursor = %d, want -1", empty.Cursor)
	}
}

func TestSelectRange(t *testing.T) {
	tab := NewTab(TabInstalled)
	tab.SetRows(rows("a", "b", "c", "d"))

	if !tab.SelectRange("tool:d", "tool:b") {
		t.Fatal("range selection failed")
	}
	for _, id := range []string{"tool:b", "tool:c", "tool:d"} {
		if !tab.IsSelected(id) {
			t.Fatalf("%s not selected", id)
		}
	}
	if tab.IsSelected("tool:a") {
		t.Fatal("entry outside range selected")
	}
}

func TestEnsureCursorVisibleScrolls(t *testing.T) {
	tab := NewTab(TabInstalled)
	tab.SetRows(rows("a", "b", "c", "d", "e", "f"))

	tab.MoveCursorEnd()
	tab.EnsureCursorVisible(3)
	if tab.ViewportOffset != 3 {
		t.Fatalf("offset = %d, want 3", tab.ViewportOffset)
	}

	tab.MoveCursorHome()
	tab.EnsureCursorVisible(3)
	if tab.ViewportOffset != 0 {
		t.Fatalf("offset = %d, want 0", tab.ViewportOffset)
	}
}
