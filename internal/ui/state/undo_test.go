package state

import (
	"reflect"
	"testing"
)

// applyUndo and applyRedo mirror how the event router drives the
// history for tab-scoped actions.
func applyUndo(h *History, tab *Tab) bool {
	a, ok := h.Undo()
	if !ok {
		return false
	}
	h.PushRedo(ApplyToTab(tab, a))
	return true
}

func applyRedo(h *History, tab *Tab) bool {
	a, ok := h.Redo()
	if !ok {
		return false
	}
	h.PushUndo(ApplyToTab(tab, a))
	return true
}

func TestRecordClearsRedo(t *testing.T) {
	h := NewHistory(10)
	tab := NewTab(TabInstalled)
	tab.SetRows(rows("a", "b"))

	h.Record(SortAction(tab.Kind, tab.Sort))
	tab.SetSort(SortUsage)
	if !applyUndo(h, tab) {
		t.Fatal("undo failed")
	}
	if !h.CanRedo() {
		t.Fatal("redo stack empty after undo")
	}

	h.Record(FilterAction(tab.Kind, tab.Filter))
	if h.CanRedo() {
		t.Fatal("recording a new action must clear redo")
	}
}

func TestUndoOverflowDropsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Record(SortAction(TabInstalled, SortKey(i%2)))
	}
	count := 0
	for h.CanUndo() {
		h.Undo()
		count++
	}
	if count != 3 {
		t.Fatalf("undo depth = %d, want bounded to 3", count)
	}
}

func TestUndoRedoRoundTripRestoresState(t *testing.T) {
	h := NewHistory(100)
	tab := NewTab(TabInstalled)
	tab.SetRows(rows("bat", "fd", "ripgrep"))

	mutate := []func(){
		func() {
			h.Record(SelectionAction(tab.Kind, tab.SelectionSnapshot()))
			tab.ToggleSelection("tool:bat")
		},
		func() {
			h.Record(FilterAction(tab.Kind, tab.Filter))
			tab.SetFilter("rip", 3)
		},
		func() {
			h.Record(SortAction(tab.Kind, tab.Sort))
			tab.SetSort(SortUsage)
		},
		func() {
			h.Record(SelectionAction(tab.Kind, tab.SelectionSnapshot()))
			tab.ToggleSelection("tool:ripgrep")
		},
	}
	for _, m := range mutate {
		m()
	}

	wantSelection := tab.SelectionSnapshot()
	wantFilter := tab.Filter
	wantSort := tab.Sort
	wantCursor := tab.Cursor

	for i := 0; i < len(mutate); i++ {
		if !applyUndo(h, tab) {
			t.Fatalf("undo %d failed", i)
		}
	}
	if len(tab.Selected) != 0 || tab.Filter != "" || tab.Sort != SortName {
		t.Fatalf("initial state not restored: sel=%v filter=%q sort=%v",
			tab.Selected, tab.Filter, tab.Sort)
	}

	for i := 0; i < len(mutate); i++ {
		if !applyRedo(h, tab) {
			t.Fatalf("redo %d failed", i)
		}
	}
	if !reflect.DeepEqual(tab.SelectionSnapshot(), wantSelection) {
		t.Fatalf("selection = %v, want %v", tab.SelectionSnapshot(), wantSelection)
	}
	if tab.Filter != wantFilter || tab.Sort != wantSort || tab.Cursor != wantCursor {
		t.Fatalf("state = (%q, %v, %d), want (%q, %v, %d)",
			tab.Filter, tab.Sort, tab.Cursor, wantFilter, wantSort, wantCursor)
	}
}

func TestUndoRevertsInReverseChronologicalOrder(t *testing.T) {
	h := NewHistory(100)
	tab := NewTab(TabInstalled)
	tab.SetRows(rows("a", "b", "c"))

	for _, id := range []string{"tool:a", "tool:b", "tool:c"} {
		h.Record(SelectionAction(tab.Kind, tab.SelectionSnapshot()))
		tab.ToggleSelection(id)
	}
	h.Record(SortAction(tab.Kind, tab.Sort))
	tab.SetSort(SortUsage)

	// First undo reverts the sort, leaving all selections intact.
	applyUndo(h, tab)
	if tab.Sort != SortName {
		t.Fatalf("sort = %v, want reverted first", tab.Sort)
	}
	if len(tab.Selected) != 3 {
		t.Fatalf("selection count = %d, want untouched", len(tab.Selected))
	}

	// Remaining undos drop selections newest-first.
	applyUndo(h, tab)
	if tab.IsSelected("tool:c") || !tab.IsSelected("tool:b") {
		t.Fatal("second undo should revert only the newest selection")
	}
	applyUndo(h, tab)
	if tab.IsSelected("tool:b") || !tab.IsSelected("tool:a") {
		t.Fatal("third undo should revert the middle selection")
	}
	applyUndo(h, tab)
	if len(tab.Selected) != 0 {
		t.Fatal("final undo should leave no selections")
	}
}

func TestUndoEmptyStacks(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Undo(); ok {
		t.Fatal("undo on empty stack succeeded")
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("redo on empty stack succeeded")
	}
}
