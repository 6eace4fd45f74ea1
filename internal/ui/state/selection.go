package state

// CleanupSelections drops selections whose entry is no longer present
// in the backing rows.
func (t *Tab) CleanupSelections() {
	if len(t.Selected) == 0 {
		return
	}
	valid := make(map[string]struct{}, len(t.Full))
	for _, row := range t.Full {
		valid[row.ID] = struct{}{}
	}
	for id := range t.Selected {
		if _, ok := valid[id]; !ok {
			delete(t.Selected, id)
		}
	}
}

// IsSelected reports whether the given id is selected.
func (t *Tab) IsSelected(id string) bool {
	if t.Selected == nil {
		return false
	}
	_, ok := t.Selected[id]
	return ok
}

// ToggleSelection toggles selection membership for the supplied id.
func (t *Tab) ToggleSelection(id string) {
	if t.Selected == nil {
		t.Selected = make(map[string]struct{})
	}
	if _, ok := t.Selected[id]; ok {
		delete(t.Selected, id)
	} else {
		t.Selected[id] = struct{}{}
	}
}

// ToggleCurrentSelection toggles the selection under the cursor.
func (t *Tab) ToggleCurrentSelection() bool {
	row, ok := t.CurrentRow()
	if !ok {
		return false
	}
	t.ToggleSelection(row.ID)
	return true
}

// SelectRange selects every row between the anchor id and the target
// id inclusive, in projected order.
func (t *Tab) SelectRange(anchorID, targetID string) bool {
	from := t.IndexOf(anchorID)
	to := t.IndexOf(targetID)
	if from < 0 || to < 0 {
		return false
	}
	if from > to {
		from, to = to, from
	}
	if t.Selected == nil {
		t.Selected = make(map[string]struct{})
	}
	for i := from; i <= to; i++ {
		t.Selected[t.Rows[i].ID] = struct{}{}
	}
	return true
}

// ClearSelection clears all selected rows.
func (t *Tab) ClearSelection() {
	for id := range t.Selected {
		delete(t.Selected, id)
	}
}

// SetSelection replaces the selection wholesale. Used when undoing a
// selection change.
func (t *Tab) SetSelection(ids map[string]struct{}) {
	t.Selected = make(map[string]struct{}, len(ids))
	for id := range ids {
		t.Selected[id] = struct{}{}
	}
	t.CleanupSelections()
}

// SelectionSnapshot copies the current selection for undo records.
func (t *Tab) SelectionSnapshot() map[string]struct{} {
	snap := make(map[string]struct{}, len(t.Selected))
	for id := range t.Selected {
		snap[id] = struct{}{}
	}
	return snap
}

// SelectedRows returns the selected rows in display order.
func (t *Tab) SelectedRows() []Row {
	if len(t.Selected) == 0 {
		return nil
	}
	selected := make([]Row, 0, len(t.Selected))
	for _, row := range t.Rows {
		if t.IsSelected(row.ID) {
			selected = append(selected, row)
		}
	}
	return selected
}
