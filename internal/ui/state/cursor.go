package state

// MoveCursor moves the cursor by delta, clamped to the row range.
func (t *Tab) MoveCursor(delta int) bool {
	if len(t.Rows) == 0 {
		t.Cursor = -1
		return false
	}
	old := t.Cursor
	if t.Cursor < 0 {
		t.Cursor = 0
	}
	t.Cursor += delta
	if t.Cursor < 0 {
		t.Cursor = 0
	}
	if t.Cursor >= len(t.Rows) {
		t.Cursor = len(t.Rows) - 1
	}
	return t.Cursor != old
}

// MoveCursorHome moves the cursor to the first row.
func (t *Tab) MoveCursorHome() bool {
	if len(t.Rows) == 0 {
		t.Cursor = -1
		return false
	}
	old := t.Cursor
	t.Cursor = 0
	return old != t.Cursor
}

// MoveCursorEnd moves the cursor to the last row.
func (t *Tab) MoveCursorEnd() bool {
	n := len(t.Rows)
	if n == 0 {
		t.Cursor = -1
		return false
	}
	old := t.Cursor
	t.Cursor = n - 1
	return old != t.Cursor
}

// MoveCursorPageUp moves the cursor up by the visible page size.
func (t *Tab) MoveCursorPageUp(maxVisible int) bool {
	return t.MoveCursor(-t.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by the visible page size.
func (t *Tab) MoveCursorPageDown(maxVisible int) bool {
	return t.MoveCursor(t.pageSize(maxVisible))
}

func (t *Tab) pageSize(maxVisible int) int {
	total := len(t.Rows)
	if total == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	if size < 1 {
		size = 1
	}
	return size
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays
// inside the visible window.
func (t *Tab) EnsureCursorVisible(maxVisible int) {
	if len(t.Rows) == 0 {
		t.Cursor = -1
		t.ViewportOffset = 0
		return
	}
	t.clampCursor()
	if maxVisible <= 0 {
		t.ViewportOffset = 0
		return
	}
	maxOffset := len(t.Rows) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.ViewportOffset > maxOffset {
		t.ViewportOffset = maxOffset
	}
	if t.ViewportOffset < 0 {
		t.ViewportOffset = 0
	}
	if t.Cursor < t.ViewportOffset {
		t.ViewportOffset = t.Cursor
	}
	upper := t.ViewportOffset + maxVisible - 1
	if t.Cursor > upper {
		t.ViewportOffset = t.Cursor - maxVisible + 1
		if t.ViewportOffset < 0 {
			t.ViewportOffset = 0
		}
		if t.ViewportOffset > maxOffset {
			t.ViewportOffset = maxOffset
		}
	}
}
