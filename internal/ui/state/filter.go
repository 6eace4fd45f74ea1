package state

import (
	"strings"
	"unicode"

	"toolshed/internal/fuzzy"
)

// SetFilter updates the filter query and filter-cursor position, then
// recomputes the projection. Typing a filter remembers the list cursor
// so clearing it can restore the previous position.
func (t *Tab) SetFilter(query string, cursor int) {
	trimmed := strings.TrimSpace(query)
	prevTrimmed := strings.TrimSpace(t.Filter)
	restore := -1
	t.Filter = query
	runes := []rune(t.Filter)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	t.FilterCursor = cursor
	if trimmed != "" {
		if prevTrimmed == "" {
			t.LastCursor = t.Cursor
		}
		t.Cursor = 0
	} else if prevTrimmed != "" {
		restore = t.LastCursor
	}
	t.project()
	if trimmed == "" && prevTrimmed != "" {
		if restore >= 0 && restore < len(t.Rows) {
			t.Cursor = restore
		}
		t.LastCursor = -1
	}
}

// ClearFilter resets the filter, restoring the pre-filter cursor.
func (t *Tab) ClearFilter() {
	t.SetFilter("", 0)
}

// filterRows keeps rows whose name matches the query as a fuzzy
// subsequence, ordered best match first.
func filterRows(rows []Row, query string) []Row {
	names := make([]string, len(rows))
	byName := make(map[string][]Row, len(rows))
	for i, row := range rows {
		names[i] = row.Name
		byName[row.Name] = append(byName[row.Name], row)
	}
	matches := fuzzy.Rank(query, names)
	filtered := make([]Row, 0, len(matches))
	for _, m := range matches {
		bucket := byName[m.Candidate]
		filtered = append(filtered, bucket[0])
		byName[m.Candidate] = bucket[1:]
	}
	return filtered
}

// FilterCursorPos returns the rune offset of the filter cursor.
func (t *Tab) FilterCursorPos() int {
	runes := []rune(t.Filter)
	if t.FilterCursor < 0 {
		return 0
	}
	if t.FilterCursor > len(runes) {
		return len(runes)
	}
	return t.FilterCursor
}

// InsertFilterText inserts text into the filter at the cursor position.
func (t *Tab) InsertFilterText(text string) bool {
	if text == "" {
		return false
	}
	insert := []rune(text)
	runes := []rune(t.Filter)
	pos := t.FilterCursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	t.SetFilter(string(updated), pos+len(insert))
	return true
}

// DeleteFilterRuneBackward deletes a rune before the filter cursor.
func (t *Tab) DeleteFilterRuneBackward() bool {
	runes := []rune(t.Filter)
	pos := t.FilterCursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	updated := append(runes[:pos-1], runes[pos:]...)
	t.SetFilter(string(updated), pos-1)
	return true
}

// DeleteFilterWordBackward deletes the word preceding the cursor.
func (t *Tab) DeleteFilterWordBackward() bool {
	runes := []rune(t.Filter)
	pos := t.FilterCursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	updated := append(runes[:i], runes[pos:]...)
	t.SetFilter(string(updated), i)
	return true
}

// MoveFilterCursorStart moves the filter cursor to the start.
func (t *Tab) MoveFilterCursorStart() bool {
	if t.FilterCursorPos() == 0 {
		return false
	}
	t.FilterCursor = 0
	return true
}

// MoveFilterCursorEnd moves the filter cursor to the end.
func (t *Tab) MoveFilterCursorEnd() bool {
	end := len([]rune(t.Filter))
	if t.FilterCursorPos() == end {
		return false
	}
	t.FilterCursor = end
	return true
}

// MoveFilterCursorRuneBackward moves the filter cursor one rune back.
func (t *Tab) MoveFilterCursorRuneBackward() bool {
	if t.FilterCursorPos() == 0 {
		return false
	}
	t.FilterCursor = t.FilterCursorPos() - 1
	return true
}

// MoveFilterCursorRuneForward moves the filter cursor one rune forward.
func (t *Tab) MoveFilterCursorRuneForward() bool {
	runes := []rune(t.Filter)
	pos := t.FilterCursorPos()
	if pos >= len(runes) {
		return false
	}
	t.FilterCursor = pos + 1
	return true
}
