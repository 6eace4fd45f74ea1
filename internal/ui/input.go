package ui

import (
	"toolshed/internal/logging/events"
	uistate "toolshed/internal/ui/state"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

// updateFilterCursorModel keeps the filter cursor blinking. The
// initial-blink message type is unexported, so while the search prompt
// is visible every non-key message is forwarded; the cursor ignores
// the ones it does not understand.
func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(cursor.BlinkMsg); !ok {
		if m.mode != ModeSearch {
			return nil
		}
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return nil
		}
	}
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	m.clearInfo()
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(key)
	case ModePalette:
		return m.handlePaletteKey(key)
	case ModeConfirm:
		return m.handleConfirmKey(key)
	case ModeError:
		return m.handleErrorKey(key)
	case ModeHelp, ModeConfig, ModeDetails, ModeReadme:
		return m.handleOverlayKey(key)
	default:
		return m.handleNormalKey(key)
	}
}

// handleMouseMsg scrolls the row list on mouse wheel events. Overlays
// and prompts ignore the wheel.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if m.mode != ModeNormal && m.mode != ModeSearch {
		return nil
	}
	tab := m.currentTab()
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		if tab.MoveCursor(-3) {
			m.afterCursorMove(tab)
		}
	case tea.MouseButtonWheelDown:
		if tab.MoveCursor(3) {
			m.afterCursorMove(tab)
		}
	}
	return nil
}

func (m *Model) handleNormalKey(key tea.KeyMsg) tea.Cmd {
	tab := m.currentTab()
	switch key.String() {
	case "q", "ctrl+c":
		return m.quit()
	case "j", "down":
		if tab.MoveCursor(1) {
			m.afterCursorMove(tab)
		}
	case "k", "up":
		if tab.MoveCursor(-1) {
			m.afterCursorMove(tab)
		}
	case "g", "home":
		if tab.MoveCursorHome() {
			m.afterCursorMove(tab)
		}
	case "G", "end":
		if tab.MoveCursorEnd() {
			m.afterCursorMove(tab)
		}
	case "ctrl+u", "pgup":
		if tab.MoveCursorPageUp(m.maxVisibleRows()) {
			m.afterCursorMove(tab)
		}
	case "ctrl+d", "pgdown":
		if tab.MoveCursorPageDown(m.maxVisibleRows()) {
			m.afterCursorMove(tab)
		}
	case "tab", "]":
		m.nextTab()
	case "shift+tab", "[":
		m.prevTab()
	case "1":
		m.switchTab(uistate.TabInstalled, true)
	case "2":
		m.switchTab(uistate.TabAvailable, true)
	case "3":
		m.switchTab(uistate.TabUpdates, true)
	case "4":
		m.switchTab(uistate.TabBundles, true)
	case "5":
		m.switchTab(uistate.TabDiscover, true)
	case "/":
		m.enterSearch()
	case ":":
		m.openPalette()
	case " ":
		m.recordSelection(tab)
		if tab.ToggleCurrentSelection() {
			events.UI.Selection(tab.Kind.String(), len(tab.Selected))
		}
	case "v":
		m.toggleRangeAnchor(tab)
	case "ctrl+a":
		m.selectAll(tab)
	case "x":
		if len(tab.Selected) > 0 {
			m.recordSelection(tab)
			tab.ClearSelection()
			events.UI.Selection(tab.Kind.String(), 0)
		}
	case "s":
		m.cycleSort(tab)
	case "*":
		return m.toggleFavorite()
	case "F":
		m.favoritesOnly = !m.favoritesOnly
		m.refreshToolTabs()
		if m.favoritesOnly {
			m.setInfo("showing favorites only")
		} else {
			m.setInfo("showing all entries")
		}
	case "i", "enter":
		if key.String() == "enter" && m.active != uistate.TabDiscover {
			m.openDetails()
			return nil
		}
		return m.installSelection()
	case "D":
		return m.uninstallSelection()
	case "U":
		return m.updateSelection()
	case "u":
		m.undo()
	case "ctrl+r":
		m.redo()
	case "r":
		m.refreshSnapshots()
	case "R":
		return m.openReadme()
	case "l":
		return m.editLabels()
	case "?":
		m.setMode(ModeHelp)
	case "esc":
		if tab.Filter != "" {
			m.history.Record(uistate.FilterAction(tab.Kind, tab.Filter))
			events.Undo.Record(uistate.ActionFilter.String())
			tab.ClearFilter()
			events.Filter.Cleared(tab.Kind.String())
			tab.EnsureCursorVisible(m.maxVisibleRows())
		} else {
			m.errMsg = ""
		}
	case "c":
		if m.active == uistate.TabDiscover {
			m.cancelDiscoverSearch()
		}
	case "C":
		m.setMode(ModeConfig)
	}
	return nil
}

func (m *Model) afterCursorMove(tab *uistate.Tab) {
	tab.EnsureCursorVisible(m.maxVisibleRows())
	events.UI.Cursor(tab.Kind.String(), tab.Cursor)
}

func (m *Model) recordSelection(tab *uistate.Tab) {
	m.history.Record(uistate.SelectionAction(tab.Kind, tab.SelectionSnapshot()))
	events.Undo.Record(uistate.ActionSelection.String())
}

// toggleRangeAnchor arms a range anchor on first press and selects the
// span from anchor to cursor on the second.
func (m *Model) toggleRangeAnchor(tab *uistate.Tab) {
	current := tab.CurrentID()
	if current == "" {
		return
	}
	if m.rangeAnchor == "" {
		m.rangeAnchor = current
		m.setInfo("range anchor set")
		return
	}
	m.recordSelection(tab)
	if tab.SelectRange(m.rangeAnchor, current) {
		events.UI.Selection(tab.Kind.String(), len(tab.Selected))
	}
	m.rangeAnchor = ""
}

func (m *Model) selectAll(tab *uistate.Tab) {
	if len(tab.Rows) == 0 {
		return
	}
	m.recordSelection(tab)
	for _, row := range tab.Rows {
		tab.Selected[row.ID] = struct{}{}
	}
	events.UI.Selection(tab.Kind.String(), len(tab.Selected))
}

func (m *Model) cycleSort(tab *uistate.Tab) {
	if m.active == uistate.TabDiscover {
		if session := m.agg.Session(); session != nil {
			session.CycleSort()
			m.refreshDiscoverTab()
		}
		return
	}
	m.history.Record(uistate.SortAction(tab.Kind, tab.Sort))
	events.Undo.Record(uistate.ActionSort.String())
	tab.CycleSort()
	tab.EnsureCursorVisible(m.maxVisibleRows())
}

func (m *Model) enterSearch() {
	m.searchPrior = m.currentTab().Filter
	m.setMode(ModeSearch)
	m.filterCursorDirty = true
}

func (m *Model) handleSearchKey(key tea.KeyMsg) tea.Cmd {
	tab := m.currentTab()
	changed := false
	switch key.String() {
	case "esc":
		tab.SetFilter(m.searchPrior, len([]rune(m.searchPrior)))
		m.popMode()
		tab.EnsureCursorVisible(m.maxVisibleRows())
		return nil
	case "enter":
		if tab.Filter != m.searchPrior {
			m.history.Record(uistate.FilterAction(tab.Kind, m.searchPrior))
			events.Undo.Record(uistate.ActionFilter.String())
			events.Filter.Changed(tab.Kind.String(), tab.Filter)
		}
		m.popMode()
		if m.active == uistate.TabDiscover {
			m.submitDiscoverSearch(tab.Filter)
		}
		tab.EnsureCursorVisible(m.maxVisibleRows())
		return nil
	case "up":
		if m.active == uistate.TabDiscover {
			m.searchHistoryPrev(tab)
			changed = true
		}
	case "down":
		if m.active == uistate.TabDiscover {
			m.searchHistoryNext(tab)
			changed = true
		}
	case "backspace":
		changed = tab.DeleteFilterRuneBackward()
	case "ctrl+c":
		return m.quit()
	case "ctrl+w":
		changed = tab.DeleteFilterWordBackward()
	case "ctrl+u":
		if tab.Filter != "" {
			tab.ClearFilter()
			changed = true
		}
	case "ctrl+a", "home":
		changed = tab.MoveFilterCursorStart()
	case "ctrl+e", "end":
		changed = tab.MoveFilterCursorEnd()
	case "left":
		changed = tab.MoveFilterCursorRuneBackward()
	case "right":
		changed = tab.MoveFilterCursorRuneForward()
	default:
		switch key.Type {
		case tea.KeyRunes:
			changed = tab.InsertFilterText(string(key.Runes))
		case tea.KeySpace:
			changed = tab.InsertFilterText(" ")
		}
	}
	if changed {
		m.filterCursorDirty = true
		tab.EnsureCursorVisible(m.maxVisibleRows())
	}
	return nil
}

func (m *Model) handleConfirmKey(key tea.KeyMsg) tea.Cmd {
	confirm := m.confirm
	switch key.String() {
	case "ctrl+c":
		return m.quit()
	case "y", "Y", "enter":
		m.confirm = nil
		m.popMode()
		if confirm != nil && confirm.accept != nil {
			return confirm.accept()
		}
	case "n", "N", "esc", "q":
		m.confirm = nil
		m.popMode()
	}
	return nil
}

func (m *Model) handleOverlayKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc", "q", "enter":
		m.popMode()
	case "ctrl+c":
		return m.quit()
	}
	return nil
}

func (m *Model) handleErrorKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "q", "ctrl+c":
		return m.quit()
	case "esc", "enter":
		m.fatalErr = ""
		m.popMode()
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	if m.agg != nil {
		m.agg.Retire()
	}
	return tea.Quit
}
