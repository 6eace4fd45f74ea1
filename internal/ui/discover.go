package ui

import (
	"fmt"
	"strings"

	"toolshed/internal/discover"
	"toolshed/internal/jobs"
	uistate "toolshed/internal/ui/state"

	tea "github.com/charmbracelet/bubbletea"
)

// submitDiscoverSearch starts a new adapter fan-out for the query. The
// tab filter doubles as the query buffer, so the projection narrows
// incoming results to the same text the user typed.
func (m *Model) submitDiscoverSearch(query string) {
	query = strings.TrimSpace(query)
	if query == "" || m.agg == nil {
		return
	}
	m.historyIdx = -1
	m.historyDraft = ""
	m.agg.Submit(query, m.adapters)
	m.refreshDiscoverTab()
}

func (m *Model) cancelDiscoverSearch() {
	session := m.agg.Session()
	if session == nil || session.Complete() || session.Cancelled() {
		return
	}
	m.agg.Cancel()
	m.setInfo("search cancelled")
}

// refreshDiscoverTab projects the current session's merged results
// into the discover tab.
func (m *Model) refreshDiscoverTab() {
	session := m.agg.Session()
	tab := m.tabs[uistate.TabDiscover]
	if session == nil {
		tab.SetRows(nil)
		return
	}
	rows := make([]uistate.Row, 0, len(session.Results))
	for _, r := range session.Results {
		rows = append(rows, rowForResult(r))
	}
	tab.SetRows(rows)
	tab.EnsureCursorVisible(m.maxVisibleRows())
}

func rowForResult(r discover.Result) uistate.Row {
	origins := make([]string, 0, len(r.Origins))
	for _, o := range r.Origins {
		origins = append(origins, o.String())
	}
	stars := r.Stars
	if stars < 0 {
		stars = 0
	}
	return uistate.Row{
		ID:          "discover:" + r.Key(),
		Name:        r.Name,
		Description: r.Description,
		Source:      strings.Join(origins, ","),
		Stars:       stars,
	}
}

// resultForRow resolves a discover-tab row back to its session result.
func (m *Model) resultForRow(row uistate.Row) (discover.Result, bool) {
	session := m.agg.Session()
	if session == nil {
		return discover.Result{}, false
	}
	key := strings.TrimPrefix(row.ID, "discover:")
	for _, r := range session.Results {
		if r.Key() == key {
			return r, true
		}
	}
	return discover.Result{}, false
}

func (m *Model) searchHistoryPrev(tab *uistate.Tab) {
	recent := m.agg.Recent(50)
	if len(recent) == 0 {
		return
	}
	if m.historyIdx < 0 {
		m.historyDraft = tab.Filter
	}
	if m.historyIdx < len(recent)-1 {
		m.historyIdx++
	}
	entry := recent[m.historyIdx]
	tab.SetFilter(entry, len([]rune(entry)))
}

func (m *Model) searchHistoryNext(tab *uistate.Tab) {
	if m.historyIdx < 0 {
		return
	}
	m.historyIdx--
	if m.historyIdx < 0 {
		tab.SetFilter(m.historyDraft, len([]rune(m.historyDraft)))
		return
	}
	recent := m.agg.Recent(50)
	if m.historyIdx >= len(recent) {
		m.historyIdx = len(recent) - 1
	}
	if m.historyIdx >= 0 {
		entry := recent[m.historyIdx]
		tab.SetFilter(entry, len([]rune(entry)))
	}
}

func (m *Model) handleJobEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(jobEventMsg)
	if !ok {
		return nil
	}
	m.applyJobEvent(eventMsg.event)
	if m.coord != nil {
		return waitForJobEvent(m.coord)
	}
	return nil
}

func (m *Model) handleJobsDoneMsg(tea.Msg) tea.Cmd {
	m.coord = nil
	return nil
}

func (m *Model) applyJobEvent(evt jobs.Event) {
	switch payload := evt.Payload.(type) {
	case discover.Message:
		if m.agg.Apply(payload) {
			m.refreshDiscoverTab()
		}
		return
	case readmeLoadedMsg:
		m.applyReadme(payload)
		return
	}
	if !evt.Terminal {
		return
	}
	switch evt.Kind {
	case jobs.KindSearch, jobs.KindAIQuery, jobs.KindReadmeFetch:
		// Terminal state already arrived in the payload.
		return
	}
	if evt.Err != nil {
		m.setError(fmt.Sprintf("%s %s: %v", evt.Kind, evt.Target, evt.Err))
		return
	}
	m.setInfo(fmt.Sprintf("%s %s done", evt.Kind, evt.Target))
	if m.watcher != nil {
		m.watcher.Kick()
	}
}

// refreshSnapshots forces an immediate store re-read.
func (m *Model) refreshSnapshots() {
	if m.watcher != nil {
		m.watcher.Kick()
		m.setInfo("refreshing")
	}
}
