package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"toolshed/internal/discover"
	uistate "toolshed/internal/ui/state"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.mode {
	case ModeHelp:
		return m.viewOverlay("Help", helpText())
	case ModeConfig:
		return m.viewOverlay("Config", m.configText())
	case ModeDetails:
		return m.viewOverlay(m.details.Name, m.detailsText())
	case ModeReadme:
		return m.viewReadme()
	case ModeError:
		return m.viewOverlay("Error", m.fatalErr+"\n\npress esc to dismiss, q to quit")
	case ModeConfirm:
		return m.viewConfirm()
	}
	return m.viewDashboard()
}

func (m *Model) viewDashboard() string {
	lines := make([]styledLine, 0, 32)
	lines = append(lines, styledLine{text: m.headerText(), style: styles.Header})
	lines = append(lines, styledLine{text: m.tabBar()})

	tab := m.currentTab()
	if m.active == uistate.TabDiscover {
		lines = append(lines, m.discoverStatusLines()...)
	}

	maxRows := m.maxVisibleRows()
	tab.EnsureCursorVisible(maxRows)
	start := tab.ViewportOffset
	end := start + maxRows
	if end > len(tab.Rows) {
		end = len(tab.Rows)
	}
	if len(tab.Rows) == 0 {
		msg := "(no entries)"
		if strings.TrimSpace(tab.Filter) != "" {
			msg = fmt.Sprintf("No matches for %q", strings.TrimSpace(tab.Filter))
		} else if m.active == uistate.TabDiscover {
			msg = "Press / and type a query to search for tools"
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
	} else {
		for i := start; i < end; i++ {
			lines = append(lines, m.buildRowLine(tab, i))
		}
	}

	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	lines = append(lines, styledLine{})
	lines = append(lines, styledLine{text: m.footerText(), style: styles.Footer})

	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	var statusLine styledLine
	if m.errMsg != "" {
		statusLine = styledLine{text: "Error: " + m.errMsg, style: styles.Error}
	}
	bottom := []styledLine{
		statusLine,
		{text: m.promptLine()},
	}
	bottom = applyWidth(bottom, m.width)
	lines = append(lines, bottom...)
	return renderLines(lines)
}

func (m *Model) headerText() string {
	segments := []string{"toolshed"}
	if m.favoritesOnly {
		segments = append(segments, "favorites")
	}
	if m.sourceFilter != "" {
		segments = append(segments, "source:"+m.sourceFilter)
	}
	if m.history.CanUndo() || m.history.CanRedo() {
		segments = append(segments, "u:undo ctrl+r:redo")
	}
	return strings.Join(segments, "  ")
}

func (m *Model) tabBar() string {
	parts := make([]string, 0, len(m.order))
	for i, kind := range m.order {
		label := fmt.Sprintf(" %d %s ", i+1, kind)
		if count := len(m.tabs[kind].Full); count > 0 {
			label = fmt.Sprintf(" %d %s (%d) ", i+1, kind, count)
		}
		if kind == m.active {
			parts = append(parts, styles.TabActive.Render(label))
		} else {
			parts = append(parts, styles.TabInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) buildRowLine(tab *uistate.Tab, idx int) styledLine {
	row := tab.Rows[idx]
	indicator := " "
	lineStyle := styles.Row
	indicatorStyle := styles.Marker
	if idx == tab.Cursor {
		indicator = "▌"
		lineStyle = styles.RowCursor
	}
	mark := " "
	if tab.IsSelected(row.ID) {
		mark = "✓"
		if idx != tab.Cursor {
			lineStyle = styles.RowSelected
		}
	}
	fav := " "
	if row.Favorite {
		fav = "★"
	}

	badges := make([]string, 0, 3)
	if row.HasUpdate() {
		badges = append(badges, row.Version+"→"+row.Latest)
	} else if row.Version != "" {
		badges = append(badges, row.Version)
	}
	if row.Source != "" {
		badges = append(badges, row.Source)
	}
	if row.Stars > 0 {
		badges = append(badges, "★"+formatStars(row.Stars))
	}
	if len(row.Labels) > 0 {
		badges = append(badges, strings.Join(row.Labels, ","))
	}

	name := row.Name
	desc := row.Description
	text := fmt.Sprintf("%s [%s] %s %-24s %s", indicator, mark, fav, name, desc)
	if len(badges) > 0 {
		text += "  " + strings.Join(badges, " · ")
	}
	if m.width > 0 {
		if pad := m.width - len([]rune(text)); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          text,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

func formatStars(stars int64) string {
	if stars >= 1000 {
		return strconv.FormatInt(stars/1000, 10) + "k"
	}
	return strconv.FormatInt(stars, 10)
}

// discoverStatusLines renders one line of per-adapter progress while a
// session runs, plus the spinner.
func (m *Model) discoverStatusLines() []styledLine {
	session := m.agg.Session()
	if session == nil {
		return nil
	}
	parts := make([]string, 0, 8)
	for _, id := range session.AdapterIDs() {
		st, ok := session.Adapter(id)
		if !ok {
			continue
		}
		switch st.Status {
		case discover.StatusDone:
			parts = append(parts, styles.StatusDone.Render(fmt.Sprintf("%s:%d", id, st.Count)))
		case discover.StatusFailed:
			parts = append(parts, styles.StatusFailed.Render(id+":failed"))
		case discover.StatusInFlight:
			parts = append(parts, m.spinner.View()+id)
		default:
			parts = append(parts, styles.TabInactive.Render(id+":…"))
		}
	}
	status := fmt.Sprintf("%q  sort:%s  ", session.Query, session.Sort)
	if session.Cancelled() {
		status += "cancelled  "
	} else if session.Complete() {
		status += fmt.Sprintf("done in %s  ", session.Elapsed().Round(100*time.Millisecond))
	}
	return []styledLine{
		{text: status + strings.Join(parts, "  ")},
		{},
	}
}

func (m *Model) footerText() string {
	switch m.active {
	case uistate.TabDiscover:
		return "/ search  i install  s sort  c cancel  R readme  enter install  tab next  q quit"
	case uistate.TabBundles:
		return "↑/↓ move  enter details  i install bundle  / filter  tab next  q quit"
	default:
		return "↑/↓ move  space mark  i install  D remove  U update  * fav  / filter  : cmd  ? help  q quit"
	}
}

// promptLine renders the bottom input line for search and palette
// modes, empty otherwise.
func (m *Model) promptLine() string {
	switch m.mode {
	case ModeSearch:
		tab := m.currentTab()
		prompt := "/"
		if m.active == uistate.TabDiscover {
			prompt = "search> "
		}
		return styles.FilterPrompt.Render(prompt) + m.renderFilterInput(tab)
	case ModePalette:
		line := styles.FilterPrompt.Render(":") + styles.Filter.Render(m.palette.input)
		if len(m.palette.suggestions) > 0 {
			line += styles.MatchHint.Render("  " + strings.Join(m.palette.suggestions, " "))
		}
		return line
	default:
		tab := m.currentTab()
		if tab.Filter != "" {
			return styles.FilterPrompt.Render("/") + styles.Filter.Render(tab.Filter)
		}
		return ""
	}
}

// renderFilterInput draws the filter text with the blinking cursor at
// the filter-cursor position.
func (m *Model) renderFilterInput(tab *uistate.Tab) string {
	runes := []rune(tab.Filter)
	pos := tab.FilterCursorPos()
	head := string(runes[:pos])
	var under string
	var tail string
	if pos < len(runes) {
		under = string(runes[pos])
		tail = string(runes[pos+1:])
	} else {
		under = " "
	}
	cur := m.filterCursor
	cur.SetChar(under)
	return styles.Filter.Render(head) + cur.View() + styles.Filter.Render(tail)
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		result[i] = styledLine{
			text:          truncateText(line.text, width),
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	if strings.Contains(text, "\x1b") {
		if lipgloss.Width(text) > width {
			return truncate.StringWithTail(text, uint(width-1), "…")
		}
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
