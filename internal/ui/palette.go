package ui

import (
	"sort"
	"strings"

	"toolshed/internal/logging/events"
	"toolshed/internal/theme"
	uistate "toolshed/internal/ui/state"

	tea "github.com/charmbracelet/bubbletea"
	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
)

const maxPaletteSuggestions = 5

// paletteVerbs maps every accepted command spelling to its canonical
// verb. Arguments follow the verb separated by whitespace.
var paletteVerbs = map[string]string{
	"q":         "quit",
	"quit":      "quit",
	"exit":      "quit",
	"h":         "help",
	"help":      "help",
	"r":         "refresh",
	"refresh":   "refresh",
	"t":         "theme",
	"theme":     "theme",
	"s":         "sort",
	"sort":      "sort",
	"filter":    "filter",
	"source":    "filter",
	"src":       "filter",
	"fav":       "favorites",
	"favorites": "favorites",
	"starred":   "favorites",
	"label":     "label",
	"config":    "config",
	"cfg":       "config",
	"1":         "installed",
	"installed": "installed",
	"2":         "available",
	"available": "available",
	"3":         "updates",
	"updates":   "updates",
	"4":         "bundles",
	"bundles":   "bundles",
	"5":         "discover",
	"discover":  "discover",
}

type paletteState struct {
	input       string
	history     []string
	historyIdx  int
	draft       string
	suggestions []string
}

func newPaletteState() paletteState {
	return paletteState{historyIdx: -1}
}

func (m *Model) openPalette() {
	m.palette.input = ""
	m.palette.historyIdx = -1
	m.palette.draft = ""
	m.palette.suggestions = nil
	m.setMode(ModePalette)
}

func (m *Model) handlePaletteKey(key tea.KeyMsg) tea.Cmd {
	p := &m.palette
	switch key.String() {
	case "esc", "ctrl+c":
		m.popMode()
		return nil
	case "enter":
		input := strings.TrimSpace(p.input)
		m.popMode()
		if input == "" {
			return nil
		}
		p.history = append(p.history, input)
		return m.runPaletteCommand(input)
	case "tab":
		if len(p.suggestions) > 0 {
			p.input = p.suggestions[0]
			p.suggestions = suggestCommands(p.input)
		}
		return nil
	case "up":
		if len(p.history) == 0 {
			return nil
		}
		if p.historyIdx < 0 {
			p.draft = p.input
			p.historyIdx = len(p.history)
		}
		if p.historyIdx > 0 {
			p.historyIdx--
			p.input = p.history[p.historyIdx]
		}
		return nil
	case "down":
		if p.historyIdx < 0 {
			return nil
		}
		p.historyIdx++
		if p.historyIdx >= len(p.history) {
			p.historyIdx = -1
			p.input = p.draft
		} else {
			p.input = p.history[p.historyIdx]
		}
		return nil
	case "backspace":
		if p.input != "" {
			runes := []rune(p.input)
			p.input = string(runes[:len(runes)-1])
		}
	case "ctrl+u":
		p.input = ""
	case "ctrl+w":
		p.input = strings.TrimRight(p.input, " ")
		if idx := strings.LastIndexByte(p.input, ' '); idx >= 0 {
			p.input = p.input[:idx+1]
		} else {
			p.input = ""
		}
	default:
		switch key.Type {
		case tea.KeyRunes:
			p.input += string(key.Runes)
		case tea.KeySpace:
			p.input += " "
		}
	}
	p.suggestions = suggestCommands(p.input)
	return nil
}

// suggestCommands ranks canonical verbs against the typed prefix.
func suggestCommands(input string) []string {
	verb := strings.TrimSpace(input)
	if idx := strings.IndexByte(verb, ' '); idx >= 0 {
		return nil
	}
	if verb == "" {
		return nil
	}
	seen := map[string]struct{}{}
	var canonical []string
	for _, v := range paletteVerbs {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		canonical = append(canonical, v)
	}
	sort.Strings(canonical)
	ranks := fuzzysearch.RankFindFold(verb, canonical)
	sort.Sort(ranks)
	suggestions := make([]string, 0, maxPaletteSuggestions)
	for _, r := range ranks {
		suggestions = append(suggestions, r.Target)
		if len(suggestions) == maxPaletteSuggestions {
			break
		}
	}
	return suggestions
}

func (m *Model) runPaletteCommand(input string) tea.Cmd {
	verb, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)
	canonical, ok := paletteVerbs[strings.ToLower(verb)]
	if !ok {
		m.setError("unknown command: " + verb)
		return nil
	}
	switch canonical {
	case "quit":
		return m.quit()
	case "help":
		m.setMode(ModeHelp)
	case "config":
		m.setMode(ModeConfig)
	case "refresh":
		m.refreshSnapshots()
	case "theme":
		m.applyTheme(args)
	case "sort":
		m.applySortCommand(args)
	case "filter":
		m.applySourceFilter(args)
	case "favorites":
		m.favoritesOnly = !m.favoritesOnly
		m.refreshToolTabs()
	case "label":
		m.applyLabelCommand(args)
	case "installed":
		m.switchTab(uistate.TabInstalled, true)
	case "available":
		m.switchTab(uistate.TabAvailable, true)
	case "updates":
		m.switchTab(uistate.TabUpdates, true)
	case "bundles":
		m.switchTab(uistate.TabBundles, true)
	case "discover":
		m.switchTab(uistate.TabDiscover, true)
	}
	return nil
}

func (m *Model) applyTheme(name string) {
	if name == "" {
		m.setInfo("themes: " + strings.Join(theme.Names(), ", "))
		return
	}
	found := false
	for _, known := range theme.Names() {
		if known == name {
			found = true
			break
		}
	}
	if !found {
		m.setError("unknown theme: " + name)
		return
	}
	theme.Configure(name)
	m.themeName = name
	m.setInfo("theme: " + name)
}

func (m *Model) applySortCommand(field string) {
	tab := m.currentTab()
	if field == "" {
		m.cycleSort(tab)
		return
	}
	var key uistate.SortKey
	switch strings.ToLower(field) {
	case "name":
		key = uistate.SortName
	case "usage":
		key = uistate.SortUsage
	case "recent":
		key = uistate.SortRecent
	case "stars":
		key = uistate.SortStars
	default:
		m.setError("unknown sort field: " + field)
		return
	}
	m.history.Record(uistate.SortAction(tab.Kind, tab.Sort))
	events.Undo.Record(uistate.ActionSort.String())
	tab.SetSort(key)
	tab.EnsureCursorVisible(m.maxVisibleRows())
}

// applySourceFilter narrows the tool tabs to entries from one source.
// An empty argument clears the narrowing.
func (m *Model) applySourceFilter(source string) {
	m.sourceFilter = strings.ToLower(source)
	m.refreshToolTabs()
	if source == "" {
		m.setInfo("source filter cleared")
	} else {
		m.setInfo("source: " + source)
	}
}

func (m *Model) applyLabelCommand(args string) {
	if m.active == uistate.TabDiscover || m.active == uistate.TabBundles {
		m.setError("labels apply to inventory tools")
		return
	}
	row, ok := m.currentTab().CurrentRow()
	if !ok {
		return
	}
	if args == "" {
		m.setError("usage: label <text>")
		return
	}
	next := toggleLabel(row.Labels, args)
	m.applyLabels(row.ID, row.Labels, next)
}
