package ui

import (
	"reflect"
	"strings"
	"time"

	"toolshed/internal/backend"
	"toolshed/internal/discover"
	"toolshed/internal/jobs"
	"toolshed/internal/logging/events"
	"toolshed/internal/readme"
	"toolshed/internal/runner"
	"toolshed/internal/state"
	"toolshed/internal/store"
	"toolshed/internal/theme"
	uistate "toolshed/internal/ui/state"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode identifies the active input mode. Exactly one is active;
// overlay modes nest at most one deep over prevMode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModePalette
	ModeConfirm
	ModeHelp
	ModeConfig
	ModeDetails
	ModeReadme
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSearch:
		return "search"
	case ModePalette:
		return "palette"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	case ModeConfig:
		return "config"
	case ModeDetails:
		return "details"
	case ModeReadme:
		return "readme"
	case ModeError:
		return "error"
	default:
		return "unknown"
	}
}

func (m Mode) overlay() bool {
	switch m {
	case ModeHelp, ModeConfig, ModeDetails, ModeReadme, ModeError:
		return true
	}
	return false
}

var styles = theme.Default()

const undoCapacity = 100

type msgHandler func(tea.Msg) tea.Cmd

// Mutator is the store surface the model writes through.
type Mutator interface {
	Apply(m store.Mutation) error
	RecordUsage(toolID string, at time.Time) error
}

// Options collects the collaborators a Model needs.
type Options struct {
	Watcher  *backend.Watcher
	Coord    *jobs.Coordinator
	Agg      *discover.Aggregator
	Adapters []discover.Adapter
	Mutator  Mutator
	Runner   runner.Runner
	Readme   *readme.Fetcher
	Width    int
	Height   int
	Sources  []string
	Theme    string
}

type confirmState struct {
	title  string
	prompt string
	accept func() tea.Cmd
}

// Model implements the Bubble Tea model for the dashboard.
type Model struct {
	tabs   map[uistate.Kind]*uistate.Tab
	order  []uistate.Kind
	active uistate.Kind

	history *uistate.History

	tools   state.ToolStore
	bundles state.BundleStore

	mode     Mode
	prevMode Mode

	confirm     *confirmState
	palette     paletteState
	details     uistate.Row
	readmeTool  string
	readmeBody  string
	fatalErr    string
	searchPrior string
	rangeAnchor string

	favoritesOnly bool
	sourceFilter  string
	historyIdx    int
	historyDraft  string

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	watcher   *backend.Watcher
	coord     *jobs.Coordinator
	agg       *discover.Aggregator
	adapters  []discover.Adapter
	mutator   Mutator
	runner    runner.Runner
	readme    *readme.Fetcher
	sources   []string
	themeName string

	spinner           spinner.Model
	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI state with the tab set and collaborators.
func NewModel(opts Options) *Model {
	tabs := make(map[uistate.Kind]*uistate.Tab)
	order := uistate.Kinds()
	for _, kind := range order {
		tabs[kind] = uistate.NewTab(kind)
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	if styles.Spinner != nil {
		sp.Style = *styles.Spinner
	}
	m := &Model{
		tabs:       tabs,
		order:      order,
		active:     uistate.TabInstalled,
		history:    uistate.NewHistory(undoCapacity),
		tools:      state.NewToolStore(),
		bundles:    state.NewBundleStore(),
		mode:       ModeNormal,
		prevMode:   ModeNormal,
		watcher:    opts.Watcher,
		coord:      opts.Coord,
		agg:        opts.Agg,
		adapters:   opts.Adapters,
		mutator:    opts.Mutator,
		runner:     opts.Runner,
		readme:     opts.Readme,
		sources:    opts.Sources,
		themeName:  opts.Theme,
		historyIdx: -1,
		spinner:    sp,
		palette:    newPaletteState(),
	}
	if m.readme == nil {
		m.readme = readme.NewFetcher()
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.RowCursor != nil {
		c.Style = *styles.RowCursor
	}
	if styles.Filter != nil {
		c.TextStyle = *styles.Filter
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.watcher != nil {
		cmds = append(cmds, waitForBackendEvent(m.watcher))
	}
	if m.coord != nil {
		cmds = append(cmds, waitForJobEvent(m.coord))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(jobEventMsg{}):       m.handleJobEventMsg,
		reflect.TypeOf(jobsDoneMsg{}):       m.handleJobsDoneMsg,
		reflect.TypeOf(readmeLoadedMsg{}):   m.handleReadmeLoadedMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.currentTab().EnsureCursorVisible(m.maxVisibleRows())
	return nil
}

// currentTab returns the active tab's state.
func (m *Model) currentTab() *uistate.Tab {
	return m.tabs[m.active]
}

// Tab exposes a tab's state for tests and the view layer.
func (m *Model) Tab(kind uistate.Kind) *uistate.Tab {
	return m.tabs[kind]
}

// ActiveTab reports the active tab kind.
func (m *Model) ActiveTab() uistate.Kind { return m.active }

// ActiveMode reports the active input mode.
func (m *Model) ActiveMode() Mode { return m.mode }

func (m *Model) setMode(next Mode) {
	if next == m.mode {
		return
	}
	// Overlays never stack; the blocking error overlay is the only one
	// allowed to replace another.
	if next.overlay() && m.mode.overlay() && next != ModeError {
		return
	}
	events.UI.Mode(m.mode.String(), next.String())
	// Overlays remember only one level of previous mode.
	if next.overlay() || next == ModeConfirm || next == ModeSearch || next == ModePalette {
		if !m.mode.overlay() {
			m.prevMode = m.mode
		}
	}
	m.mode = next
}

// popMode returns to the previously active mode (single slot).
func (m *Model) popMode() {
	events.UI.Mode(m.mode.String(), m.prevMode.String())
	m.mode = m.prevMode
	m.prevMode = ModeNormal
}

func (m *Model) switchTab(next uistate.Kind, record bool) {
	if next == m.active {
		return
	}
	if record {
		m.history.Record(uistate.TabSwitchAction(m.active))
		events.Undo.Record(uistate.ActionTabSwitch.String())
	}
	events.UI.TabSwitch(m.active.String(), next.String())
	m.active = next
	m.rangeAnchor = ""
	m.currentTab().EnsureCursorVisible(m.maxVisibleRows())
}

func (m *Model) nextTab() {
	for i, kind := range m.order {
		if kind == m.active {
			m.switchTab(m.order[(i+1)%len(m.order)], true)
			return
		}
	}
}

func (m *Model) prevTab() {
	for i, kind := range m.order {
		if kind == m.active {
			m.switchTab(m.order[(i-1+len(m.order))%len(m.order)], true)
			return
		}
	}
}

func (m *Model) setInfo(text string) {
	m.infoMsg = text
	m.infoExpire = time.Now().Add(4 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg != "" && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
	}
}

func (m *Model) setError(text string) {
	m.errMsg = text
}

// fatal switches to the blocking error overlay.
func (m *Model) fatal(err error) {
	events.UI.Error(err)
	m.fatalErr = err.Error()
	m.setMode(ModeError)
}

func (m *Model) maxVisibleRows() int {
	// Header, tab bar, column headings, status, and footer rows.
	reserved := 6
	if m.height <= reserved {
		return 10
	}
	return m.height - reserved
}

// undo applies the most recent undoable action.
func (m *Model) undo() {
	action, ok := m.history.Undo()
	if !ok {
		m.setInfo("nothing to undo")
		return
	}
	events.Undo.Undo(action.Kind.String())
	m.history.PushRedo(m.applyAction(action))
}

// redo reapplies the most recently undone action.
func (m *Model) redo() {
	action, ok := m.history.Redo()
	if !ok {
		m.setInfo("nothing to redo")
		return
	}
	events.Undo.Redo(action.Kind.String())
	m.history.PushUndo(m.applyAction(action))
}

// applyAction applies an action and returns its counterpart.
func (m *Model) applyAction(a uistate.Action) uistate.Action {
	switch a.Kind {
	case uistate.ActionTabSwitch:
		counter := uistate.TabSwitchAction(m.active)
		m.switchTab(a.PrevTab, false)
		return counter
	case uistate.ActionLabelEdit:
		counter := uistate.LabelEditAction(a.ToolID, m.labelsFor(a.ToolID))
		if err := m.mutator.Apply(store.Mutation{
			Kind:   store.MutationSetLabels,
			ToolID: a.ToolID,
			Labels: a.Labels,
		}); err != nil {
			m.setError(err.Error())
		} else if m.watcher != nil {
			m.watcher.Kick()
		}
		return counter
	default:
		tab := m.tabs[a.Tab]
		if tab == nil {
			tab = m.currentTab()
		}
		return uistate.ApplyToTab(tab, a)
	}
}

func (m *Model) labelsFor(toolID string) []string {
	tool, ok := m.tools.Get(toolID)
	if !ok {
		return nil
	}
	return append([]string(nil), tool.Labels...)
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) {
	if evt.Err != nil {
		events.Store.SnapshotError(evt.Err)
		m.fatal(evt.Err)
		return
	}
	switch evt.Kind {
	case backend.KindTools:
		tools, ok := evt.Data.([]state.Tool)
		if !ok {
			return
		}
		m.tools.SetEntries(tools)
		m.tools.SetLastSync(time.Now())
		m.refreshToolTabs()
	case backend.KindBundles:
		bundles, ok := evt.Data.([]state.Bundle)
		if !ok {
			return
		}
		m.bundles.SetEntries(bundles)
		m.refreshBundleTab()
	}
}

func (m *Model) refreshToolTabs() {
	var installed, available, updates []uistate.Row
	for _, tool := range m.tools.Entries() {
		if m.favoritesOnly && !tool.Favorite {
			continue
		}
		if m.sourceFilter != "" && strings.ToLower(tool.Source) != m.sourceFilter {
			continue
		}
		row := rowForTool(tool)
		switch {
		case tool.HasUpdate():
			updates = append(updates, row)
			installed = append(installed, row)
		case tool.Installed:
			installed = append(installed, row)
		default:
			available = append(available, row)
		}
	}
	m.tabs[uistate.TabInstalled].SetRows(installed)
	m.tabs[uistate.TabAvailable].SetRows(available)
	m.tabs[uistate.TabUpdates].SetRows(updates)
}

func (m *Model) refreshBundleTab() {
	bundles := m.bundles.Entries()
	rows := make([]uistate.Row, 0, len(bundles))
	for _, bundle := range bundles {
		rows = append(rows, uistate.Row{
			ID:          bundle.ID,
			Name:        bundle.Name,
			Description: bundle.Description,
			Source:      "bundle",
			UsageCount:  len(bundle.Tools),
		})
	}
	m.tabs[uistate.TabBundles].SetRows(rows)
}

func rowForTool(tool state.Tool) uistate.Row {
	return uistate.Row{
		ID:          tool.ID,
		Name:        tool.Name,
		Description: tool.Description,
		Source:      tool.Source,
		Version:     tool.Version,
		Latest:      tool.LatestVersion,
		Installed:   tool.Installed,
		Favorite:    tool.Favorite,
		Stars:       tool.Stars,
		UsageCount:  tool.UsageCount,
		LastUsed:    tool.LastUsed,
		Labels:      tool.Labels,
	}
}
