package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"toolshed/internal/backend"
	"toolshed/internal/discover"
	"toolshed/internal/jobs"
	"toolshed/internal/runner"
	"toolshed/internal/state"
	"toolshed/internal/store"
	uistate "toolshed/internal/ui/state"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeMutator struct {
	mu        sync.Mutex
	mutations []store.Mutation
	usages    []string
	err       error
}

func (f *fakeMutator) Apply(m store.Mutation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.mutations = append(f.mutations, m)
	return nil
}

func (f *fakeMutator) RecordUsage(toolID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usages = append(f.usages, toolID)
	return nil
}

func (f *fakeMutator) applied() []store.Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Mutation(nil), f.mutations...)
}

type fakeRunner struct {
	mu       sync.Mutex
	commands []string
	output   runner.Output
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (runner.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, strings.Join(append([]string{name}, args...), " "))
	return f.output, nil
}

func newTestModel(t *testing.T) (*Harness, *fakeMutator, *jobs.Coordinator) {
	t.Helper()
	coord := jobs.New(2)
	t.Cleanup(func() {
		coord.Stop()
		coord.Wait()
	})
	mutator := &fakeMutator{}
	model := NewModel(Options{
		Coord:   coord,
		Agg:     discover.NewAggregator(coord, nil),
		Mutator: mutator,
		Runner:  &fakeRunner{},
		Width:   120,
		Height:  40,
		Sources: []string{"crates.io", "npm"},
		Theme:   "default",
	})
	return NewHarness(model), mutator, coord
}

func testTools() []state.Tool {
	return []state.Tool{
		{ID: "cargo:ripgrep", Name: "ripgrep", Source: "cargo", Installed: true, Version: "14.0.0", Stars: 45000},
		{ID: "cargo:bat", Name: "bat", Source: "cargo", Installed: true, Version: "0.24.0", LatestVersion: "0.25.1"},
		{ID: "npm:eslint", Name: "eslint", Source: "npm", Installed: false, Favorite: true},
		{ID: "cargo:fd", Name: "fd", Source: "cargo", Installed: false},
	}
}

func sendTools(h *Harness, tools []state.Tool) {
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTools, Data: tools}})
}

func TestSnapshotProjectsToolTabs(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	m := h.Model()
	if got := len(m.Tab(uistate.TabInstalled).Full); got != 2 {
		t.Fatalf("installed rows = %d, want 2", got)
	}
	if got := len(m.Tab(uistate.TabAvailable).Full); got != 2 {
		t.Fatalf("available rows = %d, want 2", got)
	}
	updates := m.Tab(uistate.TabUpdates)
	if len(updates.Full) != 1 || updates.Full[0].Name != "bat" {
		t.Fatalf("updates rows = %#v", updates.Full)
	}
}

func TestSnapshotPopulatesToolStore(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	m := h.Model()
	if got := len(m.tools.Entries()); got != 4 {
		t.Fatalf("tool store holds %d entries, want 4", got)
	}
	if _, ok := m.tools.Get("cargo:ripgrep"); !ok {
		t.Fatal("tool store lookup by id failed")
	}
	if m.tools.LastSync().IsZero() {
		t.Fatal("snapshot did not record a sync time")
	}
	h.SendKey("C")
	if view := h.View(); !strings.Contains(view, "synced:") {
		t.Fatalf("config overlay missing sync line:\n%s", view)
	}
}

func TestSnapshotKeepsCursorOnEntry(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("j")
	m := h.Model()
	id := m.Tab(uistate.TabInstalled).CurrentID()

	// Refresh with an extra installed tool sorted ahead of the cursor.
	tools := append(testTools(), state.Tool{ID: "cargo:atuin", Name: "atuin", Source: "cargo", Installed: true})
	sendTools(h, tools)
	if got := m.Tab(uistate.TabInstalled).CurrentID(); got != id {
		t.Fatalf("cursor moved off %s to %s on refresh", id, got)
	}
}

func TestMouseWheelScrollsRows(t *testing.T) {
	h, _, _ := newTestModel(t)
	var tools []state.Tool
	for i := 0; i < 8; i++ {
		tools = append(tools, state.Tool{
			ID:        fmt.Sprintf("cargo:tool-%d", i),
			Name:      fmt.Sprintf("tool-%d", i),
			Source:    "cargo",
			Installed: true,
		})
	}
	sendTools(h, tools)

	tab := h.Model().Tab(uistate.TabInstalled)
	h.Send(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if tab.Cursor != 3 {
		t.Fatalf("cursor = %d after wheel down, want 3", tab.Cursor)
	}
	h.Send(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if tab.Cursor != 0 {
		t.Fatalf("cursor = %d after wheel up, want 0", tab.Cursor)
	}
}

func TestTabSwitchIsUndoable(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("2")
	if got := h.Model().ActiveTab(); got != uistate.TabAvailable {
		t.Fatalf("active tab = %v, want Available", got)
	}
	h.SendKey("u")
	if got := h.Model().ActiveTab(); got != uistate.TabInstalled {
		t.Fatalf("undo did not restore tab, got %v", got)
	}
	h.SendKey("ctrl+r")
	if got := h.Model().ActiveTab(); got != uistate.TabAvailable {
		t.Fatalf("redo did not reapply tab switch, got %v", got)
	}
}

func TestSearchModeFiltersAndCommits(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("/")
	if h.Model().ActiveMode() != ModeSearch {
		t.Fatalf("mode = %v, want search", h.Model().ActiveMode())
	}
	h.Type("bat")
	tab := h.Model().Tab(uistate.TabInstalled)
	if len(tab.Rows) != 1 || tab.Rows[0].Name != "bat" {
		t.Fatalf("filtered rows = %#v", tab.Rows)
	}
	h.SendKey("enter")
	if h.Model().ActiveMode() != ModeNormal {
		t.Fatalf("mode after commit = %v", h.Model().ActiveMode())
	}
	if tab.Filter != "bat" {
		t.Fatalf("filter = %q", tab.Filter)
	}

	// Undo restores the pre-search filter.
	h.SendKey("u")
	if tab.Filter != "" {
		t.Fatalf("filter after undo = %q", tab.Filter)
	}
}

func TestSearchEscRestoresPriorFilter(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("/")
	h.Type("rip")
	h.SendKey("esc")
	tab := h.Model().Tab(uistate.TabInstalled)
	if tab.Filter != "" {
		t.Fatalf("filter = %q after esc, want empty", tab.Filter)
	}
	if h.Model().ActiveMode() != ModeNormal {
		t.Fatalf("mode = %v", h.Model().ActiveMode())
	}
}

func TestSelectionAndSortUndoInReverseOrder(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	tab := h.Model().Tab(uistate.TabInstalled)
	h.SendKey("space") // select bat (name sort puts it first)
	h.SendKey("j")
	h.SendKey("space") // select ripgrep
	h.SendKey("s")     // cycle sort to usage
	if tab.Sort != uistate.SortUsage {
		t.Fatalf("sort = %v", tab.Sort)
	}
	if len(tab.Selected) != 2 {
		t.Fatalf("selected = %d", len(tab.Selected))
	}

	h.SendKey("u") // undo sort
	if tab.Sort != uistate.SortName {
		t.Fatalf("sort after first undo = %v", tab.Sort)
	}
	if len(tab.Selected) != 2 {
		t.Fatalf("first undo touched selection: %d", len(tab.Selected))
	}
	h.SendKey("u") // undo second selection
	if len(tab.Selected) != 1 {
		t.Fatalf("selected after second undo = %d", len(tab.Selected))
	}
	h.SendKey("u") // undo first selection
	if len(tab.Selected) != 0 {
		t.Fatalf("selected after third undo = %d", len(tab.Selected))
	}
}

func TestSelectAllAndClear(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("ctrl+a")
	tab := h.Model().Tab(uistate.TabInstalled)
	if len(tab.Selected) != 2 {
		t.Fatalf("selected = %d, want 2", len(tab.Selected))
	}
	h.SendKey("x")
	if len(tab.Selected) != 0 {
		t.Fatalf("selected after clear = %d", len(tab.Selected))
	}
}

func TestFavoritesOnlyToggle(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("F")
	m := h.Model()
	available := m.Tab(uistate.TabAvailable)
	if len(available.Full) != 1 || available.Full[0].Name != "eslint" {
		t.Fatalf("favorites-only available rows = %#v", available.Full)
	}
	h.SendKey("F")
	if len(available.Full) != 2 {
		t.Fatalf("rows after toggle back = %d", len(available.Full))
	}
}

// cmdsContainQuit executes collected commands, unwrapping batches,
// and reports whether any produced the quit message.
func cmdsContainQuit(cmds []tea.Cmd) bool {
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		switch msg := cmd().(type) {
		case tea.QuitMsg:
			return true
		case tea.BatchMsg:
			if cmdsContainQuit(msg) {
				return true
			}
		}
	}
	return false
}

func TestCtrlCQuitsInSearchMode(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("/")
	if h.Model().ActiveMode() != ModeSearch {
		t.Fatalf("mode = %v, want search", h.Model().ActiveMode())
	}
	h.DrainCmds()
	h.SendKey("ctrl+c")
	if !cmdsContainQuit(h.DrainCmds()) {
		t.Fatalf("ctrl+c in search mode did not quit (mode now %v)", h.Model().ActiveMode())
	}
}

func TestCtrlCQuitsInConfirmMode(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("D")
	if h.Model().ActiveMode() != ModeConfirm {
		t.Fatalf("mode = %v, want confirm", h.Model().ActiveMode())
	}
	h.DrainCmds()
	h.SendKey("ctrl+c")
	if !cmdsContainQuit(h.DrainCmds()) {
		t.Fatalf("ctrl+c in confirm mode did not quit (mode now %v)", h.Model().ActiveMode())
	}
}

func TestSearchModeForwardsCursorBlink(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("/")
	h.Send(cursor.BlinkMsg{})
	if h.Model().ActiveMode() != ModeSearch {
		t.Fatalf("blink message changed mode to %v", h.Model().ActiveMode())
	}
	if view := h.View(); !strings.Contains(view, "search>") {
		t.Fatalf("search prompt missing after blink:\n%s", view)
	}
}

func TestUninstallRequiresConfirm(t *testing.T) {
	h, mutator, _ := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("D")
	if h.Model().ActiveMode() != ModeConfirm {
		t.Fatalf("mode = %v, want confirm", h.Model().ActiveMode())
	}
	h.SendKey("n")
	if h.Model().ActiveMode() != ModeNormal {
		t.Fatalf("mode after decline = %v", h.Model().ActiveMode())
	}
	if len(mutator.applied()) != 0 {
		t.Fatalf("declined uninstall still mutated: %#v", mutator.applied())
	}
}

func TestUninstallConfirmRunsJob(t *testing.T) {
	h, mutator, coord := newTestModel(t)
	sendTools(h, testTools())

	h.SendKey("D")
	h.SendKey("y")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt := <-coord.Events():
			if evt.Terminal && evt.Kind == jobs.KindUninstall {
				if evt.Err != nil {
					t.Fatalf("uninstall job failed: %v", evt.Err)
				}
				applied := mutator.applied()
				if len(applied) != 1 || applied[0].Kind != store.MutationSetUninstalled {
					t.Fatalf("mutations = %#v", applied)
				}
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for uninstall job")
		}
	}
}

// blockingRunner holds every invocation open until the context is
// cancelled, keeping the job's target busy for the whole test.
type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, name string, args ...string) (runner.Output, error) {
	<-ctx.Done()
	return runner.Output{}, ctx.Err()
}

func TestInstallRejectsBusyTarget(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())
	h.Model().runner = blockingRunner{}

	h.SendKey("2") // Available tab
	h.SendKey("i")
	h.SendKey("i")
	if msg := h.Model().errMsg; !strings.Contains(msg, "busy") {
		t.Fatalf("errMsg = %q, want busy notice", msg)
	}
}

func TestDiscoverSearchSubmitAndResults(t *testing.T) {
	h, _, _ := newTestModel(t)
	m := h.Model()

	h.SendKey("5")
	h.SendKey("/")
	h.Type("rip")
	h.SendKey("enter")

	session := m.agg.Session()
	if session == nil || session.Query != "rip" {
		t.Fatalf("session = %#v", session)
	}

	result := discover.NewResult("ripgrep", "recursive grep", discover.OriginCratesIo, "cargo install ripgrep")
	result.Stars = 45000
	h.Send(jobEventMsg{event: jobs.Event{
		Kind: jobs.KindSearch,
		Payload: discover.Message{
			Generation: session.Generation,
			Adapter:    "crates.io",
			Results:    []discover.Result{result},
		},
	}})

	tab := m.Tab(uistate.TabDiscover)
	if len(tab.Rows) != 1 || tab.Rows[0].Name != "ripgrep" {
		t.Fatalf("discover rows = %#v", tab.Rows)
	}
}

func TestStaleDiscoverMessageIgnored(t *testing.T) {
	h, _, _ := newTestModel(t)
	m := h.Model()

	h.SendKey("5")
	h.SendKey("/")
	h.Type("rip")
	h.SendKey("enter")
	session := m.agg.Session()

	stale := discover.NewResult("oldtool", "stale", discover.OriginNpm, "npm install -g oldtool")
	h.Send(jobEventMsg{event: jobs.Event{
		Kind: jobs.KindSearch,
		Payload: discover.Message{
			Generation: session.Generation - 1,
			Adapter:    "npm",
			Results:    []discover.Result{stale},
		},
	}})

	tab := m.Tab(uistate.TabDiscover)
	if len(tab.Rows) != 0 {
		t.Fatalf("stale message mutated rows: %#v", tab.Rows)
	}
}

func TestPaletteThemeCommand(t *testing.T) {
	h, _, _ := newTestModel(t)

	h.SendKey(":")
	if h.Model().ActiveMode() != ModePalette {
		t.Fatalf("mode = %v", h.Model().ActiveMode())
	}
	h.Type("theme mono")
	h.SendKey("enter")
	if h.Model().ActiveMode() != ModeNormal {
		t.Fatalf("mode after command = %v", h.Model().ActiveMode())
	}
	if h.Model().themeName != "mono" {
		t.Fatalf("theme = %q", h.Model().themeName)
	}
}

func TestPaletteTabJump(t *testing.T) {
	h, _, _ := newTestModel(t)

	h.SendKey(":")
	h.Type("discover")
	h.SendKey("enter")
	if got := h.Model().ActiveTab(); got != uistate.TabDiscover {
		t.Fatalf("active tab = %v", got)
	}
}

func TestPaletteUnknownCommand(t *testing.T) {
	h, _, _ := newTestModel(t)

	h.SendKey(":")
	h.Type("frobnicate")
	h.SendKey("enter")
	if msg := h.Model().errMsg; !strings.Contains(msg, "unknown command") {
		t.Fatalf("errMsg = %q", msg)
	}
}

func TestPaletteHistoryNavigation(t *testing.T) {
	h, _, _ := newTestModel(t)

	h.SendKey(":")
	h.Type("refresh")
	h.SendKey("enter")
	h.SendKey(":")
	h.SendKey("up")
	if got := h.Model().palette.input; got != "refresh" {
		t.Fatalf("history recall = %q", got)
	}
	h.SendKey("down")
	if got := h.Model().palette.input; got != "" {
		t.Fatalf("history forward = %q", got)
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	h, _, _ := newTestModel(t)

	h.SendKey("?")
	if h.Model().ActiveMode() != ModeHelp {
		t.Fatalf("mode = %v", h.Model().ActiveMode())
	}
	if view := h.View(); !strings.Contains(view, "toggle favorite") {
		t.Fatalf("help view missing bindings:\n%s", view)
	}
	h.SendKey("esc")
	if h.Model().ActiveMode() != ModeNormal {
		t.Fatalf("mode after dismiss = %v", h.Model().ActiveMode())
	}
}

func TestOverlayDoesNotStack(t *testing.T) {
	h, _, _ := newTestModel(t)

	h.SendKey("?")
	if h.Model().ActiveMode() != ModeHelp {
		t.Fatalf("mode = %v", h.Model().ActiveMode())
	}
	// A readme arriving while an overlay is open must not replace it.
	h.Model().applyReadme(readmeLoadedMsg{tool: "ripgrep", rendered: "# ripgrep"})
	if h.Model().ActiveMode() != ModeHelp {
		t.Fatalf("overlay replaced: mode = %v", h.Model().ActiveMode())
	}
}

func TestConfigOverlayShowsThemeAndSources(t *testing.T) {
	h, _, _ := newTestModel(t)

	h.SendKey("C")
	if h.Model().ActiveMode() != ModeConfig {
		t.Fatalf("mode = %v", h.Model().ActiveMode())
	}
	if view := h.View(); !strings.Contains(view, "theme:") {
		t.Fatalf("config view missing theme line:\n%s", view)
	}
	h.SendKey("esc")
	if h.Model().ActiveMode() != ModeNormal {
		t.Fatalf("mode after dismiss = %v", h.Model().ActiveMode())
	}
}

func TestFatalStoreErrorOpensErrorMode(t *testing.T) {
	h, _, _ := newTestModel(t)

	h.Send(backendEventMsg{event: backend.Event{
		Kind: backend.KindTools,
		Err:  context.DeadlineExceeded,
	}})
	if h.Model().ActiveMode() != ModeError {
		t.Fatalf("mode = %v, want error", h.Model().ActiveMode())
	}
	h.SendKey("esc")
	if h.Model().ActiveMode() != ModeNormal {
		t.Fatalf("mode after dismiss = %v", h.Model().ActiveMode())
	}
}

func TestViewRendersTabsAndRows(t *testing.T) {
	h, _, _ := newTestModel(t)
	sendTools(h, testTools())

	view := h.View()
	for _, want := range []string{"Installed", "Discover", "ripgrep", "bat"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBundleTabProjection(t *testing.T) {
	h, _, _ := newTestModel(t)
	h.Send(backendEventMsg{event: backend.Event{
		Kind: backend.KindBundles,
		Data: []state.Bundle{{ID: "b1", Name: "rust-dev", Tools: []string{"cargo:ripgrep"}}},
	}})

	tab := h.Model().Tab(uistate.TabBundles)
	if len(tab.Full) != 1 || tab.Full[0].Name != "rust-dev" {
		t.Fatalf("bundle rows = %#v", tab.Full)
	}
}
