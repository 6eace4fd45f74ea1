package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"toolshed/internal/jobs"
	"toolshed/internal/runner"
	"toolshed/internal/state"
	"toolshed/internal/store"
	uistate "toolshed/internal/ui/state"

	tea "github.com/charmbracelet/bubbletea"
)

// actionTargets returns the rows an install-style action applies to:
// the selection when one exists, otherwise the row under the cursor.
func (m *Model) actionTargets() []uistate.Row {
	tab := m.currentTab()
	if rows := tab.SelectedRows(); len(rows) > 0 {
		return rows
	}
	if row, ok := tab.CurrentRow(); ok {
		return []uistate.Row{row}
	}
	return nil
}

func (m *Model) installSelection() tea.Cmd {
	targets := m.actionTargets()
	if len(targets) == 0 {
		return nil
	}
	if m.active == uistate.TabBundles {
		return m.installBundles(targets)
	}
	for _, row := range targets {
		if m.active != uistate.TabDiscover && row.Installed && !row.HasUpdate() {
			m.setInfo(fmt.Sprintf("%s already installed", row.Name))
			continue
		}
		m.enqueueInstall(row)
	}
	return nil
}

func (m *Model) enqueueInstall(row uistate.Row) {
	command := m.installCommand(row)
	if command == "" {
		m.setError(fmt.Sprintf("no install command for %s", row.Name))
		return
	}
	toolID := row.ID
	version := row.Latest
	mutate := m.mutator
	run := m.runner
	_, err := m.coord.Enqueue(jobs.Job{
		Kind:   jobs.KindInstall,
		Target: toolID,
		Run: func(ctx context.Context, post func(interface{})) error {
			out, err := runner.Shell(ctx, run, command)
			if err != nil {
				return err
			}
			if out.ExitCode != 0 {
				return fmt.Errorf("install failed: %s", firstLine(out.Stderr))
			}
			if strings.HasPrefix(toolID, "discover:") {
				return nil
			}
			if err := mutate.Apply(store.Mutation{
				Kind:    store.MutationSetInstalled,
				ToolID:  toolID,
				Version: version,
			}); err != nil {
				return err
			}
			return mutate.RecordUsage(toolID, time.Now())
		},
	})
	m.reportEnqueue("install", row.Name, err)
}

func (m *Model) installBundles(targets []uistate.Row) tea.Cmd {
	for _, bundleRow := range targets {
		bundle, ok := m.bundleFor(bundleRow.ID)
		if !ok {
			continue
		}
		queued := 0
		for _, toolID := range bundle.Tools {
			tool, ok := m.toolFor(toolID)
			if !ok || tool.Installed {
				continue
			}
			m.enqueueInstall(rowForTool(tool))
			queued++
		}
		if queued == 0 {
			m.setInfo(fmt.Sprintf("bundle %s already installed", bundle.Name))
		} else {
			m.setInfo(fmt.Sprintf("installing %d tools from %s", queued, bundle.Name))
		}
	}
	return nil
}

func (m *Model) uninstallSelection() tea.Cmd {
	if m.active == uistate.TabDiscover || m.active == uistate.TabBundles {
		return nil
	}
	var targets []uistate.Row
	for _, row := range m.actionTargets() {
		if row.Installed {
			targets = append(targets, row)
		}
	}
	if len(targets) == 0 {
		m.setInfo("nothing installed to remove")
		return nil
	}
	names := make([]string, len(targets))
	for i, row := range targets {
		names[i] = row.Name
	}
	m.confirm = &confirmState{
		title:  "Uninstall",
		prompt: fmt.Sprintf("Uninstall %s?", strings.Join(names, ", ")),
		accept: func() tea.Cmd {
			for _, row := range targets {
				m.enqueueUninstall(row)
			}
			return nil
		},
	}
	m.setMode(ModeConfirm)
	return nil
}

func (m *Model) enqueueUninstall(row uistate.Row) {
	command := m.uninstallCommand(row)
	if command == "" {
		m.setError(fmt.Sprintf("no uninstall command for %s", row.Name))
		return
	}
	toolID := row.ID
	mutate := m.mutator
	run := m.runner
	_, err := m.coord.Enqueue(jobs.Job{
		Kind:   jobs.KindUninstall,
		Target: toolID,
		Run: func(ctx context.Context, post func(interface{})) error {
			out, err := runner.Shell(ctx, run, command)
			if err != nil {
				return err
			}
			if out.ExitCode != 0 {
				return fmt.Errorf("uninstall failed: %s", firstLine(out.Stderr))
			}
			return mutate.Apply(store.Mutation{
				Kind:   store.MutationSetUninstalled,
				ToolID: toolID,
			})
		},
	})
	m.reportEnqueue("uninstall", row.Name, err)
}

func (m *Model) updateSelection() tea.Cmd {
	var targets []uistate.Row
	for _, row := range m.actionTargets() {
		if row.HasUpdate() {
			targets = append(targets, row)
		}
	}
	if len(targets) == 0 {
		m.setInfo("no updates pending")
		return nil
	}
	for _, row := range targets {
		m.enqueueUpdate(row)
	}
	return nil
}

func (m *Model) enqueueUpdate(row uistate.Row) {
	command := m.updateCommand(row)
	if command == "" {
		m.setError(fmt.Sprintf("no update command for %s", row.Name))
		return
	}
	toolID := row.ID
	version := row.Latest
	mutate := m.mutator
	run := m.runner
	_, err := m.coord.Enqueue(jobs.Job{
		Kind:   jobs.KindUpdate,
		Target: toolID,
		Run: func(ctx context.Context, post func(interface{})) error {
			out, err := runner.Shell(ctx, run, command)
			if err != nil {
				return err
			}
			if out.ExitCode != 0 {
				return fmt.Errorf("update failed: %s", firstLine(out.Stderr))
			}
			return mutate.Apply(store.Mutation{
				Kind:    store.MutationSetInstalled,
				ToolID:  toolID,
				Version: version,
			})
		},
	})
	m.reportEnqueue("update", row.Name, err)
}

func (m *Model) reportEnqueue(verb, name string, err error) {
	switch {
	case err == nil:
		m.setInfo(fmt.Sprintf("%s %s queued", verb, name))
	case errors.Is(err, jobs.ErrTargetBusy):
		m.setError(fmt.Sprintf("%s busy, wait for the current job", name))
	default:
		m.setError(err.Error())
	}
}

func (m *Model) toggleFavorite() tea.Cmd {
	if m.active == uistate.TabDiscover || m.active == uistate.TabBundles {
		return nil
	}
	row, ok := m.currentTab().CurrentRow()
	if !ok {
		return nil
	}
	if err := m.mutator.Apply(store.Mutation{
		Kind:   store.MutationToggleFavorite,
		ToolID: row.ID,
	}); err != nil {
		m.setError(err.Error())
		return nil
	}
	if m.watcher != nil {
		m.watcher.Kick()
	}
	return nil
}

// editLabels cycles a placeholder label on the current tool. Label text
// entry rides on the palette's "label" command; the key binding applies
// the most common edit, toggling the pinned label.
func (m *Model) editLabels() tea.Cmd {
	if m.active == uistate.TabDiscover || m.active == uistate.TabBundles {
		return nil
	}
	row, ok := m.currentTab().CurrentRow()
	if !ok {
		return nil
	}
	next := toggleLabel(row.Labels, "pinned")
	return m.applyLabels(row.ID, row.Labels, next)
}

// applyLabels writes a label set and records the undo action.
func (m *Model) applyLabels(toolID string, previous, next []string) tea.Cmd {
	m.history.Record(uistate.LabelEditAction(toolID, previous))
	if err := m.mutator.Apply(store.Mutation{
		Kind:   store.MutationSetLabels,
		ToolID: toolID,
		Labels: next,
	}); err != nil {
		m.setError(err.Error())
		return nil
	}
	if m.watcher != nil {
		m.watcher.Kick()
	}
	return nil
}

func toggleLabel(labels []string, label string) []string {
	next := make([]string, 0, len(labels)+1)
	found := false
	for _, l := range labels {
		if l == label {
			found = true
			continue
		}
		next = append(next, l)
	}
	if !found {
		next = append(next, label)
	}
	return next
}

func (m *Model) openDetails() {
	row, ok := m.currentTab().CurrentRow()
	if !ok {
		return
	}
	m.details = row
	m.setMode(ModeDetails)
	if !strings.HasPrefix(row.ID, "discover:") && row.ID != "" && m.active != uistate.TabBundles {
		if err := m.mutator.RecordUsage(row.ID, time.Now()); err != nil {
			m.setError(err.Error())
		}
	}
}

// installCommand derives the install invocation for a row. Discover
// rows carry adapter-provided commands; store rows derive one from
// their source.
func (m *Model) installCommand(row uistate.Row) string {
	if m.active == uistate.TabDiscover {
		if result, ok := m.resultForRow(row); ok && len(result.Install) > 0 {
			return result.Install[0].Command
		}
		return ""
	}
	return sourceCommand(row.Source, row.Name, verbInstall)
}

func (m *Model) uninstallCommand(row uistate.Row) string {
	return sourceCommand(row.Source, row.Name, verbUninstall)
}

func (m *Model) updateCommand(row uistate.Row) string {
	return sourceCommand(row.Source, row.Name, verbUpdate)
}

type commandVerb int

const (
	verbInstall commandVerb = iota
	verbUninstall
	verbUpdate
)

// sourceCommand maps a tool source to the package-manager invocation
// for it. Sources mirror the discovery origins plus "cargo" and "pip"
// spellings found in imported inventories.
func sourceCommand(source, name string, verb commandVerb) string {
	switch strings.ToLower(source) {
	case "cargo", "crates.io":
		switch verb {
		case verbUninstall:
			return "cargo uninstall " + name
		default:
			return "cargo install " + name
		}
	case "npm":
		switch verb {
		case verbUninstall:
			return "npm uninstall -g " + name
		case verbUpdate:
			return "npm install -g " + name + "@latest"
		default:
			return "npm install -g " + name
		}
	case "pip", "pypi":
		switch verb {
		case verbUninstall:
			return "pip uninstall -y " + name
		case verbUpdate:
			return "pip install --upgrade " + name
		default:
			return "pip install " + name
		}
	case "brew":
		switch verb {
		case verbUninstall:
			return "brew uninstall " + name
		case verbUpdate:
			return "brew upgrade " + name
		default:
			return "brew install " + name
		}
	case "apt":
		switch verb {
		case verbUninstall:
			return "apt-get remove -y " + name
		case verbUpdate:
			return "apt-get install -y --only-upgrade " + name
		default:
			return "apt-get install -y " + name
		}
	case "go":
		switch verb {
		case verbUninstall:
			return ""
		default:
			return "go install " + name + "@latest"
		}
	default:
		return ""
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func (m *Model) bundleFor(id string) (bundleRef, bool) {
	b, ok := m.bundles.Get(id)
	if !ok {
		return bundleRef{}, false
	}
	return bundleRef{Name: b.Name, Tools: b.Tools}, true
}

type bundleRef struct {
	Name  string
	Tools []string
}

func (m *Model) toolFor(id string) (state.Tool, bool) {
	return m.tools.Get(id)
}
