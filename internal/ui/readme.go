package ui

import (
	"context"
	"errors"
	"fmt"

	"toolshed/internal/jobs"
	"toolshed/internal/readme"
	uistate "toolshed/internal/ui/state"

	tea "github.com/charmbracelet/bubbletea"
)

// openReadme fetches and renders the README for the current row in a
// background job; the overlay opens once the payload arrives.
func (m *Model) openReadme() tea.Cmd {
	row, ok := m.currentTab().CurrentRow()
	if !ok {
		return nil
	}
	url := m.projectURL(row)
	if url == "" {
		m.setInfo("no project page known for " + row.Name)
		return nil
	}
	fetcher := m.readme
	width := m.width - 6
	name := row.Name
	_, err := m.coord.Enqueue(jobs.Job{
		Kind:   jobs.KindReadmeFetch,
		Target: "readme:" + row.ID,
		Run: func(ctx context.Context, post func(interface{})) error {
			body, err := fetcher.Fetch(ctx, url)
			if err != nil {
				post(readmeLoadedMsg{tool: name, err: err})
				return err
			}
			rendered, err := readme.Render(body, width)
			post(readmeLoadedMsg{tool: name, rendered: rendered, err: err})
			return err
		},
	})
	if err != nil && !errors.Is(err, jobs.ErrTargetBusy) {
		m.setError(err.Error())
		return nil
	}
	m.setInfo("fetching readme for " + name)
	return nil
}

func (m *Model) handleReadmeLoadedMsg(msg tea.Msg) tea.Cmd {
	payload, ok := msg.(readmeLoadedMsg)
	if !ok {
		return nil
	}
	m.applyReadme(payload)
	return nil
}

func (m *Model) applyReadme(payload readmeLoadedMsg) {
	if payload.err != nil {
		if errors.Is(payload.err, readme.ErrNoReadme) {
			m.setInfo(fmt.Sprintf("%s has no readme", payload.tool))
		} else {
			m.setError(payload.err.Error())
		}
		return
	}
	m.readmeTool = payload.tool
	m.readmeBody = payload.rendered
	m.setMode(ModeReadme)
}

// projectURL resolves the best project page for a row.
func (m *Model) projectURL(row uistate.Row) string {
	if m.active == uistate.TabDiscover {
		if result, ok := m.resultForRow(row); ok {
			return result.URL
		}
		return ""
	}
	// Inventory entries do not record a URL; GitHub-sourced ids embed
	// the repository path.
	if tool, ok := m.toolFor(row.ID); ok && tool.Source == "github" {
		return "https://github.com/" + tool.Name
	}
	return ""
}
