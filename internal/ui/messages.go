package ui

import (
	"toolshed/internal/backend"
	"toolshed/internal/jobs"

	tea "github.com/charmbracelet/bubbletea"
)

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

type jobEventMsg struct {
	event jobs.Event
}

type jobsDoneMsg struct{}

// readmeLoadedMsg carries a rendered README for the overlay.
type readmeLoadedMsg struct {
	tool     string
	rendered string
	err      error
}

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

func waitForJobEvent(c *jobs.Coordinator) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-c.Events()
		if !ok {
			return jobsDoneMsg{}
		}
		return jobEventMsg{event: evt}
	}
}
