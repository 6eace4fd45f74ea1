package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives the UI model programmatically for tests. Returned
// commands are collected rather than executed, so re-arming channel
// waits never block the test goroutine; tests inject channel payloads
// as messages instead.
type Harness struct {
	model *Model
	cmds  []tea.Cmd
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and stores any returned
// command.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
}

// SendKey sends a plain rune key press.
func (h *Harness) SendKey(key string) {
	switch key {
	case "enter":
		h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		h.Send(tea.KeyMsg{Type: tea.KeyTab})
	case "space":
		h.Send(tea.KeyMsg{Type: tea.KeySpace})
	case "up":
		h.Send(tea.KeyMsg{Type: tea.KeyUp})
	case "down":
		h.Send(tea.KeyMsg{Type: tea.KeyDown})
	case "backspace":
		h.Send(tea.KeyMsg{Type: tea.KeyBackspace})
	case "ctrl+a":
		h.Send(tea.KeyMsg{Type: tea.KeyCtrlA})
	case "ctrl+c":
		h.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	case "ctrl+r":
		h.Send(tea.KeyMsg{Type: tea.KeyCtrlR})
	default:
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	}
}

// Type sends each rune of text as its own key press.
func (h *Harness) Type(text string) {
	for _, r := range text {
		if r == ' ' {
			h.SendKey("space")
			continue
		}
		h.SendKey(string(r))
	}
}

// DrainCmds returns and clears the collected commands.
func (h *Harness) DrainCmds() []tea.Cmd {
	cmds := h.cmds
	h.cmds = nil
	return cmds
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
