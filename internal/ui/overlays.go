package ui

import (
	"fmt"
	"strings"
	"time"
)

// viewOverlay renders a framed full-screen overlay with a title and
// body text.
func (m *Model) viewOverlay(title, body string) string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	b.WriteString(styles.OverlayTitle.Render(title))
	b.WriteString("\n\n")
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(styles.OverlayBody.Render(truncateText(line, width)))
		b.WriteString("\n")
	}
	framed := styles.OverlayFrame.Render(b.String())
	lines := strings.Split(framed, "\n")
	if m.height > 0 && len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewReadme() string {
	title := "README"
	if m.readmeTool != "" {
		title = "README — " + m.readmeTool
	}
	body := m.readmeBody
	lines := strings.Split(body, "\n")
	max := m.height - 6
	if max > 0 && len(lines) > max {
		lines = append(lines[:max], "…")
	}
	return m.viewOverlay(title, strings.Join(lines, "\n"))
}

func (m *Model) viewConfirm() string {
	title := "Confirm"
	prompt := ""
	if m.confirm != nil {
		title = m.confirm.title
		prompt = m.confirm.prompt
	}
	return m.viewOverlay(title, prompt+"\n\ny confirm  ·  n cancel")
}

func helpText() string {
	return strings.Join([]string{
		"Navigation",
		"  j/k ↑/↓      move cursor",
		"  g/G          first/last row",
		"  ctrl+u/d     page up/down",
		"  tab ] [      next/previous tab",
		"  1-5          jump to tab",
		"",
		"Selection",
		"  space        toggle selection",
		"  v            range anchor / select range",
		"  ctrl+a       select all",
		"  x            clear selection",
		"",
		"Actions",
		"  i            install selection",
		"  D            uninstall selection",
		"  U            update selection",
		"  *            toggle favorite",
		"  l            toggle pinned label",
		"  enter        details",
		"  R            fetch readme",
		"  r            refresh from store",
		"",
		"Search and commands",
		"  /            filter (submit on Discover)",
		"  :            command palette",
		"  s            cycle sort",
		"  F            favorites only",
		"  u / ctrl+r   undo / redo",
		"  c            cancel discovery search",
		"  C            configuration overlay",
		"  q            quit",
	}, "\n")
}

func (m *Model) configText() string {
	lines := []string{
		"theme:    " + m.themeName,
		"sources:  " + strings.Join(m.sources, ", "),
		"tabs:     " + fmt.Sprint(len(m.order)),
	}
	if sync := m.tools.LastSync(); !sync.IsZero() {
		lines = append(lines, "synced:   "+sync.Format(time.DateTime))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) detailsText() string {
	row := m.details
	lines := []string{
		"source:   " + row.Source,
	}
	if row.Description != "" {
		lines = append([]string{row.Description, ""}, lines...)
	}
	if row.Version != "" {
		version := row.Version
		if row.HasUpdate() {
			version += "  (latest " + row.Latest + ")"
		}
		lines = append(lines, "version:  "+version)
	}
	if row.Stars > 0 {
		lines = append(lines, "stars:    "+formatStars(row.Stars))
	}
	if row.UsageCount > 0 {
		lines = append(lines, fmt.Sprintf("used:     %d times", row.UsageCount))
	}
	if !row.LastUsed.IsZero() {
		lines = append(lines, "last use: "+row.LastUsed.Format(time.DateTime))
	}
	if len(row.Labels) > 0 {
		lines = append(lines, "labels:   "+strings.Join(row.Labels, ", "))
	}
	if row.Installed {
		lines = append(lines, "", "installed")
	} else {
		lines = append(lines, "", "not installed — press i to install")
	}
	return strings.Join(lines, "\n")
}
