package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header       *lipgloss.Style
	Footer       *lipgloss.Style
	TabActive    *lipgloss.Style
	TabInactive  *lipgloss.Style
	Row          *lipgloss.Style
	RowSelected  *lipgloss.Style
	RowCursor    *lipgloss.Style
	Marker       *lipgloss.Style
	Favorite     *lipgloss.Style
	UpdateBadge  *lipgloss.Style
	SourceBadge  *lipgloss.Style
	Stars        *lipgloss.Style
	Filter       *lipgloss.Style
	FilterPrompt *lipgloss.Style
	MatchHint    *lipgloss.Style
	Spinner      *lipgloss.Style
	StatusDone   *lipgloss.Style
	StatusFailed *lipgloss.Style
	Error        *lipgloss.Style
	Info         *lipgloss.Style
	OverlayTitle *lipgloss.Style
	OverlayBody  *lipgloss.Style
	OverlayFrame *lipgloss.Style
}

func base() Styles {
	return Styles{
		Header: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
		),
		Footer: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		),
		TabActive: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
		),
		TabInactive: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		),
		Row: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		),
		RowSelected: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("236")),
		),
		RowCursor: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
		),
		Marker: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		),
		Favorite: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		),
		UpdateBadge: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		),
		SourceBadge: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		),
		Stars: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
		),
		Filter: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		),
		FilterPrompt: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
		),
		MatchHint: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Underline(true),
		),
		Spinner: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		),
		StatusDone: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		),
		StatusFailed: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		),
		Error: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		),
		Info: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		),
		OverlayTitle: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
		),
		OverlayBody: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		),
		OverlayFrame: ptr(
			lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
		),
	}
}

var themes = map[string]func() Styles{
	"default": base,
	"solarized": func() Styles {
		s := base()
		s.TabActive = ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true))
		s.Marker = ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("37")))
		s.FilterPrompt = ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("136")).Bold(true))
		s.MatchHint = ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("37")).Underline(true))
		return s
	},
	"mono": func() Styles {
		s := base()
		s.TabActive = ptr(lipgloss.NewStyle().Bold(true).Reverse(true))
		s.RowCursor = ptr(lipgloss.NewStyle().Reverse(true))
		s.Favorite = ptr(lipgloss.NewStyle().Bold(true))
		s.UpdateBadge = ptr(lipgloss.NewStyle().Bold(true))
		s.MatchHint = ptr(lipgloss.NewStyle().Underline(true))
		return s
	},
}

var active = base()

// Configure selects the named theme, falling back to the default for
// unknown names.
func Configure(name string) {
	if build, ok := themes[name]; ok {
		active = build()
		return
	}
	active = base()
}

// Names lists the available theme names.
func Names() []string {
	return []string{"default", "solarized", "mono"}
}

// Default exposes the active style set used across the application.
func Default() *Styles {
	return &active
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
