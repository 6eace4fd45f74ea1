package store

import (
	"fmt"

	"toolshed/internal/logging/events"
	"toolshed/internal/state"
)

// MutationKind enumerates the explicit write commands the interactive
// core may issue. Anything else the UI does stays in its own state.
type MutationKind int

const (
	MutationSetInstalled MutationKind = iota
	MutationSetUninstalled
	MutationSetVersion
	MutationSetLabels
	MutationToggleFavorite
)

func (k MutationKind) String() string {
	switch k {
	case MutationSetInstalled:
		return "set-installed"
	case MutationSetUninstalled:
		return "set-uninstalled"
	case MutationSetVersion:
		return "set-version"
	case MutationSetLabels:
		return "set-labels"
	case MutationToggleFavorite:
		return "toggle-favorite"
	default:
		return fmt.Sprintf("mutation(%d)", int(k))
	}
}

// Mutation is one write command against a tool record.
type Mutation struct {
	Kind    MutationKind
	ToolID  string
	Version string
	Labels  []string
}

// Apply executes the mutation against the store.
func (s *Store) Apply(m Mutation) error {
	err := s.updateTool(m.ToolID, func(t *state.Tool) {
		switch m.Kind {
		case MutationSetInstalled:
			t.Installed = true
			if m.Version != "" {
				t.Version = m.Version
			}
		case MutationSetUninstalled:
			t.Installed = false
			t.Version = ""
		case MutationSetVersion:
			t.LatestVersion = m.Version
		case MutationSetLabels:
			t.Labels = append([]string(nil), m.Labels...)
		case MutationToggleFavorite:
			t.Favorite = !t.Favorite
		}
	})
	events.Store.Mutation(m.Kind.String(), m.ToolID, err)
	return err
}
