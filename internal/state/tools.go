package state

import "time"

// Tool is one inventory entry as snapshotted from the store. The
// interactive core treats it as immutable per tick and refers to it
// by ID only.
type Tool struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Source        string    `json:"source"`
	Version       string    `json:"version,omitempty"`
	LatestVersion string    `json:"latest_version,omitempty"`
	Installed     bool      `json:"installed"`
	Favorite      bool      `json:"favorite,omitempty"`
	Stars         int64     `json:"stars,omitempty"`
	UsageCount    int       `json:"usage_count,omitempty"`
	LastUsed      time.Time `json:"last_used,omitzero"`
	Labels        []string  `json:"labels,omitempty"`
}

// HasUpdate reports whether a newer version than the installed one is
// known for the tool.
func (t Tool) HasUpdate() bool {
	return t.Installed && t.LatestVersion != "" && t.LatestVersion != t.Version
}

type ToolStore interface {
	Entries() []Tool
	SetEntries([]Tool)
	Get(id string) (Tool, bool)
	LastSync() time.Time
	SetLastSync(time.Time)
}

type toolStore struct {
	entries  []Tool
	byID     map[string]int
	lastSync time.Time
}

func NewToolStore() ToolStore {
	return &toolStore{byID: map[string]int{}}
}

func (s *toolStore) Entries() []Tool {
	return cloneTools(s.entries)
}

func (s *toolStore) SetEntries(entries []Tool) {
	s.entries = cloneTools(entries)
	s.byID = make(map[string]int, len(s.entries))
	for i, t := range s.entries {
		s.byID[t.ID] = i
	}
}

func (s *toolStore) Get(id string) (Tool, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return Tool{}, false
	}
	return s.entries[idx], true
}

func (s *toolStore) LastSync() time.Time {
	return s.lastSync
}

func (s *toolStore) SetLastSync(at time.Time) {
	s.lastSync = at
}

func cloneTools(entries []Tool) []Tool {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]Tool, len(entries))
	copy(dup, entries)
	return dup
}
