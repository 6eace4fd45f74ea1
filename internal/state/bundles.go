package state

// Bundle groups a named set of tool ids for bulk install.
type Bundle struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tools       []string `json:"tools"`
}

type BundleStore interface {
	Entries() []Bundle
	SetEntries([]Bundle)
	Get(id string) (Bundle, bool)
}

type bundleStore struct {
	entries []Bundle
	byID    map[string]int
}

func NewBundleStore() BundleStore {
	return &bundleStore{byID: map[string]int{}}
}

func (s *bundleStore) Entries() []Bundle {
	if len(s.entries) == 0 {
		return nil
	}
	dup := make([]Bundle, len(s.entries))
	copy(dup, s.entries)
	return dup
}

func (s *bundleStore) SetEntries(entries []Bundle) {
	if len(entries) == 0 {
		s.entries = nil
	} else {
		s.entries = make([]Bundle, len(entries))
		copy(s.entries, entries)
	}
	s.byID = make(map[string]int, len(s.entries))
	for i, b := range s.entries {
		s.byID[b.ID] = i
	}
}

func (s *bundleStore) Get(id string) (Bundle, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return Bundle{}, false
	}
	return s.entries[idx], true
}
