package discover

import (
	"time"
)

// AdapterStatus tracks one adapter's progress inside a session.
// Transitions are monotonic: Pending -> InFlight -> Done|Failed.
type AdapterStatus int

const (
	StatusPending AdapterStatus = iota
	StatusInFlight
	StatusDone
	StatusFailed
)

func (s AdapterStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInFlight:
		return "in-flight"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s AdapterStatus) terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// AdapterState is the per-adapter slot in a session.
type AdapterState struct {
	Status  AdapterStatus
	Count   int
	Err     string
	Started time.Time
}

// Message is one tagged partial-result posting from an adapter worker.
// Started messages mark the Pending -> InFlight transition; all other
// messages are terminal for the adapter.
type Message struct {
	Generation uint64
	Adapter    string
	Started    bool
	Results    []Result
	Err        error
	Elapsed    time.Duration
}

// Session accumulates one query's results across adapters. All fields
// are owned by the interactive loop; workers only ever post Messages.
type Session struct {
	Query      string
	Generation uint64
	StartedAt  time.Time
	Sort       SortKey

	order    []string
	adapters map[string]*AdapterState

	Results []Result
	byKey   map[string]int

	cancelled bool
	cancel    func()
}

func newSession(query string, generation uint64, adapterIDs []string, cancel func()) *Session {
	s := &Session{
		Query:      query,
		Generation: generation,
		StartedAt:  time.Now(),
		Sort:       SortStars,
		order:      append([]string(nil), adapterIDs...),
		adapters:   make(map[string]*AdapterState, len(adapterIDs)),
		byKey:      map[string]int{},
		cancel:     cancel,
	}
	for _, id := range adapterIDs {
		s.adapters[id] = &AdapterState{Status: StatusPending}
	}
	return s
}

// AdapterIDs returns the enabled adapters in submission order.
func (s *Session) AdapterIDs() []string {
	return append([]string(nil), s.order...)
}

// Adapter returns the state slot for one adapter id.
func (s *Session) Adapter(id string) (AdapterState, bool) {
	st, ok := s.adapters[id]
	if !ok {
		return AdapterState{}, false
	}
	return *st, true
}

// Complete reports whether every adapter reached a terminal status.
func (s *Session) Complete() bool {
	for _, st := range s.adapters {
		if !st.Status.terminal() {
			return false
		}
	}
	return true
}

// Cancelled reports whether Cancel was called on the owning
// aggregator while this session was current.
func (s *Session) Cancelled() bool {
	return s.cancelled
}

// Elapsed is the wall time since the session started.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.StartedAt)
}

// Resort reorders the accumulated results locally; no refetch.
func (s *Session) Resort(key SortKey) {
	s.Sort = key
	SortResults(s.Results, key)
	s.reindex()
}

// CycleSort advances to the next sort key and reorders.
func (s *Session) CycleSort() {
	s.Resort(s.Sort.Next())
}

func (s *Session) markInFlight(id string) {
	st, ok := s.adapters[id]
	if !ok || st.Status != StatusPending {
		return
	}
	st.Status = StatusInFlight
	st.Started = time.Now()
}

func (s *Session) markDone(id string, count int) {
	st, ok := s.adapters[id]
	if !ok || st.Status.terminal() {
		return
	}
	st.Status = StatusDone
	st.Count = count
}

func (s *Session) markFailed(id, reason string) {
	st, ok := s.adapters[id]
	if !ok || st.Status.terminal() {
		return
	}
	st.Status = StatusFailed
	st.Err = reason
}

func (s *Session) mergeResults(results []Result) int {
	merged := 0
	for _, r := range results {
		key := r.Key()
		if idx, ok := s.byKey[key]; ok {
			s.Results[idx].Merge(r)
		} else {
			s.byKey[key] = len(s.Results)
			s.Results = append(s.Results, r)
		}
		merged++
	}
	SortResults(s.Results, s.Sort)
	s.reindex()
	return merged
}

func (s *Session) reindex() {
	for i, r := range s.Results {
		s.byKey[r.Key()] = i
	}
}
