package discover

import (
	"context"
	"time"

	"toolshed/internal/jobs"
	"toolshed/internal/logging/events"
)

// Adapter is one external lookup capability. Implementations must be
// safe to call from worker goroutines and honour ctx cancellation at
// safe points.
type Adapter interface {
	ID() string
	Origin() Origin
	Search(ctx context.Context, query string) ([]Result, error)
}

// HistoryStore persists prior queries.
type HistoryStore interface {
	SaveSearch(query string) error
	RecentSearches(n int) ([]string, error)
}

// Aggregator owns the current search session and fans queries out to
// adapters through the job coordinator. All methods must be called
// from the interactive loop; worker results come back as Message
// payloads on the coordinator's event channel and are applied via
// Apply.
type Aggregator struct {
	coord      *jobs.Coordinator
	history    HistoryStore
	generation uint64
	session    *Session
}

// NewAggregator wires an aggregator to its coordinator and history
// store.
func NewAggregator(coord *jobs.Coordinator, history HistoryStore) *Aggregator {
	return &Aggregator{coord: coord, history: history}
}

// Session returns the current session, nil before the first Submit.
func (a *Aggregator) Session() *Session {
	return a.session
}

// Submit starts a new search session, superseding any prior one. The
// prior session's query is pushed onto the search history before the
// new session starts; its in-flight adapters become inert through
// generation comparison.
func (a *Aggregator) Submit(query string, adapters []Adapter) *Session {
	if prev := a.session; prev != nil {
		prev.cancelled = true
		prev.cancel()
		if a.history != nil && prev.Query != "" {
			if err := a.history.SaveSearch(prev.Query); err != nil {
				events.UI.Error(err)
			}
		}
	}
	a.generation++

	ctx, cancel := context.WithCancel(context.Background())
	ids := make([]string, len(adapters))
	for i, ad := range adapters {
		ids[i] = ad.ID()
	}
	session := newSession(query, a.generation, ids, cancel)
	a.session = session
	events.Search.Submit(session.Generation, query, ids)

	for _, ad := range adapters {
		a.schedule(ctx, session.Generation, query, ad)
	}
	return session
}

func (a *Aggregator) schedule(ctx context.Context, generation uint64, query string, ad Adapter) {
	kind := jobs.KindSearch
	if ad.Origin() == OriginAI {
		kind = jobs.KindAIQuery
	}
	id := ad.ID()
	_, err := a.coord.Enqueue(jobs.Job{
		Kind: kind,
		Run: func(jobCtx context.Context, post func(interface{})) error {
			post(Message{Generation: generation, Adapter: id, Started: true})
			// Session cancellation and coordinator shutdown both
			// release the adapter.
			searchCtx, stop := mergeContexts(ctx, jobCtx)
			defer stop()
			start := time.Now()
			results, err := ad.Search(searchCtx, query)
			post(Message{
				Generation: generation,
				Adapter:    id,
				Results:    results,
				Err:        err,
				Elapsed:    time.Since(start),
			})
			return err
		},
	})
	if err != nil {
		// The coordinator is shutting down; mark the slot failed so
		// the session can still complete.
		a.session.markFailed(id, err.Error())
	}
}

// Apply folds one adapter message into the current session. Messages
// tagged with a superseded generation are discarded unconditionally
// and never mutate the visible result list.
func (a *Aggregator) Apply(msg Message) bool {
	session := a.session
	if session == nil || msg.Generation != session.Generation {
		current := uint64(0)
		if session != nil {
			current = session.Generation
		}
		events.Search.Stale(msg.Generation, current, msg.Adapter)
		return false
	}
	switch {
	case msg.Started:
		session.markInFlight(msg.Adapter)
	case msg.Err != nil:
		session.markFailed(msg.Adapter, msg.Err.Error())
		events.Search.AdapterFailed(msg.Generation, msg.Adapter, msg.Err)
	default:
		count := session.mergeResults(msg.Results)
		session.markDone(msg.Adapter, count)
		events.Search.AdapterDone(msg.Generation, msg.Adapter, count)
	}
	if session.Complete() {
		events.Search.Complete(session.Generation, len(session.Results))
	}
	return true
}

// Cancel flags the current session as cancelled. Adapters observe the
// context cooperatively; any results they still deliver are kept only
// while the generation has not moved on.
func (a *Aggregator) Cancel() {
	if a.session == nil {
		return
	}
	a.session.cancelled = true
	a.session.cancel()
}

// Retire cancels the current session and persists its query, so a
// search that was still running when the dashboard shut down is
// recallable next time.
func (a *Aggregator) Retire() {
	a.Cancel()
	if a.session == nil || a.history == nil || a.session.Query == "" {
		return
	}
	if err := a.history.SaveSearch(a.session.Query); err != nil {
		events.UI.Error(err)
	}
}

// Recent exposes the query history, most recent first.
func (a *Aggregator) Recent(n int) []string {
	if a.history == nil {
		return nil
	}
	recent, err := a.history.RecentSearches(n)
	if err != nil {
		events.UI.Error(err)
		return nil
	}
	return recent
}

// mergeContexts returns a context cancelled when either parent is.
func mergeContexts(a, b context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
