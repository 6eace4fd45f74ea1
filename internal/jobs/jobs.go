package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"toolshed/internal/logging/events"

	"github.com/google/uuid"
)

// Kind classifies a background job.
type Kind int

const (
	KindInstall Kind = iota
	KindUninstall
	KindUpdate
	KindSearch
	KindAIQuery
	KindReadmeFetch
)

func (k Kind) String() string {
	switch k {
	case KindInstall:
		return "install"
	case KindUninstall:
		return "uninstall"
	case KindUpdate:
		return "update"
	case KindSearch:
		return "search"
	case KindAIQuery:
		return "ai-query"
	case KindReadmeFetch:
		return "readme-fetch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrTargetBusy is returned when the target entry already has an
	// active job. Callers wait for the terminal event or cancel;
	// requests are never queued behind a busy target.
	ErrTargetBusy = errors.New("target already has an active job")

	// ErrStopped is returned once the coordinator is shutting down.
	ErrStopped = errors.New("job coordinator stopped")
)

// Event is one message from a job worker. A job emits zero or more
// progress events (Terminal false, Payload set) and exactly one
// terminal event.
type Event struct {
	JobID    string
	Kind     Kind
	Target   string
	Terminal bool
	Err      error
	Payload  interface{}
}

// Job describes work to run off the interactive loop. Run receives a
// context cancelled on coordinator shutdown and a post function for
// progress events; it must check the context at safe boundaries.
type Job struct {
	Kind   Kind
	Target string
	Run    func(ctx context.Context, post func(payload interface{})) error
}

// Handle identifies an enqueued job.
type Handle struct {
	ID     string
	Kind   Kind
	Target string
}

type queuedJob struct {
	id  string
	job Job
}

// Coordinator runs jobs on worker goroutines with a bounded in-flight
// count, at most one active job per target, and a single event channel
// drained by the interactive loop.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	eventsCh  chan Event
	wg        sync.WaitGroup
	closeOnce sync.Once

	mu      sync.Mutex
	active  map[string]string // target -> job id
	pending []queuedJob
	running int
	max     int
	stopped bool
}

// New creates a coordinator allowing up to maxInFlight concurrent
// jobs.
func New(maxInFlight int) *Coordinator {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:      ctx,
		cancel:   cancel,
		eventsCh: make(chan Event, 64),
		active:   map[string]string{},
		max:      maxInFlight,
	}
}

// Events returns the channel job events are delivered on.
func (c *Coordinator) Events() <-chan Event {
	return c.eventsCh
}

// Enqueue registers a job and returns immediately. Excess jobs wait in
// submission order; a job whose target is already active is rejected.
func (c *Coordinator) Enqueue(job Job) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return Handle{}, ErrStopped
	}
	if job.Target != "" {
		if _, busy := c.active[job.Target]; busy {
			events.Job.Rejected(job.Kind.String(), job.Target)
			return Handle{}, fmt.Errorf("%w: %s", ErrTargetBusy, job.Target)
		}
	}
	id := uuid.NewString()
	if job.Target != "" {
		c.active[job.Target] = id
	}
	c.pending = append(c.pending, queuedJob{id: id, job: job})
	events.Job.Enqueued(id, job.Kind.String(), job.Target)
	c.dispatchLocked()
	return Handle{ID: id, Kind: job.Kind, Target: job.Target}, nil
}

// Busy reports whether the target entry currently has an active job.
func (c *Coordinator) Busy(target string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.active[target]
	return busy
}

func (c *Coordinator) dispatchLocked() {
	for c.running < c.max && len(c.pending) > 0 && !c.stopped {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.running++
		c.wg.Add(1)
		go c.run(next)
	}
}

func (c *Coordinator) run(q queuedJob) {
	defer c.wg.Done()
	events.Job.Started(q.id, q.job.Kind.String())

	post := func(payload interface{}) {
		c.post(Event{
			JobID:   q.id,
			Kind:    q.job.Kind,
			Target:  q.job.Target,
			Payload: payload,
		})
	}

	var err error
	if c.ctx.Err() != nil {
		err = c.ctx.Err()
	} else {
		err = q.job.Run(c.ctx, post)
	}
	events.Job.Finished(q.id, err)

	c.post(Event{
		JobID:    q.id,
		Kind:     q.job.Kind,
		Target:   q.job.Target,
		Terminal: true,
		Err:      err,
	})

	c.mu.Lock()
	if q.job.Target != "" && c.active[q.job.Target] == q.id {
		delete(c.active, q.job.Target)
	}
	c.running--
	c.dispatchLocked()
	c.mu.Unlock()
}

func (c *Coordinator) post(evt Event) {
	select {
	case <-c.ctx.Done():
	case c.eventsCh <- evt:
	}
}

// Stop cancels the coordinator context. Running jobs exit at their
// next cooperative check; use Wait for a clean drain.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.pending = nil
	c.mu.Unlock()
	c.cancel()
}

// Wait blocks until all worker goroutines exited, then closes the
// event channel. Call after Stop when a clean shutdown is required.
func (c *Coordinator) Wait() {
	c.wg.Wait()
	c.closeOnce.Do(func() { close(c.eventsCh) })
}
