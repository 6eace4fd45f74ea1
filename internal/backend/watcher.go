package backend

import (
	"context"
	"sync"
	"time"

	"toolshed/internal/state"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindTools Kind = iota
	KindBundles
)

// Event conveys updated data or an error from a store poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Source is the store surface the watcher polls.
type Source interface {
	SnapshotTools() ([]state.Tool, error)
	SnapshotBundles() ([]state.Bundle, error)
}

// Watcher polls the store at a fixed interval and publishes snapshot
// events. Jobs that mutate the store can also Kick it for an immediate
// refresh instead of waiting out the interval.
type Watcher struct {
	source   Source
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	kicks  []chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher creates a store watcher that polls every interval.
func NewWatcher(source Source, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		source:   source,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.startToolPoller()
	w.startBundlePoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Kick requests an immediate refresh of both snapshots.
func (w *Watcher) Kick() {
	for _, kick := range w.kicks {
		select {
		case kick <- struct{}{}:
		default:
		}
	}
}

// Stop cancels the watcher. Pollers exit after their current fetch
// completes; use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events
// channel is closed. Call after Stop when a clean shutdown is
// required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startToolPoller() {
	throttle := newThrottle(250 * time.Millisecond)
	kick := make(chan struct{}, 1)
	w.kicks = append(w.kicks, kick)
	w.wg.Add(1)
	go w.poll(KindTools, kick, func() (interface{}, error) {
		throttle.wait()
		return w.source.SnapshotTools()
	})
}

func (w *Watcher) startBundlePoller() {
	throttle := newThrottle(250 * time.Millisecond)
	kick := make(chan struct{}, 1)
	w.kicks = append(w.kicks, kick)
	w.wg.Add(1)
	go w.poll(KindBundles, kick, func() (interface{}, error) {
		throttle.wait()
		return w.source.SnapshotBundles()
	})
}

func (w *Watcher) poll(kind Kind, kick <-chan struct{}, fetch func() (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch()
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-kick:
			if !emit() {
				return
			}
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
