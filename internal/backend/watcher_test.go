package backend

import (
	"errors"
	"sync"
	"testing"
	"time"

	"toolshed/internal/state"
)

type fakeSource struct {
	mu      sync.Mutex
	tools   []state.Tool
	bundles []state.Bundle
	toolErr error
}

func (f *fakeSource) SnapshotTools() ([]state.Tool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tools, f.toolErr
}

func (f *fakeSource) SnapshotBundles() ([]state.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bundles, nil
}

func collect(t *testing.T, events <-chan Event, want Kind) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt := <-events:
			if evt.Kind == want {
				return evt
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %v event", want)
		}
	}
}

func TestWatcherEmitsInitialSnapshots(t *testing.T) {
	source := &fakeSource{
		tools:   []state.Tool{{ID: "cargo:ripgrep", Name: "ripgrep"}},
		bundles: []state.Bundle{{ID: "b1", Name: "rust-dev"}},
	}
	w := NewWatcher(source, time.Hour)
	defer func() { w.Stop(); w.Wait() }()

	toolEvt := collect(t, w.Events(), KindTools)
	tools, ok := toolEvt.Data.([]state.Tool)
	if !ok || len(tools) != 1 || tools[0].Name != "ripgrep" {
		t.Fatalf("tool event data = %#v", toolEvt.Data)
	}

	bundleEvt := collect(t, w.Events(), KindBundles)
	bundles, ok := bundleEvt.Data.([]state.Bundle)
	if !ok || len(bundles) != 1 || bundles[0].Name != "rust-dev" {
		t.Fatalf("bundle event data = %#v", bundleEvt.Data)
	}
}

func TestWatcherKickTriggersRefresh(t *testing.T) {
	source := &fakeSource{}
	w := NewWatcher(source, time.Hour)
	defer func() { w.Stop(); w.Wait() }()

	collect(t, w.Events(), KindTools)
	collect(t, w.Events(), KindBundles)

	source.mu.Lock()
	source.tools = []state.Tool{{ID: "npm:eslint", Name: "eslint"}}
	source.mu.Unlock()

	w.Kick()
	evt := collect(t, w.Events(), KindTools)
	tools, _ := evt.Data.([]state.Tool)
	if len(tools) != 1 || tools[0].Name != "eslint" {
		t.Fatalf("kick did not refresh: %#v", evt.Data)
	}
}

func TestWatcherSurfacesErrors(t *testing.T) {
	source := &fakeSource{toolErr: errors.New("db closed")}
	w := NewWatcher(source, time.Hour)
	defer func() { w.Stop(); w.Wait() }()

	evt := collect(t, w.Events(), KindTools)
	if evt.Err == nil {
		t.Fatal("expected error event")
	}
}
