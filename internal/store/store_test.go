package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"toolshed/internal/state"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "toolshed.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSnapshotToolsSortedByName(t *testing.T) {
	s := openTestStore(t)
	tools := []state.Tool{
		{ID: "cargo:ripgrep", Name: "ripgrep", Source: "cargo", Installed: true},
		{ID: "cargo:bat", Name: "bat", Source: "cargo", Installed: true},
		{ID: "npm:eslint", Name: "eslint", Source: "npm"},
	}
	if err := s.UpsertTools(tools); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.SnapshotTools()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	names := make([]string, len(got))
	for i, tool := range got {
		names[i] = tool.Name
	}
	want := []string{"bat", "eslint", "ripgrep"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("snapshot order = %v, want %v", names, want)
	}
}

func TestApplyMutations(t *testing.T) {
	s := openTestStore(t)
	if err := s.UpsertTools([]state.Tool{{ID: "npm:eslint", Name: "eslint", Source: "npm"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.Apply(Mutation{Kind: MutationSetInstalled, ToolID: "npm:eslint", Version: "9.1.0"}); err != nil {
		t.Fatalf("install mutation: %v", err)
	}
	if err := s.Apply(Mutation{Kind: MutationSetLabels, ToolID: "npm:eslint", Labels: []string{"lint", "js"}}); err != nil {
		t.Fatalf("labels mutation: %v", err)
	}

	tools, err := s.SnapshotTools()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	got := tools[0]
	if !got.Installed || got.Version != "9.1.0" {
		t.Fatalf("unexpected tool after install: %+v", got)
	}
	if !reflect.DeepEqual(got.Labels, []string{"lint", "js"}) {
		t.Fatalf("unexpected labels: %v", got.Labels)
	}

	if err := s.Apply(Mutation{Kind: MutationSetUninstalled, ToolID: "npm:eslint"}); err != nil {
		t.Fatalf("uninstall mutation: %v", err)
	}
	tools, _ = s.SnapshotTools()
	if tools[0].Installed || tools[0].Version != "" {
		t.Fatalf("unexpected tool after uninstall: %+v", tools[0])
	}
}

func TestApplyUnknownTool(t *testing.T) {
	s := openTestStore(t)
	err := s.Apply(Mutation{Kind: MutationToggleFavorite, ToolID: "nope"})
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestRecordUsage(t *testing.T) {
	s := openTestStore(t)
	if err := s.UpsertTools([]state.Tool{{ID: "brew:jq", Name: "jq", Source: "brew", Installed: true}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := s.RecordUsage("brew:jq", at); err != nil {
		t.Fatalf("record usage: %v", err)
	}
	if err := s.RecordUsage("brew:jq", at.Add(time.Hour)); err != nil {
		t.Fatalf("record usage: %v", err)
	}

	tools, _ := s.SnapshotTools()
	if tools[0].UsageCount != 2 {
		t.Fatalf("usage count = %d, want 2", tools[0].UsageCount)
	}
	if !tools[0].LastUsed.Equal(at.Add(time.Hour)) {
		t.Fatalf("last used = %v", tools[0].LastUsed)
	}
}

func TestSearchHistoryDedupAndCap(t *testing.T) {
	s := openTestStore(t)
	queries := []string{"ripgrep", "ripgrep", "fd", "bat", "bat", "fd"}
	for _, q := range queries {
		if err := s.SaveSearch(q); err != nil {
			t.Fatalf("save search %q: %v", q, err)
		}
	}

	recent, err := s.RecentSearches(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	want := []string{"fd", "bat", "fd", "ripgrep"}
	if !reflect.DeepEqual(recent, want) {
		t.Fatalf("recent = %v, want %v", recent, want)
	}

	limited, _ := s.RecentSearches(2)
	if !reflect.DeepEqual(limited, []string{"fd", "bat"}) {
		t.Fatalf("limited recent = %v", limited)
	}
}

func TestBundleRoundTrip(t *testing.T) {
	s := openTestStore(t)
	b := state.Bundle{ID: "bundle:web", Name: "web", Tools: []string{"npm:eslint"}}
	if err := s.UpsertBundle(b); err != nil {
		t.Fatalf("upsert bundle: %v", err)
	}
	bundles, err := s.SnapshotBundles()
	if err != nil {
		t.Fatalf("snapshot bundles: %v", err)
	}
	if len(bundles) != 1 || bundles[0].Name != "web" {
		t.Fatalf("unexpected bundles %+v", bundles)
	}
	if err := s.DeleteBundle("bundle:web"); err != nil {
		t.Fatalf("delete bundle: %v", err)
	}
	bundles, _ = s.SnapshotBundles()
	if len(bundles) != 0 {
		t.Fatalf("expected empty bundles, got %+v", bundles)
	}
}
