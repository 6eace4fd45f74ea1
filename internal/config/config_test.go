package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Search.Limit != 10 {
		t.Fatalf("limit = %d, want 10", cfg.Search.Limit)
	}
	if cfg.Jobs.MaxInFlight != 4 {
		t.Fatalf("max jobs = %d, want 4", cfg.Jobs.MaxInFlight)
	}
	if cfg.Theme != "default" {
		t.Fatalf("theme = %q", cfg.Theme)
	}
	if !reflect.DeepEqual(cfg.Search.Sources, defaultSources) {
		t.Fatalf("sources = %v", cfg.Search.Sources)
	}
	if cfg.Logging.Trace {
		t.Fatal("trace enabled by default")
	}
}

func TestLoadArgsFlagsOverrideEnv(t *testing.T) {
	environ := []string{
		"TOOLSHED_AI_PROVIDER=gemini",
		"TOOLSHED_MAX_JOBS=8",
		"TOOLSHED_TRACE=1",
	}
	cfg, err := LoadArgs([]string{"-ai-provider", "claude", "-sources", "brew, apt"}, environ, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AI.Provider != "claude" {
		t.Fatalf("provider = %q, want flag to win over env", cfg.AI.Provider)
	}
	if cfg.Jobs.MaxInFlight != 8 {
		t.Fatalf("max jobs = %d, want env value", cfg.Jobs.MaxInFlight)
	}
	if !cfg.Logging.Trace {
		t.Fatal("trace env ignored")
	}
	if !reflect.DeepEqual(cfg.Search.Sources, []string{"brew", "apt"}) {
		t.Fatalf("sources = %v", cfg.Search.Sources)
	}
}

func TestLoadArgsReadsTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `theme = "solarized"

[storage]
db_path = "/tmp/toolshed-test.db"

[search]
sources = ["crates.io", "github"]
limit = 5

[ai]
provider = "codex"

[logging]
trace = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadArgs(nil, nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.DBPath != "/tmp/toolshed-test.db" {
		t.Fatalf("db path = %q", cfg.Storage.DBPath)
	}
	if cfg.Search.Limit != 5 {
		t.Fatalf("limit = %d", cfg.Search.Limit)
	}
	if cfg.AI.Provider != "codex" {
		t.Fatalf("provider = %q", cfg.AI.Provider)
	}
	if cfg.Theme != "solarized" {
		t.Fatalf("theme = %q", cfg.Theme)
	}
	if !cfg.Logging.Trace {
		t.Fatal("trace from file ignored")
	}

	// Environment still overrides the file.
	cfg, err = LoadArgs(nil, []string{"TOOLSHED_AI_PROVIDER=gemini"}, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AI.Provider != "gemini" {
		t.Fatalf("provider = %q, want env to win over file", cfg.AI.Provider)
	}
}

func TestLoadArgsMissingFileIsFine(t *testing.T) {
	if _, err := LoadArgs(nil, nil, filepath.Join(t.TempDir(), "nope.toml")); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
}

func TestLoadArgsRejectsBadValues(t *testing.T) {
	if _, err := LoadArgs([]string{"-limit", "0"}, nil, ""); err == nil {
		t.Fatal("limit 0 accepted")
	}
	if _, err := LoadArgs([]string{"-max-jobs", "0"}, nil, ""); err == nil {
		t.Fatal("max-jobs 0 accepted")
	}
}
