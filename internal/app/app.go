// Package app assembles the store, watchers, discovery adapters, and
// the Bubble Tea program into a running dashboard.
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"toolshed/internal/ai"
	"toolshed/internal/backend"
	"toolshed/internal/config"
	"toolshed/internal/discover"
	"toolshed/internal/jobs"
	"toolshed/internal/logging"
	"toolshed/internal/logging/events"
	"toolshed/internal/registry"
	"toolshed/internal/runner"
	"toolshed/internal/store"
	"toolshed/internal/theme"
	"toolshed/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

const snapshotInterval = 2 * time.Second

// Run wires the application together and blocks until the UI exits.
func Run(cfg config.Config) error {
	theme.Configure(cfg.Theme)

	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		dbPath = filepath.Join(dir, "toolshed.db")
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error(err)
		}
	}()

	run := runner.New()
	coord := jobs.New(cfg.Jobs.MaxInFlight)
	watcher := backend.NewWatcher(st, snapshotInterval)
	agg := discover.NewAggregator(coord, st)
	adapters, err := buildAdapters(cfg, run, st)
	if err != nil {
		return err
	}

	model := ui.NewModel(ui.Options{
		Watcher:  watcher,
		Coord:    coord,
		Agg:      agg,
		Adapters: adapters,
		Mutator:  st,
		Runner:   run,
		Sources:  cfg.Search.Sources,
		Theme:    cfg.Theme,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := program.Run()

	watcher.Stop()
	coord.Stop()
	watcher.Wait()
	coord.Wait()
	events.App.Stop(runErr)
	return runErr
}

// buildAdapters maps the configured source names onto discovery
// adapters. Unknown names fail fast so typos in config surface at
// startup instead of as silently empty searches.
func buildAdapters(cfg config.Config, run runner.Runner, st *store.Store) ([]discover.Adapter, error) {
	client := registry.NewClient().WithLimit(cfg.Search.Limit)
	adapters := make([]discover.Adapter, 0, len(cfg.Search.Sources)+1)
	for _, source := range cfg.Search.Sources {
		switch source {
		case "crates.io", "crates":
			adapters = append(adapters, registry.NewCratesAdapter(client))
		case "npm":
			adapters = append(adapters, registry.NewNpmAdapter(client))
		case "pypi":
			adapters = append(adapters, registry.NewPyPIAdapter(client))
		case "brew":
			adapters = append(adapters, registry.NewBrewAdapter(run))
		case "apt":
			adapters = append(adapters, registry.NewAptAdapter(run))
		case "github":
			adapters = append(adapters, registry.NewGitHubAdapter(run))
		default:
			return nil, fmt.Errorf("unknown discovery source %q", source)
		}
	}
	if cfg.AI.Provider != "" {
		provider, err := ai.ParseProvider(cfg.AI.Provider)
		if err != nil {
			return nil, err
		}
		installed := func() []string {
			tools, err := st.SnapshotTools()
			if err != nil {
				return nil
			}
			names := make([]string, 0, len(tools))
			for _, t := range tools {
				if t.Installed {
					names = append(names, t.Name)
				}
			}
			return names
		}
		adapters = append(adapters, ai.NewAdapter(run, provider, installed, cfg.Search.Sources))
	}
	return adapters, nil
}
