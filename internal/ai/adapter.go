package ai

import (
	"context"
	"fmt"
	"strings"

	"toolshed/internal/discover"
	"toolshed/internal/runner"
)

// Adapter exposes AI recommendations as a discovery source alongside
// the registry adapters.
type Adapter struct {
	run       runner.Runner
	provider  Provider
	installed func() []string
	sources   []string
}

// NewAdapter builds the AI discovery adapter. installed supplies the
// current tool names at query time so the prompt reflects the live
// inventory.
func NewAdapter(run runner.Runner, provider Provider, installed func() []string, enabledSources []string) *Adapter {
	return &Adapter{run: run, provider: provider, installed: installed, sources: enabledSources}
}

func (a *Adapter) ID() string              { return "ai" }
func (a *Adapter) Origin() discover.Origin { return discover.OriginAI }

func (a *Adapter) Search(ctx context.Context, query string) ([]discover.Result, error) {
	var installed []string
	if a.installed != nil {
		installed = a.installed()
	}
	prompt := DiscoveryPrompt(query, installed, a.sources)
	response, err := Invoke(ctx, a.run, a.provider, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseDiscoveryResponse(response)
	if err != nil {
		return nil, err
	}
	return recommendationsToResults(parsed.Tools), nil
}

// recommendationsToResults converts provider suggestions to discovery
// results. The AI origin stays in the merged origin set so the UI can
// badge recommended entries.
func recommendationsToResults(recs []Recommendation) []discover.Result {
	var results []discover.Result
	for _, rec := range recs {
		if rec.Name == "" {
			continue
		}
		origin := originForSource(rec.Source)
		installCmd := rec.InstallCmd
		if installCmd == "" {
			continue
		}
		r := discover.NewResult(rec.Name, rec.Description, origin, installCmd)
		if !r.HasOrigin(discover.OriginAI) {
			r.Origins = append(r.Origins, discover.OriginAI)
		}
		if rec.GitHub != "" {
			r.URL = fmt.Sprintf("https://github.com/%s", rec.GitHub)
		}
		results = append(results, r)
	}
	return results
}

func originForSource(source string) discover.Origin {
	switch strings.ToLower(source) {
	case "cargo", "crates.io":
		return discover.OriginCratesIo
	case "pip", "pypi":
		return discover.OriginPyPI
	case "npm":
		return discover.OriginNpm
	case "apt":
		return discover.OriginApt
	case "brew", "homebrew":
		return discover.OriginHomebrew
	default:
		return discover.OriginAI
	}
}
