package registry

import (
	"context"
	"fmt"
	"strings"

	"toolshed/internal/discover"
	"toolshed/internal/runner"
)

// BrewAdapter searches Homebrew formulae through the local brew
// command. Hosts without brew report zero results rather than an
// error.
type BrewAdapter struct {
	run   runner.Runner
	limit int
}

func NewBrewAdapter(run runner.Runner) *BrewAdapter {
	return &BrewAdapter{run: run, limit: DefaultLimit}
}

func (a *BrewAdapter) ID() string              { return "brew" }
func (a *BrewAdapter) Origin() discover.Origin { return discover.OriginHomebrew }

func (a *BrewAdapter) Search(ctx context.Context, query string) ([]discover.Result, error) {
	out, err := a.run.Run(ctx, "brew", "search", query)
	if err != nil {
		return nil, fmt.Errorf("brew search: %w", err)
	}
	if out.ExitCode != 0 {
		return nil, nil
	}
	return parseBrewSearch(out.Stdout, a.limit), nil
}

func parseBrewSearch(stdout string, limit int) []discover.Result {
	var results []discover.Result
	for _, line := range strings.Split(stdout, "\n") {
		name := strings.TrimSpace(line)
		// Section markers like "==> Formulae" separate formula and
		// cask listings.
		if name == "" || strings.HasPrefix(name, "==>") {
			continue
		}
		if len(results) >= limit {
			break
		}
		r := discover.NewResult(name, "", discover.OriginHomebrew,
			fmt.Sprintf("brew install %s", name))
		r.URL = fmt.Sprintf("https://formulae.brew.sh/formula/%s", name)
		results = append(results, r)
	}
	return results
}
