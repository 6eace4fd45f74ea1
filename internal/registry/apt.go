package registry

import (
	"context"
	"fmt"
	"strings"

	"toolshed/internal/discover"
	"toolshed/internal/runner"
)

// AptAdapter searches the local apt package cache.
type AptAdapter struct {
	run   runner.Runner
	limit int
}

func NewAptAdapter(run runner.Runner) *AptAdapter {
	return &AptAdapter{run: run, limit: DefaultLimit}
}

func (a *AptAdapter) ID() string              { return "apt" }
func (a *AptAdapter) Origin() discover.Origin { return discover.OriginApt }

func (a *AptAdapter) Search(ctx context.Context, query string) ([]discover.Result, error) {
	out, err := a.run.Run(ctx, "apt-cache", "search", query)
	if err != nil {
		return nil, fmt.Errorf("apt-cache search: %w", err)
	}
	if out.ExitCode != 0 {
		return nil, nil
	}
	return parseAptSearch(out.Stdout, a.limit), nil
}

func parseAptSearch(stdout string, limit int) []discover.Result {
	var results []discover.Result
	for _, line := range strings.Split(stdout, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(results) >= limit {
			break
		}
		// apt-cache search prints "package - description".
		name, description, _ := strings.Cut(line, " - ")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		results = append(results, discover.NewResult(name, strings.TrimSpace(description),
			discover.OriginApt, fmt.Sprintf("sudo apt install %s", name)))
	}
	return results
}
