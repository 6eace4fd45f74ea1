package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"toolshed/internal/discover"
	"toolshed/internal/runner"
)

// GitHubAdapter searches repositories through the gh CLI, which
// carries the user's authentication and rate limits. Repositories map
// to an install command based on their primary language.
type GitHubAdapter struct {
	run   runner.Runner
	limit int
}

func NewGitHubAdapter(run runner.Runner) *GitHubAdapter {
	return &GitHubAdapter{run: run, limit: DefaultLimit}
}

func (a *GitHubAdapter) ID() string              { return "github" }
func (a *GitHubAdapter) Origin() discover.Origin { return discover.OriginGitHub }

type ghRepo struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	StargazersCount int64  `json:"stargazersCount"`
	Language        string `json:"language"`
	URL             string `json:"url"`
}

func (a *GitHubAdapter) Search(ctx context.Context, query string) ([]discover.Result, error) {
	out, err := a.run.Run(ctx, "gh",
		"search", "repos", query,
		"--limit", fmt.Sprintf("%d", a.limit*overfetchFactor),
		"--json", "name,description,stargazersCount,language,url")
	if err != nil {
		return nil, fmt.Errorf("gh search: %w", err)
	}
	if out.ExitCode != 0 {
		if strings.Contains(out.Stderr, "rate limit") {
			return nil, fmt.Errorf("gh search: rate limit exceeded")
		}
		return nil, nil
	}

	var repos []ghRepo
	if err := json.Unmarshal([]byte(out.Stdout), &repos); err != nil {
		return nil, fmt.Errorf("gh search: parse output: %w", err)
	}
	return mapGitHubRepos(repos, a.limit), nil
}

// mapGitHubRepos keeps repositories whose primary language implies an
// install path and builds the command for it. Other languages are
// dropped; there is nothing actionable to offer.
func mapGitHubRepos(repos []ghRepo, limit int) []discover.Result {
	var results []discover.Result
	for _, repo := range repos {
		if len(results) >= limit {
			break
		}
		if repo.URL == "" {
			continue
		}
		var installCmd string
		switch strings.ToLower(repo.Language) {
		case "rust":
			installCmd = fmt.Sprintf("cargo install --git %s", repo.URL)
		case "python":
			installCmd = fmt.Sprintf("pip install %s", repo.Name)
		case "javascript", "typescript":
			installCmd = fmt.Sprintf("npm install -g %s", repo.Name)
		case "go":
			// Go CLI repos conventionally keep main under cmd/<name>.
			path := strings.TrimPrefix(repo.URL, "https://")
			installCmd = fmt.Sprintf("go install %s/cmd/%s@latest", path, repo.Name)
		default:
			continue
		}
		r := discover.NewResult(repo.Name, repo.Description, discover.OriginGitHub, installCmd)
		r.Stars = repo.StargazersCount
		r.URL = repo.URL
		r.Language = repo.Language
		results = append(results, r)
	}
	return results
}
