package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"toolshed/internal/discover"
)

const pypiBase = "https://pypi.org"

// PyPIAdapter searches PyPI. The index has no search API, so the
// adapter scrapes the search page and then uses the JSON detail
// endpoint to keep only packages that look like command-line tools.
type PyPIAdapter struct {
	client  *Client
	baseURL string
}

func NewPyPIAdapter(client *Client) *PyPIAdapter {
	return &PyPIAdapter{client: client, baseURL: pypiBase}
}

func (a *PyPIAdapter) ID() string              { return "pypi" }
func (a *PyPIAdapter) Origin() discover.Origin { return discover.OriginPyPI }

var (
	pypiNameRe = regexp.MustCompile(`class="package-snippet__name"[^>]*>([^<]+)</span>`)
	pypiDescRe = regexp.MustCompile(`class="package-snippet__description"[^>]*>([^<]*)</p>`)
)

type pypiDetailResponse struct {
	Info struct {
		Summary      string            `json:"summary"`
		Description  string            `json:"description"`
		Classifiers  []string          `json:"classifiers"`
		ProjectURLs  map[string]string `json:"project_urls"`
		RequiresDist []string          `json:"requires_dist"`
	} `json:"info"`
}

func (a *PyPIAdapter) Search(ctx context.Context, query string) ([]discover.Result, error) {
	searchURL := fmt.Sprintf("%s/search/?q=%s&o=", a.baseURL, escape(query))
	body, status, err := a.client.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("pypi search: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("pypi search: status %d", status)
	}

	candidates := parsePyPISearch(string(body), a.client.limit*overfetchFactor)

	keep := make([]bool, len(candidates))
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keep[i] = a.looksLikeCLI(ctx, candidates[i].name)
		}(i)
	}
	wg.Wait()

	results := make([]discover.Result, 0, a.client.limit)
	for i, c := range candidates {
		if !keep[i] || len(results) >= a.client.limit {
			continue
		}
		r := discover.NewResult(c.name, c.description, discover.OriginPyPI,
			fmt.Sprintf("pip install %s", c.name))
		r.URL = fmt.Sprintf("%s/project/%s/", pypiBase, c.name)
		r.Language = "Python"
		results = append(results, r)
	}
	return results, nil
}

type pypiCandidate struct {
	name        string
	description string
}

func parsePyPISearch(html string, limit int) []pypiCandidate {
	names := pypiNameRe.FindAllStringSubmatch(html, limit)
	descs := pypiDescRe.FindAllStringSubmatch(html, limit)
	out := make([]pypiCandidate, 0, len(names))
	for i, m := range names {
		c := pypiCandidate{name: strings.TrimSpace(m[1])}
		if i < len(descs) {
			c.description = strings.TrimSpace(descs[i][1])
		}
		out = append(out, c)
	}
	return out
}

// looksLikeCLI checks the package metadata for console indicators:
// classifiers, summary wording, project URL keys, and typical CLI
// framework dependencies.
func (a *PyPIAdapter) looksLikeCLI(ctx context.Context, name string) bool {
	var detail pypiDetailResponse
	err := a.client.getJSON(ctx, fmt.Sprintf("%s/pypi/%s/json", a.baseURL, escape(name)), &detail)
	if errors.Is(err, errNotFound) {
		return false
	}
	if err != nil {
		return true
	}
	return pypiInfoLooksLikeCLI(detail)
}

func pypiInfoLooksLikeCLI(detail pypiDetailResponse) bool {
	info := detail.Info
	for _, c := range info.Classifiers {
		if strings.Contains(c, "Environment :: Console") || strings.Contains(c, "Command-line") {
			return true
		}
	}
	combined := strings.ToLower(info.Summary + " " + info.Description)
	for _, marker := range []string{"command-line", "command line", " cli ", "cli tool", "cli for"} {
		if strings.Contains(combined, marker) {
			return true
		}
	}
	for key := range info.ProjectURLs {
		if strings.Contains(strings.ToLower(key), "cli") {
			return true
		}
	}
	for _, req := range info.RequiresDist {
		lower := strings.ToLower(req)
		for _, dep := range []string{"click", "typer", "fire", "argcomplete"} {
			if strings.HasPrefix(lower, dep) {
				return true
			}
		}
	}
	return false
}
