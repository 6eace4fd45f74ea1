// Package readme fetches and renders project READMEs for the detail
// overlay. Only GitHub-hosted projects are resolvable; everything else
// reports ErrNoReadme so the UI can fall back to the plain details
// view.
package readme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
)

// ErrNoReadme means the project URL does not resolve to a fetchable
// README.
var ErrNoReadme = errors.New("no readme available")

const maxReadmeBytes = 1 << 20

// candidate filenames tried in order against the repository root.
var readmeNames = []string{"README.md", "README.MD", "readme.md", "README"}

// Fetcher downloads READMEs over HTTP.
type Fetcher struct {
	http    *http.Client
	baseURL string
}

// NewFetcher builds a fetcher with a bounded request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://raw.githubusercontent.com",
	}
}

// Fetch retrieves the raw README markdown for a project URL.
func (f *Fetcher) Fetch(ctx context.Context, projectURL string) (string, error) {
	owner, repo, ok := splitGitHubURL(projectURL)
	if !ok {
		return "", ErrNoReadme
	}
	for _, name := range readmeNames {
		url := fmt.Sprintf("%s/%s/%s/HEAD/%s", f.baseURL, owner, repo, name)
		body, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, errNotFound) {
			return "", err
		}
	}
	return "", ErrNoReadme
}

var errNotFound = errors.New("not found")

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "toolshed")
	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadmeBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// splitGitHubURL extracts the owner and repository from a GitHub URL.
func splitGitHubURL(projectURL string) (owner, repo string, ok bool) {
	trimmed := strings.TrimPrefix(projectURL, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	if !strings.HasPrefix(trimmed, "github.com/") {
		return "", "", false
	}
	parts := strings.Split(strings.TrimPrefix(trimmed, "github.com/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	repo = strings.TrimSuffix(parts[1], ".git")
	return parts[0], repo, true
}

// Render converts README markdown to styled terminal output wrapped to
// the given width.
func Render(markdown string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}
