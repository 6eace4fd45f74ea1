package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"toolshed/internal/discover"
)

const npmRegistry = "https://registry.npmjs.org"

// NpmAdapter searches the npm registry and keeps only packages that
// declare a bin entry, dropping pure libraries.
type NpmAdapter struct {
	client  *Client
	baseURL string
}

func NewNpmAdapter(client *Client) *NpmAdapter {
	return &NpmAdapter{client: client, baseURL: npmRegistry}
}

func (a *NpmAdapter) ID() string              { return "npm" }
func (a *NpmAdapter) Origin() discover.Origin { return discover.OriginNpm }

type npmSearchResponse struct {
	Objects []struct {
		Package struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"package"`
		Score struct {
			Final float64 `json:"final"`
		} `json:"score"`
	} `json:"objects"`
}

type npmPackageResponse struct {
	DistTags map[string]string `json:"dist-tags"`
	Versions map[string]struct {
		Bin interface{} `json:"bin"`
	} `json:"versions"`
}

func (a *NpmAdapter) Search(ctx context.Context, query string) ([]discover.Result, error) {
	searchURL := fmt.Sprintf("%s/-/v1/search?text=%s&size=%d", a.baseURL, escape(query), a.client.limit*overfetchFactor)
	var listing npmSearchResponse
	if err := a.client.getJSON(ctx, searchURL, &listing); err != nil {
		return nil, fmt.Errorf("npm search: %w", err)
	}

	keep := make([]bool, len(listing.Objects))
	var wg sync.WaitGroup
	for i := range listing.Objects {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keep[i] = a.hasBin(ctx, listing.Objects[i].Package.Name)
		}(i)
	}
	wg.Wait()

	results := make([]discover.Result, 0, a.client.limit)
	for i, obj := range listing.Objects {
		if !keep[i] || len(results) >= a.client.limit {
			continue
		}
		name := obj.Package.Name
		r := discover.NewResult(name, obj.Package.Description, discover.OriginNpm,
			fmt.Sprintf("npm install -g %s", name))
		r.Stars = int64(obj.Score.Final * 1000)
		r.URL = fmt.Sprintf("https://www.npmjs.com/package/%s", name)
		r.Language = "JavaScript"
		results = append(results, r)
	}
	return results, nil
}

// hasBin reports whether the package's latest version declares a bin
// field. Transient lookup failures count as installable.
func (a *NpmAdapter) hasBin(ctx context.Context, name string) bool {
	var pkg npmPackageResponse
	err := a.client.getJSON(ctx, fmt.Sprintf("%s/%s", a.baseURL, escape(name)), &pkg)
	if errors.Is(err, errNotFound) {
		return false
	}
	if err != nil {
		return true
	}
	latest, ok := pkg.Versions[pkg.DistTags["latest"]]
	if !ok {
		return true
	}
	return latest.Bin != nil
}
