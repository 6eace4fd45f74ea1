package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"toolshed/internal/discover"
)

const cratesAPI = "https://crates.io/api/v1/crates"

// CratesAdapter searches crates.io and keeps only crates that ship a
// binary target.
type CratesAdapter struct {
	client  *Client
	baseURL string
}

func NewCratesAdapter(client *Client) *CratesAdapter {
	return &CratesAdapter{client: client, baseURL: cratesAPI}
}

func (a *CratesAdapter) ID() string              { return "crates.io" }
func (a *CratesAdapter) Origin() discover.Origin { return discover.OriginCratesIo }

type cratesSearchResponse struct {
	Crates []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Downloads   int64  `json:"downloads"`
		Repository  string `json:"repository"`
	} `json:"crates"`
}

type cratesDetailResponse struct {
	Versions []struct {
		BinNames []string `json:"bin_names"`
	} `json:"versions"`
}

func (a *CratesAdapter) Search(ctx context.Context, query string) ([]discover.Result, error) {
	searchURL := fmt.Sprintf("%s?q=%s&per_page=%d", a.baseURL, escape(query), a.client.limit*overfetchFactor)
	var listing cratesSearchResponse
	if err := a.client.getJSON(ctx, searchURL, &listing); err != nil {
		return nil, fmt.Errorf("crates.io search: %w", err)
	}

	// The binary check is one extra request per candidate; run them
	// concurrently and keep listing order.
	keep := make([]bool, len(listing.Crates))
	var wg sync.WaitGroup
	for i := range listing.Crates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keep[i] = a.hasBinaries(ctx, listing.Crates[i].Name)
		}(i)
	}
	wg.Wait()

	results := make([]discover.Result, 0, a.client.limit)
	for i, c := range listing.Crates {
		if !keep[i] || len(results) >= a.client.limit {
			continue
		}
		r := discover.NewResult(c.Name, c.Description, discover.OriginCratesIo,
			fmt.Sprintf("cargo install %s", c.Name))
		// Download counts stand in for stars until a GitHub hit merges
		// a real count over them.
		r.Stars = c.Downloads / 1000
		r.URL = c.Repository
		if r.URL == "" {
			r.URL = fmt.Sprintf("https://crates.io/crates/%s", c.Name)
		}
		r.Language = "Rust"
		results = append(results, r)
	}
	return results, nil
}

// hasBinaries reports whether the crate's current versions declare bin
// targets. Lookup failures other than 404 count as installable so a
// flaky detail endpoint does not hide search hits.
func (a *CratesAdapter) hasBinaries(ctx context.Context, name string) bool {
	var detail cratesDetailResponse
	err := a.client.getJSON(ctx, fmt.Sprintf("%s/%s", a.baseURL, escape(name)), &detail)
	if errors.Is(err, errNotFound) {
		return false
	}
	if err != nil {
		return true
	}
	if len(detail.Versions) == 0 {
		return true
	}
	// First entry is the newest version.
	return len(detail.Versions[0].BinNames) > 0
}
