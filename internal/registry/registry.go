// Package registry implements the discovery adapters for package
// registries and system package managers. Each adapter performs one
// remote search and converts the raw listing into discover results
// carrying an install command.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var errNotFound = errors.New("not found")

const (
	// DefaultLimit caps how many results one adapter contributes.
	DefaultLimit = 10

	requestTimeout = 10 * time.Second

	// Registries return library-only entries; fetch extra so the
	// binary filter still fills the limit.
	overfetchFactor = 3
)

// Client wraps the HTTP transport shared by the registry adapters.
type Client struct {
	http  *http.Client
	limit int
}

// NewClient builds a client with the default timeout and result limit.
func NewClient() *Client {
	return &Client{
		http:  &http.Client{Timeout: requestTimeout},
		limit: DefaultLimit,
	}
}

// WithLimit overrides the per-adapter result cap.
func (c *Client) WithLimit(limit int) *Client {
	if limit > 0 {
		c.limit = limit
	}
	return c
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	body, status, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return errNotFound
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", rawURL, status)
	}
	return decodeJSON(body, out)
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", "toolshed")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func decodeJSON(body []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	return dec.Decode(out)
}

func escape(s string) string {
	return url.QueryEscape(s)
}
