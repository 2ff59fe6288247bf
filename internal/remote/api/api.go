// Package api is the HTTP adapter to the upstream budget service. Only the
// payload shapes live here; auth is a configured bearer token and timeouts
// are the transport's, so a slow server reads as any other failed sync.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/remote"
)

const defaultTimeout = 5 * time.Second

type Client struct {
	base   string
	token  string
	reg    *core.Registry
	client *http.Client
}

var _ remote.Store = (*Client)(nil)

// New creates a client for the budget service at baseURL. The token may be
// empty; the server will answer unauthorized and the error carries
// remote.ErrUnauthorized so explicit saves can report it distinctly.
func New(baseURL, token string, reg *core.Registry) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		token:  token,
		reg:    reg,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch implements remote.Store via GET /budget/latest.
func (c *Client) Fetch(ctx context.Context) (core.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/budget/latest", nil)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("build fetch request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("fetch budget: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		wire := map[string]int64{}
		if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
			return core.Snapshot{}, fmt.Errorf("decode budget payload: %w", err)
		}
		return remote.Decode(c.reg, wire), nil
	case http.StatusNoContent, http.StatusNotFound:
		return core.Snapshot{}, remote.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.Snapshot{}, fmt.Errorf("fetch budget: %w", remote.ErrUnauthorized)
	default:
		return core.Snapshot{}, fmt.Errorf("fetch budget: unexpected status %d", resp.StatusCode)
	}
}

// Save implements remote.Store via the throttled background endpoint
// POST /budget/auto-sync.
func (c *Client) Save(ctx context.Context, s core.Snapshot) error {
	return c.post(ctx, "/budget/auto-sync", s)
}

// SaveExplicit posts to /budget, the endpoint for a user-initiated save.
func (c *Client) SaveExplicit(ctx context.Context, s core.Snapshot) error {
	return c.post(ctx, "/budget", s)
}

func (c *Client) post(ctx context.Context, path string, s core.Snapshot) error {
	body, err := json.Marshal(remote.Encode(s))
	if err != nil {
		return fmt.Errorf("encode budget payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("save budget: %w", remote.ErrUnauthorized)
	default:
		return fmt.Errorf("save budget: unexpected status %d", resp.StatusCode)
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
