package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fieldpass/fieldpass/internal/progression"
)

// Client makes REST calls to the CRM backend. It implements
// progression.Fetcher.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client targeting the given base URL
// (e.g. "https://crm.example.com").
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Progress fetches the authoritative progression snapshot.
func (c *Client) Progress(ctx context.Context) (*progression.ProgressSnapshot, error) {
	var p progressPayload
	if err := c.get(ctx, "/api/v1/progress", &p); err != nil {
		return nil, err
	}
	return p.snapshot(), nil
}

// Missions fetches the daily and weekly mission catalog.
func (c *Client) Missions(ctx context.Context) (*progression.MissionCatalog, error) {
	var p missionsPayload
	if err := c.get(ctx, "/api/v1/missions", &p); err != nil {
		return nil, err
	}
	return p.catalog(), nil
}

// Leaderboard fetches up to limit leaderboard rows.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]progression.Entry, error) {
	var p leaderboardPayload
	if err := c.get(ctx, "/api/v1/leaderboard?limit="+strconv.Itoa(limit), &p); err != nil {
		return nil, err
	}
	out := make([]progression.Entry, 0, len(p.Leaderboard))
	for _, r := range p.Leaderboard {
		out = append(out, normalizeEntry(r))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setAuth(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %d %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
