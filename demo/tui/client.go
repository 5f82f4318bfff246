package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HealthResponse is the JSON response from the health endpoint
type HealthResponse struct {
	Status  string          `json:"status"`
	Sources map[string]bool `json:"sources"`
}

// StatsResponse is the JSON response from the stats endpoint
type StatsResponse struct {
	Running     bool   `json:"running"`
	Saved       int    `json:"saved"`
	Dupes       int    `json:"dupes"`
	LowQuality  int    `json:"low_quality"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// Client is a thin HTTP client for the lead discovery API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Health fetches service status and source enablement
func (c *Client) Health() (*HealthResponse, error) {
	resp, err := c.client.Get(c.baseURL + "/api/health")
	if err != nil {
		return nil, fmt.Errorf("failed to get health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &health, nil
}

// Stats fetches the last run's counters
func (c *Client) Stats() (*StatsResponse, error) {
	resp, err := c.client.Get(c.baseURL + "/api/stats")
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var stats StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &stats, nil
}

// Run triggers a discovery run. Returns busy=true when one is already
// in progress.
func (c *Client) Run() (busy bool, err error) {
	resp, err := c.client.Post(c.baseURL+"/api/run", "application/json", nil)
	if err != nil {
		return false, fmt.Errorf("failed to trigger run: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		return false, nil
	case http.StatusConflict:
		return true, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
}
