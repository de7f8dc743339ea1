package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultClientTimeout = 15 * time.Second

// Client talks to an external skill-matching HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a matching service client with a bounded timeout.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultClientTimeout},
	}
}

// Match posts candidate skills and job requirements to the matching service.
func (c *Client) Match(ctx context.Context, skills, mustHave []string) (*Result, error) {
	body := map[string]any{
		"candidate_skills": skills,
		"required_skills":  mustHave,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("matching: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/match", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("matching: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matching: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("matching: status %d: %s", resp.StatusCode, string(b))
	}

	var raw struct {
		MatchPercent  float64  `json:"match_percent"`
		MissingSkills []string `json:"missing_skills"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("matching: decode response: %w", err)
	}

	if raw.MatchPercent < 0 || raw.MatchPercent > 100 {
		return nil, fmt.Errorf("matching: match percent out of range: %v", raw.MatchPercent)
	}

	missing := raw.MissingSkills
	if missing == nil {
		missing = []string{}
	}

	return &Result{MatchPercent: raw.MatchPercent, MissingSkills: missing}, nil
}
