package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// judge0Languages maps language names to Judge0 language ids.
var judge0Languages = map[string]int{
	"python":     71,
	"python3":    71,
	"javascript": 63,
	"typescript": 74,
	"java":       62,
	"cpp":        54,
	"c++":        54,
	"go":         60,
	"rust":       73,
}

const judge0AcceptedStatus = 3

// Judge0Client runs code through a Judge0-compatible API.
type Judge0Client struct {
	baseURL string
	apiKey  string
	host    string
	http    *http.Client
	logger  *zap.Logger
}

// NewJudge0Client creates a sandbox client. host is the RapidAPI host header;
// baseURL is derived from it.
func NewJudge0Client(host, apiKey string, log *zap.Logger) *Judge0Client {
	return &Judge0Client{
		baseURL: "https://" + host + "/submissions",
		apiKey:  apiKey,
		host:    host,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  log,
	}
}

// RunTests executes the code once per test case. A failing submission call
// fails the whole run; the caller degrades to an unexecuted verdict.
func (c *Judge0Client) RunTests(ctx context.Context, code, language string, cases []TestCase) ([]TestResult, error) {
	langID, ok := judge0Languages[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		langID = judge0Languages["python"]
	}

	results := make([]TestResult, 0, len(cases))
	for _, tc := range cases {
		result, err := c.submit(ctx, code, langID, tc)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *Judge0Client) submit(ctx context.Context, code string, langID int, tc TestCase) (TestResult, error) {
	payload, err := json.Marshal(map[string]any{
		"language_id":     langID,
		"source_code":     code,
		"stdin":           tc.Input,
		"expected_output": tc.Expected,
	})
	if err != nil {
		return TestResult{}, fmt.Errorf("judge0: marshal submission: %w", err)
	}

	url := c.baseURL + "?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return TestResult{}, fmt.Errorf("judge0: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		return TestResult{}, fmt.Errorf("judge0: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return TestResult{}, fmt.Errorf("judge0: status %d: %.200s", resp.StatusCode, string(b))
	}

	var raw struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Time   string `json:"time"`
		Status struct {
			ID          int    `json:"id"`
			Description string `json:"description"`
		} `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return TestResult{}, fmt.Errorf("judge0: decode response: %w", err)
	}

	actual := strings.TrimSpace(raw.Stdout)
	if actual == "" && raw.Stderr != "" {
		actual = strings.TrimSpace(raw.Stderr)
	}

	c.logger.Debug("judge0 submission finished",
		zap.Int("status_id", raw.Status.ID),
		zap.String("status", raw.Status.Description),
	)

	return TestResult{
		Input:    tc.Input,
		Expected: tc.Expected,
		Actual:   actual,
		Passed:   raw.Status.ID == judge0AcceptedStatus,
	}, nil
}
