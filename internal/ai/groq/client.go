// Package groq implements the reasoning service seam on top of the Groq
// OpenAI-compatible chat completions API.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hireflow/internal/logger"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel   = "llama-3.3-70b-versatile"

	// Evaluations must be consistent between candidates, so the
	// temperature stays low.
	temperature = 0.3
	maxTokens   = 4096

	systemPrompt = "You are an expert technical interviewer and HR professional. " +
		"Always respond with valid JSON only, no markdown or extra text."
)

// Generator calls the Groq chat completions endpoint. It satisfies
// ai.ModelGenerator.
type Generator struct {
	apiKey    string
	modelName string
	baseURL   string
	http      *http.Client
	logger    *zap.Logger
	maxLogLen int
}

// NewGenerator creates a Groq-backed generator. The timeout bounds a single
// completion call; retries are layered on by ai.WithRetry.
func NewGenerator(apiKey, model string, timeout time.Duration, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("groq api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Generator{
		apiKey:    apiKey,
		modelName: model,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: timeout},
		logger:    log,
		maxLogLen: 200,
	}, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

// GenerateContent sends the prompt using the configured model.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return g.GenerateWithModel(ctx, g.modelName, prompt)
}

// GenerateWithModel sends the prompt to the given model and returns the first
// choice's content.
func (g *Generator) GenerateWithModel(ctx context.Context, model, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	reqBody := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature":     temperature,
		"max_tokens":      maxTokens,
		"response_format": map[string]string{"type": "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("groq: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("groq: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	g.logger.Debug("groq generate content request",
		zap.String("model", model),
		zap.Int("prompt_length", len(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, g.maxLogLen)),
	)

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("groq: status %d: %s", resp.StatusCode, logger.TruncateForLog(string(b), g.maxLogLen))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("groq: decode response: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("groq: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", errors.New("groq: empty response")
	}

	output := strings.TrimSpace(result.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("groq: empty completion")
	}

	g.logger.Debug("groq generate content response",
		zap.String("model", model),
		zap.Duration("took", time.Since(start)),
		zap.Int("response_length", len(output)),
		zap.String("response_preview", logger.TruncateForLog(output, g.maxLogLen)),
	)

	return output, nil
}
