// File: services/intelligence/openrouter.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studiobook/utils"

	"go.uber.org/zap"
)

const openRouterProvider = "openrouter"

// OpenRouterOptions configures an OpenRouterClient.
type OpenRouterOptions struct {
	BaseURL     string
	APIKey      string
	Model       string
	SiteURL     string // sent as HTTP-Referer for OpenRouter attribution
	MaxTokens   int
	Temperature *float64
}

// OpenRouterClient talks to the OpenAI-compatible chat completions endpoint
// of OpenRouter.
type OpenRouterClient struct {
	httpClient *http.Client
	opts       OpenRouterOptions
	logger     *zap.Logger
}

func NewOpenRouterClient(opts OpenRouterOptions, logger *zap.Logger) *OpenRouterClient {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1200
	}
	return &OpenRouterClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		opts:       opts,
		logger:     logger.Named("openrouter"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends a non-streaming completion request and returns the first choice.
func (c *OpenRouterClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.opts.APIKey == "" {
		return "", &utils.ConfigurationError{Setting: "OPENROUTER_API_KEY"}
	}

	wireRequest := chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	}
	payload, err := json.Marshal(wireRequest)
	if err != nil {
		return "", fmt.Errorf("openrouter: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openrouter: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.opts.SiteURL != "" {
		req.Header.Set("HTTP-Referer", c.opts.SiteURL)
	}
	req.Header.Set("X-Title", "studiobook")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.ObserveUpstream(openRouterProvider, 0)
		return "", &utils.TransportError{Provider: openRouterProvider, Op: "chat completion", Err: err}
	}
	defer resp.Body.Close()
	utils.ObserveUpstream(openRouterProvider, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &utils.TransportError{Provider: openRouterProvider, Op: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &utils.UpstreamError{Provider: openRouterProvider, StatusCode: resp.StatusCode, Body: body}
	}

	var wireResponse chatResponse
	if err := json.Unmarshal(body, &wireResponse); err != nil {
		return "", &utils.TransportError{Provider: openRouterProvider, Op: "parse response", Err: err}
	}
	if len(wireResponse.Choices) == 0 {
		return "", &utils.TransportError{Provider: openRouterProvider, Op: "parse response", Err: fmt.Errorf("no choices")}
	}

	content := strings.TrimSpace(wireResponse.Choices[0].Message.Content)
	c.logger.Debug("completion received", zap.Int("chars", len(content)))
	return content, nil
}
