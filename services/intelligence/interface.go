// File: services/intelligence/interface.go
package ai

import (
	"context"
	"fmt"
	"strings"

	"studiobook/config"

	"go.uber.org/zap"
)

// SystemPrompt frames every completion: the model turns intake answers
// into a brief for an AI website builder.
const SystemPrompt = "You are a senior web designer at a web-design agency. " +
	"Turn a prospective client's intake answers into a single, detailed prompt " +
	"that an AI website builder can use to generate a first homepage draft. " +
	"Answer with the prompt only, no preamble."

// PromptGenerator produces a completion for one user prompt.
type PromptGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewPromptGenerator returns the generator selected by AI_PROVIDER, or nil
// when that provider has no key.
func NewPromptGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (PromptGenerator, error) {
	if !cfg.AIConfigured() {
		return nil, nil
	}
	switch strings.ToLower(cfg.AIProvider) {
	case "gemini":
		gemini, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	case "openrouter":
		return NewOpenRouterClient(OpenRouterOptions{
			BaseURL: cfg.OpenRouterBaseURL,
			APIKey:  cfg.OpenRouterAPIKey,
			Model:   cfg.OpenRouterModel,
			SiteURL: cfg.SiteURL,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}
