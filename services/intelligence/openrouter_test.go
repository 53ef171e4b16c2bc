package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"studiobook/config"
	"studiobook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenRouterGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://studio.example", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "studiobook", r.Header.Get("X-Title"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "openai/gpt-4o-mini", req.Model)
		assert.Equal(t, 1200, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, SystemPrompt, req.Messages[0].Content)
		assert.Equal(t, chatMessage{Role: "user", Content: "intake"}, req.Messages[1])

		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  Build a homepage.\n"}}]}`)
	}))
	defer srv.Close()

	c := NewOpenRouterClient(OpenRouterOptions{
		BaseURL: srv.URL + "/",
		APIKey:  "or-key",
		Model:   "openai/gpt-4o-mini",
		SiteURL: "https://studio.example",
	}, zap.NewNop())

	out, err := c.Generate(context.Background(), "intake")
	require.NoError(t, err)
	assert.Equal(t, "Build a homepage.", out)
}

func TestOpenRouterErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "upstream status",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"rate limited"}}`,
			check: func(t *testing.T, err error) {
				var upstream *utils.UpstreamError
				require.ErrorAs(t, err, &upstream)
				assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			check: func(t *testing.T, err error) {
				var transport *utils.TransportError
				assert.ErrorAs(t, err, &transport)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := NewOpenRouterClient(OpenRouterOptions{BaseURL: srv.URL, APIKey: "k", Model: "m"}, zap.NewNop())
			_, err := c.Generate(context.Background(), "intake")
			tt.check(t, err)
		})
	}
}

func TestOpenRouterWithoutKey(t *testing.T) {
	c := NewOpenRouterClient(OpenRouterOptions{BaseURL: "http://127.0.0.1:0"}, zap.NewNop())
	_, err := c.Generate(context.Background(), "intake")

	var cfgErr *utils.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewPromptGenerator(t *testing.T) {
	t.Run("disabled without key", func(t *testing.T) {
		gen, err := NewPromptGenerator(context.Background(), &config.Config{AIProvider: "openrouter"}, zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, gen)
	})

	t.Run("openrouter", func(t *testing.T) {
		gen, err := NewPromptGenerator(context.Background(), &config.Config{
			AIProvider:        "openrouter",
			OpenRouterAPIKey:  "k",
			OpenRouterBaseURL: "https://openrouter.ai/api/v1",
		}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &OpenRouterClient{}, gen)
	})
}
