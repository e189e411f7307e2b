// Package openrouter implements generator.Generator against an
// OpenRouter-compatible chat-completions endpoint.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sakif/caption-studio/internal/apperror"
	"github.com/sakif/caption-studio/internal/generator"
)

// maxTokens caps the completion length per request.
const maxTokens = 150

// Config holds the upstream endpoint settings.
type Config struct {
	BaseURL string // e.g. https://openrouter.ai/api/v1
	APIKey  string
	Model   string // e.g. mistralai/mistral-7b-instruct
}

// Client implements generator.Generator over HTTP.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

// compile-time check that *Client implements generator.Generator
var _ generator.Generator = (*Client)(nil)

// New creates a Client. The shared http.Client carries a 30s timeout so a
// stalled upstream cannot pin request handlers forever.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// chatRequest is the chat-completions payload. Only the fields this app
// sends are modeled.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the slice of the completion response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completions request and returns the trimmed
// completion text.
//
// Any transport failure, non-2xx status, or empty choice list comes back as
// an upstream error carrying whatever diagnostic body the API returned, so
// the handler can pass it through in the error details.
func (c *Client) Complete(ctx context.Context, genReq generator.Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: genReq.System},
			{Role: "user", Content: genReq.User},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openrouter: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("completion request failed", slog.String("error", err.Error()))
		return "", apperror.Upstream("AI generation error", err.Error())
	}
	defer resp.Body.Close()

	// Read the body either way: on failure it is the diagnostic detail.
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperror.Upstream("AI generation error", err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("completion endpoint returned an error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return "", apperror.Upstream(
			fmt.Sprintf("AI generation error: upstream status %d", resp.StatusCode),
			string(respBody),
		)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", apperror.Upstream("AI generation error: unreadable response", string(respBody))
	}
	if len(chatResp.Choices) == 0 {
		return "", apperror.Upstream("AI generation error: no completion returned", string(respBody))
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
