package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poiesic/qagen/ai"
)

// GenerateRequest is the body posted to the generate endpoint.
type GenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options"`
}

// GenerateResponse is the subset of the non-streaming reply we read.
type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Completer implements ai.Completer for a local generate endpoint.
type Completer struct {
	url        string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewCompleter creates a local completer posting to config.Host.
// The per-attempt timeout is applied by ai.Gateway through the request
// context, so the HTTP client carries no timeout of its own.
func NewCompleter(config *ai.ProviderConfig) (ai.Completer, error) {
	if config.Kind != ai.KindLocalCompletion {
		return nil, fmt.Errorf("%w: ollama completer requires %s, got %s",
			ai.ErrInvalidConfig, ai.KindLocalCompletion, config.Kind)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Completer{
		url:        config.Host,
		model:      config.Model,
		httpClient: &http.Client{},
		logger:     slog.Default().With("component", "ollama-completer"),
	}, nil
}

// Complete posts a non-streaming generate request and returns the
// "response" field with surrounding whitespace removed.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(GenerateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("local inference returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("local inference error: %s", out.Error)
	}

	c.logger.Debug("generation received", "model", c.model, "chars", len(out.Response))
	return strings.TrimSpace(out.Response), nil
}

// Kind reports KindLocalCompletion.
func (c *Completer) Kind() ai.ProviderKind {
	return ai.KindLocalCompletion
}

// Model returns the configured model identifier.
func (c *Completer) Model() string {
	return c.model
}
