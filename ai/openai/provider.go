// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/qagen/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer against a hosted chat-completion API.
type Completer struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

// NewCompleter creates a remote completer.
// The config is validated before use, so a missing API key fails here.
//
// Returns ai.Completer interface (not *Completer) to keep callers on the
// provider abstraction.
func NewCompleter(config *ai.ProviderConfig) (ai.Completer, error) {
	if config.Kind != ai.KindRemoteCompletion {
		return nil, fmt.Errorf("%w: openai completer requires %s, got %s",
			ai.ErrInvalidConfig, ai.KindRemoteCompletion, config.Kind)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	}
	if config.Host != "" {
		opts = append(opts, openai.WithBaseURL(config.Host))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}

	return &Completer{
		client: client,
		model:  config.Model,
		logger: slog.Default().With("component", "openai-completer"),
	}, nil
}

// Complete sends prompt as a single user message and returns the first
// choice's content verbatim.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := c.client.GenerateContent(ctx, content)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("%w: no choices returned", ai.ErrMalformedResponse)
	}

	text := response.Choices[0].Content
	c.logger.Debug("completion received", "model", c.model, "chars", len(text))
	return text, nil
}

// Kind reports KindRemoteCompletion.
func (c *Completer) Kind() ai.ProviderKind {
	return ai.KindRemoteCompletion
}

// Model returns the configured model identifier.
func (c *Completer) Model() string {
	return c.model
}
