// Package provider selects the Completer implementation for a provider kind.
package provider

import (
	"fmt"

	"github.com/poiesic/qagen/ai"
	"github.com/poiesic/qagen/ai/ollama"
	"github.com/poiesic/qagen/ai/openai"
)

// NewCompleter creates the completer for config.Kind.
// Adding a provider variant means adding a kind and a branch here.
func NewCompleter(config *ai.ProviderConfig) (ai.Completer, error) {
	switch config.Kind {
	case ai.KindRemoteCompletion:
		return openai.NewCompleter(config)
	case ai.KindLocalCompletion:
		return ollama.NewCompleter(config)
	default:
		return nil, fmt.Errorf("%w: %s", ai.ErrUnknownProvider, config.Kind)
	}
}

// NewGateway creates the completer for config and wraps it in an ai.Gateway.
func NewGateway(config *ai.ProviderConfig, opts ...ai.GatewayOption) (*ai.Gateway, error) {
	completer, err := NewCompleter(config)
	if err != nil {
		return nil, err
	}
	return ai.NewGateway(completer, config, opts...), nil
}
