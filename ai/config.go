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


package ai

import (
	"fmt"
	"strings"
	"time"
)

// Default values applied by DefaultProviderConfig and NewProviderConfig.
const (
	DefaultLocalHost     = "http://localhost:11434/api/generate"
	DefaultMaxRetries    = 5
	DefaultBaseDelay     = time.Second
	DefaultLocalTimeout  = 60 * time.Second
	DefaultRemoteTimeout = 120 * time.Second
)

// ProviderConfig holds configuration for one provider binding.
type ProviderConfig struct {
	// Kind selects the provider variant.
	Kind ProviderKind

	// Model is the model identifier sent with each request.
	// Example: "gpt-4o-mini", "llama3"
	Model string

	// Host is the endpoint for the provider.
	// For local providers this is the full generate URL.
	// For remote providers an empty Host uses the vendor default.
	Host string

	// APIKey authenticates remote providers. Unused for local providers.
	APIKey string

	// Timeout bounds a single attempt. Zero selects the per-kind default.
	Timeout time.Duration

	// RequestsPerMinute throttles calls through the gateway. Zero disables it.
	RequestsPerMinute float64

	// MaxRetries is the number of retries after the first attempt.
	// Default: 5 (six attempts in total)
	MaxRetries int

	// BaseDelay is the backoff unit; retry k waits BaseDelay*2^(k-1) plus jitter.
	// Default: 1s
	BaseDelay time.Duration
}

// ProviderOption is a functional option for configuring a ProviderConfig.
type ProviderOption func(*ProviderConfig)

// WithKind sets the provider variant.
func WithKind(kind ProviderKind) ProviderOption {
	return func(c *ProviderConfig) {
		c.Kind = kind
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ProviderOption {
	return func(c *ProviderConfig) {
		c.Model = model
	}
}

// WithHost sets the provider endpoint.
func WithHost(host string) ProviderOption {
	return func(c *ProviderConfig) {
		c.Host = host
	}
}

// WithAPIKey sets the credential for remote providers.
func WithAPIKey(key string) ProviderOption {
	return func(c *ProviderConfig) {
		c.APIKey = key
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ProviderOption {
	return func(c *ProviderConfig) {
		c.Timeout = d
	}
}

// WithRequestsPerMinute sets the gateway rate limit.
func WithRequestsPerMinute(rpm float64) ProviderOption {
	return func(c *ProviderConfig) {
		c.RequestsPerMinute = rpm
	}
}

// WithRetries sets the retry count and backoff base.
func WithRetries(maxRetries int, baseDelay time.Duration) ProviderOption {
	return func(c *ProviderConfig) {
		c.MaxRetries = maxRetries
		c.BaseDelay = baseDelay
	}
}

// DefaultProviderConfig returns a local provider config pointing at a
// default Ollama install.
func DefaultProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		Kind:       KindLocalCompletion,
		Host:       DefaultLocalHost,
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
	}
}

// NewProviderConfig creates a ProviderConfig with the default values and
// applies the provided options.
//
// Example:
//
//	cfg := NewProviderConfig(
//	    WithKind(KindRemoteCompletion),
//	    WithModel("gpt-4o-mini"),
//	    WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
func NewProviderConfig(opts ...ProviderOption) *ProviderConfig {
	cfg := DefaultProviderConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize fills in per-kind defaults.
func (c *ProviderConfig) Normalize() {
	c.Host = strings.TrimSpace(c.Host)
	if c.Timeout <= 0 {
		if c.Kind == KindRemoteCompletion {
			c.Timeout = DefaultRemoteTimeout
		} else {
			c.Timeout = DefaultLocalTimeout
		}
	}
	if c.Kind == KindLocalCompletion && c.Host == "" {
		c.Host = DefaultLocalHost
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = 0
	}
}

// Attempts returns the total number of attempts a gateway makes per call.
func (c *ProviderConfig) Attempts() int {
	return c.MaxRetries + 1
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *ProviderConfig) Validate() error {
	c.Normalize()

	switch c.Kind {
	case KindRemoteCompletion:
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
	case KindLocalCompletion:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProvider, c.Kind)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: MaxRetries must not be negative", ErrInvalidConfig)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: RequestsPerMinute must not be negative", ErrInvalidConfig)
	}
	return nil
}
