package ai

import "context"

// Completer sends a single prompt to a language model and returns its text.
// Implementations make exactly one attempt per call; retries belong to Gateway.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete returns the model output for prompt.
	// Transport errors, non-success statuses and malformed responses are
	// all returned as errors.
	Complete(ctx context.Context, prompt string) (string, error)

	// Kind reports which provider variant this is.
	Kind() ProviderKind

	// Model returns the model identifier requests are sent to.
	Model() string
}

// Caller is the provider contract used by the generation engine.
// Gateway is the production implementation.
type Caller interface {
	// Call returns the model output for prompt, retrying transient failures.
	// When every attempt fails it returns an error wrapping ErrExhausted,
	// which callers treat as "no result" for this one task.
	Call(ctx context.Context, prompt string) (string, error)
}
