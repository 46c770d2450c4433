package ai

import (
	"fmt"
	"strings"
)

// ProviderKind is the closed set of provider variants.
type ProviderKind int

const (
	// KindRemoteCompletion is a hosted chat-completion API (OpenAI or compatible).
	KindRemoteCompletion ProviderKind = iota + 1
	// KindLocalCompletion is a self-hosted generation endpoint (Ollama /api/generate).
	KindLocalCompletion
)

func (k ProviderKind) String() string {
	switch k {
	case KindRemoteCompletion:
		return "remote-completion"
	case KindLocalCompletion:
		return "local-completion"
	default:
		return fmt.Sprintf("provider-kind(%d)", int(k))
	}
}

// ParseProviderKind maps a configured provider name to its variant.
// Accepted names are "openai"/"remote" and "ollama"/"local", case-insensitive.
func ParseProviderKind(name string) (ProviderKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai", "remote", "remote-completion":
		return KindRemoteCompletion, nil
	case "ollama", "local", "local-completion":
		return KindLocalCompletion, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
