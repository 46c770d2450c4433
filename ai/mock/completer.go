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


package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/poiesic/qagen/ai"
)

// MockCompleter is a test double for ai.Completer.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns deterministic text derived from the prompt.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	kind  ai.ProviderKind
	model string

	mu      sync.Mutex
	prompts []string
}

// NewMockCompleter creates a local-kind mock completer.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{kind: ai.KindLocalCompletion, model: "mock-model"}
}

// WithCompleteFunc sets the completion behavior.
func (m *MockCompleter) WithCompleteFunc(fn func(ctx context.Context, prompt string) (string, error)) *MockCompleter {
	m.CompleteFunc = fn
	return m
}

// WithKind sets the reported provider kind.
func (m *MockCompleter) WithKind(kind ai.ProviderKind) *MockCompleter {
	m.kind = kind
	return m
}

// Complete records the prompt and returns the configured result.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	fn := m.CompleteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return DeterministicText(prompt), nil
}

// Kind returns the configured provider kind.
func (m *MockCompleter) Kind() ai.ProviderKind {
	return m.kind
}

// Model returns the mock model name.
func (m *MockCompleter) Model() string {
	return m.model
}

// CallCount returns the number of Complete calls.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of every prompt received, in call order.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Reset clears recorded calls and the injected behavior.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = nil
	m.CompleteFunc = nil
}

// DeterministicText returns a stable completion for prompt.
// It uses FNV hash so the same prompt always produces the same text.
func DeterministicText(prompt string) string {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	return fmt.Sprintf("mock completion %08x", h.Sum32())
}
