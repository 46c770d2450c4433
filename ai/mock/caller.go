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
	"sync"
)

// MockCaller is a test double for ai.Caller.
// It has no retry policy: every Call is one invocation of CallFunc.
type MockCaller struct {
	// CallFunc is called by Call if set.
	// If nil, returns DeterministicText(prompt).
	CallFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

// NewMockCaller creates a mock caller with default deterministic behavior.
func NewMockCaller() *MockCaller {
	return &MockCaller{}
}

// WithCallFunc sets the call behavior.
func (m *MockCaller) WithCallFunc(fn func(ctx context.Context, prompt string) (string, error)) *MockCaller {
	m.CallFunc = fn
	return m
}

// Call records the prompt and returns the configured result.
func (m *MockCaller) Call(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	fn := m.CallFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return DeterministicText(prompt), nil
}

// CallCount returns the number of Call invocations.
func (m *MockCaller) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of every prompt received, in call order.
func (m *MockCaller) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Reset clears recorded calls.
func (m *MockCaller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = nil
}
