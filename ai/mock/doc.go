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


// Package mock provides test double implementations of the ai interfaces.
//
// MockCompleter implements ai.Completer and MockCaller implements ai.Caller.
// Both are safe for concurrent use, count their calls and accept an
// injected function for custom behavior.
//
// # Usage in Tests
//
//	// Default behavior: deterministic text derived from the prompt
//	completer := mock.NewMockCompleter()
//
//	// Custom behavior injection
//	caller := mock.NewMockCaller().
//	    WithCallFunc(func(ctx context.Context, prompt string) (string, error) {
//	        return "1. What is Go?", nil
//	    })
//
//	// Check call counts
//	count := caller.CallCount()
package mock
