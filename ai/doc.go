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


// Package ai provides the provider abstraction used to generate questions
// and answers.
//
// # Design
//
// A Completer makes a single request to one model. Two variants exist:
//
//   - KindRemoteCompletion: a hosted chat-completion API (ai/openai)
//   - KindLocalCompletion: a self-hosted generate endpoint (ai/ollama)
//
// ai/provider builds the right Completer from a ProviderConfig, and
// ai/mock supplies test doubles.
//
// Gateway wraps any Completer with the retry policy shared by all
// variants: up to MaxRetries retries after the first failure, waiting
// BaseDelay*2^(k-1) plus a uniform random [0,1s) before retry k. After the
// last failure Call returns an error wrapping ErrExhausted, which callers
// treat as "no result" for that task.
//
// Remote completions are returned verbatim. Local completions are trimmed
// of surrounding whitespace.
//
// # Usage Example
//
//	cfg := ai.NewProviderConfig(
//	    ai.WithKind(ai.KindLocalCompletion),
//	    ai.WithModel("llama3"),
//	)
//	completer, err := provider.NewCompleter(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gateway := ai.NewGateway(completer, cfg)
//	text, err := gateway.Call(ctx, prompt)
//	if errors.Is(err, ai.ErrExhausted) {
//	    // skip this task
//	}
package ai
