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


// Package openai implements the remote-completion provider variant using
// OpenAI or OpenAI-compatible chat-completion services.
//
// The completer talks to the service through the langchaingo library. Each
// prompt is sent as a single user message and the first choice is returned
// without trimming.
//
// # Usage
//
//	config := ai.NewProviderConfig(
//	    ai.WithKind(ai.KindRemoteCompletion),
//	    ai.WithModel("gpt-4o-mini"),
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
//	completer, err := openai.NewCompleter(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := completer.Complete(ctx, "Write three questions about Go.")
package openai
