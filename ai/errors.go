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

import "errors"

var (
	// ErrExhausted is returned by Gateway.Call when every attempt failed.
	ErrExhausted = errors.New("provider retries exhausted")

	// ErrMalformedResponse indicates a provider answered without usable content.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrMissingAPIKey indicates a remote provider was selected without an API key.
	ErrMissingAPIKey = errors.New("API key required for remote provider")

	// ErrUnknownProvider indicates a configured provider name has no variant.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInvalidConfig indicates a provider configuration failed validation.
	ErrInvalidConfig = errors.New("invalid provider config")
)
