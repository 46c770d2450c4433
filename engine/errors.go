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


package engine

import "errors"

var (
	// ErrCatalogRequired is returned when a template catalog is not provided.
	ErrCatalogRequired = errors.New("template catalog required")

	// ErrAssemblerRequired is returned when a content assembler is not provided.
	ErrAssemblerRequired = errors.New("content assembler required")

	// ErrCallerRequired is returned when a question or answer provider is not provided.
	ErrCallerRequired = errors.New("provider caller required")

	// ErrStoreRequired is returned when a cache store is not provided.
	ErrStoreRequired = errors.New("cache store required")

	// ErrJobPanicked wraps a panic recovered from a job or task.
	ErrJobPanicked = errors.New("job panicked")

	// ErrEmptyResponse indicates the provider returned no text.
	ErrEmptyResponse = errors.New("empty provider response")
)
