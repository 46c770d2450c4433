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


package cache

import (
	"context"
	"fmt"

	"github.com/poiesic/qagen/core"
)

// Status classifies a cache lookup.
type Status int

const (
	// StatusMissing means no artifact exists; the task must generate.
	StatusMissing Status = iota
	// StatusStale means the artifact was produced by a different prompt.
	StatusStale
	// StatusFresh means the artifact can be reused without a provider call.
	StatusFresh
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusStale:
		return "stale"
	case StatusFresh:
		return "fresh"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of a cache lookup.
type Result struct {
	Status Status
	// Text is the cached artifact, set when Status is StatusFresh.
	Text string
	// Seeded is true when a legacy artifact had its hash stored by this lookup.
	Seeded bool
}

// Hit reports whether the lookup can skip generation.
func (r Result) Hit() bool {
	return r.Status == StatusFresh
}

// Store persists generated artifacts addressed by task paths.
type Store interface {
	// ReadIfFresh applies the hash policy for the artifact at paths.
	ReadIfFresh(ctx context.Context, paths core.ArtifactPaths, hash string) (Result, error)

	// ReadIfExists applies the existence policy for the artifact at paths.
	ReadIfExists(ctx context.Context, paths core.ArtifactPaths) (Result, error)

	// Write persists entry.Text, entry.Prompt as the debug copy and
	// entry.Hash, in that order. An empty Hash writes no hash, leaving the
	// artifact under the existence policy.
	Write(ctx context.Context, paths core.ArtifactPaths, entry core.CacheEntry) error

	// Close releases resources held by the store.
	Close() error
}

// Walker enumerates every stored artifact.
// Stores that do not keep the on-disk layout themselves implement it so
// their contents can be exported.
type Walker interface {
	// Walk calls fn for each stored artifact. A non-nil error from fn stops
	// the walk and is returned.
	Walk(ctx context.Context, fn func(paths core.ArtifactPaths, entry core.CacheEntry) error) error
}
