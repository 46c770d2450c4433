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


// Package cache provides the artifact cache abstraction for qagen.
//
// A Store persists generated text addressed by a task's deterministic
// core.ArtifactPaths, together with the content hash of the prompt that
// produced it. Two backends exist:
//
//   - cache/files: the on-disk layout (artifact, .meta sidecar, debug prompt)
//   - cache/badger: one encoded core.CacheEntry per artifact in BadgerDB
//
// # Freshness Policy
//
// ReadIfFresh applies the hash policy:
//
//  1. no artifact: StatusMissing
//  2. artifact without a stored hash: the current hash is stored now and the
//     artifact is StatusFresh (a legacy seed, no provider call is spent)
//  3. stored hash equal to the current hash: StatusFresh
//  4. stored hash different: StatusStale
//
// ReadIfExists applies the existence policy: any artifact is StatusFresh.
//
// # Constructor Return Type Pattern
//
// Public constructors return the Store interface:
//
//	store, err := files.NewStore(fs)   // returns cache.Store
//	store, err := badger.NewStore(path) // returns cache.Store
//
// # Thread Safety
//
// Stores must be safe for concurrent use. Distinct tasks never address the
// same artifact, so implementations need no per-key locking.
package cache
