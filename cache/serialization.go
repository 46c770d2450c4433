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
	"fmt"

	"github.com/poiesic/qagen/core"
)

// MarshalEntry serializes a CacheEntry to bytes.
func MarshalEntry(entry *core.CacheEntry) []byte {
	buf := make([]byte, core.CacheEntryMUS.Size(*entry))
	core.CacheEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalEntry deserializes a CacheEntry from bytes.
func UnmarshalEntry(data []byte) (*core.CacheEntry, error) {
	entry, _, err := core.CacheEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}

// MarshalRecord serializes an entry together with the paths it belongs to.
func MarshalRecord(paths core.ArtifactPaths, entry *core.CacheEntry) []byte {
	n := core.ArtifactPathsMUS.Size(paths)
	buf := make([]byte, n+core.CacheEntryMUS.Size(*entry))
	core.ArtifactPathsMUS.Marshal(paths, buf)
	core.CacheEntryMUS.Marshal(*entry, buf[n:])
	return buf
}

// UnmarshalRecord deserializes a record written by MarshalRecord.
func UnmarshalRecord(data []byte) (core.ArtifactPaths, *core.CacheEntry, error) {
	paths, n, err := core.ArtifactPathsMUS.Unmarshal(data)
	if err != nil {
		return core.ArtifactPaths{}, nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	entry, err := UnmarshalEntry(data[n:])
	if err != nil {
		return core.ArtifactPaths{}, nil, err
	}
	return paths, entry, nil
}
