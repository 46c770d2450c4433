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


package badger

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

const (
	entryPrefix = "qaent:"
)

// makeEntryKey generates the key for the artifact at the given relative path.
// Format: prefix + hex BLAKE2b-256 of the artifact path. The path itself is
// kept in the value.
func makeEntryKey(artifact string) []byte {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(artifact))
	return []byte(entryPrefix + hex.EncodeToString(h.Sum(nil)))
}
