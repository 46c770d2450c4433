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

// Export copies every artifact of src into dst, returning the number copied.
// Writing into a filesystem store reproduces the questions/, answers/ and
// debug/ layout.
func Export(ctx context.Context, src Walker, dst Store) (int, error) {
	count := 0
	err := src.Walk(ctx, func(paths core.ArtifactPaths, entry core.CacheEntry) error {
		if err := dst.Write(ctx, paths, entry); err != nil {
			return fmt.Errorf("exporting %s: %w", paths.Artifact, err)
		}
		count++
		return nil
	})
	return count, err
}
