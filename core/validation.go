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


package core

import (
	"fmt"
	"strings"
)

// ValidateFileGroup validates a FileGroup according to domain rules.
//
// Validation rules:
//   - at least one file must be listed
//   - question and answer prompt names must be set
//
// NOT validated (resolved later, per job):
//   - whether the named templates exist in the catalog
//   - whether the files exist on disk
//   - Iterations (values below 1 simply expand to no jobs)
func ValidateFileGroup(name string, group *FileGroup) error {
	if group == nil {
		return fmt.Errorf("%w: %q is nil", ErrInvalidFileGroup, name)
	}

	if len(group.Files) == 0 {
		return fmt.Errorf("%w: %q: %w", ErrInvalidFileGroup, name, ErrNoFiles)
	}

	if strings.TrimSpace(group.QuestionPrompt) == "" {
		return fmt.Errorf("%w: %q: %w", ErrInvalidFileGroup, name, ErrNoQuestionPrompt)
	}

	if strings.TrimSpace(group.AnswerPrompt) == "" {
		return fmt.Errorf("%w: %q: %w", ErrInvalidFileGroup, name, ErrNoAnswerPrompt)
	}

	return nil
}
