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

import "errors"

// Domain errors
var (
	// ErrTemplateNotFound indicates a referenced template, instruction list
	// or seed list name is not declared in the catalog.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrFileNotFound indicates a file reference could not be located under
	// the base directory.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoContent indicates none of a job's files could be located.
	ErrNoContent = errors.New("no content for job")

	// ErrInvalidFileGroup indicates a FileGroup failed validation.
	ErrInvalidFileGroup = errors.New("invalid file group")

	// ErrNoFiles indicates a FileGroup declares no files.
	ErrNoFiles = errors.New("file group has no files")

	// ErrNoQuestionPrompt indicates a FileGroup names no question prompt.
	ErrNoQuestionPrompt = errors.New("file group has no question prompt")

	// ErrNoAnswerPrompt indicates a FileGroup names no answer prompt.
	ErrNoAnswerPrompt = errors.New("file group has no answer prompt")
)
