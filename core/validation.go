// Copyright 2025 Promptline Authors
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

import "fmt"

// ValidateMovie validates a Movie according to domain rules.
//
// Validation rules:
//   - ID and Title must not be empty
//   - ReleaseDate must be set
//   - Overview must not be empty (records without one never reach validation;
//     the loader drops them first)
//
// NOT validated:
//   - Genres and Credits (legitimately empty for some dataset rows)
func ValidateMovie(movie *Movie) error {
	if movie == nil {
		return fmt.Errorf("%w: movie is nil", ErrInvalidMovie)
	}

	if movie.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMovie, ErrEmptyID)
	}

	if movie.Title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidMovie)
	}

	if movie.ReleaseDate.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidMovie, ErrInvalidReleaseDate)
	}

	if movie.Overview == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMovie, ErrEmptyContent)
	}

	return nil
}

// ValidateDocument validates a Document before it is handed to a vector store.
//
// Validation rules:
//   - ID must not be empty (it is the upsert key)
//   - Content must not be empty (there is nothing to embed otherwise)
//
// Metadata is not validated; stores accept arbitrary key-value metadata.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyID)
	}

	if doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	return nil
}
