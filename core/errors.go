package core

import "errors"

var (
	// ErrInvalidMovie is returned when a movie fails domain validation.
	ErrInvalidMovie = errors.New("invalid movie")

	// ErrInvalidDocument is returned when a document fails domain validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyID is returned when a required identifier is missing.
	ErrEmptyID = errors.New("empty id")

	// ErrEmptyContent is returned when required text content is missing.
	ErrEmptyContent = errors.New("empty content")

	// ErrInvalidReleaseDate is returned when a movie has no release date.
	ErrInvalidReleaseDate = errors.New("invalid release date")
)
