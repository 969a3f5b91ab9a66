package vectorstore

import "errors"

var (
	// ErrBackendRequired is returned when a store is built without a backend.
	ErrBackendRequired = errors.New("storage backend required")

	// ErrEmbedderRequired is returned when a store is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidTopK is returned when a query asks for fewer than one result.
	ErrInvalidTopK = errors.New("topK must be at least 1")
)
