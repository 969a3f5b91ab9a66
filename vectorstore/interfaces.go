package vectorstore

import (
	"context"

	"promptline/core"
)

// Store indexes documents by embedding similarity and answers top-K
// nearest-neighbor queries. Implementations must be thread-safe and must
// tolerate concurrent upserts: re-upserting an id overwrites the previous
// document (last writer wins), it never duplicates.
type Store interface {
	// Upsert indexes doc under doc.ID, replacing any existing document with
	// the same id.
	Upsert(ctx context.Context, doc core.Document) error

	// Query embeds text and returns up to topK documents whose similarity is
	// at least minSimilarity, most similar first.
	Query(ctx context.Context, text string, topK int, minSimilarity float32) ([]core.Match, error)

	// Count returns the number of indexed documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}
