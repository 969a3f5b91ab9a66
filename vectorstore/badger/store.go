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


package badger

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"promptline/ai"
	"promptline/core"
	"promptline/vectorstore"
)

// Store implements vectorstore.Store on BadgerDB. Embeddings are computed at
// upsert time; queries embed the query text and brute-force scan the stored
// vectors with cosine similarity.
type Store struct {
	backend  *Backend
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.With("component", "badger-vectorstore")
		}
	}
}

// New creates a Badger-backed vector store.
//
// Returns the vectorstore.Store interface to enforce abstraction.
func New(backend *Backend, embedder ai.Embedder, opts ...Option) (vectorstore.Store, error) {
	return newStore(backend, embedder, opts...)
}

// newStore is the internal constructor returning the concrete type.
func newStore(backend *Backend, embedder ai.Embedder, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, vectorstore.ErrBackendRequired
	}
	if embedder == nil {
		return nil, vectorstore.ErrEmbedderRequired
	}

	s := &Store{
		backend:  backend,
		embedder: embedder,
		logger:   slog.Default().With("component", "badger-vectorstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Upsert indexes doc under doc.ID, replacing any existing version. When the
// content is unchanged from the stored version, the existing embedding is
// reused and only the metadata is rewritten.
func (s *Store) Upsert(ctx context.Context, doc core.Document) error {
	if err := core.ValidateDocument(&doc); err != nil {
		return err
	}

	hash := core.ContentHash(doc.Content)
	now := time.Now().UTC()

	existing, err := s.get(doc.ID)
	if err != nil {
		return err
	}

	stored := &storedDocument{
		ID:          doc.ID,
		Content:     doc.Content,
		Metadata:    doc.Metadata,
		ContentHash: hash,
		InsertedAt:  now,
		UpdatedAt:   now,
	}

	if existing != nil {
		stored.InsertedAt = existing.InsertedAt
		if existing.ContentHash == hash && len(existing.Vector) > 0 {
			s.logger.Debug("content unchanged, reusing embedding", "id", doc.ID)
			stored.Vector = existing.Vector
		}
	}

	if stored.Vector == nil {
		vector, err := s.embedder.EmbedText(ctx, doc.Content)
		if err != nil {
			s.logger.Error("failed to embed document", "id", doc.ID, "err", err)
			return err
		}
		stored.Vector = vector
	}

	data, err := marshalDocument(stored)
	if err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(makeDocumentKey(doc.ID), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Query embeds text and returns up to topK stored documents with cosine
// similarity of at least minSimilarity, most similar first.
func (s *Store) Query(ctx context.Context, text string, topK int, minSimilarity float32) ([]core.Match, error) {
	if topK < 1 {
		return nil, vectorstore.ErrInvalidTopK
	}

	queryVector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		s.logger.Error("failed to embed query", "err", err)
		return nil, err
	}

	var matches []core.Match
	err = s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = documentScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var stored *storedDocument
			err := iter.Item().Value(func(val []byte) error {
				var err error
				stored, err = unmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if stored == nil || len(stored.Vector) == 0 {
				continue
			}

			similarity := cosineSimilarity(queryVector, stored.Vector)
			if similarity >= minSimilarity {
				matches = append(matches, core.Match{
					Document: stored.toDocument(),
					Score:    similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending.
	slices.SortFunc(matches, func(a, b core.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Count returns the number of indexed documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = documentScanPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close is a no-op; the backend owns the database lifecycle.
func (s *Store) Close() error {
	return nil
}

// get reads a stored document by id, returning nil when absent.
func (s *Store) get(id string) (*storedDocument, error) {
	var stored *storedDocument
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			stored, err = unmarshalDocument(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Unlike a bare dot product it does not assume normalized embeddings.
func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
