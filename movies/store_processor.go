package movies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promptline/core"
	"promptline/vectorstore"
)

// documentTemplate is the flattened text form a movie takes inside the vector
// store. List fields are joined with ", ".
const documentTemplate = "Id: %s\nTitle: %s\nGenres: %s\nOverview: %s\nReleased: %s\nCredits: %s\n"

// StoreProcessor indexes movie records into a vector store.
type StoreProcessor struct {
	store vectorstore.Store
}

var _ Processor = (*StoreProcessor)(nil)

// NewStoreProcessor creates a processor upserting movies into store.
func NewStoreProcessor(store vectorstore.Store) (*StoreProcessor, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &StoreProcessor{store: store}, nil
}

// Name implements Processor.
func (p *StoreProcessor) Name() string {
	return "vectorstore"
}

// Process implements Processor. It flattens the movie into a text document
// and upserts it, keyed by the movie id, so re-ingesting the same dataset
// overwrites instead of duplicating.
func (p *StoreProcessor) Process(ctx context.Context, movie *core.Movie) error {
	if err := core.ValidateMovie(movie); err != nil {
		return err
	}
	return p.store.Upsert(ctx, FormatDocument(movie))
}

// FormatDocument flattens a movie into its vector store document. The
// document id is the movie id, and the metadata carries the title plus the
// release date in both full and year-only form for filtering.
func FormatDocument(movie *core.Movie) core.Document {
	content := fmt.Sprintf(documentTemplate,
		movie.ID,
		movie.Title,
		strings.Join(movie.Genres, ", "),
		movie.Overview,
		movie.ReleaseDate.Format(time.DateOnly),
		strings.Join(movie.Credits, ", "),
	)

	return core.Document{
		ID:      movie.ID,
		Content: content,
		Metadata: map[string]any{
			"title":       movie.Title,
			"releaseDate": movie.ReleaseDate.Format(time.DateOnly),
			"releaseYear": movie.ReleaseDate.Year(),
		},
	}
}
