package movies

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptline/core"
	"promptline/vectorstore"
)

// fakeStore is an in-test vectorstore.Store recording upserts and serving
// scripted query results.
type fakeStore struct {
	mu      sync.Mutex
	upserts []core.Document

	queryFn func(text string, topK int, minSimilarity float32) ([]core.Match, error)
}

var _ vectorstore.Store = (*fakeStore)(nil)

func (s *fakeStore) Upsert(ctx context.Context, doc core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = append(s.upserts, doc)
	return nil
}

func (s *fakeStore) Query(ctx context.Context, text string, topK int, minSimilarity float32) ([]core.Match, error) {
	if s.queryFn != nil {
		return s.queryFn(text, topK, minSimilarity)
	}
	return nil, nil
}

func (s *fakeStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.upserts), nil
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) Upserts() []core.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Document(nil), s.upserts...)
}

func sampleMovie() *core.Movie {
	return &core.Movie{
		ID:          "27205",
		Title:       "Inception",
		Genres:      []string{"Action", "ScienceFiction"},
		ReleaseDate: time.Date(2010, 7, 15, 0, 0, 0, 0, time.UTC),
		Overview:    "A thief who steals secrets through dream-sharing technology.",
		Credits:     []string{"Leonardo DiCaprio", "Joseph Gordon"},
	}
}

func TestStoreProcessorUpsertsFormattedDocument(t *testing.T) {
	store := &fakeStore{}
	proc, err := NewStoreProcessor(store)
	require.NoError(t, err)
	assert.Equal(t, "vectorstore", proc.Name())

	require.NoError(t, proc.Process(context.Background(), sampleMovie()))

	upserts := store.Upserts()
	require.Len(t, upserts, 1)
	doc := upserts[0]

	assert.Equal(t, "27205", doc.ID)
	assert.Equal(t,
		"Id: 27205\n"+
			"Title: Inception\n"+
			"Genres: Action, ScienceFiction\n"+
			"Overview: A thief who steals secrets through dream-sharing technology.\n"+
			"Released: 2010-07-15\n"+
			"Credits: Leonardo DiCaprio, Joseph Gordon\n",
		doc.Content)

	assert.Equal(t, "Inception", doc.Metadata["title"])
	assert.Equal(t, "2010-07-15", doc.Metadata["releaseDate"])
	assert.Equal(t, 2010, doc.Metadata["releaseYear"])
}

func TestStoreProcessorHandlesEmptyLists(t *testing.T) {
	store := &fakeStore{}
	proc, err := NewStoreProcessor(store)
	require.NoError(t, err)

	movie := sampleMovie()
	movie.Genres = nil
	movie.Credits = nil
	require.NoError(t, proc.Process(context.Background(), movie))

	upserts := store.Upserts()
	require.Len(t, upserts, 1)
	assert.Contains(t, upserts[0].Content, "Genres: \n")
	assert.Contains(t, upserts[0].Content, "Credits: \n")
}

func TestStoreProcessorRejectsInvalidMovie(t *testing.T) {
	store := &fakeStore{}
	proc, err := NewStoreProcessor(store)
	require.NoError(t, err)

	movie := sampleMovie()
	movie.ID = ""
	assert.ErrorIs(t, proc.Process(context.Background(), movie), core.ErrInvalidMovie)
	assert.Empty(t, store.Upserts())
}

func TestNewStoreProcessorRequiresStore(t *testing.T) {
	_, err := NewStoreProcessor(nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}
