package movies

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"promptline/gateway"
	"promptline/vectorstore"
)

const (
	// Retrieval parameters for source movies: one best match per requested
	// title, with a low floor so near-miss titles still resolve.
	mashupTopK          = 1
	mashupMinSimilarity = 0.2
)

const mashupPromptTemplate = `You are a creative screenwriter. Invent a brand new movie that blends
the source movies below into one coherent story. Write the plot in %s.

Respond with a JSON object containing exactly these fields:
  "title": the invented movie's title
  "plot": a three-paragraph plot summary

SOURCES:
%s`

// MashupResult is the invented movie returned by a mashup.
type MashupResult struct {
	Title string `json:"title"`
	Plot  string `json:"plot"`
}

// Mashup invents a new movie from existing ones: it retrieves the requested
// titles from the vector store and asks the model to blend them.
type Mashup struct {
	store  vectorstore.Store
	client *gateway.Client
	logger *slog.Logger
}

// MashupOption configures a Mashup.
type MashupOption func(*Mashup)

// WithMashupLogger sets a custom logger.
// Default is slog.Default().
func WithMashupLogger(logger *slog.Logger) MashupOption {
	return func(m *Mashup) {
		if logger != nil {
			m.logger = logger.With("component", "mashup")
		}
	}
}

// NewMashup creates a mashup generator over the given store and client.
func NewMashup(store vectorstore.Store, client *gateway.Client, opts ...MashupOption) (*Mashup, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if client == nil {
		return nil, ErrClientRequired
	}

	m := &Mashup{
		store:  store,
		client: client,
		logger: slog.Default().With("component", "mashup"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Invent retrieves the requested titles and asks the model for a blended
// movie, plotted in the given BCP 47 language ("it", "pt-BR", ...). Titles
// that match nothing in the store are silently dropped; if none match, Invent
// fails with ErrNoSourceMovies.
func (m *Mashup) Invent(ctx context.Context, titles []string, lang string) (*MashupResult, error) {
	sources, err := m.collectSources(ctx, titles)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, ErrNoSourceMovies
	}

	prompt := fmt.Sprintf(mashupPromptTemplate, languageName(lang), strings.Join(sources, "\n---\n"))
	m.logger.Debug("inventing mashup", "sources", len(sources), "language", lang)

	var result MashupResult
	if err := m.client.AskJSON(ctx, prompt, &result); err != nil {
		return nil, fmt.Errorf("generating mashup: %w", err)
	}
	return &result, nil
}

// collectSources resolves each title to its best stored document, deduplicated
// by document id so the same movie never appears twice in the prompt.
func (m *Mashup) collectSources(ctx context.Context, titles []string) ([]string, error) {
	seen := make(map[string]bool, len(titles))
	sources := make([]string, 0, len(titles))

	for _, title := range titles {
		matches, err := m.store.Query(ctx, title, mashupTopK, mashupMinSimilarity)
		if err != nil {
			return nil, fmt.Errorf("retrieving %q: %w", title, err)
		}
		if len(matches) == 0 {
			m.logger.Warn("no stored movie for title", "title", title)
			continue
		}

		doc := matches[0].Document
		if seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true
		sources = append(sources, doc.Content)
	}
	return sources, nil
}

// languageName renders a BCP 47 tag as its English display name for the
// prompt. Unparseable or empty tags fall back to English.
func languageName(lang string) string {
	if lang == "" {
		return display.English.Languages().Name(language.English)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return display.English.Languages().Name(language.English)
	}
	return display.English.Languages().Name(tag)
}
