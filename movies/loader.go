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


package movies

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"promptline/core"
	"promptline/executor"
)

// Dataset column layout (tab-separated, one movie per line, header first):
// 0 id, 1 title, 2 dash-separated genres, 4 overview, 7 ISO release date,
// 15 (optional) dash-separated credits.
const (
	colID          = 0
	colTitle       = 1
	colGenres      = 2
	colOverview    = 4
	colReleaseDate = 7
	colCredits     = 15

	minColumns = colReleaseDate + 1
)

// Loader streams movie records from a bulk dataset and routes each accepted
// record through the registered processors on the worker pool.
//
// Each Load call is independent: it re-parses the full source and retains no
// state across runs.
type Loader struct {
	pool       *executor.Pool
	processors []Processor
	monitor    LoadMonitor
	logger     *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMonitor sets a monitor receiving per-record callbacks.
// Default is a no-op monitor.
func WithMonitor(monitor LoadMonitor) LoaderOption {
	return func(l *Loader) {
		if monitor != nil {
			l.monitor = monitor
		}
	}
}

// WithLoaderLogger sets a custom logger.
// Default is slog.Default().
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger.With("component", "movie-loader")
		}
	}
}

// NewLoader creates a loader running the given processors, in order, for
// every accepted record.
func NewLoader(pool *executor.Pool, processors []Processor, opts ...LoaderOption) (*Loader, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if len(processors) == 0 {
		return nil, ErrProcessorsRequired
	}

	l := &Loader{
		pool:       pool,
		processors: processors,
		monitor:    &noopMonitor{},
		logger:     slog.Default().With("component", "movie-loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Load parses the dataset and submits one processing task per accepted
// record. It returns the number of records accepted for processing, not the
// number successfully processed: the offloaded work is fire-and-forget, and
// callers should observe the vector store (or a LoadMonitor) to confirm
// completion.
//
// A structurally malformed line aborts the run with *MalformedSourceError.
// A line whose overview is empty is skipped silently; it carries nothing to
// index.
func (l *Loader) Load(ctx context.Context, src io.Reader) (int, error) {
	tc := executor.ContextOrNew(ctx)
	l.monitor.RunStarted(tc.CorrelationID)
	l.logger.Debug("loading movie dataset", "correlationId", tc.CorrelationID)

	reader := csv.NewReader(src)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// Skip the header line.
	line := 1
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			l.monitor.RunCompleted(0, 0)
			return 0, nil
		}
		return 0, &MalformedSourceError{Line: line, Err: err}
	}

	accepted := 0
	skipped := 0
	for {
		line++
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return accepted, &MalformedSourceError{Line: line, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return accepted, err
		}

		l.logger.Debug("parsing line", "line", line)

		// Ignore movies with no overview before anything else. Only an empty
		// overview column qualifies; a line too short to even have one is a
		// schema mismatch and falls through to the fatal column check.
		if len(fields) > colOverview && fields[colOverview] == "" {
			skipped++
			l.monitor.RecordSkipped(line)
			continue
		}

		movie, err := parseMovie(fields)
		if err != nil {
			return accepted, &MalformedSourceError{Line: line, Err: err}
		}

		if err := l.dispatch(tc, movie); err != nil {
			return accepted, err
		}
		accepted++
		l.monitor.RecordDispatched(movie)
	}

	l.monitor.RunCompleted(accepted, skipped)
	l.logger.Info("movie dataset dispatched", "accepted", accepted, "skipped", skipped)
	return accepted, nil
}

// dispatch submits the record's processing task to the worker pool.
func (l *Loader) dispatch(tc executor.TaskContext, movie *core.Movie) error {
	_, err := l.pool.Submit(tc, func(taskCtx context.Context) error {
		l.processMovie(taskCtx, movie)
		return nil
	})
	return err
}

// processMovie runs every registered processor against the record, in
// registration order, isolating failures per processor.
func (l *Loader) processMovie(ctx context.Context, movie *core.Movie) {
	l.logger.Debug("processing movie", "movie", movie.ID, "title", movie.Title)

	for _, proc := range l.processors {
		if ctx.Err() != nil {
			return
		}
		if err := proc.Process(ctx, movie); err != nil {
			l.monitor.ProcessorFailed(movie.ID, proc.Name(), err)
			l.logger.Warn("failed to process movie",
				"movie", movie.ID, "processor", proc.Name(), "err", err)
		}
	}
	l.monitor.RecordProcessed(movie.ID)
}

// parseMovie builds a Movie from one dataset line.
func parseMovie(fields []string) (*core.Movie, error) {
	if len(fields) < minColumns {
		return nil, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(fields))
	}

	releaseDate, err := time.Parse(time.DateOnly, fields[colReleaseDate])
	if err != nil {
		return nil, fmt.Errorf("parsing release date: %w", err)
	}

	movie := &core.Movie{
		ID:          fields[colID],
		Title:       fields[colTitle],
		Genres:      splitDashList(fields[colGenres]),
		ReleaseDate: releaseDate,
		Overview:    fields[colOverview],
	}
	if len(fields) > colCredits {
		movie.Credits = splitDashList(fields[colCredits])
	}
	return movie, nil
}

// splitDashList splits a dash-separated dataset field, treating an empty
// field as an empty list rather than a single empty element.
func splitDashList(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Split(field, "-")
}
