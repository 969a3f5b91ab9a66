package movies

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolRequired is returned when a loader is built without a worker pool.
	ErrPoolRequired = errors.New("worker pool required")

	// ErrProcessorsRequired is returned when a loader has no processors.
	ErrProcessorsRequired = errors.New("at least one processor required")

	// ErrStoreRequired is returned when a component is built without a vector store.
	ErrStoreRequired = errors.New("vector store required")

	// ErrClientRequired is returned when a component is built without a gateway client.
	ErrClientRequired = errors.New("gateway client required")

	// ErrNoSourceMovies is returned when a mashup finds no movies for any of
	// the requested titles.
	ErrNoSourceMovies = errors.New("no source movies found")
)

// MalformedSourceError reports a structurally malformed dataset line. The
// source is assumed well-formed, so one bad line indicates a schema mismatch
// and aborts the whole run rather than being skipped.
type MalformedSourceError struct {
	Line int
	Err  error
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("malformed source at line %d: %v", e.Line, e.Err)
}

func (e *MalformedSourceError) Unwrap() error {
	return e.Err
}
