package movies

import (
	"context"

	"promptline/core"
)

// Processor handles one movie record during ingestion. Processors registered
// on a Loader run in registration order for every accepted record; a failing
// processor is logged and isolated, it neither stops the record's remaining
// processors nor the overall run.
type Processor interface {
	// Name identifies the processor in logs and monitor callbacks.
	Name() string

	// Process handles one movie. The context carries the ingestion run's
	// task context and is cancelled if the record's task is cancelled.
	Process(ctx context.Context, movie *core.Movie) error
}
