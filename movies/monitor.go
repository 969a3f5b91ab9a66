package movies

import "promptline/core"

// LoadMonitor provides hooks to observe an ingestion run.
// Implement this interface to track progress and per-record outcomes; the
// loader itself is fire-and-forget, so the monitor is the completion signal
// for anything that needs to know when offloaded work finished.
type LoadMonitor interface {
	// RunStarted is called once, before the source is parsed.
	RunStarted(correlationID string)

	// RecordSkipped is called for a line dropped because its overview is empty.
	RecordSkipped(line int)

	// RecordDispatched is called after a record's processing task was
	// submitted to the worker pool.
	RecordDispatched(movie *core.Movie)

	// ProcessorFailed is called when one processor fails for one record.
	ProcessorFailed(movieID, processor string, err error)

	// RecordProcessed is called on the worker after every processor ran for
	// the record, regardless of individual processor failures.
	RecordProcessed(movieID string)

	// RunCompleted is called once, after the source is fully parsed, with the
	// number of records accepted for processing and the number skipped.
	RunCompleted(accepted, skipped int)
}

// noopMonitor is a no-op implementation of LoadMonitor.
type noopMonitor struct{}

var _ LoadMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) RunStarted(_ string)                    {}
func (n *noopMonitor) RecordSkipped(_ int)                    {}
func (n *noopMonitor) RecordDispatched(_ *core.Movie)         {}
func (n *noopMonitor) ProcessorFailed(_, _ string, _ error)   {}
func (n *noopMonitor) RecordProcessed(_ string)               {}
func (n *noopMonitor) RunCompleted(_, _ int)                  {}
