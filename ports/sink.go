package ports

import (
	"mcpower/domain/power"
)

// ResultSink receives one summary record per completed grid cell. Appends are
// streamed as cells finish so partial results survive a mid-run failure.
// Callers serialize Append; implementations must still tolerate concurrent
// calls defensively. Close flushes pending writes even when the run aborts.
type ResultSink interface {
	Append(rec power.SummaryRecord) error
	Close() error
}
