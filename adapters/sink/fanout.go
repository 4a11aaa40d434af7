// Package sink composes result sinks. The concrete writers live in the
// subpackages (csv, postgres, xlsx).
package sink

import (
	"errors"

	"mcpower/domain/power"
	"mcpower/ports"
)

// Fanout broadcasts each record to every configured sink. The first append
// failure aborts the write; Close is attempted on every sink regardless of
// earlier errors so buffered output still lands.
type Fanout struct {
	sinks []ports.ResultSink
}

// NewFanout composes the given sinks in order.
func NewFanout(sinks ...ports.ResultSink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Append writes the record to each sink in order.
func (f *Fanout) Append(rec power.SummaryRecord) error {
	for _, s := range f.sinks {
		if err := s.Append(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins any failures.
func (f *Fanout) Close() error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
