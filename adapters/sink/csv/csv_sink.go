// Package csv provides the primary result sink: a streaming, append-only CSV
// writer. Every record is flushed as it arrives so partial results survive a
// mid-run failure.
package csv

import (
	"encoding/csv"
	"io"
	"os"
	"sync"

	"mcpower/domain/power"
	apperrors "mcpower/internal/errors"
)

// Sink writes one CSV row per summary record. Appends are mutex-serialized
// so concurrently completing grid cells never interleave mid-row.
type Sink struct {
	mu     sync.Mutex
	writer *csv.Writer
	closer io.Closer
}

// New creates a sink writing to the given file path, truncating any existing
// file and emitting the header row.
func New(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	s, err := NewWithWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// NewWithWriter creates a sink over an arbitrary writer, emitting the header
// row immediately.
func NewWithWriter(w io.Writer) (*Sink, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(power.RecordHeader); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	return &Sink{writer: writer}, nil
}

// Append writes one record and flushes it immediately.
func (s *Sink) Append(rec power.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.Write(rec.Fields()); err != nil {
		return apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	return nil
}

// Close flushes pending rows and releases the underlying file, if any.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writer.Flush()
	err := s.writer.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	return nil
}
