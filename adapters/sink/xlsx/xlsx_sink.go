// Package xlsx provides an optional report sink that renders the study
// summary as a spreadsheet. Rows are buffered in the workbook and the file is
// written on Close, so this sink complements rather than replaces the
// streaming CSV sink.
package xlsx

import (
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"mcpower/domain/power"
	apperrors "mcpower/internal/errors"
)

const sheetName = "power"

// Sink accumulates records into an excelize workbook.
type Sink struct {
	mu   sync.Mutex
	path string
	file *excelize.File
	row  int
}

// New creates a workbook with a header row; the file is only materialized on
// Close.
func New(path string) (*Sink, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}

	header := make([]interface{}, len(power.RecordHeader))
	for i, h := range power.RecordHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}

	return &Sink{path: path, file: f, row: 2}, nil
}

// Append adds one record row to the workbook.
func (s *Sink) Append(rec power.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := []interface{}{
		rec.GeneratorID,
		string(rec.Mode),
		rec.Dimension,
		rec.Noise,
		rec.ObservationCount,
		rec.SliceTechnique,
		rec.MeanContrast,
		rec.StdDevContrast,
		rec.Power90,
		rec.Power95,
		rec.Power99,
	}
	cell := fmt.Sprintf("A%d", s.row)
	if err := s.file.SetSheetRow(sheetName, cell, &row); err != nil {
		return apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	s.row++
	return nil
}

// Close writes the workbook to disk.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.file.SaveAs(s.path); err != nil {
		return apperrors.WithCode(apperrors.CodeSinkWriteFailure, err)
	}
	return s.file.Close()
}
