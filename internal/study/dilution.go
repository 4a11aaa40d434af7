package study

import (
	"fmt"

	"mcpower/domain/dataset"
	apperrors "mcpower/internal/errors"
	"mcpower/ports"
)

// Dilute composes a diluted dataset: matrix A from the structured generator
// (half-dimension, with noise) and matrix B from the independent generator
// (same half-dimension, zero noise), concatenated row-wise into rows of
// width fullDim.
//
// Row-count or width violations surface as DIMENSION_MISMATCH; with correct
// construction they cannot occur.
func Dilute(structured, independent ports.Generator, observationCount, fullDim int) (dataset.Matrix, error) {
	a, err := structured.Generate(observationCount)
	if err != nil {
		return nil, apperrors.Wrapf(err, "structured generator %s", structured.ID())
	}
	b, err := independent.Generate(observationCount)
	if err != nil {
		return nil, apperrors.Wrapf(err, "independent generator %s", independent.ID())
	}

	if a.Rows() != b.Rows() {
		return nil, apperrors.DimensionMismatch(fmt.Sprintf(
			"diluted halves disagree on row count: structured=%d independent=%d", a.Rows(), b.Rows()))
	}
	if a.Width()+b.Width() != fullDim {
		return nil, apperrors.DimensionMismatch(fmt.Sprintf(
			"diluted width %d+%d does not equal expected dimension %d", a.Width(), b.Width(), fullDim))
	}

	out := make(dataset.Matrix, a.Rows())
	for i := range a {
		row := make([]float64, 0, fullDim)
		row = append(row, a[i]...)
		row = append(row, b[i]...)
		out[i] = row
	}
	return out, nil
}
