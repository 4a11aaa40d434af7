package study

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpower/domain/dataset"
	apperrors "mcpower/internal/errors"
)

// stubGenerator emits a constant-valued matrix, optionally lying about its
// row count to trip the dilution invariants.
type stubGenerator struct {
	id       string
	width    int
	value    float64
	rowsOver int
	fail     bool
}

func (g stubGenerator) ID() string   { return g.id }
func (g stubGenerator) Name() string { return g.id }

func (g stubGenerator) Generate(observationCount int) (dataset.Matrix, error) {
	if g.fail {
		return nil, apperrors.GenerationFailure(fmt.Sprintf("generator %s cannot generate", g.id))
	}
	rows := observationCount
	if g.rowsOver > 0 {
		rows = g.rowsOver
	}
	m := make(dataset.Matrix, rows)
	for i := range m {
		row := make([]float64, g.width)
		for j := range row {
			row[j] = g.value
		}
		m[i] = row
	}
	return m, nil
}

func TestDilute_ConcatenatesHalves(t *testing.T) {
	structured := stubGenerator{id: "structured", width: 3, value: 1}
	independent := stubGenerator{id: "independent", width: 3, value: 2}

	m, err := Dilute(structured, independent, 10, 6)
	require.NoError(t, err)

	assert.Equal(t, 10, m.Rows())
	assert.Equal(t, 6, m.Width())
	for _, row := range m {
		assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, row)
	}
}

func TestDilute_MinimalHalfDimension(t *testing.T) {
	m, err := Dilute(stubGenerator{id: "a", width: 1, value: 1}, stubGenerator{id: "b", width: 1, value: 2}, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Rows())
	assert.Equal(t, 2, m.Width())
}

func TestDilute_RowCountMismatch(t *testing.T) {
	structured := stubGenerator{id: "structured", width: 2, value: 1, rowsOver: 7}
	independent := stubGenerator{id: "independent", width: 2, value: 2}

	_, err := Dilute(structured, independent, 10, 4)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDimensionMismatch), "expected DIMENSION_MISMATCH, got %v", err)
}

func TestDilute_WidthMismatch(t *testing.T) {
	structured := stubGenerator{id: "structured", width: 2, value: 1}
	independent := stubGenerator{id: "independent", width: 2, value: 2}

	_, err := Dilute(structured, independent, 10, 5)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDimensionMismatch))
}

func TestDilute_GenerationFailurePropagates(t *testing.T) {
	structured := stubGenerator{id: "structured", width: 2, fail: true}
	independent := stubGenerator{id: "independent", width: 2, value: 2}

	_, err := Dilute(structured, independent, 10, 4)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGenerationFailure))
}
