package study

import (
	"context"
	"fmt"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpower/domain/dataset"
	"mcpower/domain/power"
	apperrors "mcpower/internal/errors"
	"mcpower/internal/mc"
)

// firstCellContrast scores a matrix by its first value, letting tests pick
// exact score sequences through the matrix source.
type firstCellContrast struct{}

func (firstCellContrast) Contrast(data dataset.Matrix, dims []int, estimator, sliceTechnique string) (float64, error) {
	return data[0][0], nil
}

// failingContrast always raises, simulating a measure that rejects input.
type failingContrast struct{}

func (failingContrast) Contrast(data dataset.Matrix, dims []int, estimator, sliceTechnique string) (float64, error) {
	return 0, fmt.Errorf("malformed input")
}

func trialIndexSource(trial int) (dataset.Matrix, error) {
	return dataset.Matrix{{float64(trial)}}, nil
}

func TestEstimatePower_SummaryStatistics(t *testing.T) {
	est := NewEstimator(firstCellContrast{}, mc.NewPool(4))

	// Scores are exactly 0..99.
	thresholds := power.ThresholdSet{P90: 89.5, P95: 94.5, P99: 98.5}
	summary, err := est.EstimatePower(context.Background(), trialIndexSource, []int{0}, "R", "c", 100, thresholds)
	require.NoError(t, err)

	scores := make([]float64, 100)
	for i := range scores {
		scores[i] = float64(i)
	}
	wantMean, _ := stats.Mean(scores)
	wantStd, _ := stats.StandardDeviationSample(scores)

	assert.InDelta(t, wantMean, summary.Mean, 1e-12)
	assert.InDelta(t, wantStd, summary.StdDev, 1e-12)
	assert.InDelta(t, 0.10, summary.Power90, 1e-12)
	assert.InDelta(t, 0.05, summary.Power95, 1e-12)
	assert.InDelta(t, 0.01, summary.Power99, 1e-12)
}

func TestEstimatePower_TiesDoNotCountAsExceedance(t *testing.T) {
	est := NewEstimator(firstCellContrast{}, mc.NewPool(2))

	constantSource := func(trial int) (dataset.Matrix, error) {
		return dataset.Matrix{{5}}, nil
	}
	thresholds := power.ThresholdSet{P90: 5, P95: 5, P99: 5}
	summary, err := est.EstimatePower(context.Background(), constantSource, []int{0}, "R", "c", 50, thresholds)
	require.NoError(t, err)

	assert.Zero(t, summary.Power90)
	assert.Zero(t, summary.Power95)
	assert.Zero(t, summary.Power99)
	assert.Zero(t, summary.StdDev)
}

func TestEstimatePower_SingleRepetitionReportsZeroSpread(t *testing.T) {
	est := NewEstimator(firstCellContrast{}, mc.NewPool(1))
	summary, err := est.EstimatePower(context.Background(), trialIndexSource, []int{0}, "R", "c", 1, power.ThresholdSet{})
	require.NoError(t, err)
	assert.Zero(t, summary.StdDev)
	assert.Zero(t, summary.Mean)
}

func TestEstimatePower_PowerOrderingUnderCalibratedThresholds(t *testing.T) {
	est := NewEstimator(firstCellContrast{}, mc.NewPool(4))

	// Thresholds from percentiles of the same score distribution are
	// non-decreasing, so stricter levels admit fewer exceedances.
	scores := make([]float64, 200)
	for i := range scores {
		scores[i] = float64(i * i % 157)
	}
	p90, err := Percentile(scores, 0.90)
	require.NoError(t, err)
	p95, err := Percentile(scores, 0.95)
	require.NoError(t, err)
	p99, err := Percentile(scores, 0.99)
	require.NoError(t, err)

	source := func(trial int) (dataset.Matrix, error) {
		return dataset.Matrix{{scores[trial]}}, nil
	}
	summary, err := est.EstimatePower(context.Background(), source, []int{0}, "R", "c", len(scores), power.ThresholdSet{P90: p90, P95: p95, P99: p99})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, summary.Power90, summary.Power95)
	assert.GreaterOrEqual(t, summary.Power95, summary.Power99)
}

func TestEstimatePower_MeasureFailureAbortsSampling(t *testing.T) {
	est := NewEstimator(failingContrast{}, mc.NewPool(2))
	_, err := est.EstimatePower(context.Background(), trialIndexSource, []int{0}, "R", "c", 10, power.ThresholdSet{})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeMeasureFailure))
}

func TestEstimatePower_SourceFailureAbortsSampling(t *testing.T) {
	est := NewEstimator(firstCellContrast{}, mc.NewPool(2))
	source := func(trial int) (dataset.Matrix, error) {
		return nil, apperrors.GenerationFailure("bad parameters")
	}
	_, err := est.EstimatePower(context.Background(), source, []int{0}, "R", "c", 10, power.ThresholdSet{})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGenerationFailure))
}
