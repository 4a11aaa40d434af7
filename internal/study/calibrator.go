package study

import (
	"context"

	"mcpower/domain/dataset"
	"mcpower/domain/power"
	apperrors "mcpower/internal/errors"
	"mcpower/internal/mc"
	"mcpower/ports"
)

// MatrixSource yields one fresh matrix per trial. Sources must hand every
// trial its own matrix: trials never share data.
type MatrixSource func(trial int) (dataset.Matrix, error)

// Calibrator builds empirical null distributions of contrast scores from the
// independence baseline and extracts the 90th/95th/99th percentile
// thresholds. It must run exactly once per (slice technique, observation
// count, dimension) coordinate, before any estimation at that coordinate.
type Calibrator struct {
	contrast ports.ContrastPort
	pool     *mc.Pool
	observer ports.RunObserver
}

// NewCalibrator creates a calibrator over the shared trial pool.
func NewCalibrator(contrast ports.ContrastPort, pool *mc.Pool, observer ports.RunObserver) *Calibrator {
	return &Calibrator{
		contrast: contrast,
		pool:     pool,
		observer: observer,
	}
}

// Calibrate samples repetitions contrast scores from the baseline source over
// the full dimension set and returns the percentile thresholds.
func (c *Calibrator) Calibrate(
	ctx context.Context,
	baseline MatrixSource,
	dimension, observationCount int,
	sliceTechnique, estimator string,
	repetitions int,
) (power.ThresholdSet, error) {
	c.observer.CalibrationStarted(sliceTechnique, observationCount, dimension)

	dims := FullDims(dimension)
	scores, err := mc.Sample(ctx, c.pool, repetitions, func(trial int) (float64, error) {
		m, err := baseline(trial)
		if err != nil {
			return 0, err
		}
		score, err := c.contrast.Contrast(m, dims, estimator, sliceTechnique)
		if err != nil {
			return 0, apperrors.WithCode(apperrors.CodeMeasureFailure, err)
		}
		return score, nil
	})
	if err != nil {
		return power.ThresholdSet{}, apperrors.Wrap(err, "null calibration sampling failed")
	}

	var ts power.ThresholdSet
	if ts.P90, err = Percentile(scores, 0.90); err != nil {
		return power.ThresholdSet{}, err
	}
	if ts.P95, err = Percentile(scores, 0.95); err != nil {
		return power.ThresholdSet{}, err
	}
	if ts.P99, err = Percentile(scores, 0.99); err != nil {
		return power.ThresholdSet{}, err
	}

	c.observer.CalibrationFinished(sliceTechnique, observationCount, dimension, ts)
	return ts, nil
}

// FullDims enumerates the complete dimension subset 0..dimension-1.
func FullDims(dimension int) []int {
	dims := make([]int, dimension)
	for i := range dims {
		dims[i] = i
	}
	return dims
}
