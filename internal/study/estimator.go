package study

import (
	"context"

	"github.com/montanaflynn/stats"

	"mcpower/domain/power"
	apperrors "mcpower/internal/errors"
	"mcpower/internal/mc"
	"mcpower/ports"
)

// Estimator measures empirical statistical power: it samples contrast scores
// from a candidate source and reports the fraction strictly exceeding each
// calibrated null threshold, alongside the score mean and sample standard
// deviation (n-1 denominator, matching the calibration convention).
type Estimator struct {
	contrast ports.ContrastPort
	pool     *mc.Pool
}

// NewEstimator creates an estimator over the shared trial pool.
func NewEstimator(contrast ports.ContrastPort, pool *mc.Pool) *Estimator {
	return &Estimator{
		contrast: contrast,
		pool:     pool,
	}
}

// EstimatePower samples repetitions contrast scores from source over dims and
// summarizes them against the thresholds. Ties with a threshold do not count
// as exceedance.
func (e *Estimator) EstimatePower(
	ctx context.Context,
	source MatrixSource,
	dims []int,
	estimator, sliceTechnique string,
	repetitions int,
	thresholds power.ThresholdSet,
) (power.ScoreSummary, error) {
	scores, err := mc.Sample(ctx, e.pool, repetitions, func(trial int) (float64, error) {
		m, err := source(trial)
		if err != nil {
			return 0, err
		}
		score, err := e.contrast.Contrast(m, dims, estimator, sliceTechnique)
		if err != nil {
			return 0, apperrors.WithCode(apperrors.CodeMeasureFailure, err)
		}
		return score, nil
	})
	if err != nil {
		return power.ScoreSummary{}, apperrors.Wrap(err, "power estimation sampling failed")
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return power.ScoreSummary{}, apperrors.Wrap(err, "score mean")
	}

	// Sample stddev is undefined for a single trial; report zero spread.
	stdDev := 0.0
	if len(scores) > 1 {
		stdDev, err = stats.StandardDeviationSample(scores)
		if err != nil {
			return power.ScoreSummary{}, apperrors.Wrap(err, "score stddev")
		}
	}

	return power.ScoreSummary{
		Mean:    mean,
		StdDev:  stdDev,
		Power90: exceedance(scores, thresholds.P90),
		Power95: exceedance(scores, thresholds.P95),
		Power99: exceedance(scores, thresholds.P99),
	}, nil
}

// exceedance is the fraction of scores strictly above the threshold.
func exceedance(scores []float64, threshold float64) float64 {
	count := 0
	for _, s := range scores {
		if s > threshold {
			count++
		}
	}
	return float64(count) / float64(len(scores))
}
