// Package study implements the estimation core of the power benchmark:
// null-threshold calibration, power estimation, and diluted-signal
// composition, all driven through the shared Monte Carlo sampler.
package study

import (
	"fmt"
	"math"
	"sort"
)

// Percentile computes the p-th percentile (p in [0,1]) of values using the
// fixed reproducibility convention: sort ascending, map p to rank p*(n-1),
// linearly interpolate between the neighboring ranks.
//
// The convention is deliberately pinned here rather than delegated to a
// statistics library: montanaflynn/stats and gonum's quantile kinds each
// implement a different rank mapping, and calibrated thresholds must be
// bit-identical across re-runs and implementations.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("percentile of empty sample")
	}
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("percentile fraction must be in [0,1], got %g", p)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
}
