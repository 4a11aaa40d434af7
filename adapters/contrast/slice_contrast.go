// Package contrast provides the built-in reference dependency measure: a
// slice-based contrast that conditions on random subspace slices and scores
// how far the sliced marginal drifts from the complement. The core of the
// benchmark only ever sees ports.ContrastPort; any external measure can
// replace this adapter.
package contrast

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"mcpower/domain/dataset"
	apperrors "mcpower/internal/errors"
)

// EstimatorRank selects the rank-transformed comparison; any other tag uses
// raw values. Tags are otherwise opaque, matching the measure interface.
const EstimatorRank = "R"

// SliceTechniqueCenter slices each conditioning dimension with a contiguous
// value window; any other tag falls back to uniform random row subsets.
const SliceTechniqueCenter = "c"

const defaultIterations = 50

// SliceContrast scores dependency structure in [0,1]. It is deterministic
// per input matrix (the slice randomness is seeded from the data itself) and
// safe for concurrent calls: all state is per-invocation.
type SliceContrast struct {
	iterations int
}

// New creates a slice contrast with the default iteration count.
func New() *SliceContrast {
	return &SliceContrast{iterations: defaultIterations}
}

// NewWithIterations creates a slice contrast averaging over the given number
// of random slices.
func NewWithIterations(iterations int) *SliceContrast {
	if iterations < 1 {
		iterations = defaultIterations
	}
	return &SliceContrast{iterations: iterations}
}

// Contrast implements ports.ContrastPort.
func (c *SliceContrast) Contrast(data dataset.Matrix, dims []int, estimator string, sliceTechnique string) (float64, error) {
	if data.Rows() < 8 {
		return 0, apperrors.MeasureFailure(fmt.Sprintf("contrast needs at least 8 observations, got %d", data.Rows()))
	}
	if len(dims) == 0 {
		return 0, apperrors.MeasureFailure("contrast needs a non-empty dimension subset")
	}
	for _, d := range dims {
		if d < 0 || d >= data.Width() {
			return 0, apperrors.MeasureFailure(fmt.Sprintf("dimension %d out of range for width %d", d, data.Width()))
		}
	}

	rng := rand.New(rand.NewSource(matrixSeed(data)))
	total := 0.0
	for it := 0; it < c.iterations; it++ {
		total += c.sliceScore(rng, data, dims, estimator, sliceTechnique)
	}
	return total / float64(c.iterations), nil
}

// sliceScore runs one random slice comparison: pick a reference dimension,
// slice the remaining dimensions, and Welch-test the reference values inside
// the slice against the complement. The contribution is 1 - p, so stronger
// divergence scores closer to 1.
func (c *SliceContrast) sliceScore(rng *rand.Rand, data dataset.Matrix, dims []int, estimator, sliceTechnique string) float64 {
	ref := dims[rng.Intn(len(dims))]
	refValues := data.Column(ref)
	if estimator == EstimatorRank {
		refValues = rankTransform(refValues)
	}

	cond := make([]int, 0, len(dims)-1)
	for _, d := range dims {
		if d != ref {
			cond = append(cond, d)
		}
	}

	mask := sliceMask(rng, data, cond, sliceTechnique)
	inside := make([]float64, 0, len(refValues))
	outside := make([]float64, 0, len(refValues))
	for i, v := range refValues {
		if mask[i] {
			inside = append(inside, v)
		} else {
			outside = append(outside, v)
		}
	}

	// Degenerate slices give no evidence either way.
	if len(inside) < 2 || len(outside) < 2 {
		return 0
	}

	t, df := welch(inside, outside)
	return 1 - tTestPValue(t, df)
}

// sliceMask marks the rows retained by the conditioning slice. Each
// conditioning dimension keeps a fraction of rows chosen so the intersection
// retains roughly half the data regardless of how many dimensions condition.
func sliceMask(rng *rand.Rand, data dataset.Matrix, cond []int, sliceTechnique string) []bool {
	n := data.Rows()
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}

	if len(cond) == 0 {
		// One-dimensional subsets degrade to a random half split.
		perm := rng.Perm(n)
		for _, i := range perm[n/2:] {
			mask[i] = false
		}
		return mask
	}

	keep := int(math.Ceil(float64(n) * math.Pow(0.5, 1/float64(len(cond)))))
	if keep < 2 {
		keep = 2
	}

	for _, d := range cond {
		if sliceTechnique == SliceTechniqueCenter {
			// Contiguous value window on this dimension.
			order := make([]int, n)
			for i := range order {
				order[i] = i
			}
			col := data.Column(d)
			sort.Slice(order, func(a, b int) bool { return col[order[a]] < col[order[b]] })

			start := 0
			if n > keep {
				start = rng.Intn(n - keep + 1)
			}
			window := make([]bool, n)
			for _, i := range order[start : start+keep] {
				window[i] = true
			}
			for i := range mask {
				mask[i] = mask[i] && window[i]
			}
		} else {
			// Uniform random subset, no value ordering.
			perm := rng.Perm(n)
			window := make([]bool, n)
			for _, i := range perm[:keep] {
				window[i] = true
			}
			for i := range mask {
				mask[i] = mask[i] && window[i]
			}
		}
	}
	return mask
}

// welch computes the Welch t-statistic and Welch-Satterthwaite degrees of
// freedom for two samples of unequal variance.
func welch(a, b []float64) (t, df float64) {
	meanA, _ := stats.Mean(a)
	meanB, _ := stats.Mean(b)
	varA, _ := stats.SampleVariance(a)
	varB, _ := stats.SampleVariance(b)

	na := float64(len(a))
	nb := float64(len(b))
	se2 := varA/na + varB/nb
	if se2 == 0 {
		return 0, 1
	}

	t = (meanA - meanB) / math.Sqrt(se2)
	denom := (varA/na)*(varA/na)/(na-1) + (varB/nb)*(varB/nb)/(nb-1)
	if denom == 0 {
		return t, 1
	}
	df = se2 * se2 / denom
	if df < 1 {
		df = 1
	}
	return t, df
}

// tTestPValue is the two-tailed p-value under Student's t with df degrees of
// freedom.
func tTestPValue(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}

// rankTransform replaces values by their ordinal rank, averaging ties away by
// stable ordering. Rank comparison makes the contrast robust to marginal
// shape.
func rankTransform(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	ranks := make([]float64, len(values))
	for r, i := range order {
		ranks[i] = float64(r)
	}
	return ranks
}

// matrixSeed derives a deterministic seed from the matrix contents so equal
// inputs always score equally while distinct trials decorrelate.
func matrixSeed(m dataset.Matrix) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, row := range m {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return int64(h.Sum64())
}
