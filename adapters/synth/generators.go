// Package synth provides the built-in battery of synthetic data-generating
// processes. Every process is parameterized at construction by dimension,
// noise level, marginal distribution family, and seed, and produces a fresh
// matrix on each Generate call.
package synth

import (
	"fmt"
	"math"
	"math/rand"

	"mcpower/domain/dataset"
	apperrors "mcpower/internal/errors"
)

const (
	// DistUniform draws independent marginals from U[0,1).
	DistUniform = "uniform"
	// DistGaussian draws independent marginals from N(0.5, 0.25) so values
	// stay comparable with the uniform family's range.
	DistGaussian = "gaussian"
)

// fillRow writes one structured observation into row using the generator's
// random stream.
type fillRow func(g *generator, row []float64)

// generator is one parameterized synthetic process. The parameters are
// immutable; the random stream is not, so a generator is owned by a single
// trial.
type generator struct {
	id           string
	name         string
	dim          int
	noise        float64
	distribution string
	rng          *rand.Rand
	fill         fillRow
}

func newGenerator(id, name string, dim int, noise float64, distribution string, seed int64, fill fillRow) (*generator, error) {
	if dim < 1 {
		return nil, apperrors.GenerationFailure(fmt.Sprintf("generator %s: dimension must be positive, got %d", id, dim))
	}
	if noise < 0 || noise > 1 {
		return nil, apperrors.GenerationFailure(fmt.Sprintf("generator %s: noise must be in [0,1], got %g", id, noise))
	}
	switch distribution {
	case DistUniform, DistGaussian:
	default:
		return nil, apperrors.GenerationFailure(fmt.Sprintf("generator %s: unknown distribution family %q", id, distribution))
	}
	return &generator{
		id:           id,
		name:         name,
		dim:          dim,
		noise:        noise,
		distribution: distribution,
		rng:          rand.New(rand.NewSource(seed)),
		fill:         fill,
	}, nil
}

func (g *generator) ID() string   { return g.id }
func (g *generator) Name() string { return g.name }

// Generate produces an observationCount x dim matrix. Structured coordinates
// are perturbed by gaussian noise with sigma equal to the noise level.
func (g *generator) Generate(observationCount int) (dataset.Matrix, error) {
	if observationCount < 1 {
		return nil, apperrors.GenerationFailure(fmt.Sprintf("generator %s: observation count must be positive, got %d", g.id, observationCount))
	}

	m := make(dataset.Matrix, observationCount)
	for i := range m {
		row := make([]float64, g.dim)
		g.fill(g, row)
		if g.noise > 0 {
			for j := range row {
				row[j] += g.rng.NormFloat64() * g.noise
			}
		}
		m[i] = row
	}
	return m, nil
}

// marginal draws one independent coordinate per the distribution family.
func (g *generator) marginal() float64 {
	if g.distribution == DistGaussian {
		return 0.5 + 0.25*g.rng.NormFloat64()
	}
	return g.rng.Float64()
}

// fillIndependent: every coordinate independent; the null baseline.
func fillIndependent(g *generator, row []float64) {
	for j := range row {
		row[j] = g.marginal()
	}
}

// fillLinear: all coordinates equal one latent draw.
func fillLinear(g *generator, row []float64) {
	x := g.marginal()
	for j := range row {
		row[j] = x
	}
}

// fillParabola: trailing coordinates are the square of a centered latent.
func fillParabola(g *generator, row []float64) {
	x := 2*g.rng.Float64() - 1
	row[0] = x
	for j := 1; j < len(row); j++ {
		row[j] = x * x
	}
}

// fillSine builds a sine dependency with the given period.
func fillSine(period float64) fillRow {
	return func(g *generator, row []float64) {
		x := g.rng.Float64()
		row[0] = x
		for j := 1; j < len(row); j++ {
			row[j] = (math.Sin(2*math.Pi*period*x) + 1) / 2
		}
	}
}

// fillCircle: points on the unit hypersphere via a normalized gaussian draw.
func fillCircle(g *generator, row []float64) {
	norm := 0.0
	for j := range row {
		row[j] = g.rng.NormFloat64()
		norm += row[j] * row[j]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		row[0] = 1
		norm = 1
	}
	for j := range row {
		row[j] = (row[j]/norm + 1) / 2
	}
}

// fillCross: trailing coordinates follow the latent up to a random sign.
func fillCross(g *generator, row []float64) {
	x := 2*g.rng.Float64() - 1
	row[0] = x
	for j := 1; j < len(row); j++ {
		if g.rng.Float64() < 0.5 {
			row[j] = x
		} else {
			row[j] = -x
		}
	}
}

// fillStar: a spike along one randomly chosen coordinate axis.
func fillStar(g *generator, row []float64) {
	for j := range row {
		row[j] = 0
	}
	axis := g.rng.Intn(len(row))
	row[axis] = 2*g.rng.Float64() - 1
}
