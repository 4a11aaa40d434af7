package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlan() Plan {
	return Plan{
		SliceTechniques:   []string{"c"},
		ObservationCounts: []int{100},
		UndilutedDims:     []int{2, 4},
		MinDilutedDim:     4,
		NoiseLevels:       []float64{0.5, 1.0},
		Generators:        []string{"independent"},
		Distribution:      "uniform",
		Estimator:         "R",
		CalibrationReps:   10,
		EstimationReps:    10,
		Seed:              1,
	}
}

func TestPlanValidate(t *testing.T) {
	require.NoError(t, validPlan().Validate())

	cases := []struct {
		name   string
		mutate func(*Plan)
	}{
		{"no slice techniques", func(p *Plan) { p.SliceTechniques = nil }},
		{"no observation counts", func(p *Plan) { p.ObservationCounts = nil }},
		{"zero observation count", func(p *Plan) { p.ObservationCounts = []int{0} }},
		{"no dimensions", func(p *Plan) { p.UndilutedDims = nil }},
		{"zero dimension", func(p *Plan) { p.UndilutedDims = []int{0} }},
		{"negative diluted minimum", func(p *Plan) { p.MinDilutedDim = -1 }},
		{"unsplittable diluted minimum", func(p *Plan) { p.MinDilutedDim = 1 }},
		{"no noise levels", func(p *Plan) { p.NoiseLevels = nil }},
		{"noise above one", func(p *Plan) { p.NoiseLevels = []float64{1.5} }},
		{"negative noise", func(p *Plan) { p.NoiseLevels = []float64{-0.1} }},
		{"no generators", func(p *Plan) { p.Generators = nil }},
		{"zero calibration reps", func(p *Plan) { p.CalibrationReps = 0 }},
		{"zero estimation reps", func(p *Plan) { p.EstimationReps = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlan()
			tc.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestPlanValidate_ZeroDilutedMinimumDisablesDilution(t *testing.T) {
	p := validPlan()
	p.MinDilutedDim = 0
	assert.NoError(t, p.Validate())
}

func TestNoiseSequence(t *testing.T) {
	levels := NoiseSequence(4, 1.0)
	require.Len(t, levels, 4)
	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.75, 1.0}, levels, 1e-12)

	scaled := NoiseSequence(2, 0.5)
	assert.InDeltaSlice(t, []float64{0.25, 0.5}, scaled, 1e-12)

	assert.Nil(t, NoiseSequence(0, 1.0))
}

func TestNoiseSequence_ExcludesZeroAndEndsAtResolution(t *testing.T) {
	levels := NoiseSequence(30, 1.0)
	require.Len(t, levels, 30)
	assert.Greater(t, levels[0], 0.0, "the zero-noise point belongs to calibration, not the ladder")
	assert.InDelta(t, 1.0, levels[29], 1e-12)
}

func TestCoordinateString(t *testing.T) {
	c := Coordinate{
		SliceTechnique:   "c",
		ObservationCount: 1000,
		Dimension:        8,
		Noise:            0.25,
		GeneratorID:      "sine",
		Mode:             ModeDiluted,
	}
	assert.Equal(t, "slice=c obs=1000 dim=8 noise=0.25 generator=sine mode=diluted", c.String())
}
