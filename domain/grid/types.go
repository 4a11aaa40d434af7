package grid

import (
	"fmt"
)

// Mode distinguishes how the data for a grid cell was composed.
type Mode string

const (
	// ModeUndiluted means the generator produced the full dimension set.
	ModeUndiluted Mode = "undiluted"
	// ModeDiluted means a structured half-space was concatenated with an
	// independent half-space of the same width.
	ModeDiluted Mode = "diluted"
)

// Plan describes the full parameter grid of a power study. Enumeration order
// is slice technique, then observation count, then dimension, then
// noise level x generator x mode.
type Plan struct {
	SliceTechniques   []string
	ObservationCounts []int
	UndilutedDims     []int
	// MinDilutedDim gates dilution: cells at dimension >= MinDilutedDim are
	// additionally evaluated in diluted mode. Zero disables dilution.
	MinDilutedDim   int
	NoiseLevels     []float64
	Generators      []string // catalog ids, in battery order
	Distribution    string   // marginal distribution family tag
	Estimator       string   // opaque tag handed to the contrast measure
	CalibrationReps int
	EstimationReps  int
	Seed            int64
}

// Validate checks the plan invariants before a run starts.
func (p Plan) Validate() error {
	if len(p.SliceTechniques) == 0 {
		return fmt.Errorf("plan needs at least one slice technique")
	}
	if len(p.ObservationCounts) == 0 {
		return fmt.Errorf("plan needs at least one observation count")
	}
	for _, n := range p.ObservationCounts {
		if n < 1 {
			return fmt.Errorf("observation count must be positive, got %d", n)
		}
	}
	if len(p.UndilutedDims) == 0 {
		return fmt.Errorf("plan needs at least one dimension")
	}
	for _, d := range p.UndilutedDims {
		if d < 1 {
			return fmt.Errorf("dimension must be positive, got %d", d)
		}
	}
	if p.MinDilutedDim < 0 {
		return fmt.Errorf("minimum diluted dimension cannot be negative")
	}
	if p.MinDilutedDim > 0 && p.MinDilutedDim < 2 {
		return fmt.Errorf("minimum diluted dimension must be >= 2 so each half-space has at least one dimension")
	}
	if len(p.NoiseLevels) == 0 {
		return fmt.Errorf("plan needs at least one noise level")
	}
	for _, v := range p.NoiseLevels {
		if v < 0 || v > 1 {
			return fmt.Errorf("noise level must be in [0,1], got %g", v)
		}
	}
	if len(p.Generators) == 0 {
		return fmt.Errorf("plan needs at least one generator")
	}
	if p.CalibrationReps < 1 {
		return fmt.Errorf("calibration repetitions must be positive, got %d", p.CalibrationReps)
	}
	if p.EstimationReps < 1 {
		return fmt.Errorf("estimation repetitions must be positive, got %d", p.EstimationReps)
	}
	return nil
}

// Coordinate identifies a single grid cell. It is carried in failure
// diagnostics so an aborted run names the cell that broke.
type Coordinate struct {
	SliceTechnique   string
	ObservationCount int
	Dimension        int
	Noise            float64
	GeneratorID      string
	Mode             Mode
}

func (c Coordinate) String() string {
	return fmt.Sprintf("slice=%s obs=%d dim=%d noise=%g generator=%s mode=%s",
		c.SliceTechnique, c.ObservationCount, c.Dimension, c.Noise, c.GeneratorID, c.Mode)
}

// NoiseSequence builds the configured noise ladder: count evenly spaced
// levels ending at resolution, i.e. resolution * i/count for i = 1..count.
func NoiseSequence(count int, resolution float64) []float64 {
	if count < 1 {
		return nil
	}
	levels := make([]float64, count)
	for i := 1; i <= count; i++ {
		levels[i-1] = resolution * float64(i) / float64(count)
	}
	return levels
}
