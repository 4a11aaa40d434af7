package ports

import (
	"mcpower/domain/dataset"
)

// ContrastPort scores the dependency structure of a matrix over a subset of
// its dimensions. Higher scores indicate stronger detected structure. The
// estimator and slice technique tags are opaque parameterization handed
// through from configuration.
//
// Implementations must be pure over their inputs and safe for concurrent
// calls from many trials.
type ContrastPort interface {
	Contrast(data dataset.Matrix, dims []int, estimator string, sliceTechnique string) (float64, error)
}
