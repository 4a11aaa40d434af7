package ports

import (
	"mcpower/domain/dataset"
)

// IndependenceID is the catalog id of the independence baseline process used
// for null calibration and for the independent half of diluted cells.
const IndependenceID = "independent"

// Generator produces synthetic observation matrices for one fixed
// parameterization (dimension, noise, distribution family, seed). A Generator
// is immutable in its parameters but stateful in its random stream, so it
// must not be shared across concurrent trials: build one per trial.
type Generator interface {
	// ID is the stable identity used in output records.
	ID() string
	// Name is human-readable and used only for logging.
	Name() string
	// Generate returns a fresh observationCount x dimension matrix.
	Generate(observationCount int) (dataset.Matrix, error)
}

// GeneratorFactory builds a Generator for one grid cell and trial.
type GeneratorFactory func(dimension int, noise float64, distribution string, seed int64) (Generator, error)

// CatalogEntry is one named data-generating process in the benchmark battery.
// Defaults carry process-specific parameters (e.g. a sine period) that the
// grid does not vary.
type CatalogEntry struct {
	ID       string
	Defaults map[string]float64
	Build    GeneratorFactory
}
