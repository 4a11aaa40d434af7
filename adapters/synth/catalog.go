package synth

import (
	"fmt"

	apperrors "mcpower/internal/errors"
	"mcpower/ports"
)

// defaultSinePeriod is carried as a catalog default rather than a grid axis;
// the study varies dimension and noise, not process shape parameters.
const defaultSinePeriod = 1.0

// Catalog returns the benchmark battery in its canonical order. The
// independence process comes first: it doubles as the calibration baseline
// and as the independent half of diluted cells.
func Catalog() []ports.CatalogEntry {
	return []ports.CatalogEntry{
		{
			ID: ports.IndependenceID,
			Build: func(dim int, noise float64, distribution string, seed int64) (ports.Generator, error) {
				return newGenerator(ports.IndependenceID, "Independent marginals", dim, noise, distribution, seed, fillIndependent)
			},
		},
		{
			ID: "linear",
			Build: func(dim int, noise float64, distribution string, seed int64) (ports.Generator, error) {
				return newGenerator("linear", "Linear dependency", dim, noise, distribution, seed, fillLinear)
			},
		},
		{
			ID: "parabola",
			Build: func(dim int, noise float64, distribution string, seed int64) (ports.Generator, error) {
				return newGenerator("parabola", "Parabolic dependency", dim, noise, distribution, seed, fillParabola)
			},
		},
		{
			ID:       "sine",
			Defaults: map[string]float64{"period": defaultSinePeriod},
			Build: func(dim int, noise float64, distribution string, seed int64) (ports.Generator, error) {
				return newGenerator("sine", "Sine dependency", dim, noise, distribution, seed, fillSine(defaultSinePeriod))
			},
		},
		{
			ID: "circle",
			Build: func(dim int, noise float64, distribution string, seed int64) (ports.Generator, error) {
				return newGenerator("circle", "Hypersphere surface", dim, noise, distribution, seed, fillCircle)
			},
		},
		{
			ID: "cross",
			Build: func(dim int, noise float64, distribution string, seed int64) (ports.Generator, error) {
				return newGenerator("cross", "Cross dependency", dim, noise, distribution, seed, fillCross)
			},
		},
		{
			ID: "star",
			Build: func(dim int, noise float64, distribution string, seed int64) (ports.Generator, error) {
				return newGenerator("star", "Axis star", dim, noise, distribution, seed, fillStar)
			},
		},
	}
}

// Lookup resolves catalog ids in the requested order. Unknown ids are a
// configuration error.
func Lookup(ids []string) ([]ports.CatalogEntry, error) {
	byID := make(map[string]ports.CatalogEntry)
	for _, entry := range Catalog() {
		byID[entry.ID] = entry
	}

	entries := make([]ports.CatalogEntry, 0, len(ids))
	for _, id := range ids {
		entry, ok := byID[id]
		if !ok {
			return nil, apperrors.ConfigInvalid(fmt.Sprintf("unknown generator %q in catalog selection", id))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
