// Package app wires the estimation core into the full study: grid
// enumeration, per-coordinate calibration, bounded concurrent cell
// estimation, and streaming record emission.
package app

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"mcpower/domain/core"
	"mcpower/domain/dataset"
	"mcpower/domain/grid"
	"mcpower/domain/power"
	apperrors "mcpower/internal/errors"
	"mcpower/internal/logging"
	"mcpower/internal/mc"
	"mcpower/internal/study"
	"mcpower/ports"
)

// GridRunner enumerates the full parameter grid. For each (slice technique,
// observation count, dimension) triple it calibrates thresholds exactly once,
// then estimates power for every noise level, generator, and dilution mode at
// that triple, emitting one summary record per cell as it completes.
//
// There is no isolation between cells: the first failure anywhere cancels the
// remaining cells and aborts the run with a diagnostic naming the failing
// coordinate. Records already emitted stay valid.
type GridRunner struct {
	plan     grid.Plan
	entries  []ports.CatalogEntry
	baseline ports.CatalogEntry
	contrast ports.ContrastPort
	sink     ports.ResultSink
	observer ports.RunObserver
	pool     *mc.Pool
	log      *logging.Logger
}

// NewGridRunner validates the plan and resolves its generator selection
// against the battery. The battery must contain the independence process:
// calibration and dilution depend on it even when the plan does not study it.
func NewGridRunner(
	plan grid.Plan,
	battery []ports.CatalogEntry,
	contrast ports.ContrastPort,
	sink ports.ResultSink,
	observer ports.RunObserver,
	pool *mc.Pool,
	log *logging.Logger,
) (*GridRunner, error) {
	if err := plan.Validate(); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeConfigInvalid, err)
	}

	byID := make(map[string]ports.CatalogEntry, len(battery))
	for _, entry := range battery {
		byID[entry.ID] = entry
	}

	baseline, ok := byID[ports.IndependenceID]
	if !ok {
		return nil, apperrors.ConfigInvalid("battery has no independence baseline generator")
	}

	entries := make([]ports.CatalogEntry, 0, len(plan.Generators))
	for _, id := range plan.Generators {
		entry, ok := byID[id]
		if !ok {
			return nil, apperrors.ConfigInvalid(fmt.Sprintf("plan references unknown generator %q", id))
		}
		entries = append(entries, entry)
	}

	if observer == nil {
		observer = logging.NopObserver{}
	}

	return &GridRunner{
		plan:     plan,
		entries:  entries,
		baseline: baseline,
		contrast: contrast,
		sink:     sink,
		observer: observer,
		pool:     pool,
		log:      log,
	}, nil
}

// Run executes the whole study. Cells within a calibration triple run
// concurrently; triples run in order so every ThresholdSet exists before the
// estimations that consume it.
func (r *GridRunner) Run(ctx context.Context) error {
	runID := core.NewRunID()
	start := time.Now()
	r.log.Info("power study %s: slices=%d obs_counts=%d dims=%d noise_levels=%d generators=%d parallelism=%d",
		runID, len(r.plan.SliceTechniques), len(r.plan.ObservationCounts), len(r.plan.UndilutedDims),
		len(r.plan.NoiseLevels), len(r.entries), r.pool.Size())

	calibrator := study.NewCalibrator(r.contrast, r.pool, r.observer)
	estimator := study.NewEstimator(r.contrast, r.pool)

	// The sink is the only shared mutable resource; serialize its writes.
	var sinkMu sync.Mutex

	for _, slice := range r.plan.SliceTechniques {
		for _, obs := range r.plan.ObservationCounts {
			for _, dim := range r.plan.UndilutedDims {
				thresholds, err := calibrator.Calibrate(ctx,
					r.baselineSource(slice, obs, dim),
					dim, obs, slice, r.plan.Estimator, r.plan.CalibrationReps)
				if err != nil {
					return fmt.Errorf("calibration at slice=%s obs=%d dim=%d: %w", slice, obs, dim, err)
				}

				g, gctx := errgroup.WithContext(ctx)
				g.SetLimit(r.pool.Size())

				for _, noise := range r.plan.NoiseLevels {
					for _, entry := range r.entries {
						undiluted := grid.Coordinate{
							SliceTechnique:   slice,
							ObservationCount: obs,
							Dimension:        dim,
							Noise:            noise,
							GeneratorID:      entry.ID,
							Mode:             grid.ModeUndiluted,
						}
						g.Go(func() error {
							return r.runCell(gctx, estimator, undiluted, entry, thresholds, &sinkMu)
						})

						if r.plan.MinDilutedDim > 0 && dim >= r.plan.MinDilutedDim {
							diluted := undiluted
							diluted.Mode = grid.ModeDiluted
							g.Go(func() error {
								return r.runCell(gctx, estimator, diluted, entry, thresholds, &sinkMu)
							})
						}
					}
				}

				if err := g.Wait(); err != nil {
					return err
				}
			}
		}
	}

	r.log.Info("power study %s complete in %s", runID, time.Since(start).Round(time.Millisecond))
	return nil
}

// runCell estimates one grid cell and streams its record to the sink.
func (r *GridRunner) runCell(
	ctx context.Context,
	estimator *study.Estimator,
	coord grid.Coordinate,
	entry ports.CatalogEntry,
	thresholds power.ThresholdSet,
	sinkMu *sync.Mutex,
) error {
	source, dims := r.cellSource(coord, entry)
	summary, err := estimator.EstimatePower(ctx, source, dims,
		r.plan.Estimator, coord.SliceTechnique, r.plan.EstimationReps, thresholds)
	if err != nil {
		return fmt.Errorf("cell %s: %w", coord, err)
	}

	rec := power.SummaryRecord{
		GeneratorID:      coord.GeneratorID,
		Mode:             coord.Mode,
		Dimension:        coord.Dimension,
		Noise:            coord.Noise,
		ObservationCount: coord.ObservationCount,
		SliceTechnique:   coord.SliceTechnique,
		MeanContrast:     summary.Mean,
		StdDevContrast:   summary.StdDev,
		Power90:          summary.Power90,
		Power95:          summary.Power95,
		Power99:          summary.Power99,
	}

	sinkMu.Lock()
	err = r.sink.Append(rec)
	sinkMu.Unlock()
	if err != nil {
		return fmt.Errorf("cell %s: %w", coord, err)
	}

	r.observer.CellCompleted(rec)
	return nil
}

// cellSource builds the per-trial matrix source for a cell. Each trial
// constructs its own generator with a derived seed so trials stay independent
// and the run stays reproducible.
func (r *GridRunner) cellSource(coord grid.Coordinate, entry ports.CatalogEntry) (study.MatrixSource, []int) {
	seed := cellSeed(r.plan.Seed, coord)

	if coord.Mode == grid.ModeDiluted {
		half := coord.Dimension / 2
		fullDim := 2 * half
		source := func(trial int) (dataset.Matrix, error) {
			structured, err := entry.Build(half, coord.Noise, r.plan.Distribution, seed+2*int64(trial))
			if err != nil {
				return nil, err
			}
			independent, err := r.baseline.Build(half, 0, r.plan.Distribution, seed+2*int64(trial)+1)
			if err != nil {
				return nil, err
			}
			return study.Dilute(structured, independent, coord.ObservationCount, fullDim)
		}
		return source, study.FullDims(fullDim)
	}

	source := func(trial int) (dataset.Matrix, error) {
		gen, err := entry.Build(coord.Dimension, coord.Noise, r.plan.Distribution, seed+int64(trial))
		if err != nil {
			return nil, err
		}
		return gen.Generate(coord.ObservationCount)
	}
	return source, study.FullDims(coord.Dimension)
}

// baselineSource builds the zero-noise independence source used for null
// calibration at one (slice, obs, dim) triple.
func (r *GridRunner) baselineSource(slice string, obs, dim int) study.MatrixSource {
	coord := grid.Coordinate{
		SliceTechnique:   slice,
		ObservationCount: obs,
		Dimension:        dim,
		GeneratorID:      r.baseline.ID,
		Mode:             grid.ModeUndiluted,
	}
	seed := cellSeed(r.plan.Seed, coord)
	return func(trial int) (dataset.Matrix, error) {
		gen, err := r.baseline.Build(dim, 0, r.plan.Distribution, seed+int64(trial))
		if err != nil {
			return nil, err
		}
		return gen.Generate(obs)
	}
}

// cellSeed derives a stable per-coordinate seed from the run seed.
func cellSeed(base int64, coord grid.Coordinate) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s", base, coord)
	return int64(h.Sum64())
}
