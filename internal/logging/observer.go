package logging

import (
	"mcpower/domain/power"
)

// RunLogObserver reports calibration and cell boundaries through the leveled
// logger. It is the default observability hook wired by the CLI.
type RunLogObserver struct {
	log *Logger
}

// NewRunLogObserver creates an observer backed by the given logger
func NewRunLogObserver(log *Logger) *RunLogObserver {
	return &RunLogObserver{log: log}
}

func (o *RunLogObserver) CalibrationStarted(sliceTechnique string, observationCount, dimension int) {
	o.log.Info("calibrating thresholds: slice=%s obs=%d dim=%d", sliceTechnique, observationCount, dimension)
}

func (o *RunLogObserver) CalibrationFinished(sliceTechnique string, observationCount, dimension int, thresholds power.ThresholdSet) {
	o.log.Info("thresholds ready: slice=%s obs=%d dim=%d p90=%.6f p95=%.6f p99=%.6f",
		sliceTechnique, observationCount, dimension, thresholds.P90, thresholds.P95, thresholds.P99)
}

func (o *RunLogObserver) CellCompleted(rec power.SummaryRecord) {
	o.log.Debug("cell complete: gen=%s mode=%s dim=%d noise=%g obs=%d slice=%s mean=%.6f power90=%.3f",
		rec.GeneratorID, rec.Mode, rec.Dimension, rec.Noise, rec.ObservationCount,
		rec.SliceTechnique, rec.MeanContrast, rec.Power90)
}

// NopObserver discards every notification. Useful for tests and embedding.
type NopObserver struct{}

func (NopObserver) CalibrationStarted(string, int, int)                      {}
func (NopObserver) CalibrationFinished(string, int, int, power.ThresholdSet) {}
func (NopObserver) CellCompleted(power.SummaryRecord)                        {}
