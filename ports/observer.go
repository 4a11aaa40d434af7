package ports

import (
	"mcpower/domain/power"
)

// RunObserver receives lifecycle notifications at calibration and cell
// boundaries. It exists to keep logging and progress reporting out of the
// core control flow; implementations must be cheap and must not fail.
type RunObserver interface {
	CalibrationStarted(sliceTechnique string, observationCount, dimension int)
	CalibrationFinished(sliceTechnique string, observationCount, dimension int, thresholds power.ThresholdSet)
	CellCompleted(rec power.SummaryRecord)
}
