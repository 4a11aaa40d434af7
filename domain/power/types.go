package power

import (
	"strconv"

	"mcpower/domain/grid"
)

// ThresholdSet holds the empirical null thresholds for one
// (slice technique, observation count, dimension) coordinate.
// INVARIANTS:
// - computed strictly from the independence baseline at zero noise
// - P90 <= P95 <= P99 (percentiles are monotone in p)
// - consumed only by estimations sharing the coordinate, then discarded
type ThresholdSet struct {
	P90 float64
	P95 float64
	P99 float64
}

// ScoreSummary aggregates one Monte Carlo score sample. StdDev is the sample
// standard deviation (n-1 denominator). Power values are the fraction of
// scores strictly exceeding the corresponding threshold.
type ScoreSummary struct {
	Mean    float64
	StdDev  float64
	Power90 float64
	Power95 float64
	Power99 float64
}

// SummaryRecord is one output row of the study, written once per grid cell.
// Ordering across records follows grid traversal completion and carries no
// semantic meaning.
type SummaryRecord struct {
	GeneratorID      string
	Mode             grid.Mode
	Dimension        int
	Noise            float64
	ObservationCount int
	SliceTechnique   string
	MeanContrast     float64
	StdDevContrast   float64
	Power90          float64
	Power95          float64
	Power99          float64
}

// RecordHeader lists the record fields in emission order.
var RecordHeader = []string{
	"genId", "type", "dim", "noise", "obs_num", "slice_technique",
	"avg_c", "std_c", "power90", "power95", "power99",
}

// Fields renders the record as strings in RecordHeader order.
func (r SummaryRecord) Fields() []string {
	return []string{
		r.GeneratorID,
		string(r.Mode),
		strconv.Itoa(r.Dimension),
		formatFloat(r.Noise),
		strconv.Itoa(r.ObservationCount),
		r.SliceTechnique,
		formatFloat(r.MeanContrast),
		formatFloat(r.StdDevContrast),
		formatFloat(r.Power90),
		formatFloat(r.Power95),
		formatFloat(r.Power99),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
