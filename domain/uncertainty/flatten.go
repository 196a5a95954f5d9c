package uncertainty

import (
	"sort"
	"strconv"
)

// Flat column-name scheme for nested model outputs. Keeping the naming in
// one place makes the nested-to-flat collapse a pure, testable step instead
// of inline string formatting at the assembly sites.

// Period identifies the planning horizon of a measure-risk block.
type Period string

const (
	PeriodPresent Period = "present"
	PeriodFuture  Period = "future"
)

// MeasureRisk is the per-adaptation-measure risk snapshot extracted from a
// cost-benefit computation.
type MeasureRisk struct {
	Risk          float64 `json:"risk"`
	RiskTransfer  float64 `json:"risk_transf"`
	MeasureCost   float64 `json:"cost_meas"`
	InsuranceCost float64 `json:"cost_ins"`
}

// measureRiskMetrics is the fixed sub-metric extraction order.
var measureRiskMetrics = [4]string{"risk", "risk_transf", "cost_meas", "cost_ins"}

func (m MeasureRisk) values() [4]float64 {
	return [4]float64{m.Risk, m.RiskTransfer, m.MeasureCost, m.InsuranceCost}
}

// ReturnPeriodColumn names the frequency-curve column for one return period.
func ReturnPeriodColumn(years int) string {
	return "rp" + strconv.Itoa(years)
}

// LocationColumn names the per-exposure-point impact column at index i.
func LocationColumn(i int) string {
	return "exp" + strconv.Itoa(i)
}

// EventColumn names the per-event impact column at index i.
func EventColumn(i int) string {
	return "event" + strconv.Itoa(i)
}

// MeasureBenefitColumn names the benefit column of one adaptation measure.
func MeasureBenefitColumn(measure string) string {
	return measure + " Benef"
}

// MeasureCostBenColumn names the cost/benefit ratio column of one measure.
func MeasureCostBenColumn(measure string) string {
	return measure + " CostBen"
}

// MeasureRiskColumn names one cell of the flattened per-measure risk block.
func MeasureRiskColumn(measure, metric string, period Period) string {
	return measure + " - " + metric + " - " + string(period)
}

// SortedMeasures returns the measure names of a per-measure mapping in
// deterministic order.
func SortedMeasures[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FlattenMeasureRisks collapses a per-measure risk block into aligned
// column-name and value slices, measure-major then fixed sub-metric order.
func FlattenMeasureRisks(measures map[string]MeasureRisk, period Period) ([]string, []float64) {
	names := SortedMeasures(measures)
	cols := make([]string, 0, len(names)*len(measureRiskMetrics))
	vals := make([]float64, 0, len(names)*len(measureRiskMetrics))
	for _, measure := range names {
		mv := measures[measure].values()
		for i, metric := range measureRiskMetrics {
			cols = append(cols, MeasureRiskColumn(measure, metric, period))
			vals = append(vals, mv[i])
		}
	}
	return cols, vals
}
