package uncertainty

import (
	"github.com/montanaflynn/stats"
)

// Summary computes descriptive statistics over the numeric columns of the
// requested uncertainty metrics, one row per column. Without arguments all
// uncertainty metrics are summarized. An output with no uncertainty data
// yields the empty table.
func (o *Output) Summary(metrics ...string) (*Table, error) {
	joined := o.GetUncertainty(metrics...)
	if joined.Empty() {
		return EmptyTable(), nil
	}
	numeric := joined.NumericColumns()
	names := make([]string, len(numeric))
	mean := make([]float64, len(numeric))
	std := make([]float64, len(numeric))
	minimum := make([]float64, len(numeric))
	median := make([]float64, len(numeric))
	maximum := make([]float64, len(numeric))
	q05 := make([]float64, len(numeric))
	q95 := make([]float64, len(numeric))
	for i, col := range numeric {
		data := stats.Float64Data(col.AsFloats())
		names[i] = col.Name
		var err error
		if mean[i], err = stats.Mean(data); err != nil {
			return nil, err
		}
		if std[i], err = stats.StandardDeviationSample(data); err != nil {
			return nil, err
		}
		if minimum[i], err = stats.Min(data); err != nil {
			return nil, err
		}
		if median[i], err = stats.Median(data); err != nil {
			return nil, err
		}
		if maximum[i], err = stats.Max(data); err != nil {
			return nil, err
		}
		if q05[i], err = stats.Percentile(data, 5); err != nil {
			return nil, err
		}
		if q95[i], err = stats.Percentile(data, 95); err != nil {
			return nil, err
		}
	}
	return NewTable(
		StringColumn("metric", names),
		FloatColumn("mean", mean),
		FloatColumn("std", std),
		FloatColumn("min", minimum),
		FloatColumn("q05", q05),
		FloatColumn("median", median),
		FloatColumn("q95", q95),
		FloatColumn("max", maximum),
	)
}
