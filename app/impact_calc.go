package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"riskuq/domain/core"
	"riskuq/domain/uncertainty"
	"riskuq/ports"
)

// Impact metric table names.
const (
	MetricAAIAgg    = "aai_agg"
	MetricFreqCurve = "freq_curve"
	MetricAtEvent   = "at_event"
	MetricEAIExp    = "eai_exp"
	MetricTotValue  = "tot_value"
)

// DefaultReturnPeriods are the return periods computed when none are given.
var DefaultReturnPeriods = []int{5, 10, 20, 50, 100, 250}

// ImpactCalc drives Monte-Carlo uncertainty evaluation of an impact model.
// The three inputs may be *uncertainty.InputVar values or raw model inputs;
// raw values are wrapped as constants.
type ImpactCalc struct {
	Calc
	model   ports.ImpactModel
	expVar  *uncertainty.InputVar
	impfVar *uncertainty.InputVar
	hazVar  *uncertainty.InputVar
	unit    string
}

// NewImpactCalc validates label uniqueness across the input variables and
// probes the exposure value unit from the default exposure input.
func NewImpactCalc(model ports.ImpactModel, exposures, impactFuncs, hazard any, logger *logrus.Logger) (*ImpactCalc, error) {
	c := &ImpactCalc{
		Calc:    newCalc(logger),
		model:   model,
		expVar:  uncertainty.Wrap(exposures),
		impfVar: uncertainty.Wrap(impactFuncs),
		hazVar:  uncertainty.Wrap(hazard),
	}
	if _, err := uncertainty.DistinctLabels(c.expVar, c.impfVar, c.hazVar); err != nil {
		return nil, err
	}
	def, err := c.expVar.Evaluate(nil)
	if err != nil {
		return nil, fmt.Errorf("probe default exposures: %w", err)
	}
	if p, ok := def.(ports.ValueUnitProvider); ok {
		c.unit = p.ValueUnit()
	}
	return c, nil
}

// InputVars returns the evaluator's input variables in declaration order.
func (c *ImpactCalc) InputVars() []*uncertainty.InputVar {
	return []*uncertainty.InputVar{c.expVar, c.impfVar, c.hazVar}
}

// ImpactOptions control which impact metrics are extracted per sample and
// how the batch is scheduled.
type ImpactOptions struct {
	// ReturnPeriods for the frequency curve; DefaultReturnPeriods when nil.
	ReturnPeriods []int
	// EachEvent toggles the per-event impact breakdown. Off keeps the
	// at_event table present but empty.
	EachEvent bool
	// EachLocation toggles the per-exposure-point breakdown. Off keeps the
	// eai_exp table present but empty.
	EachLocation bool
	// Workers is the size of the worker pool; <= 1 evaluates sequentially.
	Workers int
}

type impactRow struct {
	aaiAgg    float64
	freqCurve []float64
	eaiExp    []float64
	atEvent   []float64
	totValue  float64
}

// Uncertainty evaluates the impact model for every row of out.Samples and
// fills one uncertainty table per metric, row-aligned with the samples.
func (c *ImpactCalc) Uncertainty(ctx context.Context, out *uncertainty.Output, opts ImpactOptions) error {
	if out.Samples.Empty() {
		return core.ErrEmptySampleSet
	}
	rp := opts.ReturnPeriods
	if rp == nil {
		rp = DefaultReturnPeriods
	}
	out.Unit = c.unit

	// Calibration run on row 0: advisory runtime estimate only.
	start := time.Now()
	if _, err := c.evaluateRow(ctx, out.Samples.Row(0), rp, opts); err != nil {
		return core.NewRowError(0, err)
	}
	c.estimateRuntime(out.Samples.N(), time.Since(start), opts.Workers)

	restore := c.quiet()
	defer restore()
	rows, err := mapRows(ctx, out.Samples, opts.Workers, func(_ int, row uncertainty.Params) (impactRow, error) {
		return c.evaluateRow(ctx, row, rp, opts)
	})
	if err != nil {
		return err
	}

	n := len(rows)
	aai := make([]float64, n)
	tot := make([]float64, n)
	for i, r := range rows {
		aai[i] = r.aaiAgg
		tot[i] = r.totValue
	}

	freqCols := make([]*uncertainty.Column, len(rp))
	for j, years := range rp {
		values := make([]float64, n)
		for i, r := range rows {
			if len(r.freqCurve) != len(rp) {
				return core.NewShapeError("freq_curve row", len(r.freqCurve), len(rp))
			}
			values[i] = r.freqCurve[j]
		}
		freqCols[j] = uncertainty.FloatColumn(uncertainty.ReturnPeriodColumn(years), values)
	}

	aaiTable, err := uncertainty.NewTable(uncertainty.FloatColumn(MetricAAIAgg, aai))
	if err != nil {
		return err
	}
	freqTable, err := uncertainty.NewTable(freqCols...)
	if err != nil {
		return err
	}
	totTable, err := uncertainty.NewTable(uncertainty.FloatColumn(MetricTotValue, tot))
	if err != nil {
		return err
	}
	eaiTable, err := vectorTable(rows, func(r impactRow) []float64 { return r.eaiExp }, uncertainty.LocationColumn)
	if err != nil {
		return fmt.Errorf("%s: %w", MetricEAIExp, err)
	}
	eventTable, err := vectorTable(rows, func(r impactRow) []float64 { return r.atEvent }, uncertainty.EventColumn)
	if err != nil {
		return fmt.Errorf("%s: %w", MetricAtEvent, err)
	}

	out.SetTable(MetricAAIAgg, uncertainty.TableUncertainty, aaiTable)
	out.SetTable(MetricFreqCurve, uncertainty.TableUncertainty, freqTable)
	out.SetTable(MetricEAIExp, uncertainty.TableUncertainty, eaiTable)
	out.SetTable(MetricAtEvent, uncertainty.TableUncertainty, eventTable)
	out.SetTable(MetricTotValue, uncertainty.TableUncertainty, totTable)
	return nil
}

func (c *ImpactCalc) evaluateRow(ctx context.Context, row uncertainty.Params, rp []int, opts ImpactOptions) (impactRow, error) {
	exp, err := c.expVar.Resolve(row)
	if err != nil {
		return impactRow{}, fmt.Errorf("exposures input: %w", err)
	}
	impf, err := c.impfVar.Resolve(row)
	if err != nil {
		return impactRow{}, fmt.Errorf("impact functions input: %w", err)
	}
	haz, err := c.hazVar.Resolve(row)
	if err != nil {
		return impactRow{}, fmt.Errorf("hazard input: %w", err)
	}

	res, err := c.model.Run(ctx, ports.ImpactInputs{Exposures: exp, ImpactFuncs: impf, Hazard: haz})
	if err != nil {
		return impactRow{}, err
	}

	r := impactRow{
		aaiAgg:    res.AggregateRisk(),
		freqCurve: res.FreqCurve(rp),
		totValue:  res.TotalValue(),
		// Toggled-off vectors stay as empty sentinels, never nil, so the
		// assembled tables remain rectangular.
		eaiExp:  []float64{},
		atEvent: []float64{},
	}
	if opts.EachLocation {
		r.eaiExp = res.PerLocation()
	}
	if opts.EachEvent {
		r.atEvent = res.PerEvent()
	}
	return r, nil
}

// vectorTable transposes a per-row vector metric into one column per
// sub-element. Rows with empty vectors (toggle off) yield the empty table.
func vectorTable(rows []impactRow, pick func(impactRow) []float64, colName func(int) string) (*uncertainty.Table, error) {
	width := len(pick(rows[0]))
	if width == 0 {
		return uncertainty.EmptyTable(), nil
	}
	cols := make([]*uncertainty.Column, width)
	for j := 0; j < width; j++ {
		values := make([]float64, len(rows))
		for i, r := range rows {
			v := pick(r)
			if len(v) != width {
				return nil, core.NewShapeError("vector metric row", len(v), width)
			}
			values[i] = v[j]
		}
		cols[j] = uncertainty.FloatColumn(colName(j), values)
	}
	return uncertainty.NewTable(cols...)
}
