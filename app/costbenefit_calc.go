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

// Cost-benefit metric table names.
const (
	MetricTotClimateRisk = "tot_climate_risk"
	MetricBenefit        = "benefit"
	MetricCostBenRatio   = "cost_ben_ratio"
	MetricImpMeasPresent = "imp_meas_present"
	MetricImpMeasFuture  = "imp_meas_future"
)

// CostBenefitCalc drives Monte-Carlo uncertainty evaluation of a
// cost-benefit model. Future hazard and entity are optional; pass nil for a
// present-only assessment.
type CostBenefitCalc struct {
	Calc
	model     ports.CostBenefitModel
	hazVar    *uncertainty.InputVar
	entVar    *uncertainty.InputVar
	hazFutVar *uncertainty.InputVar
	entFutVar *uncertainty.InputVar
	unit      string
}

// NewCostBenefitCalc validates label uniqueness across all input variables
// and probes the value unit from the default entity input.
func NewCostBenefitCalc(model ports.CostBenefitModel, hazard, entity, futureHazard, futureEntity any, logger *logrus.Logger) (*CostBenefitCalc, error) {
	c := &CostBenefitCalc{
		Calc:      newCalc(logger),
		model:     model,
		hazVar:    uncertainty.Wrap(hazard),
		entVar:    uncertainty.Wrap(entity),
		hazFutVar: uncertainty.Wrap(futureHazard),
		entFutVar: uncertainty.Wrap(futureEntity),
	}
	if _, err := uncertainty.DistinctLabels(c.hazVar, c.entVar, c.hazFutVar, c.entFutVar); err != nil {
		return nil, err
	}
	def, err := c.entVar.Evaluate(nil)
	if err != nil {
		return nil, fmt.Errorf("probe default entity: %w", err)
	}
	if p, ok := def.(ports.ValueUnitProvider); ok {
		c.unit = p.ValueUnit()
	}
	return c, nil
}

// InputVars returns the evaluator's input variables in declaration order.
func (c *CostBenefitCalc) InputVars() []*uncertainty.InputVar {
	return []*uncertainty.InputVar{c.hazVar, c.entVar, c.hazFutVar, c.entFutVar}
}

// CostBenefitOptions control batch scheduling and the extra configuration
// forwarded to every model run.
type CostBenefitOptions struct {
	// Workers is the size of the worker pool; <= 1 evaluates sequentially.
	Workers int
	// ModelKwargs is passed to every model call and recorded, string-coerced,
	// on the output for reproducibility.
	ModelKwargs map[string]string
}

type costBenefitRow struct {
	totRisk  float64
	benefits map[string]float64
	ratios   map[string]float64
	present  map[string]uncertainty.MeasureRisk
	future   map[string]uncertainty.MeasureRisk
}

// Uncertainty evaluates the cost-benefit model for every row of out.Samples
// and fills one uncertainty table per metric. Per-measure metrics are
// flattened into one column per (measure, sub-metric, period).
func (c *CostBenefitCalc) Uncertainty(ctx context.Context, out *uncertainty.Output, opts CostBenefitOptions) error {
	if out.Samples.Empty() {
		return core.ErrEmptySampleSet
	}
	out.Unit = c.unit

	start := time.Now()
	if _, err := c.evaluateRow(ctx, out.Samples.Row(0), opts.ModelKwargs); err != nil {
		return core.NewRowError(0, err)
	}
	c.estimateRuntime(out.Samples.N(), time.Since(start), opts.Workers)

	c.logger.Info("the frequency curve is not part of the cost-benefit metrics; " +
		"use a dedicated risk function if return period information is needed")

	restore := c.quiet()
	defer restore()
	rows, err := mapRows(ctx, out.Samples, opts.Workers, func(_ int, row uncertainty.Params) (costBenefitRow, error) {
		return c.evaluateRow(ctx, row, opts.ModelKwargs)
	})
	if err != nil {
		return err
	}

	n := len(rows)
	tot := make([]float64, n)
	for i, r := range rows {
		tot[i] = r.totRisk
	}
	totTable, err := uncertainty.NewTable(uncertainty.FloatColumn(MetricTotClimateRisk, tot))
	if err != nil {
		return err
	}

	benefitTable, err := measureValueTable(rows, func(r costBenefitRow) map[string]float64 { return r.benefits }, uncertainty.MeasureBenefitColumn)
	if err != nil {
		return fmt.Errorf("%s: %w", MetricBenefit, err)
	}
	ratioTable, err := measureValueTable(rows, func(r costBenefitRow) map[string]float64 { return r.ratios }, uncertainty.MeasureCostBenColumn)
	if err != nil {
		return fmt.Errorf("%s: %w", MetricCostBenRatio, err)
	}
	presentTable, err := measureRiskTable(rows, func(r costBenefitRow) map[string]uncertainty.MeasureRisk { return r.present }, uncertainty.PeriodPresent)
	if err != nil {
		return fmt.Errorf("%s: %w", MetricImpMeasPresent, err)
	}
	futureTable, err := measureRiskTable(rows, func(r costBenefitRow) map[string]uncertainty.MeasureRisk { return r.future }, uncertainty.PeriodFuture)
	if err != nil {
		return fmt.Errorf("%s: %w", MetricImpMeasFuture, err)
	}

	out.SetTable(MetricImpMeasPresent, uncertainty.TableUncertainty, presentTable)
	out.SetTable(MetricImpMeasFuture, uncertainty.TableUncertainty, futureTable)
	out.SetTable(MetricTotClimateRisk, uncertainty.TableUncertainty, totTable)
	out.SetTable(MetricBenefit, uncertainty.TableUncertainty, benefitTable)
	out.SetTable(MetricCostBenRatio, uncertainty.TableUncertainty, ratioTable)
	out.ModelKwargs = freezeKwargs(opts.ModelKwargs)
	return nil
}

func (c *CostBenefitCalc) evaluateRow(ctx context.Context, row uncertainty.Params, kwargs map[string]string) (costBenefitRow, error) {
	haz, err := c.hazVar.Resolve(row)
	if err != nil {
		return costBenefitRow{}, fmt.Errorf("hazard input: %w", err)
	}
	ent, err := c.entVar.Resolve(row)
	if err != nil {
		return costBenefitRow{}, fmt.Errorf("entity input: %w", err)
	}
	hazFut, err := c.hazFutVar.Resolve(row)
	if err != nil {
		return costBenefitRow{}, fmt.Errorf("future hazard input: %w", err)
	}
	entFut, err := c.entFutVar.Resolve(row)
	if err != nil {
		return costBenefitRow{}, fmt.Errorf("future entity input: %w", err)
	}

	res, err := c.model.Run(ctx, ports.CostBenefitInputs{
		Hazard:       haz,
		Entity:       ent,
		FutureHazard: hazFut,
		FutureEntity: entFut,
	}, kwargs)
	if err != nil {
		return costBenefitRow{}, err
	}

	return costBenefitRow{
		totRisk:  res.TotalClimateRisk(),
		benefits: res.Benefits(),
		ratios:   res.CostBenRatios(),
		present:  res.MeasureRisks(uncertainty.PeriodPresent),
		future:   res.MeasureRisks(uncertainty.PeriodFuture),
	}, nil
}

// measureValueTable transposes a per-row measure→value map into one column
// per measure, named by colName. The measures of row 0 fix the column set;
// a later row missing one is a shape violation.
func measureValueTable(rows []costBenefitRow, pick func(costBenefitRow) map[string]float64, colName func(string) string) (*uncertainty.Table, error) {
	measures := uncertainty.SortedMeasures(pick(rows[0]))
	if len(measures) == 0 {
		return uncertainty.EmptyTable(), nil
	}
	cols := make([]*uncertainty.Column, len(measures))
	for j, measure := range measures {
		values := make([]float64, len(rows))
		for i, r := range rows {
			v, ok := pick(r)[measure]
			if !ok {
				return nil, fmt.Errorf("measure %q missing in row %d: %w", measure, i, core.ErrShapeMismatch)
			}
			values[i] = v
		}
		cols[j] = uncertainty.FloatColumn(colName(measure), values)
	}
	return uncertainty.NewTable(cols...)
}

// measureRiskTable flattens per-row measure risk blocks into the wide
// (measure, sub-metric, period) column layout. Rows without a block for the
// period (present-only runs) yield the empty table.
func measureRiskTable(rows []costBenefitRow, pick func(costBenefitRow) map[string]uncertainty.MeasureRisk, period uncertainty.Period) (*uncertainty.Table, error) {
	first := pick(rows[0])
	if len(first) == 0 {
		return uncertainty.EmptyTable(), nil
	}
	names, _ := uncertainty.FlattenMeasureRisks(first, period)
	data := make([][]float64, len(names))
	for j := range data {
		data[j] = make([]float64, len(rows))
	}
	for i, r := range rows {
		cols, vals := uncertainty.FlattenMeasureRisks(pick(r), period)
		if len(cols) != len(names) {
			return nil, core.NewShapeError("measure risk row", len(cols), len(names))
		}
		for j, v := range vals {
			data[j][i] = v
		}
	}
	cols := make([]*uncertainty.Column, len(names))
	for j, name := range names {
		cols[j] = uncertainty.FloatColumn(name, data[j])
	}
	return uncertainty.NewTable(cols...)
}
