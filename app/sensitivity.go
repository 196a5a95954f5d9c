package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"riskuq/domain/core"
	"riskuq/domain/uncertainty"
	"riskuq/ports"
)

// SensitivitySuffix is appended to a metric name to form its sensitivity
// table name.
const SensitivitySuffix = "_sens"

// Sensitivity runs the estimator over every numeric column of the requested
// uncertainty metrics (all of them when none are named) and stores one
// sensitivity table per metric, tagged with the estimator name and
// arguments. Each table carries the shared descriptor columns (param,
// param2, si) followed by one numeric column per metric sub-column; one row
// per (index, parameter), or per ordered parameter pair for second-order
// indices. Naming a metric that holds no uncertainty data is an error.
func Sensitivity(ctx context.Context, out *uncertainty.Output, est ports.SensitivityEstimator, kwargs map[string]string, logger *logrus.Logger, metrics ...string) error {
	if logger == nil {
		logger = logrus.New()
	}
	if out.Samples.Empty() {
		return core.ErrEmptySampleSet
	}
	explicit := len(metrics) > 0
	if !explicit {
		metrics = out.UncertaintyMetrics()
	}
	// Recommendation only: a mismatch warns and continues.
	out.SetLogger(logger)
	out.CheckCompatibility(est.Name())

	problem := out.Samples.Problem()
	for _, metric := range metrics {
		t, kind, ok := out.Table(metric)
		if !ok || kind != uncertainty.TableUncertainty {
			if explicit {
				return fmt.Errorf("%w: %s has no uncertainty data", core.ErrMetricNotFound, metric)
			}
			continue
		}
		if t.Empty() {
			continue
		}
		sens, err := metricSensitivity(ctx, est, problem, t, kwargs)
		if err != nil {
			return fmt.Errorf("sensitivity for %s: %w", metric, err)
		}
		out.SetTable(metric+SensitivitySuffix, uncertainty.TableSensitivity, sens)
	}
	out.SetSensitivityMeta(est.Name(), kwargs)
	return nil
}

func metricSensitivity(ctx context.Context, est ports.SensitivityEstimator, problem uncertainty.Problem, t *uncertainty.Table, kwargs map[string]string) (*uncertainty.Table, error) {
	numeric := t.NumericColumns()
	perColumn := make([][]ports.IndexSet, len(numeric))
	for i, col := range numeric {
		sets, err := est.Analyze(ctx, problem, col.AsFloats(), kwargs)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		perColumn[i] = sets
	}
	if len(perColumn) == 0 || len(perColumn[0]) == 0 {
		return uncertainty.EmptyTable(), nil
	}

	// The first column fixes the row layout; every other column must report
	// the same indices in the same order.
	var params, params2, siNames []string
	layout := perColumn[0]
	for _, set := range layout {
		n, err := indexRows(set, problem)
		if err != nil {
			return nil, err
		}
		for _, r := range n {
			params = append(params, r[0])
			params2 = append(params2, r[1])
			siNames = append(siNames, set.SI)
		}
	}

	cols := []*uncertainty.Column{
		uncertainty.StringColumn("param", params),
		uncertainty.StringColumn("param2", params2),
		uncertainty.StringColumn(uncertainty.SensitivityIndexColumn, siNames),
	}
	for i, col := range numeric {
		sets := perColumn[i]
		if len(sets) != len(layout) {
			return nil, core.NewShapeError("index sets for "+col.Name, len(sets), len(layout))
		}
		var values []float64
		for j, set := range sets {
			if set.SI != layout[j].SI || len(set.Values) != len(layout[j].Values) {
				return nil, fmt.Errorf("index %s of column %s does not match layout: %w", set.SI, col.Name, core.ErrShapeMismatch)
			}
			values = append(values, set.Values...)
		}
		cols = append(cols, uncertainty.FloatColumn(col.Name, values))
	}
	return uncertainty.NewTable(cols...)
}

// indexRows expands one index set into (param, param2) descriptor pairs
// matching its value order.
func indexRows(set ports.IndexSet, problem uncertainty.Problem) ([][2]string, error) {
	k := problem.NumVars()
	switch set.Order {
	case 1:
		if len(set.Values) != k {
			return nil, core.NewShapeError("first-order index "+set.SI, len(set.Values), k)
		}
		rows := make([][2]string, k)
		for i, name := range problem.Names {
			rows[i] = [2]string{name, ""}
		}
		return rows, nil
	case 2:
		if len(set.Values) != k*k {
			return nil, core.NewShapeError("second-order index "+set.SI, len(set.Values), k*k)
		}
		rows := make([][2]string, 0, k*k)
		for _, a := range problem.Names {
			for _, b := range problem.Names {
				rows = append(rows, [2]string{a, b})
			}
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("index %s has unsupported order %d", set.SI, set.Order)
	}
}
