package ports

import (
	"context"

	"riskuq/domain/uncertainty"
)

// IndexSet is one named sensitivity index computed over all parameters.
// First-order sets carry one value per parameter in problem order;
// second-order sets carry one value per ordered parameter pair, row-major.
type IndexSet struct {
	// SI is the index name, e.g. "S1", "S1_conf", "ST", "S2".
	SI string
	// Order is 1 for per-parameter indices and 2 for per-pair indices.
	Order int
	// Values holds the index values; length NumVars for order 1 and
	// NumVars*NumVars for order 2.
	Values []float64
}

// SensitivityEstimator computes variance-based sensitivity indices for one
// uncertainty output column.
type SensitivityEstimator interface {
	Name() string
	Analyze(ctx context.Context, problem uncertainty.Problem, values []float64, kwargs map[string]string) ([]IndexSet, error)
}
