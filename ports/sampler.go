package ports

import (
	"context"

	"riskuq/domain/uncertainty"
)

// Sampler draws a matrix of parameter samples for a problem description.
// The returned rows have exactly one column per problem name, in order.
// The engine tags the resulting sample set with Name() and the kwargs for
// later compatibility checking and reproducibility.
type Sampler interface {
	Name() string
	Sample(ctx context.Context, problem uncertainty.Problem, n int, kwargs map[string]string) ([][]float64, error)
}
