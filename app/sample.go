package app

import (
	"context"
	"fmt"

	"riskuq/domain/uncertainty"
	"riskuq/ports"
)

// MakeSample draws n parameter samples for the given input variables and
// tags the resulting sample set with the sampler's name and arguments.
// Samplers like saltelli may return more rows than requested; the row count
// of the returned set is the effective sample count.
func MakeSample(ctx context.Context, sampler ports.Sampler, n int, kwargs map[string]string, vars ...*uncertainty.InputVar) (*uncertainty.SampleSet, error) {
	problem, err := uncertainty.ProblemFor(vars...)
	if err != nil {
		return nil, err
	}
	rows, err := sampler.Sample(ctx, problem, n, kwargs)
	if err != nil {
		return nil, fmt.Errorf("sampler %s: %w", sampler.Name(), err)
	}
	return uncertainty.NewSampleSet(problem.Names, rows, sampler.Name(), kwargs)
}
