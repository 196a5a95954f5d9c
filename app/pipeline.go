package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"riskuq/domain/core"
	"riskuq/domain/uncertainty"
)

// maxChunkRows bounds the rows evaluated per dispatched task so chunks stay
// load-balanced even for very large sample sets.
const maxChunkRows = 100

// mapRows evaluates fn once per sample row and returns the results in
// sample-set row order. With workers <= 1 evaluation is sequential; above
// that, rows are partitioned into chunks and dispatched to a bounded worker
// group, with each result slotted by its row index so the fan-in order is
// independent of scheduling. Any row failure aborts the whole batch,
// annotated with the failing row index.
func mapRows[T any](ctx context.Context, samples *uncertainty.SampleSet, workers int, fn func(i int, row uncertainty.Params) (T, error)) ([]T, error) {
	if samples.Empty() {
		return nil, core.ErrEmptySampleSet
	}
	n := samples.N()
	out := make([]T, n)

	if workers <= 1 {
		for i := 0; i < n; i++ {
			v, err := fn(i, samples.Row(i))
			if err != nil {
				return nil, core.NewRowError(i, err)
			}
			out[i] = v
		}
		return out, nil
	}

	chunk := n / workers
	if chunk > maxChunkRows {
		chunk = maxChunkRows
	}
	if chunk < 1 {
		chunk = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		start := start
		end := start + chunk
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, err := fn(i, samples.Row(i))
				if err != nil {
					return core.NewRowError(i, err)
				}
				out[i] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
