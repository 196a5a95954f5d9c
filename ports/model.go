package ports

import (
	"context"

	"riskuq/domain/uncertainty"
)

// ImpactInputs are the resolved model inputs for one impact computation.
// The values are whatever the model implementation expects; the engine only
// routes them from the input variables.
type ImpactInputs struct {
	Exposures   any
	ImpactFuncs any
	Hazard      any
}

// ImpactResult exposes the named result fields of one impact computation.
// The evaluator depends on these accessors existing; renaming one on the
// model side is a breaking change.
type ImpactResult interface {
	// AggregateRisk is the aggregated average annual impact.
	AggregateRisk() float64
	// FreqCurve returns the exceedance impact at the given return periods,
	// one value per period, in order.
	FreqCurve(returnPeriods []int) []float64
	// PerEvent returns the impact per hazard event.
	PerEvent() []float64
	// PerLocation returns the expected annual impact per exposure point.
	PerLocation() []float64
	// TotalValue is the total exposed value.
	TotalValue() float64
}

// ImpactModel is the external risk computation invoked once per sample row.
// Every call must be independent: implementations may not carry mutable
// state between runs, since rows are evaluated concurrently.
type ImpactModel interface {
	Run(ctx context.Context, in ImpactInputs) (ImpactResult, error)
}

// CostBenefitInputs are the resolved model inputs for one cost-benefit
// computation. The future fields are nil when only the present horizon is
// assessed.
type CostBenefitInputs struct {
	Hazard       any
	Entity       any
	FutureHazard any
	FutureEntity any
}

// CostBenefitResult exposes the named result fields of one cost-benefit
// computation.
type CostBenefitResult interface {
	// TotalClimateRisk is the total expected climate risk without measures.
	TotalClimateRisk() float64
	// Benefits returns the discounted benefit per adaptation measure.
	Benefits() map[string]float64
	// CostBenRatios returns the cost/benefit ratio per adaptation measure.
	CostBenRatios() map[string]float64
	// MeasureRisks returns the per-measure risk block for one period, or nil
	// when that period was not computed.
	MeasureRisks(period uncertainty.Period) map[string]uncertainty.MeasureRisk
}

// CostBenefitModel is the external cost-benefit computation invoked once per
// sample row, with the same independence requirement as ImpactModel. The
// kwargs are passed through unchanged on every call.
type CostBenefitModel interface {
	Run(ctx context.Context, in CostBenefitInputs, kwargs map[string]string) (CostBenefitResult, error)
}

// ValueUnitProvider reports the monetary unit of an exposure-like input.
// The engine probes it on the default (un-sampled) input to label outputs.
type ValueUnitProvider interface {
	ValueUnit() string
}
