package app

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskuq/domain/core"
	"riskuq/domain/uncertainty"
	"riskuq/ports"
)

type fakeEntity struct {
	discount float64
}

func (e fakeEntity) ValueUnit() string { return "EUR" }

type fakeCBResult struct {
	base      float64
	hasFuture bool
}

func (r fakeCBResult) TotalClimateRisk() float64 { return 1000 * r.base }
func (r fakeCBResult) Benefits() map[string]float64 {
	return map[string]float64{"Seawall": 10 * r.base, "Mangroves": 20 * r.base}
}
func (r fakeCBResult) CostBenRatios() map[string]float64 {
	return map[string]float64{"Seawall": r.base, "Mangroves": 2 * r.base}
}
func (r fakeCBResult) MeasureRisks(period uncertainty.Period) map[string]uncertainty.MeasureRisk {
	if period == uncertainty.PeriodFuture && !r.hasFuture {
		return nil
	}
	return map[string]uncertainty.MeasureRisk{
		"Seawall":   {Risk: r.base, RiskTransfer: 2 * r.base, MeasureCost: 3 * r.base, InsuranceCost: 4 * r.base},
		"Mangroves": {Risk: 5 * r.base, RiskTransfer: 6 * r.base, MeasureCost: 7 * r.base, InsuranceCost: 8 * r.base},
	}
}

type fakeCBModel struct {
	calls      atomic.Int64
	lastKwargs map[string]string
}

func (m *fakeCBModel) Run(_ context.Context, in ports.CostBenefitInputs, kwargs map[string]string) (ports.CostBenefitResult, error) {
	m.calls.Add(1)
	m.lastKwargs = kwargs
	haz := in.Hazard.(fakeHazard)
	return fakeCBResult{base: 1 + haz.intensity, hasFuture: in.FutureEntity != nil}, nil
}

func cbHazardVar() *uncertainty.InputVar {
	return uncertainty.NewInputVar(func(p uncertainty.Params) (any, error) {
		return fakeHazard{intensity: p["x_haz"]}, nil
	}, map[string]uncertainty.Distribution{"x_haz": uncertainty.Uniform(0, 1)})
}

func cbSamples(t *testing.T, n int) *uncertainty.SampleSet {
	t.Helper()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{float64(i) / float64(n)}
	}
	s, err := uncertainty.NewSampleSet([]string{"x_haz"}, rows, "latin", nil)
	require.NoError(t, err)
	return s
}

func TestCostBenefitUncertaintyWithFuture(t *testing.T) {
	model := &fakeCBModel{}
	calc, err := NewCostBenefitCalc(model, cbHazardVar(), fakeEntity{}, nil, fakeEntity{discount: 0.02}, testLogger())
	require.NoError(t, err)

	samples := cbSamples(t, 8)
	out := uncertainty.NewOutput(samples, testLogger())
	err = calc.Uncertainty(context.Background(), out, CostBenefitOptions{
		Workers:     1,
		ModelKwargs: map[string]string{"risk_func": "risk_aai_agg"},
	})
	require.NoError(t, err)

	assert.Equal(t, "EUR", out.Unit)
	assert.Equal(t, "risk_aai_agg", out.ModelKwargs["risk_func"])

	tot, kind, ok := out.Table(MetricTotClimateRisk)
	require.True(t, ok)
	assert.Equal(t, uncertainty.TableUncertainty, kind)
	totCol, _ := tot.Column(MetricTotClimateRisk)
	for i := 0; i < samples.N(); i++ {
		base := 1 + samples.Row(i)["x_haz"]
		assert.Equal(t, 1000*base, totCol.Floats[i], "row %d", i)
	}

	benefit, _, _ := out.Table(MetricBenefit)
	assert.Equal(t, []string{"Mangroves Benef", "Seawall Benef"}, benefit.ColumnNames())
	ratio, _, _ := out.Table(MetricCostBenRatio)
	assert.Equal(t, []string{"Mangroves CostBen", "Seawall CostBen"}, ratio.ColumnNames())

	present, _, _ := out.Table(MetricImpMeasPresent)
	require.Equal(t, 8, present.NumCols())
	assert.Equal(t, "Mangroves - risk - present", present.ColumnNames()[0])
	assert.Equal(t, "Seawall - cost_ins - present", present.ColumnNames()[7])

	future, _, _ := out.Table(MetricImpMeasFuture)
	require.Equal(t, 8, future.NumCols())
	assert.Equal(t, "Mangroves - risk - future", future.ColumnNames()[0])

	// Measure-major row check: Seawall risk for row 2.
	base := 1 + samples.Row(2)["x_haz"]
	seawallRisk, okCol := present.Column("Seawall - risk - present")
	require.True(t, okCol)
	assert.Equal(t, base, seawallRisk.Floats[2])
}

func TestCostBenefitUncertaintyWithoutFuture(t *testing.T) {
	calc, err := NewCostBenefitCalc(&fakeCBModel{}, cbHazardVar(), fakeEntity{}, nil, nil, testLogger())
	require.NoError(t, err)

	out := uncertainty.NewOutput(cbSamples(t, 4), testLogger())
	require.NoError(t, calc.Uncertainty(context.Background(), out, CostBenefitOptions{Workers: 1}))

	future, _, ok := out.Table(MetricImpMeasFuture)
	require.True(t, ok, "future table must stay present")
	assert.True(t, future.Empty())
	present, _, _ := out.Table(MetricImpMeasPresent)
	assert.False(t, present.Empty())
}

func TestCostBenefitModelKwargsFrozen(t *testing.T) {
	model := &fakeCBModel{}
	calc, err := NewCostBenefitCalc(model, cbHazardVar(), fakeEntity{}, nil, nil, testLogger())
	require.NoError(t, err)

	kwargs := map[string]string{"horizon": "2050"}
	out := uncertainty.NewOutput(cbSamples(t, 3), testLogger())
	require.NoError(t, calc.Uncertainty(context.Background(), out, CostBenefitOptions{Workers: 1, ModelKwargs: kwargs}))

	kwargs["horizon"] = "tampered"
	assert.Equal(t, "2050", out.ModelKwargs["horizon"])
	assert.Equal(t, "tampered", model.lastKwargs["horizon"], "the model sees the caller map, the record does not")
}

func TestCostBenefitUncertaintyEmptySamples(t *testing.T) {
	model := &fakeCBModel{}
	calc, err := NewCostBenefitCalc(model, cbHazardVar(), fakeEntity{}, nil, nil, testLogger())
	require.NoError(t, err)

	empty, err := uncertainty.NewSampleSet([]string{"x_haz"}, nil, "latin", nil)
	require.NoError(t, err)
	out := uncertainty.NewOutput(empty, testLogger())

	err = calc.Uncertainty(context.Background(), out, CostBenefitOptions{Workers: 2})
	assert.ErrorIs(t, err, core.ErrEmptySampleSet)
	assert.Zero(t, model.calls.Load())
}

func TestCostBenefitParallelMatchesSequential(t *testing.T) {
	run := func(workers int) *uncertainty.Output {
		calc, err := NewCostBenefitCalc(&fakeCBModel{}, cbHazardVar(), fakeEntity{}, nil, fakeEntity{}, testLogger())
		require.NoError(t, err)
		out := uncertainty.NewOutput(cbSamples(t, 40), testLogger())
		require.NoError(t, calc.Uncertainty(context.Background(), out, CostBenefitOptions{Workers: workers}))
		return out
	}

	seq := run(1)
	par := run(5)
	for _, metric := range []string{
		MetricTotClimateRisk, MetricBenefit, MetricCostBenRatio,
		MetricImpMeasPresent, MetricImpMeasFuture,
	} {
		a, _, _ := seq.Table(metric)
		b, _, _ := par.Table(metric)
		assert.True(t, a.Equal(b), "metric %s differs between worker counts", metric)
	}
}
