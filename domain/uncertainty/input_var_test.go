package uncertainty

import (
	"errors"
	"testing"

	"riskuq/domain/core"
)

type fakeExposure struct {
	scale float64
}

func exposureVar() *InputVar {
	return NewInputVar(func(p Params) (any, error) {
		return fakeExposure{scale: 1 + p["x_exp"]}, nil
	}, map[string]Distribution{"x_exp": Uniform(0.8, 1.2)})
}

func TestParamsSubsetFailsOnMissingLabel(t *testing.T) {
	p := Params{"x_exp": 0.5}
	_, err := p.Subset([]string{"x_exp", "x_haz"})
	if !errors.Is(err, core.ErrUnknownParameter) {
		t.Fatalf("Expected unknown parameter error, got %v", err)
	}
}

func TestEvaluateNilReturnsDefault(t *testing.T) {
	v := exposureVar()
	got, err := v.Evaluate(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	exp, ok := got.(fakeExposure)
	if !ok {
		t.Fatalf("Expected fakeExposure, got %T", got)
	}
	if exp.scale != 1 {
		t.Errorf("Expected default scale 1, got %v", exp.scale)
	}
}

func TestResolveUsesOwnedSubsetOnly(t *testing.T) {
	v := exposureVar()
	got, err := v.Resolve(Params{"x_exp": 0.25, "x_haz": 99})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.(fakeExposure).scale != 1.25 {
		t.Errorf("Expected scale 1.25, got %v", got.(fakeExposure).scale)
	}
}

func TestResolveFailsFastOnMissingLabel(t *testing.T) {
	v := exposureVar()
	_, err := v.Resolve(Params{"x_haz": 0.5})
	if !errors.Is(err, core.ErrUnknownParameter) {
		t.Fatalf("Expected unknown parameter error, got %v", err)
	}
}

func TestConstantAndWrap(t *testing.T) {
	c := Constant(42)
	if len(c.Labels()) != 0 {
		t.Errorf("Expected constant to declare no labels, got %v", c.Labels())
	}
	got, err := c.Evaluate(nil)
	if err != nil || got != 42 {
		t.Errorf("Expected constant value 42, got %v (err %v)", got, err)
	}

	v := exposureVar()
	if Wrap(v) != v {
		t.Error("Expected Wrap to return an existing InputVar unchanged")
	}
	if wrapped := Wrap("raw"); len(wrapped.Labels()) != 0 {
		t.Error("Expected Wrap to turn a raw value into a constant")
	}
}

func TestDistinctLabels(t *testing.T) {
	a := NewInputVar(func(Params) (any, error) { return nil, nil }, map[string]Distribution{
		"x_a": Uniform(0, 1),
		"x_b": Uniform(0, 1),
	})
	b := NewInputVar(func(Params) (any, error) { return nil, nil }, map[string]Distribution{
		"x_c": Normal(0, 1),
	})

	labels, err := DistinctLabels(a, b, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []string{"x_a", "x_b", "x_c"}
	if len(labels) != len(want) {
		t.Fatalf("Expected %v, got %v", want, labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, labels)
		}
	}
}

func TestDistinctLabelsSharedInstanceAllowed(t *testing.T) {
	a := exposureVar()
	labels, err := DistinctLabels(a, a)
	if err != nil {
		t.Fatalf("Expected shared instance to be allowed, got %v", err)
	}
	if len(labels) != 1 || labels[0] != "x_exp" {
		t.Errorf("Expected labels [x_exp], got %v", labels)
	}
}

func TestDistinctLabelsRejectsDuplicateAcrossVars(t *testing.T) {
	a := exposureVar()
	b := exposureVar()
	_, err := DistinctLabels(a, b)
	if !errors.Is(err, core.ErrDuplicateLabel) {
		t.Fatalf("Expected duplicate label error, got %v", err)
	}
}

func TestProblemForUnitBounds(t *testing.T) {
	a := exposureVar()
	b := NewInputVar(func(Params) (any, error) { return nil, nil }, map[string]Distribution{
		"x_haz": Normal(1, 0.1),
	})
	problem, err := ProblemFor(a, b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if problem.NumVars() != 2 {
		t.Fatalf("Expected 2 vars, got %d", problem.NumVars())
	}
	for i, b := range problem.Bounds {
		if b[0] != 0 || b[1] != 1 {
			t.Errorf("Expected unit bounds for var %d, got %v", i, b)
		}
	}
}

func TestMergedDistributions(t *testing.T) {
	a := exposureVar()
	b := NewInputVar(func(Params) (any, error) { return nil, nil }, map[string]Distribution{
		"x_haz": Normal(1, 0.1),
	})
	merged, err := MergedDistributions(a, b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("Expected 2 distributions, got %d", len(merged))
	}
	if merged["x_exp"].Name() != "uniform" || merged["x_haz"].Name() != "normal" {
		t.Errorf("Unexpected distribution names: %v, %v", merged["x_exp"].Name(), merged["x_haz"].Name())
	}
}
