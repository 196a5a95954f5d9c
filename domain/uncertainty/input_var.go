package uncertainty

import (
	"sort"

	"riskuq/domain/core"
)

// Generator resolves one concrete model input from sampled parameter values.
// Calling it with nil or empty Params must succeed and return the default
// (central) input, which is used to probe static properties such as the
// value unit before any sampling occurs.
type Generator func(Params) (any, error)

// InputVar wraps a parametrized generator of one model input together with
// the declared distribution of each parameter it accepts. Immutable after
// construction.
type InputVar struct {
	labels []string
	distrs map[string]Distribution
	gen    Generator
}

// NewInputVar builds an input variable from a generator and the distributions
// of the parameters it accepts. Labels are the sorted distribution keys.
func NewInputVar(gen Generator, distrs map[string]Distribution) *InputVar {
	labels := make([]string, 0, len(distrs))
	for label := range distrs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	d := make(map[string]Distribution, len(distrs))
	for label, distr := range distrs {
		d[label] = distr
	}
	return &InputVar{labels: labels, distrs: d, gen: gen}
}

// Constant wraps a fixed, non-uncertain model input as a zero-parameter
// variable.
func Constant(value any) *InputVar {
	return NewInputVar(func(Params) (any, error) { return value, nil }, nil)
}

// Wrap returns v unchanged when it already is an *InputVar, otherwise wraps
// it as a Constant.
func Wrap(v any) *InputVar {
	if iv, ok := v.(*InputVar); ok {
		return iv
	}
	return Constant(v)
}

// Labels returns the ordered parameter labels this variable declares.
func (v *InputVar) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}

// Distribution returns the declared distribution for one label.
func (v *InputVar) Distribution(label string) (Distribution, bool) {
	d, ok := v.distrs[label]
	return d, ok
}

// Evaluate resolves the model input for the given sampled values. The caller
// must pass exactly the labels this variable owns; nil returns the default
// input.
func (v *InputVar) Evaluate(p Params) (any, error) {
	return v.gen(p)
}

// Resolve extracts this variable's labels from a full sample row and
// evaluates the generator with that subset.
func (v *InputVar) Resolve(row Params) (any, error) {
	sub, err := row.Subset(v.labels)
	if err != nil {
		return nil, err
	}
	return v.gen(sub)
}

// DistinctLabels returns the union of parameter labels over vars, in first
// appearance order. Each label must be owned by exactly one variable; the
// same variable passed twice contributes its labels once.
func DistinctLabels(vars ...*InputVar) ([]string, error) {
	seenVars := make(map[*InputVar]bool, len(vars))
	owner := make(map[string]bool)
	var labels []string
	for _, v := range vars {
		if v == nil || seenVars[v] {
			continue
		}
		seenVars[v] = true
		for _, label := range v.labels {
			if owner[label] {
				return nil, core.NewDuplicateLabelError(label)
			}
			owner[label] = true
			labels = append(labels, label)
		}
	}
	return labels, nil
}

// MergedDistributions flattens the distribution maps of all vars into one
// label-keyed map, enforcing the same label uniqueness as DistinctLabels.
func MergedDistributions(vars ...*InputVar) (map[string]Distribution, error) {
	labels, err := DistinctLabels(vars...)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]Distribution, len(labels))
	for _, v := range vars {
		if v == nil {
			continue
		}
		for label, d := range v.distrs {
			merged[label] = d
		}
	}
	return merged, nil
}

// ProblemFor builds the sampler problem description for the given input
// variables: one name per distinct label, each bounded to the unit interval.
func ProblemFor(vars ...*InputVar) (Problem, error) {
	labels, err := DistinctLabels(vars...)
	if err != nil {
		return Problem{}, err
	}
	return unitProblem(labels), nil
}
