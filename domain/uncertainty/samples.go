package uncertainty

import (
	"encoding/json"
	"errors"

	"riskuq/domain/core"
)

// Problem is the description of the uncertainty parameters handed to
// samplers and sensitivity estimators: parameter names with their sampling
// bounds.
type Problem struct {
	Names  []string
	Bounds [][2]float64
}

// NumVars returns the number of uncertainty parameters.
func (p Problem) NumVars() int { return len(p.Names) }

func unitProblem(names []string) Problem {
	bounds := make([][2]float64, len(names))
	for i := range bounds {
		bounds[i] = [2]float64{0, 1}
	}
	return Problem{Names: names, Bounds: bounds}
}

// SampleSet is an immutable table of parameter samples. Each row is one
// Monte-Carlo draw, each column one parameter label. The sampling method
// name and its arguments are attached for later compatibility checking and
// reproducibility.
type SampleSet struct {
	labels []string
	rows   [][]float64
	method string
	kwargs map[string]string
}

// NewSampleSet validates and builds a sample set. The method name is
// required metadata; kwargs may be nil.
func NewSampleSet(labels []string, rows [][]float64, method string, kwargs map[string]string) (*SampleSet, error) {
	if len(labels) == 0 {
		return nil, errors.New("sample set needs at least one parameter label")
	}
	if method == "" {
		return nil, errors.New("sample set needs its sampling method name")
	}
	for _, row := range rows {
		if len(row) != len(labels) {
			return nil, core.NewShapeError("sample row", len(row), len(labels))
		}
	}
	kw := make(map[string]string, len(kwargs))
	for k, v := range kwargs {
		kw[k] = v
	}
	return &SampleSet{labels: labels, rows: rows, method: method, kwargs: kw}, nil
}

// N is the effective number of samples.
func (s *SampleSet) N() int {
	if s == nil {
		return 0
	}
	return len(s.rows)
}

// Empty reports whether the set carries no sample rows.
func (s *SampleSet) Empty() bool { return s.N() == 0 }

// Labels returns the parameter labels in column order.
func (s *SampleSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Method returns the sampling method name that produced the set.
func (s *SampleSet) Method() string { return s.method }

// Kwargs returns a copy of the sampling method arguments.
func (s *SampleSet) Kwargs() map[string]string {
	out := make(map[string]string, len(s.kwargs))
	for k, v := range s.kwargs {
		out[k] = v
	}
	return out
}

// Row returns draw i as a label-keyed parameter mapping.
func (s *SampleSet) Row(i int) Params {
	p := make(Params, len(s.labels))
	for j, label := range s.labels {
		p[label] = s.rows[i][j]
	}
	return p
}

// Values returns the raw values of row i in column order.
func (s *SampleSet) Values(i int) []float64 {
	out := make([]float64, len(s.rows[i]))
	copy(out, s.rows[i])
	return out
}

// Problem returns the estimator problem description for this sample set,
// with unit-interval bounds for every parameter.
func (s *SampleSet) Problem() Problem {
	return unitProblem(s.Labels())
}

type sampleSetJSON struct {
	Labels []string          `json:"labels"`
	Rows   [][]float64       `json:"rows"`
	Method string            `json:"method"`
	Kwargs map[string]string `json:"kwargs,omitempty"`
}

func (s *SampleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(sampleSetJSON{
		Labels: s.labels,
		Rows:   s.rows,
		Method: s.method,
		Kwargs: s.kwargs,
	})
}

func (s *SampleSet) UnmarshalJSON(data []byte) error {
	var raw sampleSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set, err := NewSampleSet(raw.Labels, raw.Rows, raw.Method, raw.Kwargs)
	if err != nil {
		return err
	}
	*s = *set
	return nil
}
