package uncertainty

import (
	"riskuq/domain/core"
)

// Params maps uncertainty parameter labels to the sampled values of one
// Monte-Carlo draw.
type Params map[string]float64

// Subset returns the values for exactly the given labels. A label missing
// from p is a contract violation and fails fast rather than defaulting.
func (p Params) Subset(labels []string) (Params, error) {
	sub := make(Params, len(labels))
	for _, label := range labels {
		v, ok := p[label]
		if !ok {
			return nil, core.NewParameterError(label)
		}
		sub[label] = v
	}
	return sub, nil
}
