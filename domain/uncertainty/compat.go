package uncertainty

import (
	"github.com/sirupsen/logrus"
)

// Recommended pairing between sensitivity methods and the sampling methods
// able to produce suitable samples for them. The table is a recommendation,
// not a hard requirement; mismatches warn and continue.
var methodCompatibility = map[string][]string{
	"fast":     {"fast_sampler"},
	"rbd_fast": {"latin"},
	"morris":   {"morris"},
	"sobol":    {"saltelli"},
	"delta":    {"latin"},
	"dgsm":     {"fast_sampler", "latin", "morris", "saltelli", "ff"},
	"ff":       {"ff"},
}

// CheckCompatibility reports whether the sampling method that produced the
// samples is recommended for the given sensitivity method. An unknown or
// mismatched pairing logs a warning and returns false; it never errors.
func (o *Output) CheckCompatibility(sensitivityMethod string) bool {
	sampling := o.Samples.Method()
	compatible, known := methodCompatibility[sensitivityMethod]
	if !known {
		o.log().WithField("sensitivity_method", sensitivityMethod).
			Warn("sensitivity method has no recorded sampling recommendation")
		return false
	}
	for _, method := range compatible {
		if method == sampling {
			return true
		}
	}
	o.log().WithFields(logrus.Fields{
		"sensitivity_method": sensitivityMethod,
		"sampling_method":    sampling,
	}).Warn("sampling and sensitivity method pairing is not recommended")
	return false
}
