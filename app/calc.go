package app

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Calc carries the configuration shared by all uncertainty evaluators. The
// logger is owned by the caller and passed in explicitly; constructing a
// calc never touches process-wide logging state.
type Calc struct {
	logger *logrus.Logger
}

func newCalc(logger *logrus.Logger) Calc {
	if logger == nil {
		logger = logrus.New()
	}
	return Calc{logger: logger}
}

// estimateRuntime logs an advisory wall-clock estimate for evaluating n
// rows at the given worker count, based on the timed calibration run. It
// never gates execution.
func (c *Calc) estimateRuntime(n int, perSample time.Duration, workers int) {
	if workers < 1 {
		workers = 1
	}
	total := perSample * time.Duration(n) / time.Duration(workers)
	c.logger.WithFields(logrus.Fields{
		"samples":    n,
		"workers":    workers,
		"per_sample": perSample.Round(time.Microsecond).String(),
		"estimated":  total.Round(time.Millisecond).String(),
	}).Info("estimated total computation time")
}

// quiet raises the log level to Error for the duration of a batch so
// per-sample model logging does not drown the output. The returned function
// restores the previous level.
func (c *Calc) quiet() func() {
	prev := c.logger.GetLevel()
	if prev > logrus.ErrorLevel {
		c.logger.SetLevel(logrus.ErrorLevel)
	}
	return func() { c.logger.SetLevel(prev) }
}

// freezeKwargs copies extra model configuration into a string-coerced record
// for reproducibility.
func freezeKwargs(kwargs map[string]string) map[string]string {
	frozen := make(map[string]string, len(kwargs))
	for k, v := range kwargs {
		frozen[k] = v
	}
	return frozen
}
