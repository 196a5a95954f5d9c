package uncertainty

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution describes the sampling distribution of one uncertainty
// parameter. Quantile maps a unit-interval sample to the parameter domain,
// which is how samplers working on [0,1]^k are transformed to concrete
// parameter values.
type Distribution interface {
	Name() string
	Quantile(p float64) float64
	Mean() float64
}

type uniformDist struct{ d distuv.Uniform }

func (u uniformDist) Name() string { return "uniform" }
func (u uniformDist) Quantile(p float64) float64 { return u.d.Quantile(p) }
func (u uniformDist) Mean() float64 { return u.d.Mean() }

// Uniform is a continuous uniform distribution on [min, max].
func Uniform(min, max float64) Distribution {
	return uniformDist{distuv.Uniform{Min: min, Max: max}}
}

type normalDist struct{ d distuv.Normal }

func (n normalDist) Name() string { return "normal" }
func (n normalDist) Quantile(p float64) float64 { return n.d.Quantile(p) }
func (n normalDist) Mean() float64 { return n.d.Mean() }

// Normal is a Gaussian distribution with mean mu and standard deviation sigma.
func Normal(mu, sigma float64) Distribution {
	return normalDist{distuv.Normal{Mu: mu, Sigma: sigma}}
}

type triangularDist struct{ d distuv.Triangle }

func (t triangularDist) Name() string { return "triangular" }
func (t triangularDist) Quantile(p float64) float64 { return t.d.Quantile(p) }
func (t triangularDist) Mean() float64 { return t.d.Mean() }

// Triangular is a triangular distribution on [min, max] with the given mode.
func Triangular(min, max, mode float64) Distribution {
	return triangularDist{distuv.NewTriangle(min, max, mode, nil)}
}

type betaDist struct{ d distuv.Beta }

func (b betaDist) Name() string { return "beta" }
func (b betaDist) Quantile(p float64) float64 { return b.d.Quantile(p) }
func (b betaDist) Mean() float64 { return b.d.Mean() }

// Beta is a beta distribution on [0, 1] with shape parameters alpha and beta.
func Beta(alpha, beta float64) Distribution {
	return betaDist{distuv.Beta{Alpha: alpha, Beta: beta}}
}
