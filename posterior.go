// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Reparameterization maps sampling coordinates (theta) to natural-scale
// parameters and back.
type Reparameterization struct {
	Name    string
	Forward func(float64) float64 // theta -> param
	Inverse func(float64) float64 // param -> theta
}

// LogScale is the reparameterization used by both samplers: param = exp(theta).
var LogScale = Reparameterization{
	Name:    "log",
	Forward: math.Exp,
	Inverse: math.Log,
}

// ToNatural applies Forward to every coordinate
func (r Reparameterization) ToNatural(theta []float64) []float64 {
	out := make([]float64, len(theta))
	for i, v := range theta {
		out[i] = r.Forward(v)
	}
	return out
}

// ToSampling applies Inverse to every coordinate
func (r Reparameterization) ToSampling(params []float64) []float64 {
	out := make([]float64, len(params))
	for i, v := range params {
		out[i] = r.Inverse(v)
	}
	return out
}

// LogPrior is the sum of standard normal log-densities at log(param), i.e. an
// independent log-normal(0,1) prior on every rate.
func LogPrior(params []float64) float64 {
	lp := 0.0
	for _, v := range params {
		lp += distuv.UnitNormal.LogProb(math.Log(v))
	}
	return lp
}

// Posterior composes the panel likelihood and the prior with a reparameterization.
type Posterior struct {
	Data    *PanelData
	Reparam Reparameterization
}

// NewPosterior returns the log-scale posterior of data
func NewPosterior(data *PanelData) *Posterior {
	return &Posterior{Data: data, Reparam: LogScale}
}

// Dim returns the number of sampling coordinates
func (p *Posterior) Dim() int {
	return p.Data.NumParams()
}

// LogDensity returns loglik(params) + logprior(params) with params = Forward(theta),
// negated when negate is true.
//
// Numerical instability is not an error here: it comes back as -Inf (+Inf when
// negated) so that the accept/reject step rejects it. Only a dimension mismatch
// is returned as an error.
func (p *Posterior) LogDensity(theta []float64, negate bool) (float64, error) {
	if len(theta) != p.Dim() {
		return 0, fmt.Errorf("theta has %d entries, model has %d rates: %w",
			len(theta), p.Dim(), ErrInvalidDimension)
	}

	params := p.Reparam.ToNatural(theta)

	ll, err := LogLikelihood(params, p.Data)
	if err != nil {
		if !errors.Is(err, ErrNumericalInstability) {
			return 0, err
		}
		ll = math.Inf(-1)
	}

	lp := ll + LogPrior(params)
	if negate {
		return -lp, nil
	}
	return lp, nil
}

// LogPosterior evaluates the log-scale posterior of data at theta.
// It has the PotentialFunc shape so it can be passed to RunHMC directly.
func LogPosterior(theta []float64, data *PanelData, negate bool) (float64, error) {
	if data == nil {
		return 0, ErrEmptyData
	}
	return NewPosterior(data).LogDensity(theta, negate)
}
