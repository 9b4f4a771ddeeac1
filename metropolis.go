// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/stat/distuv"
)

// RunMetropolis draws numSamples random-walk Metropolis–Hastings steps from the
// log-scale posterior of data, starting at start (log scale).
// The proposal adds independent N(0, stepSize^2) noise to every coordinate.
// Returns a chain of numSamples+1 draws, row 0 is start.
func RunMetropolis(start []float64, numSamples int, stepSize float64, data *PanelData, opts SamplerOptions) (*Chain, error) {
	if data == nil {
		return nil, ErrEmptyData
	}
	if err := checkChainSetup(start, numSamples, data); err != nil {
		return nil, err
	}
	if !(stepSize > 0) || math.IsInf(stepSize, 1) {
		return nil, fmt.Errorf("step size must be > 0, got %v: %w", stepSize, ErrInvalidSamplerConfig)
	}

	post := NewPosterior(data)
	rng := newRNG(opts.Seed)
	proposal := distuv.Normal{Mu: 0, Sigma: stepSize, Src: rng}

	current := cloneVec(start)
	currentLP, err := post.LogDensity(current, false)
	if err != nil {
		return nil, err
	}

	chain := newChain("metropolis", start, numSamples)
	progress := observerOrNop(opts.Progress)
	progress.Start(numSamples)

	prop := make([]float64, len(current))
	for i := 1; i <= numSamples; i++ {
		// 1. Symmetric Gaussian random walk around the current state
		for k := range current {
			prop[k] = current[k] + proposal.Rand()
		}

		// 2. Metropolis ratio, the proposal densities cancel
		propLP, err := post.LogDensity(prop, false)
		if err != nil {
			return nil, err
		}
		accepted := metropolisAccept(currentLP, propLP, rng.Float64())

		// 3. Append the proposal or a duplicate of the current state
		if accepted {
			copy(current, prop)
			currentLP = propLP
		}
		chain.push(current, accepted)
		progress.Step(i, accepted)
	}
	progress.Finish()

	if glog.V(1) {
		glog.Infof("metropolis: %d iterations, step size %g, acceptance rate %.3f",
			numSamples, stepSize, chain.AcceptanceRate())
	}

	return chain, nil
}

// metropolisAccept decides a Metropolis step given log posteriors and a uniform draw u.
//
// Ordering of non-finite values: a proposal at NaN or -Inf is never accepted,
// a finite proposal is always accepted when the current value is NaN or -Inf.
// Otherwise accept iff u < exp(proposed - current).
func metropolisAccept(currentLP, proposedLP, u float64) bool {
	if math.IsNaN(proposedLP) || math.IsInf(proposedLP, -1) {
		return false
	}
	if math.IsNaN(currentLP) || math.IsInf(currentLP, -1) {
		return true
	}
	return math.Log(u) < proposedLP-currentLP
}

// checkChainSetup validates what both samplers need before the first draw
func checkChainSetup(start []float64, numSamples int, data *PanelData) error {
	if numSamples < 1 {
		return fmt.Errorf("number of samples must be >= 1, got %d: %w", numSamples, ErrInvalidSamplerConfig)
	}
	if len(start) != data.NumParams() {
		return fmt.Errorf("start has %d entries, %d states need %d: %w",
			len(start), data.NumStates, data.NumParams(), ErrInvalidDimension)
	}
	for k, v := range start {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("start[%d] = %v is not finite: %w", k, v, ErrInvalidSamplerConfig)
		}
	}
	return nil
}

// newRNG returns a PCG generator, a zero seed is replaced by the current time
func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
