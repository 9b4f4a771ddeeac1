// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// RunHMC draws numSamples Hamiltonian Monte Carlo steps starting at start (log scale).
//
// potential is evaluated as potential(q, data, true), i.e. it must return the
// negated log posterior when negate is true (LogPosterior does). Every outer
// iteration runs leapfrogSteps leapfrog steps of size epsilon and appends
// exactly one draw. Returns a chain of numSamples+1 draws, row 0 is start.
func RunHMC(
	start []float64,
	numSamples int,
	potential PotentialFunc,
	epsilon float64,
	leapfrogSteps int,
	data *PanelData,
	opts SamplerOptions,
) (*Chain, error) {

	if data == nil {
		return nil, ErrEmptyData
	}
	if potential == nil {
		return nil, fmt.Errorf("potential function is nil: %w", ErrInvalidSamplerConfig)
	}
	if err := checkChainSetup(start, numSamples, data); err != nil {
		return nil, err
	}
	if !(epsilon > 0) || math.IsInf(epsilon, 1) {
		return nil, fmt.Errorf("epsilon must be > 0, got %v: %w", epsilon, ErrInvalidSamplerConfig)
	}
	if leapfrogSteps < 1 {
		return nil, fmt.Errorf("leapfrog steps must be >= 1, got %d: %w", leapfrogSteps, ErrInvalidSamplerConfig)
	}

	// Surface a dimension error before sampling, after this U never fails
	if _, err := potential(start, data, true); err != nil {
		return nil, err
	}
	U := potentialEnergy(potential, data)

	grad := opts.Gradient
	if grad == nil {
		grad = CentralDifference{}
	}
	gradU := func(q []float64) []float64 { return grad.Gradient(U, q) }

	rng := newRNG(opts.Seed)
	chain := newChain("hmc", start, numSamples)
	progress := observerOrNop(opts.Progress)
	progress.Start(numSamples)

	current := cloneVec(start)
	divergent := 0
	for i := 1; i <= numSamples; i++ {
		next, accepted, finite := HMCStep(current, U, gradU, epsilon, leapfrogSteps, rng)
		if !finite {
			divergent++
		}
		current = next
		chain.push(current, accepted)
		progress.Step(i, accepted)
	}
	progress.Finish()

	if glog.V(1) {
		glog.Infof("hmc: %d iterations, epsilon %g, L %d, acceptance rate %.3f, %d non-finite trajectories",
			numSamples, epsilon, leapfrogSteps, chain.AcceptanceRate(), divergent)
	}

	return chain, nil
}

// HMCStep performs one HMC transition from currentQ.
// It returns the next position, whether the proposal was accepted, and whether
// the proposed energy was finite.
func HMCStep(
	currentQ []float64,
	U func([]float64) float64,
	gradU func([]float64) []float64,
	epsilon float64,
	leapfrogSteps int,
	rng *rand.Rand,
) ([]float64, bool, bool) {

	// 1. Fresh momentum p ~ N(0, I)
	momentum := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	currentP := make([]float64, len(currentQ))
	for k := range currentP {
		currentP[k] = momentum.Rand()
	}

	// 2. Simulate the Hamiltonian dynamics
	q, p := Leapfrog(currentQ, currentP, gradU, epsilon, leapfrogSteps)

	// 3. Negate momentum so the proposal is its own inverse
	floats.Scale(-1, p)

	// 4. Energies at the start and end of the trajectory
	currentU := U(currentQ)
	currentK := kineticEnergy(currentP)
	proposedU := U(q)
	proposedK := kineticEnergy(p)

	// 5. Accept or reject on the change in total energy
	u := rng.Float64()
	finite := !math.IsNaN(proposedU+proposedK) && !math.IsInf(proposedU+proposedK, 0)
	if hmcAccept(currentU+currentK, proposedU+proposedK, u) {
		return q, true, finite
	}
	return cloneVec(currentQ), false, finite
}

// Leapfrog integrates Hamilton's equations for L steps of size epsilon with
// unit mass. q and p are not modified, the end state is returned.
func Leapfrog(q0, p0 []float64, gradU func([]float64) []float64, epsilon float64, L int) ([]float64, []float64) {
	q := cloneVec(q0)
	p := cloneVec(p0)

	// half step for momentum
	floats.AddScaled(p, -epsilon/2, gradU(q))

	for i := 1; i <= L; i++ {
		// full step for position
		floats.AddScaled(q, epsilon, p)
		// full step for momentum, except at the end of the trajectory
		if i != L {
			floats.AddScaled(p, -epsilon, gradU(q))
		}
	}

	// final half step for momentum
	floats.AddScaled(p, -epsilon/2, gradU(q))

	return q, p
}

// potentialEnergy returns U(q) = potential(q, data, true).
// Errors and NaN are reported as +Inf so the trajectory is rejected.
func potentialEnergy(potential PotentialFunc, data *PanelData) func([]float64) float64 {
	return func(q []float64) float64 {
		u, err := potential(q, data, true)
		if err != nil || math.IsNaN(u) {
			return math.Inf(1)
		}
		return u
	}
}

// kineticEnergy is sum(p^2)/2
func kineticEnergy(p []float64) float64 {
	return floats.Dot(p, p) / 2
}

// hmcAccept accepts iff u < exp(currentH - proposedH).
// A non-finite proposed energy is rejected, a finite proposal always beats a
// non-finite current energy.
func hmcAccept(currentH, proposedH, u float64) bool {
	if math.IsNaN(proposedH) || math.IsInf(proposedH, 0) {
		return false
	}
	if math.IsNaN(currentH) || math.IsInf(currentH, 0) {
		return true
	}
	return math.Log(u) < currentH-proposedH
}
