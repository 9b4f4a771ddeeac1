// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"gonum.org/v1/gonum/mat"
)

// One panel record: subject, observation time and the state seen at that time
type Observation struct {
	// Subject identifier, records of the same subject form one path
	Subject int
	// Observation time, must be >= 0 and strictly increasing within a subject
	Time float64
	// Observed state, 1-based (1..S)
	State int
}

// FormattedObservation is an Observation with its lagged state attached.
// The first record of each subject has HasPrev == false.
type FormattedObservation struct {
	Observation

	// State of the previous record of the same subject
	PrevState int
	// False for the leading record of a subject
	HasPrev bool
	// Time since the previous record, 0 when HasPrev is false
	Elapsed float64
}

// PanelData is the read-only input of every likelihood evaluation.
type PanelData struct {
	// Formatted records ordered by subject then time
	Records []FormattedObservation
	// Number of states S
	NumStates int
	// Score each transition with expm(dt*Q) instead of the unit-time expm(Q)
	ScaleByElapsed bool
}

// NumParams returns S*(S-1), the length of a parameter vector for this data
func (d *PanelData) NumParams() int {
	return d.NumStates * (d.NumStates - 1)
}

// Chain is the append-only sequence of log-scale draws of one sampler run.
// Row 0 is the caller-supplied start value.
type Chain struct {
	// Sampler that produced the chain ("metropolis" or "hmc")
	Method string

	draws    [][]float64
	accepted int
	proposed int
}

// SamplerOptions carries everything a sampler needs besides its tuning parameters.
type SamplerOptions struct {
	// RNG seed (if 0, time-based seed is used)
	Seed uint64

	// Observer notified on every iteration, nil means no reporting
	Progress ProgressObserver

	// Gradient of the potential energy, HMC only (default CentralDifference)
	Gradient GradientStrategy
}

// PotentialFunc has the shape of LogPosterior. RunHMC calls it with negate = true.
type PotentialFunc func(theta []float64, data *PanelData, negate bool) (float64, error)

// GradientStrategy computes the gradient of f at x.
// Implementations must not modify x.
type GradientStrategy interface {
	Gradient(f func([]float64) float64, x []float64) []float64
}

// ProgressObserver receives iteration progress from a sampler.
type ProgressObserver interface {
	// Called once before the first iteration with the number of iterations
	Start(total int)
	// Called after iteration i (1-based) was appended to the chain
	Step(i int, accepted bool)
	// Called once after the last iteration
	Finish()
}

// Options for the synthetic panel simulator
type SimulationOptions struct {
	// Number of steps after the initial record, each subject gets Horizon+1 records
	Horizon int

	// Number of subjects
	Subjects int

	// Time between consecutive records (default 1)
	Step float64

	// RNG seed (if 0, time-based seed is used)
	Seed uint64
}

// ParamSummary holds posterior summaries of one rate parameter.
type ParamSummary struct {
	Index int // position in the parameter vector
	Row   int // generator row (0-based from state)
	Col   int // generator column (0-based to state)

	MeanLog float64 // posterior mean of theta
	SDLog   float64 // posterior sd of theta

	// Natural-scale rate summaries
	MeanRate  float64
	SDRate    float64
	LowerRate float64
	UpperRate float64
}

// ChainSummary is the result of SummarizeChain.
type ChainSummary struct {
	Method         string
	BurnIn         int
	Kept           int
	AcceptanceRate float64
	Alpha          float64 // e.g. 0.05 for 95% credible intervals

	Params []ParamSummary

	// Generator built from the posterior-mean rates
	MeanGenerator *mat.Dense
}

// Options for the negative log-likelihood surface
type SurfaceOptions struct {
	// Indices of the two parameters that vary over the grid
	ParamX int
	ParamY int

	// Natural-scale values of every parameter, ParamX and ParamY entries are overwritten
	Base []float64

	// Natural-scale grid values along each axis
	GridX []float64
	GridY []float64

	// Number of workers (if 0, runtime.NumCPU() is used)
	Workers int
}

// Surface holds -loglik on a grid, Values is len(GridX) x len(GridY).
type Surface struct {
	ParamX int
	ParamY int
	GridX  []float64
	GridY  []float64
	Values *mat.Dense
}
