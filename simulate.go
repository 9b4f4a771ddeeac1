// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SimulatePanel draws synthetic panel data from the continuous-time chain with
// generator Q. Every subject starts in state 1 at time 0 and is observed every
// opts.Step time units until Horizon steps have been taken, so each subject
// contributes Horizon+1 records. Subjects are numbered from 1.
func SimulatePanel(Q mat.Matrix, opts SimulationOptions) ([]Observation, error) {
	r, c := Q.Dims()
	if r != c || r < 2 {
		return nil, fmt.Errorf("generator must be square with at least 2 states, got %dx%d: %w",
			r, c, ErrInvalidDimension)
	}
	if opts.Horizon < 0 {
		return nil, fmt.Errorf("horizon must be >= 0, got %d", opts.Horizon)
	}
	if opts.Subjects <= 0 {
		return nil, fmt.Errorf("subjects must be > 0, got %d", opts.Subjects)
	}
	if opts.Step == 0 {
		opts.Step = 1
	}
	if !(opts.Step > 0) || math.IsInf(opts.Step, 1) {
		return nil, fmt.Errorf("step must be > 0, got %v", opts.Step)
	}

	// Transition matrix for one observation interval
	P, err := TransitionProbabilitiesAt(Q, opts.Step)
	if err != nil {
		return nil, err
	}

	rng := newRNG(opts.Seed)

	// One categorical distribution per "from" state
	rows := make([]distuv.Categorical, r)
	for i := 0; i < r; i++ {
		w := make([]float64, r)
		for j := 0; j < r; j++ {
			// clip round-off negatives from expm
			w[j] = math.Max(P.At(i, j), 0)
		}
		rows[i] = distuv.NewCategorical(w, rng)
	}

	obs := make([]Observation, 0, opts.Subjects*(opts.Horizon+1))
	for s := 1; s <= opts.Subjects; s++ {
		state := 1
		obs = append(obs, Observation{Subject: s, Time: 0, State: state})
		for h := 1; h <= opts.Horizon; h++ {
			state = int(rows[state-1].Rand()) + 1
			obs = append(obs, Observation{
				Subject: s,
				Time:    float64(h) * opts.Step,
				State:   state,
			})
		}
	}

	return obs, nil
}
