// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LogLikelihood returns the panel-data log-likelihood of natural-scale rates.
//
// Q and P = expm(Q) are built once per call and every observed transition
// prev -> state contributes log(P[prev][state]). All gaps count as one unit of
// time unless data.ScaleByElapsed is set, in which case each transition uses
// expm(dt*Q) for its own dt.
//
// A zero modeled probability gives -Inf, which is a valid result. Non-finite
// exponentials return -Inf together with an error wrapping ErrNumericalInstability.
func LogLikelihood(params []float64, data *PanelData) (float64, error) {
	if data == nil {
		return 0, ErrEmptyData
	}

	Q, err := BuildGenerator(params, data.NumStates)
	if err != nil {
		return 0, err
	}

	if data.ScaleByElapsed {
		return elapsedLogLikelihood(Q, data)
	}

	P, err := TransitionProbabilities(Q)
	if err != nil {
		return math.Inf(-1), err
	}

	ll := 0.0
	for _, r := range data.Records {
		if !r.HasPrev {
			continue
		}
		ll += logProb(P.At(r.PrevState-1, r.State-1))
	}
	return ll, nil
}

// elapsedLogLikelihood scores each transition with expm(dt*Q), one exponential per distinct dt
func elapsedLogLikelihood(Q *mat.Dense, data *PanelData) (float64, error) {
	cache := make(map[float64]*mat.Dense)

	ll := 0.0
	for _, r := range data.Records {
		if !r.HasPrev {
			continue
		}

		P, ok := cache[r.Elapsed]
		if !ok {
			var err error
			P, err = TransitionProbabilitiesAt(Q, r.Elapsed)
			if err != nil {
				return math.Inf(-1), fmt.Errorf("subject %d at time %v: %w", r.Subject, r.Time, err)
			}
			cache[r.Elapsed] = P
		}

		ll += logProb(P.At(r.PrevState-1, r.State-1))
	}
	return ll, nil
}

// logProb is log(p) with round-off negatives from expm treated as zero probability
func logProb(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	return math.Log(p)
}
