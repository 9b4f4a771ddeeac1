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

// TransitionProbabilities returns P = expm(Q), the one-unit-of-time transition
// matrix. Row i, column j is P(state j at s+1 | state i at s).
func TransitionProbabilities(Q mat.Matrix) (*mat.Dense, error) {
	return TransitionProbabilitiesAt(Q, 1)
}

// TransitionProbabilitiesAt returns P(t) = expm(t*Q).
// gonum's Exp uses a Padé approximant with scaling and squaring.
func TransitionProbabilitiesAt(Q mat.Matrix, t float64) (*mat.Dense, error) {
	r, c := Q.Dims()
	if r != c {
		return nil, fmt.Errorf("generator must be square, got %dx%d: %w", r, c, ErrInvalidDimension)
	}
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return nil, fmt.Errorf("elapsed time %v: %w", t, ErrNumericalInstability)
	}

	// Exp never terminates its squaring loop for an infinite norm, so check first
	if hasNaNOrInf(Q) {
		return nil, fmt.Errorf("generator: %w", ErrNumericalInstability)
	}

	scaled := mat.NewDense(r, c, nil)
	scaled.Scale(t, Q)

	P := mat.NewDense(r, c, nil)
	P.Exp(scaled)

	if hasNaNOrInf(P) {
		return nil, fmt.Errorf("expm(%g*Q): %w", t, ErrNumericalInstability)
	}

	return P, nil
}

// hasNaNOrInf checks if there are any NaN or Inf entries in m
func hasNaNOrInf(m mat.Matrix) bool {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}
