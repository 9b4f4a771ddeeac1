// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"gonum.org/v1/gonum/diff/fd"
)

// Default finite-difference step on the log scale
const defaultGradientStep = 1e-5

// CentralDifference approximates the gradient with (f(x+h e_i) - f(x-h e_i)) / 2h.
// It costs 2*len(x) evaluations of f.
type CentralDifference struct {
	// Step h (if 0, defaultGradientStep is used)
	Step float64
}

// Gradient implements GradientStrategy
func (c CentralDifference) Gradient(f func([]float64) float64, x []float64) []float64 {
	step := c.Step
	if step <= 0 {
		step = defaultGradientStep
	}
	return fd.Gradient(nil, f, x, &fd.Settings{
		Formula: fd.Central,
		Step:    step,
	})
}

// AnalyticGradient wraps a closed-form gradient so it can replace the
// numerical one without touching the sampler.
type AnalyticGradient func(x []float64) []float64

// Gradient implements GradientStrategy, f is ignored
func (g AnalyticGradient) Gradient(_ func([]float64) float64, x []float64) []float64 {
	return g(x)
}
