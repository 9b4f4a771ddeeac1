// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import "errors"

// Sentinel errors. Callers match them with errors.Is, functions wrap them with
// fmt.Errorf("context: %w", ErrX) when extra context is useful.
var (
	// ErrInvalidDimension: parameter vector length is not S*(S-1), or S < 2.
	ErrInvalidDimension = errors.New("msm: invalid parameter dimension")

	// ErrNumericalInstability: the generator or its exponential has NaN/Inf entries.
	// The posterior turns this into a non-finite density instead of returning it.
	ErrNumericalInstability = errors.New("msm: non-finite values in matrix exponential")

	// ErrInvalidSamplerConfig: bad chain length or non-positive tuning parameter.
	ErrInvalidSamplerConfig = errors.New("msm: invalid sampler configuration")

	// ErrInvalidState: an observed state is outside 1..S.
	ErrInvalidState = errors.New("msm: state out of range")

	// ErrNonIncreasingTime: two records of a subject share a time, or time is negative/NaN.
	ErrNonIncreasingTime = errors.New("msm: observation times not strictly increasing")

	// ErrEmptyData: no observations.
	ErrEmptyData = errors.New("msm: no observations")
)
