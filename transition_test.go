// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestTransitionProbabilitiesTwoStateClosedForm(t *testing.T) {
	cases := []struct{ a, b, t float64 }{
		{1.2, 0.8, 1},
		{1.2, 0.8, 0.5},
		{0.1, 3, 1},
		{5, 5, 2},
	}
	for _, c := range cases {
		Q := mat.NewDense(2, 2, []float64{-c.a, c.a, c.b, -c.b})
		P, err := TransitionProbabilitiesAt(Q, c.t)
		require.NoError(t, err)

		want := twoStateP(c.a, c.b, c.t)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				assert.InDelta(t, want[i][j], P.At(i, j), 1e-9, "a=%v b=%v t=%v cell (%d,%d)", c.a, c.b, c.t, i, j)
			}
		}
	}
}

func TestTransitionProbabilitiesStochastic(t *testing.T) {
	params := []float64{0.25, 0.5, 0.125, 2, 1.5, 0.75}
	Q, err := BuildGenerator(params, 3)
	require.NoError(t, err)

	P, err := TransitionProbabilities(Q)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1, mat.Sum(P.RowView(i)), 1e-9)
		for j := 0; j < 3; j++ {
			assert.GreaterOrEqual(t, P.At(i, j), -1e-12)
			assert.LessOrEqual(t, P.At(i, j), 1+1e-12)
		}
	}

	// P(1) from the unit-time helper matches the general one
	P1, err := TransitionProbabilitiesAt(Q, 1)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(P, P1, 1e-15))
}

func TestTransitionProbabilitiesZeroTime(t *testing.T) {
	Q, err := BuildGenerator([]float64{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)

	P, err := TransitionProbabilitiesAt(Q, 0)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(P, eye(3), 1e-12))
}

func TestTransitionProbabilitiesNonFinite(t *testing.T) {
	Q := mat.NewDense(2, 2, []float64{math.Inf(-1), math.Inf(1), 1, -1})
	_, err := TransitionProbabilities(Q)
	assert.ErrorIs(t, err, ErrNumericalInstability)

	Q = mat.NewDense(2, 2, []float64{math.NaN(), 0, 1, -1})
	_, err = TransitionProbabilities(Q)
	assert.ErrorIs(t, err, ErrNumericalInstability)

	Q = mat.NewDense(2, 2, []float64{-1, 1, 1, -1})
	_, err = TransitionProbabilitiesAt(Q, -1)
	assert.ErrorIs(t, err, ErrNumericalInstability)

	_, err = TransitionProbabilities(mat.NewDense(2, 3, nil))
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
