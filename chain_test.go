// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestChainAppend(t *testing.T) {
	start := []float64{1, 2}
	c := newChain("metropolis", start, 3)
	assert.True(t, math.IsNaN(c.AcceptanceRate()))

	start[0] = 100 // the chain holds its own copy
	c.push([]float64{3, 4}, true)
	c.push([]float64{3, 4}, false)

	rows, cols := c.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []float64{1, 2}, c.At(0))
	assert.Equal(t, []float64{3, 4}, c.Last())
	assert.Equal(t, []float64{1, 3, 3}, c.Trace(0))
	assert.Equal(t, 1, c.Accepted())
	assert.Equal(t, 0.5, c.AcceptanceRate())

	// At returns a copy
	d := c.At(1)
	d[0] = -1
	assert.Equal(t, 3.0, c.At(1)[0])
}

func TestChainMatrixRoundTrip(t *testing.T) {
	c := newChain("hmc", []float64{0, 1}, 2)
	c.push([]float64{2, 3}, true)
	c.push([]float64{4, 5}, true)

	m := c.Matrix()
	want := mat.NewDense(3, 2, []float64{0, 1, 2, 3, 4, 5})
	assert.True(t, mat.Equal(want, m))

	back := ChainFromMatrix("hmc", m, 2)
	assert.True(t, mat.Equal(m, back.Matrix()))
	assert.Equal(t, 1.0, back.AcceptanceRate())
}
