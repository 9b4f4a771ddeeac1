// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// newChain allocates room for numSamples+1 draws and stores a copy of start as row 0
func newChain(method string, start []float64, numSamples int) *Chain {
	c := &Chain{
		Method: method,
		draws:  make([][]float64, 0, numSamples+1),
	}
	c.draws = append(c.draws, cloneVec(start))
	return c
}

// push appends a copy of x as the next draw
func (c *Chain) push(x []float64, accepted bool) {
	c.draws = append(c.draws, cloneVec(x))
	c.proposed++
	if accepted {
		c.accepted++
	}
}

// Len returns the number of draws, iterations+1
func (c *Chain) Len() int { return len(c.draws) }

// Dims returns (draws, parameters), the shape of Matrix()
func (c *Chain) Dims() (int, int) {
	if len(c.draws) == 0 {
		return 0, 0
	}
	return len(c.draws), len(c.draws[0])
}

// At returns a copy of draw i
func (c *Chain) At(i int) []float64 { return cloneVec(c.draws[i]) }

// Last returns a copy of the most recent draw
func (c *Chain) Last() []float64 { return c.At(len(c.draws) - 1) }

// Accepted returns the number of accepted proposals
func (c *Chain) Accepted() int { return c.accepted }

// AcceptanceRate returns accepted / proposed, NaN before the first proposal
func (c *Chain) AcceptanceRate() float64 {
	if c.proposed == 0 {
		return math.NaN()
	}
	return float64(c.accepted) / float64(c.proposed)
}

// Matrix copies the chain into a (draws x parameters) matrix
func (c *Chain) Matrix() *mat.Dense {
	rows, cols := c.Dims()
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}
	data := make([]float64, 0, rows*cols)
	for _, d := range c.draws {
		data = append(data, d...)
	}
	return mat.NewDense(rows, cols, data)
}

// Trace returns the values of parameter k across all draws
func (c *Chain) Trace(k int) []float64 {
	out := make([]float64, len(c.draws))
	for i, d := range c.draws {
		out[i] = d[k]
	}
	return out
}

// ChainFromMatrix rebuilds a chain from stored draws.
// accepted is the stored number of accepted proposals.
func ChainFromMatrix(method string, m mat.Matrix, accepted int) *Chain {
	rows, cols := m.Dims()
	c := &Chain{Method: method, draws: make([][]float64, rows)}
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = m.At(i, j)
		}
		c.draws[i] = row
	}
	if rows > 0 {
		c.proposed = rows - 1
	}
	c.accepted = accepted
	return c
}

func cloneVec(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}
