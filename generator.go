// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Parameter layout convention
//
// The S*(S-1) parameters are written row-major into an S x S matrix, skipping
// the diagonal cells, and that matrix is then transposed. For S = 3 the
// parameters p0..p5 end up as
//
//	[  .   p2   p4 ]
//	[  p0   .   p5 ]
//	[  p1  p3    . ]
//
// so parameter k names the transition ParamPosition(k, S) = (from, to).

// ParamPosition returns the generator cell (row, col) that parameter k fills.
// row is the "from" state and col the "to" state, both 0-based.
func ParamPosition(k, numStates int) (row, col int) {
	if numStates < 2 || k < 0 || k >= numStates*(numStates-1) {
		panic(fmt.Sprintf("msm: parameter index %d out of range for %d states", k, numStates))
	}

	// Position in the row-major fill before the transpose
	fillRow := k / (numStates - 1)
	fillCol := k % (numStates - 1)
	if fillCol >= fillRow {
		fillCol++ // skip the diagonal cell
	}

	// transpose
	return fillCol, fillRow
}

// ParamIndex is the inverse of ParamPosition. It returns -1 for diagonal cells.
func ParamIndex(row, col, numStates int) int {
	if row < 0 || col < 0 || row >= numStates || col >= numStates {
		panic(fmt.Sprintf("msm: cell (%d,%d) out of range for %d states", row, col, numStates))
	}
	if row == col {
		return -1
	}

	// undo the transpose, (col,row) is the cell in the row-major fill
	fillRow, fillCol := col, row
	if fillCol > fillRow {
		fillCol--
	}
	return fillRow*(numStates-1) + fillCol
}

// BuildGenerator lays the natural-scale rates into an S x S intensity matrix
// and sets every diagonal entry to minus the sum of its row.
func BuildGenerator(params []float64, numStates int) (*mat.Dense, error) {
	if numStates < 2 {
		return nil, fmt.Errorf("need at least 2 states, got %d: %w", numStates, ErrInvalidDimension)
	}
	if len(params) != numStates*(numStates-1) {
		return nil, fmt.Errorf("%d states need %d parameters, got %d: %w",
			numStates, numStates*(numStates-1), len(params), ErrInvalidDimension)
	}

	Q := mat.NewDense(numStates, numStates, nil)
	for k, rate := range params {
		row, col := ParamPosition(k, numStates)
		Q.Set(row, col, rate)
	}

	for i := 0; i < numStates; i++ {
		rowSum := 0.0
		for j := 0; j < numStates; j++ {
			if j != i {
				rowSum += Q.At(i, j)
			}
		}
		Q.Set(i, i, -rowSum)
	}

	return Q, nil
}

// GeneratorParams reads the off-diagonal entries of Q back into a parameter
// vector using the same layout as BuildGenerator.
func GeneratorParams(Q mat.Matrix) ([]float64, error) {
	r, c := Q.Dims()
	if r != c || r < 2 {
		return nil, fmt.Errorf("generator must be square with at least 2 states, got %dx%d: %w",
			r, c, ErrInvalidDimension)
	}

	params := make([]float64, r*(r-1))
	for k := range params {
		row, col := ParamPosition(k, r)
		params[k] = Q.At(row, col)
	}
	return params, nil
}

// NumStatesForParams solves S*(S-1) = n. It returns an error when n is not of that form.
func NumStatesForParams(n int) (int, error) {
	for s := 2; s*(s-1) <= n; s++ {
		if s*(s-1) == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%d is not S*(S-1) for any S >= 2: %w", n, ErrInvalidDimension)
}
