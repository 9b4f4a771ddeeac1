// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// SummarizeChain drops the first burnIn draws and summarizes every parameter
// on the log scale and on the natural (rate) scale.
// alpha sets the credible interval, e.g. 0.05 for 95% (default 0.05).
func SummarizeChain(chain *Chain, burnIn int, alpha float64) (*ChainSummary, error) {
	if chain == nil || chain.Len() == 0 {
		return nil, fmt.Errorf("chain is empty")
	}
	if burnIn < 0 || burnIn >= chain.Len() {
		return nil, fmt.Errorf("burn-in must be in [0, %d), got %d", chain.Len(), burnIn)
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}

	_, K := chain.Dims()
	numStates, err := NumStatesForParams(K)
	if err != nil {
		return nil, err
	}

	summary := &ChainSummary{
		Method:         chain.Method,
		BurnIn:         burnIn,
		Kept:           chain.Len() - burnIn,
		AcceptanceRate: chain.AcceptanceRate(),
		Alpha:          alpha,
		Params:         make([]ParamSummary, K),
	}

	meanRates := make([]float64, K)
	for k := 0; k < K; k++ {
		thetas := chain.Trace(k)[burnIn:]
		rates := LogScale.ToNatural(thetas)

		row, col := ParamPosition(k, numStates)
		ps := ParamSummary{Index: k, Row: row, Col: col}
		ps.MeanLog, ps.SDLog = stat.MeanStdDev(thetas, nil)
		ps.MeanRate, ps.SDRate = stat.MeanStdDev(rates, nil)
		ps.LowerRate = chainQuantile(rates, alpha/2)
		ps.UpperRate = chainQuantile(rates, 1-alpha/2)

		summary.Params[k] = ps
		meanRates[k] = ps.MeanRate
	}

	summary.MeanGenerator, err = BuildGenerator(meanRates, numStates)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// chainQuantile returns the empirical q-quantile of samples (0 <= q <= 1)
// using linear interpolation between order statistics.
func chainQuantile(samples []float64, q float64) float64 {
	n := len(samples)
	if n == 0 {
		return math.NaN()
	}

	tmp := make([]float64, n)
	copy(tmp, samples)
	sort.Float64s(tmp)

	if q <= 0 {
		return tmp[0]
	}
	if q >= 1 {
		return tmp[n-1]
	}

	pos := q * float64(n-1)
	idxBelow := int(math.Floor(pos))
	idxAbove := int(math.Ceil(pos))

	if idxAbove == idxBelow {
		return tmp[idxBelow]
	}

	weight := pos - float64(idxBelow)
	return tmp[idxBelow]*(1.0-weight) + tmp[idxAbove]*weight
}

// LogGrid returns n points evenly spaced in log between lo and hi (both > 0)
func LogGrid(lo, hi float64, n int) ([]float64, error) {
	if !(lo > 0) || !(hi > lo) || n < 2 {
		return nil, fmt.Errorf("log grid needs 0 < lo < hi and n >= 2, got lo=%v hi=%v n=%d", lo, hi, n)
	}
	out := make([]float64, n)
	a, b := math.Log(lo), math.Log(hi)
	for i := range out {
		out[i] = math.Exp(a + (b-a)*float64(i)/float64(n-1))
	}
	return out, nil
}

// LikelihoodSurface evaluates -LogLikelihood on the grid GridX x GridY of two
// parameters, holding the others at opts.Base. Rows are spread over a worker
// pool; data is only read.
func LikelihoodSurface(data *PanelData, opts SurfaceOptions) (*Surface, error) {
	if data == nil {
		return nil, ErrEmptyData
	}
	K := data.NumParams()
	if len(opts.Base) != K {
		return nil, fmt.Errorf("base has %d entries, model has %d rates: %w", len(opts.Base), K, ErrInvalidDimension)
	}
	if opts.ParamX < 0 || opts.ParamX >= K || opts.ParamY < 0 || opts.ParamY >= K || opts.ParamX == opts.ParamY {
		return nil, fmt.Errorf("surface parameters (%d,%d) must be distinct and in [0,%d): %w",
			opts.ParamX, opts.ParamY, K, ErrInvalidDimension)
	}
	nx, ny := len(opts.GridX), len(opts.GridY)
	if nx == 0 || ny == 0 {
		return nil, fmt.Errorf("surface grid is empty")
	}

	values := mat.NewDense(nx, ny, nil)

	// Worker pool over grid rows
	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > nx {
		numWorkers = nx
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	// Each worker writes only its own rows, Dense.Set on disjoint cells is safe
	worker := func() {
		defer wg.Done()

		params := make([]float64, K)
		for i := range jobs {
			for j := 0; j < ny; j++ {
				copy(params, opts.Base)
				params[opts.ParamX] = opts.GridX[i]
				params[opts.ParamY] = opts.GridY[j]

				ll, err := LogLikelihood(params, data)
				if err != nil {
					// only numerical trouble gets here, dimensions were checked above
					ll = math.Inf(-1)
				}
				values.Set(i, j, -ll)
			}
		}
	}

	for w := 0; w < numWorkers; w++ {
		go worker()
	}

	for i := 0; i < nx; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if glog.V(2) {
		glog.Infof("surface: %dx%d grid over parameters %d and %d with %d workers",
			nx, ny, opts.ParamX, opts.ParamY, numWorkers)
	}

	return &Surface{
		ParamX: opts.ParamX,
		ParamY: opts.ParamY,
		GridX:  opts.GridX,
		GridY:  opts.GridY,
		Values: values,
	}, nil
}

// Minimum returns the grid point with the smallest -loglik
func (s *Surface) Minimum() (x, y, value float64) {
	value = math.Inf(1)
	for i, gx := range s.GridX {
		for j, gy := range s.GridY {
			if v := s.Values.At(i, j); v < value {
				x, y, value = gx, gy, v
			}
		}
	}
	return x, y, value
}
