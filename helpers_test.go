// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

// almostEqual compares floats with tolerance
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ReadDirectory reads all files in a directory
func ReadDirectory(directory string) []os.DirEntry {
	files, err := os.ReadDir(directory)
	if err != nil {
		panic(fmt.Sprintf("Error reading directory %s: %v", directory, err))
	}
	return files
}

// skipComments reads lines from scanner, skipping comment lines starting with #
func skipComments(scanner *bufio.Scanner) string {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

// parseFloats splits a whitespace separated line into floats
func parseFloats(line string) []float64 {
	fields := strings.Fields(line)
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			panic(fmt.Sprintf("Error parsing %q: %v", s, err))
		}
		out[i] = v
	}
	return out
}

// twoStateData is the panel used by several tests: one subject, unit gaps
func twoStateData(t *testing.T, states ...int) *PanelData {
	t.Helper()
	obs := make([]Observation, len(states))
	for i, s := range states {
		obs[i] = Observation{Subject: 1, Time: float64(i), State: s}
	}
	data, err := NewPanelData(obs, 2, false)
	require.NoError(t, err)
	return data
}

// simulatedTwoStateData simulates the two-state example Q = [[-1.2,1.2],[0.8,-0.8]]
func simulatedTwoStateData(t *testing.T, subjects, horizon int, seed uint64) *PanelData {
	t.Helper()
	Q := mat.NewDense(2, 2, []float64{-1.2, 1.2, 0.8, -0.8})
	obs, err := SimulatePanel(Q, SimulationOptions{Horizon: horizon, Subjects: subjects, Seed: seed})
	require.NoError(t, err)
	data, err := NewPanelData(obs, 2, false)
	require.NoError(t, err)
	return data
}

// twoStateP is the closed-form expm(t*Q) for Q = [[-a, a], [b, -b]]
func twoStateP(a, b, t float64) [2][2]float64 {
	s := a + b
	e := math.Exp(-s * t)
	return [2][2]float64{
		{(b + a*e) / s, (a - a*e) / s},
		{(b - b*e) / s, (a + b*e) / s},
	}
}

// recordingProgress counts observer calls
type recordingProgress struct {
	total    int
	steps    int
	accepted int
	lastStep int
	finished bool
}

func (r *recordingProgress) Start(total int) { r.total = total }
func (r *recordingProgress) Step(i int, accepted bool) {
	r.steps++
	r.lastStep = i
	if accepted {
		r.accepted++
	}
}
func (r *recordingProgress) Finish() { r.finished = true }
