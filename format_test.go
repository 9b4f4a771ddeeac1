// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// FORMAT OBSERVATIONS TESTS
// ============================================================================

type FormatObservationsTest struct {
	Observations []Observation
	Result       []FormattedObservation
}

func ReadFormatObservationsTests(directory string) []FormatObservationsTest {
	inputFiles := ReadDirectory(directory + "input")
	outputFiles := ReadDirectory(directory + "output")

	if len(inputFiles) != len(outputFiles) {
		panic("Error: number of input and output files do not match!")
	}

	tests := make([]FormatObservationsTest, len(inputFiles))
	for i, inputFile := range inputFiles {
		tests[i].Observations = ReadFormatObservationsInput(directory + "input/" + inputFile.Name())
	}

	for i, outputFile := range outputFiles {
		tests[i].Result = ReadFormatObservationsOutput(directory + "output/" + outputFile.Name())
	}

	return tests
}

func ReadFormatObservationsInput(file string) []Observation {
	f, err := os.Open(file)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	n, err := strconv.Atoi(skipComments(scanner))
	if err != nil {
		panic(err)
	}

	obs := make([]Observation, n)
	for i := 0; i < n; i++ {
		fields := strings.Fields(skipComments(scanner))
		obs[i] = Observation{
			Subject: mustAtoi(fields[0]),
			Time:    parseFloats(fields[1])[0],
			State:   mustAtoi(fields[2]),
		}
	}
	return obs
}

func ReadFormatObservationsOutput(file string) []FormattedObservation {
	f, err := os.Open(file)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	var out []FormattedObservation
	var prevTime float64
	for line := skipComments(scanner); line != ""; line = skipComments(scanner) {
		fields := strings.Fields(line)
		r := FormattedObservation{Observation: Observation{
			Subject: mustAtoi(fields[0]),
			Time:    parseFloats(fields[1])[0],
			State:   mustAtoi(fields[2]),
		}}
		if fields[3] != "NA" {
			r.PrevState = mustAtoi(fields[3])
			r.HasPrev = true
			r.Elapsed = r.Time - prevTime
		}
		prevTime = r.Time
		out = append(out, r)
	}
	return out
}

func mustAtoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestFormatObservations(t *testing.T) {
	tests := ReadFormatObservationsTests("Tests/FormatObservations/")
	for i, test := range tests {
		got, err := FormatObservations(test.Observations)
		if err != nil {
			t.Fatalf("Test %d: unexpected error %v", i+1, err)
		}
		if len(got) != len(test.Result) {
			t.Fatalf("Test %d: got %d records, want %d", i+1, len(got), len(test.Result))
		}
		for j := range got {
			g, w := got[j], test.Result[j]
			if g.Observation != w.Observation || g.HasPrev != w.HasPrev || g.PrevState != w.PrevState ||
				!almostEqual(g.Elapsed, w.Elapsed, 1e-12) {
				t.Errorf("Test %d record %d: got %+v, want %+v", i+1, j, g, w)
			}
		}
	}
}

func TestFormatObservationsDoesNotModifyInput(t *testing.T) {
	obs := []Observation{
		{Subject: 2, Time: 1, State: 1},
		{Subject: 1, Time: 0, State: 2},
		{Subject: 2, Time: 0, State: 2},
	}
	before := append([]Observation(nil), obs...)

	_, err := FormatObservations(obs)
	require.NoError(t, err)
	assert.Equal(t, before, obs)
}

func TestFormatObservationsRoundTrip(t *testing.T) {
	obs := []Observation{
		{Subject: 1, Time: 0, State: 1},
		{Subject: 1, Time: 1, State: 2},
		{Subject: 2, Time: 0, State: 2},
		{Subject: 2, Time: 2, State: 1},
	}

	formatted, err := FormatObservations(obs)
	require.NoError(t, err)
	assert.Equal(t, obs, StripFormatting(formatted))

	// formatting already-ordered records again gives the same result
	again, err := FormatObservations(StripFormatting(formatted))
	require.NoError(t, err)
	assert.Equal(t, formatted, again)
}

func TestFormatObservationsErrors(t *testing.T) {
	_, err := FormatObservations(nil)
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = FormatObservations([]Observation{
		{Subject: 1, Time: 1, State: 1},
		{Subject: 1, Time: 1, State: 2},
	})
	assert.ErrorIs(t, err, ErrNonIncreasingTime)

	_, err = FormatObservations([]Observation{{Subject: 1, Time: -1, State: 1}})
	assert.ErrorIs(t, err, ErrNonIncreasingTime)

	_, err = FormatObservations([]Observation{{Subject: 1, Time: math.NaN(), State: 1}})
	assert.ErrorIs(t, err, ErrNonIncreasingTime)

	_, err = FormatObservations([]Observation{{Subject: 1, Time: 0, State: 0}})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestNewPanelData(t *testing.T) {
	obs := []Observation{
		{Subject: 1, Time: 0, State: 1},
		{Subject: 1, Time: 1, State: 3},
		{Subject: 1, Time: 2, State: 2},
	}

	data, err := NewPanelData(obs, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 3, data.NumStates)
	assert.Equal(t, 6, data.NumParams())
	assert.Len(t, data.Records, 3)
	assert.Equal(t, 3, CountStates(obs))

	// explicit S larger than the observed states is allowed
	data, err = NewPanelData(obs, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 4, data.NumStates)
	assert.True(t, data.ScaleByElapsed)

	_, err = NewPanelData(obs, 2, false)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = NewPanelData([]Observation{{Subject: 1, Time: 0, State: 1}, {Subject: 1, Time: 1, State: 1}}, 0, false)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}
