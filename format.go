// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"
	"sort"
)

// FormatObservations orders the records by subject, then by time, and attaches
// the previous state of the same subject to every record. The input slice is
// not modified.
func FormatObservations(obs []Observation) ([]FormattedObservation, error) {
	if len(obs) == 0 {
		return nil, ErrEmptyData
	}

	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Subject != sorted[j].Subject {
			return sorted[i].Subject < sorted[j].Subject
		}
		return sorted[i].Time < sorted[j].Time
	})

	out := make([]FormattedObservation, len(sorted))
	for i, o := range sorted {
		if math.IsNaN(o.Time) || math.IsInf(o.Time, 0) || o.Time < 0 {
			return nil, fmt.Errorf("subject %d: time %v: %w", o.Subject, o.Time, ErrNonIncreasingTime)
		}
		if o.State < 1 {
			return nil, fmt.Errorf("subject %d at time %v: state %d: %w", o.Subject, o.Time, o.State, ErrInvalidState)
		}

		out[i] = FormattedObservation{Observation: o}

		// First record of a subject has no previous state
		if i == 0 || sorted[i-1].Subject != o.Subject {
			continue
		}

		prev := sorted[i-1]
		if o.Time <= prev.Time {
			return nil, fmt.Errorf("subject %d: two records at time %v: %w", o.Subject, o.Time, ErrNonIncreasingTime)
		}
		out[i].PrevState = prev.State
		out[i].HasPrev = true
		out[i].Elapsed = o.Time - prev.Time
	}

	return out, nil
}

// StripFormatting returns the plain observations of formatted records.
func StripFormatting(records []FormattedObservation) []Observation {
	obs := make([]Observation, len(records))
	for i, r := range records {
		obs[i] = r.Observation
	}
	return obs
}

// CountStates returns the number of distinct states among the observations.
func CountStates(obs []Observation) int {
	seen := make(map[int]struct{})
	for _, o := range obs {
		seen[o.State] = struct{}{}
	}
	return len(seen)
}

// NewPanelData formats the observations and fixes the number of states.
// If numStates is 0 it is taken from the distinct states seen in the data.
// Every state must lie in 1..numStates.
func NewPanelData(obs []Observation, numStates int, scaleByElapsed bool) (*PanelData, error) {
	records, err := FormatObservations(obs)
	if err != nil {
		return nil, err
	}

	if numStates == 0 {
		numStates = CountStates(obs)
	}
	if numStates < 2 {
		return nil, fmt.Errorf("data has %d distinct state(s), need at least 2: %w", numStates, ErrInvalidDimension)
	}

	for _, r := range records {
		if r.State > numStates {
			return nil, fmt.Errorf("subject %d at time %v: state %d with %d states: %w",
				r.Subject, r.Time, r.State, numStates, ErrInvalidState)
		}
	}

	return &PanelData{
		Records:        records,
		NumStates:      numStates,
		ScaleByElapsed: scaleByElapsed,
	}, nil
}
