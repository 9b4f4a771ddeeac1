// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Column names of an observations file
var observationHeader = []string{"subject_id", "time", "state"}

// LoadObservationsCSV loads a long-form panel file with columns
// subject_id, time, state (any order, header required).
func LoadObservationsCSV(path string) ([]Observation, error) {
	// 1. Open file
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// 2. Make CSV reader
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	// 3. Read header row and locate the columns
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for j, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = j
	}
	idx := make([]int, len(observationHeader))
	for k, name := range observationHeader {
		j, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
		idx[k] = j
	}

	var obs []Observation
	row := 0

	// 4. Read each data row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+2, err) // +2 for header + 1-based
		}

		// Skip completely empty lines
		if len(record) == 1 && record[0] == "" {
			continue
		}

		subject, err := strconv.Atoi(record[idx[0]])
		if err != nil {
			return nil, fmt.Errorf("parse subject_id at row %d (%q): %w", row+2, record[idx[0]], err)
		}
		t, err := strconv.ParseFloat(record[idx[1]], 64)
		if err != nil {
			return nil, fmt.Errorf("parse time at row %d (%q): %w", row+2, record[idx[1]], err)
		}
		state, err := strconv.Atoi(record[idx[2]])
		if err != nil {
			return nil, fmt.Errorf("parse state at row %d (%q): %w", row+2, record[idx[2]], err)
		}

		obs = append(obs, Observation{Subject: subject, Time: t, State: state})
		row++
	}

	if row == 0 {
		return nil, fmt.Errorf("no data rows in %s: %w", path, ErrEmptyData)
	}

	return obs, nil
}

// WriteObservationsCSV writes observations in the format LoadObservationsCSV reads
func WriteObservationsCSV(path string, obs []Observation) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(observationHeader); err != nil {
		return err
	}
	for _, o := range obs {
		record := []string{
			strconv.Itoa(o.Subject),
			strconv.FormatFloat(o.Time, 'g', -1, 64),
			strconv.Itoa(o.State),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteChainCSV writes one row per draw.
// Columns: Iteration, theta_0..theta_{K-1} (log scale), rate_0..rate_{K-1}
func WriteChainCSV(path string, chain *Chain) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	_, K := chain.Dims()
	header := []string{"Iteration"}
	for k := 0; k < K; k++ {
		header = append(header, fmt.Sprintf("theta_%d", k))
	}
	for k := 0; k < K; k++ {
		header = append(header, fmt.Sprintf("rate_%d", k))
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i := 0; i < chain.Len(); i++ {
		draw := chain.At(i)
		record := make([]string, 0, 1+2*K)
		record = append(record, fmt.Sprintf("%d", i))
		for _, v := range draw {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range LogScale.ToNatural(draw) {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummaryCSV writes one row per parameter.
// Columns: Param, From, To, MeanLog, SDLog, MeanRate, SDRate, Lower, Upper
func WriteSummaryCSV(path string, s *ChainSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Param", "From", "To", "MeanLog", "SDLog", "MeanRate", "SDRate", "Lower", "Upper"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range s.Params {
		record := []string{
			fmt.Sprintf("%d", p.Index),
			fmt.Sprintf("%d", p.Row+1),
			fmt.Sprintf("%d", p.Col+1),
			fmt.Sprintf("%f", p.MeanLog),
			fmt.Sprintf("%f", p.SDLog),
			fmt.Sprintf("%f", p.MeanRate),
			fmt.Sprintf("%f", p.SDRate),
			fmt.Sprintf("%f", p.LowerRate),
			fmt.Sprintf("%f", p.UpperRate),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteSurfaceCSV writes the surface in long format.
// Columns: ParamX, ParamY, NegLogLik
func WriteSurfaceCSV(path string, s *Surface) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{fmt.Sprintf("rate_%d", s.ParamX), fmt.Sprintf("rate_%d", s.ParamY), "NegLogLik"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, x := range s.GridX {
		for j, y := range s.GridY {
			record := []string{
				fmt.Sprintf("%f", x),
				fmt.Sprintf("%f", y),
				fmt.Sprintf("%f", s.Values.At(i, j)),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}

// PrintGenerator prints a generator matrix with a title
func PrintGenerator(title string, Q mat.Matrix) {
	fmt.Printf("\n=== %s ===\n", title)
	fmt.Printf("%v\n", mat.Formatted(Q, mat.Prefix(" ")))
}

// PrintSummary prints the posterior summary table
func PrintSummary(s *ChainSummary) {
	if s == nil {
		fmt.Println("Summary is nil")
		return
	}
	fmt.Println("         Posterior Summary      ")
	fmt.Printf("Sampler:          %s\n", s.Method)
	fmt.Printf("Burn-in:          %d\n", s.BurnIn)
	fmt.Printf("Draws kept:       %d\n", s.Kept)
	fmt.Printf("Acceptance rate:  %.3f\n", s.AcceptanceRate)
	fmt.Println()

	fmt.Printf("%-6s %-10s | %10s | %10s | %10s | %10s\n",
		"Param", "Transition", "Mean", "SD", "Lower", "Upper")
	fmt.Println("------------------------------------------------------------------------")
	for _, p := range s.Params {
		fmt.Printf("%-6d %-10s | %10.4f | %10.4f | %10.4f | %10.4f\n",
			p.Index,
			fmt.Sprintf("%d -> %d", p.Row+1, p.Col+1),
			p.MeanRate, p.SDRate, p.LowerRate, p.UpperRate)
	}
	fmt.Printf("(%.0f%% credible intervals)\n", 100*(1-s.Alpha))

	if s.MeanGenerator != nil {
		PrintGenerator("Posterior-mean generator", s.MeanGenerator)
	}
	fmt.Println("=======================================")
}
