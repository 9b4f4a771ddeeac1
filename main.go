// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/mat"
)

// This is the main function that estimates the transition intensities of a
// multi-state Markov model from panel data.
// Settings come from a YAML file (-config) with a few command-line overrides.
// The steps are: load or simulate the panel, format it, run the sampler,
// summarize the chain, and write the outputs (CSV files and the SQLite store).

func main() {
	configPath := flag.String("config", "", "YAML run configuration (defaults to the two-state example)")
	method := flag.String("method", "", "override sampler.method (metropolis or hmc)")
	iterations := flag.Int("iterations", 0, "override sampler.iterations")
	seed := flag.Uint64("seed", 0, "seed the simulator with this value and the sampler with value+1")
	flag.Parse()
	defer glog.Flush()

	// 1. Load configuration
	cfg, err := LoadConfigOrDefault(*configPath)
	if err != nil {
		panic(err)
	}
	applyOverrides(cfg, *method, *iterations, *seed)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o750); err != nil {
			panic(err)
		}
	}

	// 2. Load or simulate the observations
	obs, err := loadObservations(cfg)
	if err != nil {
		panic(err)
	}

	// 3. Format the panel
	data, err := NewPanelData(obs, cfg.Data.NumStates, cfg.Data.ScaleByElapsed)
	if err != nil {
		panic(err)
	}
	glog.Infof("loaded %d records, %d states, %d rates", len(data.Records), data.NumStates, data.NumParams())
	if data.ScaleByElapsed {
		glog.Infof("scoring transitions with expm(dt*Q) instead of unit-time expm(Q)")
	}

	// 4. Run the sampler
	chain, err := runSampler(cfg, data)
	if err != nil {
		panic(err)
	}
	rows, cols := chain.Dims()
	glog.Infof("%s chain: %d draws x %d parameters, acceptance rate %.3f",
		chain.Method, rows, cols, chain.AcceptanceRate())

	// 5. Summarize
	summary, err := SummarizeChain(chain, cfg.Sampler.BurnIn, cfg.Sampler.Alpha)
	if err != nil {
		panic(err)
	}
	PrintSummary(summary)

	// 6. Outputs
	if name := cfg.Output.Chain; name != "" {
		path := filepath.Join(cfg.Output.Dir, name)
		if err := WriteChainCSV(path, chain); err != nil {
			panic(err)
		}
		fmt.Println("Chain written to", path)
	}
	if name := cfg.Output.Summary; name != "" {
		path := filepath.Join(cfg.Output.Dir, name)
		if err := WriteSummaryCSV(path, summary); err != nil {
			panic(err)
		}
		fmt.Println("Summary written to", path)
	}
	if cfg.Output.Store != "" {
		store, err := NewChainStore(filepath.Join(cfg.Output.Dir, cfg.Output.Store))
		if err != nil {
			panic(err)
		}
		id, err := store.SaveChain(context.Background(), chain, cfg.Sampler)
		if closeErr := store.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			panic(err)
		}
		fmt.Println("Chain stored as run", id, "in", store.Path())
	}

	// 7. Optional -loglik surface around the posterior means
	if cfg.Surface.Enabled {
		surface, err := runSurface(cfg, data, summary)
		if err != nil {
			panic(err)
		}
		x, y, v := surface.Minimum()
		fmt.Printf("Surface minimum: rate_%d = %.4f, rate_%d = %.4f, -loglik = %.4f\n",
			surface.ParamX, x, surface.ParamY, y, v)
		if name := cfg.Output.Surface; name != "" {
			path := filepath.Join(cfg.Output.Dir, name)
			if err := WriteSurfaceCSV(path, surface); err != nil {
				panic(err)
			}
			fmt.Println("Surface written to", path)
		}
	}
}

// loadObservations reads the CSV in cfg.Data.Path or simulates a panel
func loadObservations(cfg *Config) ([]Observation, error) {
	if cfg.Data.Path != "" {
		return LoadObservationsCSV(cfg.Data.Path)
	}

	n := len(cfg.Simulate.Generator)
	flat := make([]float64, 0, n*n)
	for _, row := range cfg.Simulate.Generator {
		flat = append(flat, row...)
	}
	Q := mat.NewDense(n, n, flat)
	PrintGenerator("Simulation generator", Q)

	obs, err := SimulatePanel(Q, SimulationOptions{
		Horizon:  cfg.Simulate.Horizon,
		Subjects: cfg.Simulate.Subjects,
		Step:     cfg.Simulate.Step,
		Seed:     cfg.Simulate.Seed,
	})
	if err != nil {
		return nil, err
	}
	glog.Infof("simulated %d subjects over %d steps", cfg.Simulate.Subjects, cfg.Simulate.Horizon)

	if name := cfg.Output.Observations; name != "" {
		path := filepath.Join(cfg.Output.Dir, name)
		if err := WriteObservationsCSV(path, obs); err != nil {
			return nil, err
		}
		fmt.Println("Simulated observations written to", path)
	}
	return obs, nil
}

// applyOverrides copies non-zero command-line values into cfg.
// The simulator gets seed and the sampler seed+1 so their streams differ.
func applyOverrides(cfg *Config, method string, iterations int, seed uint64) {
	if method != "" {
		cfg.Sampler.Method = method
	}
	if iterations > 0 {
		cfg.Sampler.Iterations = iterations
	}
	if seed != 0 {
		cfg.Simulate.Seed = seed
		cfg.Sampler.Seed = seed + 1
		if cfg.Sampler.Seed == 0 {
			cfg.Sampler.Seed = 1 // wrapped, 0 would mean time based
		}
	}
}

// startVector returns sampler.start, or defaultStartTheta for every rate of data when it is empty
func startVector(cfg *Config, data *PanelData) ([]float64, error) {
	if len(cfg.Sampler.Start) == 0 {
		start := make([]float64, data.NumParams())
		for k := range start {
			start[k] = defaultStartTheta
		}
		return start, nil
	}
	if len(cfg.Sampler.Start) != data.NumParams() {
		return nil, fmt.Errorf("sampler.start has %d entries, %d states need %d: %w",
			len(cfg.Sampler.Start), data.NumStates, data.NumParams(), ErrInvalidDimension)
	}
	return cfg.Sampler.Start, nil
}

// runSampler dispatches on cfg.Sampler.Method
func runSampler(cfg *Config, data *PanelData) (*Chain, error) {
	start, err := startVector(cfg, data)
	if err != nil {
		return nil, err
	}

	opts := SamplerOptions{Seed: cfg.Sampler.Seed}
	if cfg.Output.Progress {
		opts.Progress = NewBarProgress(cfg.Sampler.Method)
	}

	switch cfg.Sampler.Method {
	case "hmc":
		opts.Gradient = CentralDifference{Step: cfg.Sampler.GradientStep}
		return RunHMC(start, cfg.Sampler.Iterations, LogPosterior,
			cfg.Sampler.Epsilon, cfg.Sampler.LeapfrogSteps, data, opts)
	default:
		return RunMetropolis(start, cfg.Sampler.Iterations, cfg.Sampler.StepSize, data, opts)
	}
}

// runSurface evaluates -loglik on a log grid of two rates, the other rates at their posterior means
func runSurface(cfg *Config, data *PanelData, summary *ChainSummary) (*Surface, error) {
	grid, err := LogGrid(cfg.Surface.Lo, cfg.Surface.Hi, cfg.Surface.Points)
	if err != nil {
		return nil, err
	}
	base := make([]float64, len(summary.Params))
	for k, p := range summary.Params {
		base[k] = p.MeanRate
	}
	return LikelihoodSurface(data, SurfaceOptions{
		ParamX: cfg.Surface.ParamX,
		ParamY: cfg.Surface.ParamY,
		Base:   base,
		GridX:  grid,
		GridY:  grid,
	})
}
