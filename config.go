// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of a run configuration file.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Simulate SimulateConfig `yaml:"simulate"`
	Sampler  SamplerConfig  `yaml:"sampler"`
	Surface  SurfaceConfig  `yaml:"surface"`
	Output   OutputConfig   `yaml:"output"`
}

// DataConfig says where the panel comes from. An empty Path means simulate.
type DataConfig struct {
	Path           string `yaml:"path"`
	NumStates      int    `yaml:"num_states"` // 0 = distinct states in the data
	ScaleByElapsed bool   `yaml:"scale_by_elapsed"`
}

// SimulateConfig holds the synthetic panel settings
type SimulateConfig struct {
	Generator [][]float64 `yaml:"generator"`
	Horizon   int         `yaml:"horizon"`
	Subjects  int         `yaml:"subjects"`
	Step      float64     `yaml:"step"`
	Seed      uint64      `yaml:"seed"`
}

// SamplerConfig holds the MCMC settings
type SamplerConfig struct {
	Method     string    `yaml:"method"` // "metropolis" or "hmc"
	Start      []float64 `yaml:"start"`  // log scale, empty = defaultStartTheta everywhere
	Iterations int       `yaml:"iterations"`
	Seed       uint64    `yaml:"seed"`
	BurnIn     int       `yaml:"burn_in"`
	Alpha      float64   `yaml:"alpha"`

	// Metropolis
	StepSize float64 `yaml:"step_size"`

	// HMC
	Epsilon       float64 `yaml:"epsilon"`
	LeapfrogSteps int     `yaml:"leapfrog_steps"`
	GradientStep  float64 `yaml:"gradient_step"`
}

// SurfaceConfig controls the optional -loglik surface
type SurfaceConfig struct {
	Enabled bool    `yaml:"enabled"`
	ParamX  int     `yaml:"param_x"`
	ParamY  int     `yaml:"param_y"`
	Lo      float64 `yaml:"lo"`
	Hi      float64 `yaml:"hi"`
	Points  int     `yaml:"points"`
}

// OutputConfig holds output locations, empty names are skipped
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	Observations string `yaml:"observations"`
	Chain        string `yaml:"chain"`
	Summary      string `yaml:"summary"`
	Surface      string `yaml:"surface"`
	Store        string `yaml:"store"`
	Progress     bool   `yaml:"progress"`
}

// Log-scale start value of every coordinate when sampler.start is empty
const defaultStartTheta = 1.0

// DefaultConfig reproduces the two-state example: simulate from
// Q = [[-1.2, 1.2], [0.8, -0.8]] and run Metropolis from (1, 1).
// Start is left empty so it is sized from the data, which gives (1, 1) here.
func DefaultConfig() *Config {
	return &Config{
		Simulate: SimulateConfig{
			Generator: [][]float64{{-1.2, 1.2}, {0.8, -0.8}},
			Horizon:   50,
			Subjects:  2,
			Step:      1,
		},
		Sampler: SamplerConfig{
			Method:        "metropolis",
			Iterations:    500,
			BurnIn:        100,
			Alpha:         0.05,
			StepSize:      0.7,
			Epsilon:       0.05,
			LeapfrogSteps: 10,
			GradientStep:  defaultGradientStep,
		},
		Surface: SurfaceConfig{
			ParamX: 0,
			ParamY: 1,
			Lo:     0.1,
			Hi:     10,
			Points: 25,
		},
		Output: OutputConfig{
			Dir:          "Output",
			Observations: "observations.csv",
			Chain:        "chain.csv",
			Summary:      "summary.csv",
			Surface:      "surface.csv",
			Progress:     true,
		},
	}
}

// LoadConfig reads a YAML file over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadConfigOrDefault loads config from path, or returns the default if path
// is empty or the file does not exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Validate checks the settings the run needs before any data is touched
func (c *Config) Validate() error {
	switch c.Sampler.Method {
	case "metropolis":
		if c.Sampler.StepSize <= 0 {
			return fmt.Errorf("sampler.step_size must be > 0: %w", ErrInvalidSamplerConfig)
		}
	case "hmc":
		if c.Sampler.Epsilon <= 0 {
			return fmt.Errorf("sampler.epsilon must be > 0: %w", ErrInvalidSamplerConfig)
		}
		if c.Sampler.LeapfrogSteps < 1 {
			return fmt.Errorf("sampler.leapfrog_steps must be >= 1: %w", ErrInvalidSamplerConfig)
		}
	default:
		return fmt.Errorf("unknown sampler.method %q (metropolis, hmc): %w", c.Sampler.Method, ErrInvalidSamplerConfig)
	}

	if c.Sampler.Iterations < 1 {
		return fmt.Errorf("sampler.iterations must be >= 1: %w", ErrInvalidSamplerConfig)
	}
	if c.Sampler.BurnIn < 0 || c.Sampler.BurnIn > c.Sampler.Iterations {
		return fmt.Errorf("sampler.burn_in must be in [0, iterations]: %w", ErrInvalidSamplerConfig)
	}

	if c.Data.Path == "" {
		n := len(c.Simulate.Generator)
		if n < 2 {
			return fmt.Errorf("simulate.generator needs at least 2 rows: %w", ErrInvalidDimension)
		}
		for i, row := range c.Simulate.Generator {
			if len(row) != n {
				return fmt.Errorf("simulate.generator row %d has %d entries, want %d: %w", i, len(row), n, ErrInvalidDimension)
			}
		}
	}

	if c.Surface.Enabled && c.Surface.Points < 2 {
		return fmt.Errorf("surface.points must be >= 2")
	}

	return nil
}
