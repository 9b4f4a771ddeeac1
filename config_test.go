// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "metropolis", cfg.Sampler.Method)
	assert.Equal(t, [][]float64{{-1.2, 1.2}, {0.8, -0.8}}, cfg.Simulate.Generator)
	assert.Empty(t, cfg.Sampler.Start, "start is sized from the data")
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `
data:
  path: panel.csv
  num_states: 3
  scale_by_elapsed: true
sampler:
  method: hmc
  iterations: 2000
  epsilon: 0.02
  leapfrog_steps: 20
surface:
  enabled: true
  points: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "panel.csv", cfg.Data.Path)
	assert.Equal(t, 3, cfg.Data.NumStates)
	assert.True(t, cfg.Data.ScaleByElapsed)
	assert.Equal(t, "hmc", cfg.Sampler.Method)
	assert.Equal(t, 2000, cfg.Sampler.Iterations)
	assert.Equal(t, 0.02, cfg.Sampler.Epsilon)
	assert.Equal(t, 20, cfg.Sampler.LeapfrogSteps)
	assert.True(t, cfg.Surface.Enabled)
	assert.Equal(t, 10, cfg.Surface.Points)

	// untouched keys keep their defaults, start stays empty for any S
	assert.Empty(t, cfg.Sampler.Start)
	assert.Equal(t, 100, cfg.Sampler.BurnIn)
	assert.Equal(t, "chain.csv", cfg.Output.Chain)
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sampler: [1, 2"), 0o600))
	_, err = LoadConfigOrDefault(bad)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown method", func(c *Config) { c.Sampler.Method = "gibbs" }},
		{"metropolis step size", func(c *Config) { c.Sampler.StepSize = 0 }},
		{"hmc epsilon", func(c *Config) { c.Sampler.Method = "hmc"; c.Sampler.Epsilon = 0 }},
		{"hmc leapfrog steps", func(c *Config) { c.Sampler.Method = "hmc"; c.Sampler.LeapfrogSteps = 0 }},
		{"iterations", func(c *Config) { c.Sampler.Iterations = 0 }},
		{"burn-in", func(c *Config) { c.Sampler.BurnIn = c.Sampler.Iterations + 1 }},
		{"generator rows", func(c *Config) { c.Simulate.Generator = [][]float64{{0}} }},
		{"ragged generator", func(c *Config) { c.Simulate.Generator = [][]float64{{-1, 1}, {1}} }},
		{"surface points", func(c *Config) { c.Surface.Enabled = true; c.Surface.Points = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
