package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cohort-sim/sim"
)

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version      string  `yaml:"version"`
	CohortID     int64   `yaml:"cohort_id"`
	Population   int     `yaml:"population"`
	Horizon      int     `yaml:"horizon"`
	Alpha        float64 `yaml:"alpha"`
	TrackedState string  `yaml:"tracked_state"`

	// Matrices maps policy name → state name → probability row.
	Matrices map[string]map[string][]float64 `yaml:"matrices"`
}

// builtinConfig mirrors the defaults shipped in defaults.yaml; used when no file is present.
func builtinConfig() Config {
	return Config{
		CohortID:     sim.DefaultCohortID,
		Population:   sim.DefaultPopulationSize,
		Horizon:      sim.DefaultHorizon,
		Alpha:        sim.DefaultAlpha,
		TrackedState: sim.Stroke.String(),
	}
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
// Uses strict field checking: typos must cause errors.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file: %w", err)
	}
	cfg := builtinConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults YAML: %w", err)
	}
	return cfg, nil
}

// ExperimentConfig converts the file representation into a validated sim.ExperimentConfig.
// A policy with no matrices entry falls back to the built-in matrix.
func (c Config) ExperimentConfig() (sim.ExperimentConfig, error) {
	tracked, err := sim.ParseHealthState(c.TrackedState)
	if err != nil {
		return sim.ExperimentConfig{}, fmt.Errorf("tracked_state: %w", err)
	}

	matrices := make(map[sim.Policy]sim.TransitionMatrix)
	names := make([]string, 0, len(c.Matrices))
	for name := range c.Matrices {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		policy, err := sim.ParsePolicy(name)
		if err != nil {
			return sim.ExperimentConfig{}, fmt.Errorf("matrices: %w", err)
		}
		m, err := parseMatrix(c.Matrices[name])
		if err != nil {
			return sim.ExperimentConfig{}, fmt.Errorf("matrices.%s: %w", name, err)
		}
		matrices[policy] = m
	}
	for _, p := range sim.AllPolicies() {
		if _, ok := matrices[p]; ok {
			continue
		}
		logrus.Infof("No %s matrix configured; using built-in matrix", p)
		m, err := sim.DefaultMatrix(p)
		if err != nil {
			return sim.ExperimentConfig{}, err
		}
		matrices[p] = m
	}

	e := sim.ExperimentConfig{
		CohortID:       c.CohortID,
		PopulationSize: c.Population,
		Horizon:        c.Horizon,
		Alpha:          c.Alpha,
		TrackedState:   tracked,
		Workers:        1,
		Matrices:       matrices,
	}
	if err := e.Validate(); err != nil {
		return sim.ExperimentConfig{}, err
	}
	return e, nil
}

func parseMatrix(rows map[string][]float64) (sim.TransitionMatrix, error) {
	byState := make(map[sim.HealthState][]float64, len(rows))
	for name, row := range rows {
		s, err := sim.ParseHealthState(name)
		if err != nil {
			return sim.TransitionMatrix{}, err
		}
		if _, dup := byState[s]; dup {
			return sim.TransitionMatrix{}, fmt.Errorf("%w: duplicate row for %s", sim.ErrInvalidTransitionRow, s)
		}
		byState[s] = row
	}
	return sim.NewTransitionMatrix(byState)
}
