package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPopulationSize = 2000
	DefaultHorizon        = 1000
	DefaultCohortID       = 1
)

// CohortConfig groups everything a cohort needs. Matrix is copied into the cohort.
type CohortConfig struct {
	ID             int64
	Policy         Policy
	PopulationSize int
	Horizon        int
	TrackedState   HealthState // state whose dwell steps are counted
	Matrix         TransitionMatrix
	Workers        int // <= 1 runs patients sequentially
}

// DefaultCohortConfig returns the standard configuration for policy p:
// 2000 patients, horizon 1000, STROKE dwell tracking, built-in matrix.
func DefaultCohortConfig(p Policy) (CohortConfig, error) {
	m, err := DefaultMatrix(p)
	if err != nil {
		return CohortConfig{}, err
	}
	return CohortConfig{
		ID:             DefaultCohortID,
		Policy:         p,
		PopulationSize: DefaultPopulationSize,
		Horizon:        DefaultHorizon,
		TrackedState:   Stroke,
		Matrix:         m,
		Workers:        1,
	}, nil
}

// Validate rejects configurations that must not start a simulation.
func (c CohortConfig) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population must be positive, got %d", ErrInvalidPopulationSize, c.PopulationSize)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("%w: horizon must be non-negative, got %d", ErrInvalidHorizon, c.Horizon)
	}
	if !c.TrackedState.Valid() {
		return fmt.Errorf("%w: tracked state %s", ErrInvalidHealthState, c.TrackedState)
	}
	if err := c.Matrix.Validate(); err != nil {
		return fmt.Errorf("%s matrix: %w", c.Policy, err)
	}
	return nil
}

// Cohort is a population of independent patients simulated under one policy.
// It is run once and then only queried.
type Cohort struct {
	config   CohortConfig
	model    *TransitionModel
	outcomes []PatientOutcome
	ran      bool
}

// NewCohort validates cfg and prepares the shared transition model.
func NewCohort(cfg CohortConfig) (*Cohort, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := NewTransitionModel(cfg.Matrix)
	if err != nil {
		return nil, fmt.Errorf("%s matrix: %w", cfg.Policy, err)
	}
	return &Cohort{config: cfg, model: model}, nil
}

// Run simulates every patient. Outcomes are stored in patient-index order
// regardless of Workers. Cancelling ctx stops new patients from starting and
// Run returns ctx.Err() with no outcomes recorded.
func (c *Cohort) Run(ctx context.Context) error {
	if c.ran {
		return fmt.Errorf("cohort %d (%s): %w", c.config.ID, c.config.Policy, ErrCohortAlreadyRun)
	}
	cfg := c.config
	logrus.Infof("Simulating cohort %d: policy=%s, population=%d, horizon=%d, workers=%d",
		cfg.ID, cfg.Policy, cfg.PopulationSize, cfg.Horizon, cfg.Workers)

	key := NewSimulationKey(cfg.ID)
	outcomes := make([]PatientOutcome, cfg.PopulationSize)
	simulate := func(i int) {
		p := NewPatient(key.PatientID(cfg.PopulationSize, i), c.model, cfg.TrackedState)
		outcomes[i] = p.Simulate(cfg.Horizon)
	}

	if cfg.Workers <= 1 {
		for i := range outcomes {
			if err := ctx.Err(); err != nil {
				return err
			}
			simulate(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for i := range outcomes {
			if gctx.Err() != nil {
				break
			}
			i := i
			g.Go(func() error {
				// Each goroutine writes only its own slot.
				simulate(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	c.outcomes = outcomes
	c.ran = true

	censored := c.CensoredCount()
	if censored > 0 {
		logrus.Warnf("Cohort %d (%s): %d of %d patients censored at horizon %d",
			cfg.ID, cfg.Policy, censored, cfg.PopulationSize, cfg.Horizon)
	}
	logrus.Infof("Cohort %d (%s) complete", cfg.ID, cfg.Policy)
	return nil
}

// Config returns the cohort configuration.
func (c *Cohort) Config() CohortConfig {
	return c.config
}

// Ran reports whether Run has completed successfully.
func (c *Cohort) Ran() bool {
	return c.ran
}

// Outcomes returns a copy of the per-patient outcomes in patient-index order.
func (c *Cohort) Outcomes() []PatientOutcome {
	out := make([]PatientOutcome, len(c.outcomes))
	copy(out, c.outcomes)
	return out
}

// SurvivalTimes returns each patient's survival time in patient-index order.
func (c *Cohort) SurvivalTimes() []int {
	times := make([]int, len(c.outcomes))
	for i, o := range c.outcomes {
		times[i] = o.SurvivalTime
	}
	return times
}

// AbsorptionTimes returns the survival times of patients who reached DEATH
// before the horizon, in patient-index order.
func (c *Cohort) AbsorptionTimes() []int {
	times := make([]int, 0, len(c.outcomes))
	for _, o := range c.outcomes {
		if !o.Censored {
			times = append(times, o.SurvivalTime)
		}
	}
	return times
}

// DwellCounts returns each patient's tracked-state dwell steps in patient-index order.
func (c *Cohort) DwellCounts() []int {
	counts := make([]int, len(c.outcomes))
	for i, o := range c.outcomes {
		counts[i] = o.DwellSteps
	}
	return counts
}

// CensoredCount is the number of patients still alive at the horizon.
func (c *Cohort) CensoredCount() int {
	n := 0
	for _, o := range c.outcomes {
		if o.Censored {
			n++
		}
	}
	return n
}
