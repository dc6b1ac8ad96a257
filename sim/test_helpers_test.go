package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// matrixFromRows builds a validated matrix from rows in HealthState order.
func matrixFromRows(t *testing.T, rows [][]float64) TransitionMatrix {
	t.Helper()
	byState := make(map[HealthState][]float64, len(rows))
	for i, row := range rows {
		byState[HealthState(i)] = row
	}
	m, err := NewTransitionMatrix(byState)
	require.NoError(t, err)
	return m
}

// modelFromRows builds a TransitionModel from rows in HealthState order.
func modelFromRows(t *testing.T, rows [][]float64) *TransitionModel {
	t.Helper()
	tm, err := NewTransitionModel(matrixFromRows(t, rows))
	require.NoError(t, err)
	return tm
}

// testCohortConfig is a small baseline cohort that runs quickly.
func testCohortConfig(t *testing.T, population int) CohortConfig {
	t.Helper()
	cfg, err := DefaultCohortConfig(PolicyBaseline)
	require.NoError(t, err)
	cfg.PopulationSize = population
	return cfg
}

// runCohort creates and runs a cohort, failing the test on any error.
func runCohort(t *testing.T, cfg CohortConfig) *Cohort {
	t.Helper()
	c, err := NewCohort(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Run(context.Background()))
	return c
}
