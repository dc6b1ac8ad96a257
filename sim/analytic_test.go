package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/cohort-sim/sim/internal/testutil"
)

func TestExpectedSurvivalTime_DefaultMatrices(t *testing.T) {
	tests := []struct {
		name   string
		matrix TransitionMatrix
		want   float64
	}{
		// WELL 8.35 transitions on average before DEATH, plus the initial step.
		{"baseline", BaselineMatrix(), 9.35},
		{"treatment", TreatmentMatrix(), 1 + (1+0.15*(1+1.1625/0.1365))/0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpectedSurvivalTime(tt.matrix)
			require.NoError(t, err)
			testutil.AssertFloat64Equal(t, "expected survival", tt.want, got, 1e-9)
		})
	}
}

func TestExpectedSurvivalTime_MatchesDeterministicPatient(t *testing.T) {
	// GIVEN a chain that always takes three transitions to reach DEATH
	m := matrixFromRows(t, testutil.StrokeThenDeathRows)

	got, err := ExpectedSurvivalTime(m)
	require.NoError(t, err)

	// THEN the analytic value equals the simulated survival time
	model, err := NewTransitionModel(m)
	require.NoError(t, err)
	out := NewPatient(1, model, Stroke).Simulate(DefaultHorizon)
	assert.InDelta(t, float64(out.SurvivalTime), got, 1e-9)
}

func TestExpectedSurvivalTime_NotAbsorbing(t *testing.T) {
	_, err := ExpectedSurvivalTime(matrixFromRows(t, testutil.NeverDieRows))
	assert.ErrorIs(t, err, ErrNotAbsorbing)
}

func TestNewCohortOutcomes_ExpectedSurvival(t *testing.T) {
	// GIVEN a cohort that can never reach DEATH
	cfg := testCohortConfig(t, 5)
	cfg.Horizon = 10
	cfg.Matrix = matrixFromRows(t, testutil.NeverDieRows)
	out, err := NewCohortOutcomes(runCohort(t, cfg), DefaultAlpha)
	require.NoError(t, err)

	// THEN the analytic expectation is reported as NaN instead of failing
	assert.True(t, math.IsNaN(out.ExpectedSurvival))

	// AND the default baseline cohort carries the finite value
	out, err = NewCohortOutcomes(runCohort(t, testCohortConfig(t, 5)), DefaultAlpha)
	require.NoError(t, err)
	assert.InDelta(t, 9.35, out.ExpectedSurvival, 1e-9)
}
