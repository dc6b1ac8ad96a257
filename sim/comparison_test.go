package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallExperiment() ExperimentConfig {
	e := DefaultExperimentConfig()
	e.PopulationSize = 300
	return e
}

func TestRunComparison_BothPoliciesReported(t *testing.T) {
	// GIVEN the default experiment on a small population
	e := smallExperiment()

	// WHEN both cohorts are simulated
	cmp, err := RunComparison(context.Background(), e)
	require.NoError(t, err)

	// THEN each policy has its own outcomes under the shared cohort id
	require.NotNil(t, cmp.Baseline)
	require.NotNil(t, cmp.Treatment)
	assert.Equal(t, PolicyBaseline, cmp.Baseline.Policy)
	assert.Equal(t, PolicyTreatment, cmp.Treatment.Policy)
	for _, o := range cmp.Outcomes() {
		assert.Equal(t, e.CohortID, o.CohortID)
		assert.Len(t, o.SurvivalTimes, e.PopulationSize)
		for _, st := range o.SurvivalTimes {
			assert.GreaterOrEqual(t, st, 1)
			assert.LessOrEqual(t, st, e.Horizon+1)
		}
	}
	assert.InDelta(t, cmp.Treatment.MeanSurvival-cmp.Baseline.MeanSurvival, cmp.MeanDifference(), 1e-12)
}

func TestRunComparison_MatchesIndividualCohorts(t *testing.T) {
	// BDD: running the pair concurrently is the same as running each cohort alone
	e := smallExperiment()
	e.Workers = 4
	cmp, err := RunComparison(context.Background(), e)
	require.NoError(t, err)

	for _, o := range cmp.Outcomes() {
		cfg, err := e.CohortConfig(o.Policy)
		require.NoError(t, err)
		cfg.Workers = 1
		assert.Equal(t, runCohort(t, cfg).SurvivalTimes(), o.SurvivalTimes, "policy %s", o.Policy)
	}
}

func TestRunComparison_SharedStreamsBeforePostStroke(t *testing.T) {
	// GIVEN both policies share cohort id and differ only in the POST_STROKE row
	cmp, err := RunComparison(context.Background(), smallExperiment())
	require.NoError(t, err)

	// THEN a patient who died without ever having a stroke dies at the same step
	// under both policies (dwell count 0 means STROKE, and so POST_STROKE, never visited)
	for i := range cmp.Baseline.SurvivalTimes {
		if cmp.Baseline.DwellCounts[i] == 0 && cmp.Treatment.DwellCounts[i] == 0 {
			assert.Equal(t, cmp.Baseline.SurvivalTimes[i], cmp.Treatment.SurvivalTimes[i], "patient %d", i)
		}
	}
}

func TestRunComparison_InvalidConfigRunsNothing(t *testing.T) {
	badTreatment := smallExperiment()
	badTreatment.Matrices = map[Policy]TransitionMatrix{
		PolicyBaseline:  BaselineMatrix(),
		PolicyTreatment: TreatmentMatrix(),
	}
	m := badTreatment.Matrices[PolicyTreatment]
	m[PostStroke][1] = 0.5
	badTreatment.Matrices[PolicyTreatment] = m

	missing := smallExperiment()
	missing.Matrices = map[Policy]TransitionMatrix{PolicyBaseline: BaselineMatrix()}

	badPopulation := smallExperiment()
	badPopulation.PopulationSize = 0

	tests := []struct {
		name string
		cfg  ExperimentConfig
		want error
	}{
		{"invalid treatment row", badTreatment, ErrInvalidTransitionRow},
		{"missing treatment matrix", missing, ErrUnknownPolicy},
		{"zero population", badPopulation, ErrInvalidPopulationSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := RunComparison(context.Background(), tt.cfg)
			assert.Nil(t, cmp)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExperimentConfig_RejectsAlpha(t *testing.T) {
	for _, alpha := range []float64{0, 1, -0.05, 1.5} {
		e := smallExperiment()
		e.Alpha = alpha
		assert.Error(t, e.Validate(), "alpha %v", alpha)
	}
}
