package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/cohort-sim/sim/internal/testutil"
	"github.com/inference-sim/cohort-sim/sim/survival"
)

func TestNewCohortOutcomes_RequiresRun(t *testing.T) {
	c, err := NewCohort(testCohortConfig(t, 10))
	require.NoError(t, err)
	_, err = NewCohortOutcomes(c, DefaultAlpha)
	assert.Error(t, err)
}

func TestNewCohortOutcomes_SummaryMatchesRawSample(t *testing.T) {
	// GIVEN a simulated baseline cohort
	c := runCohort(t, testCohortConfig(t, 400))

	// WHEN outcomes are extracted
	o, err := NewCohortOutcomes(c, DefaultAlpha)
	require.NoError(t, err)

	// THEN the mean is the plain average of the survival times
	sum := 0
	for _, st := range o.SurvivalTimes {
		sum += st
	}
	testutil.AssertFloat64Equal(t, "mean survival", float64(sum)/400, o.MeanSurvival, 1e-12)
	assert.True(t, o.SurvivalCI.Contains(o.MeanSurvival))
	assert.Greater(t, o.SurvivalCI.Width(), 0.0)
	assert.LessOrEqual(t, o.SurvivalPI.Lower, o.SurvivalPI.Upper)
	assert.True(t, o.DwellCI.Contains(o.MeanDwell))
	assert.Equal(t, c.CensoredCount(), o.Censored)
	assert.Equal(t, Stroke, o.TrackedState)
}

func TestNewCohortOutcomes_SurvivalCurve(t *testing.T) {
	c := runCohort(t, testCohortConfig(t, 400))
	o, err := NewCohortOutcomes(c, DefaultAlpha)
	require.NoError(t, err)

	points := o.SurvivalCurve.Points()
	require.NotEmpty(t, points)
	assert.Equal(t, survival.Point{Time: 0, Alive: 400}, points[0])
	assert.Equal(t, "No Drug", o.SurvivalCurve.Name())

	alive := make([]int, len(points))
	for i, p := range points {
		alive[i] = p.Alive
	}
	testutil.AssertNonIncreasing(t, "alive count", alive)
	// Censored patients never leave the curve.
	assert.Equal(t, o.Censored, o.SurvivalCurve.Final().Alive)
}

func TestNewCohortOutcomes_CensoredPatientsStayOnCurve(t *testing.T) {
	// GIVEN a horizon so short that some patients survive it
	cfg := testCohortConfig(t, 200)
	cfg.Horizon = 3
	c := runCohort(t, cfg)
	require.Greater(t, c.CensoredCount(), 0)

	o, err := NewCohortOutcomes(c, DefaultAlpha)
	require.NoError(t, err)

	// THEN the curve ends at the number of censored survivors
	assert.Equal(t, c.CensoredCount(), o.SurvivalCurve.Final().Alive)
	assert.Len(t, c.AbsorptionTimes(), 200-c.CensoredCount())
}

func TestNewCohortOutcomes_SinglePatientHasDegenerateInterval(t *testing.T) {
	c := runCohort(t, testCohortConfig(t, 1))
	o, err := NewCohortOutcomes(c, DefaultAlpha)
	require.NoError(t, err)
	assert.Equal(t, o.MeanSurvival, o.SurvivalCI.Lower)
	assert.Equal(t, o.MeanSurvival, o.SurvivalCI.Upper)
}

func TestNewCohortOutcomes_DeterministicMatrixGivesZeroWidthInterval(t *testing.T) {
	// GIVEN every patient follows WELL -> STROKE -> POST_STROKE -> DEATH
	cfg := testCohortConfig(t, 50)
	cfg.Matrix = matrixFromRows(t, testutil.StrokeThenDeathRows)
	c := runCohort(t, cfg)

	o, err := NewCohortOutcomes(c, DefaultAlpha)
	require.NoError(t, err)

	// THEN survival is exactly 4 for everyone and both intervals collapse
	assert.Equal(t, 4.0, o.MeanSurvival)
	assert.InDelta(t, 0, o.SurvivalCI.Width(), 1e-12)
	assert.Equal(t, 1.0, o.MeanDwell)
	assert.InDelta(t, 0, o.DwellCI.Width(), 1e-12)
	assert.Equal(t, []survival.Point{{Time: 0, Alive: 50}, {Time: 4, Alive: 0}}, o.SurvivalCurve.Points())
}
