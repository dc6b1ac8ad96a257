// Package testutil provides shared test infrastructure for the cohort simulator.
// It consolidates matrix fixtures and assertion helpers used across sim/ and
// its sub-packages' tests.
package testutil

import (
	"math"
	"testing"
)

// Rows of a 4-state model in [WELL, STROKE, POST_STROKE, DEATH] order.
var (
	// ImmediateDeathRows sends WELL straight to DEATH with certainty.
	ImmediateDeathRows = [][]float64{
		{0, 0, 0, 1},
		{0, 0, 0, 1},
		{0, 0, 0, 1},
		{0, 0, 0, 1},
	}

	// NeverDieRows keeps every patient in WELL forever.
	NeverDieRows = [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}

	// StrokeThenDeathRows is WELL → STROKE → POST_STROKE → DEATH, deterministically.
	StrokeThenDeathRows = [][]float64{
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{0, 0, 0, 1},
	}
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertNonIncreasing fails if any value is larger than its predecessor.
func AssertNonIncreasing(t *testing.T, name string, values []int) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			t.Errorf("%s: value %d at index %d exceeds previous %d", name, values[i], i, values[i-1])
			return
		}
	}
}
