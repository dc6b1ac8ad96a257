package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// === SimulationKey Tests ===

func TestSimulationKey_PatientID(t *testing.T) {
	tests := []struct {
		name       string
		cohortID   int64
		population int
		index      int
		want       int64
	}{
		{"first patient of cohort 1", 1, 2000, 0, 2000},
		{"last patient of cohort 1", 1, 2000, 1999, 3999},
		{"cohort 0", 0, 2000, 5, 5},
		{"cohort 2 follows cohort 1", 2, 2000, 0, 4000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSimulationKey(tt.cohortID).PatientID(tt.population, tt.index)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimulationKey_NoCollisionAcrossCohorts(t *testing.T) {
	// BDD: cohorts sharing a population size get disjoint id ranges
	const population = 50
	seen := make(map[int64]bool)
	for cohort := int64(0); cohort < 4; cohort++ {
		key := NewSimulationKey(cohort)
		for i := 0; i < population; i++ {
			id := key.PatientID(population, i)
			assert.False(t, seen[id], "id %d reused", id)
			seen[id] = true
		}
	}
}

// === RandomStream Tests ===

func TestRandomStream_DeterministicPerSeed(t *testing.T) {
	// BDD: same seed produces same sequence
	a := NewRandomStream(2001)
	b := NewRandomStream(2001)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.NextUniform(), b.NextUniform(), "draw %d", i)
	}
}

func TestRandomStream_DifferentSeedsDiverge(t *testing.T) {
	a := NewRandomStream(1)
	b := NewRandomStream(2)
	same := 0
	for i := 0; i < 10; i++ {
		if a.NextUniform() == b.NextUniform() {
			same++
		}
	}
	assert.Less(t, same, 10, "streams with different seeds must not be identical")
}

func TestRandomStream_DrawsInUnitInterval(t *testing.T) {
	seeds := []int64{0, 1, -1, math.MaxInt64, math.MinInt64}
	for _, seed := range seeds {
		r := NewRandomStream(seed)
		assert.Equal(t, seed, r.Seed())
		for i := 0; i < 1000; i++ {
			u := r.NextUniform()
			if u < 0 || u >= 1 {
				t.Fatalf("seed %d draw %d: %v outside [0, 1)", seed, i, u)
			}
		}
	}
}
