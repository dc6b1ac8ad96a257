package sim

import (
	"math/rand"
)

// === SimulationKey ===

// SimulationKey identifies a reproducible cohort run. It is the cohort id:
// two cohorts with the same key, population size and configuration MUST
// produce bit-for-bit identical outcomes.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a cohort id.
func NewSimulationKey(cohortID int64) SimulationKey {
	return SimulationKey(cohortID)
}

// PatientID returns the globally unique id of the index-th patient of a cohort
// of size populationSize: key*populationSize + index. Cohorts that share a
// population size never collide.
func (k SimulationKey) PatientID(populationSize, index int) int64 {
	return int64(k)*int64(populationSize) + int64(index)
}

// === RandomStream ===

// RandomStream is one patient's private uniform source.
// The stream is seeded from the patient id, so a patient's trajectory is the
// same in every run regardless of how many other patients are simulated or in
// which order.
//
// Thread-safety: NOT thread-safe. Owned by exactly one patient.
type RandomStream struct {
	seed int64
	rng  *rand.Rand
}

// NewRandomStream creates a stream seeded with seed.
func NewRandomStream(seed int64) *RandomStream {
	return &RandomStream{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// NextUniform returns the next draw in [0, 1).
func (r *RandomStream) NextUniform() float64 {
	return r.rng.Float64()
}

// Seed returns the seed this stream was created with.
func (r *RandomStream) Seed() int64 {
	return r.seed
}
