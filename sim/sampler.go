package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// EmpiricalSampler draws a categorical index from a fixed probability vector
// by inverse CDF. The CDF is computed once; Sample is allocation-free and safe
// for concurrent use since the sampler is never mutated after construction.
type EmpiricalSampler struct {
	cdf      []float64 // cumulative probabilities in index order
	lastSafe int       // last index with non-zero probability
}

// NewEmpiricalSampler validates probs (see ValidateRow) and builds the sampler.
func NewEmpiricalSampler(probs []float64) (*EmpiricalSampler, error) {
	if err := ValidateRow(probs); err != nil {
		return nil, err
	}
	cdf := make([]float64, len(probs))
	cumulative := 0.0
	lastSafe := 0
	for i, p := range probs {
		cumulative += p
		cdf[i] = cumulative
		if p > 0 {
			lastSafe = i
		}
	}
	return &EmpiricalSampler{cdf: cdf, lastSafe: lastSafe}, nil
}

// Sample returns the smallest index whose cumulative probability is strictly
// greater than u. A draw at or past the final cumulative sum (floating-point
// shortfall in the row) is clamped to the last index with non-zero probability.
func (s *EmpiricalSampler) Sample(u float64) int {
	for i, c := range s.cdf {
		if c > u {
			return i
		}
	}
	logrus.Tracef("empirical sampler: draw %v at or beyond cdf tail %v; clamping to index %d",
		u, s.cdf[len(s.cdf)-1], s.lastSafe)
	return s.lastSafe
}

// Len is the number of categories.
func (s *EmpiricalSampler) Len() int {
	return len(s.cdf)
}

// String renders the CDF for debug logs.
func (s *EmpiricalSampler) String() string {
	return fmt.Sprintf("EmpiricalSampler{cdf=%v}", s.cdf)
}
