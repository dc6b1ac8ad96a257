package sim

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrNotAbsorbing is returned when DEATH is unreachable from some transient state,
// so the expected time to absorption is infinite.
var ErrNotAbsorbing = errors.New("absorbing state is not reachable")

// ExpectedSurvivalTime is the expected survival time of a patient starting in
// WELL with no horizon, under the same steps+1 convention as PatientOutcome.
// It solves (I - Q) t = 1 where Q is the transient-to-transient block of m.
func ExpectedSurvivalTime(m TransitionMatrix) (float64, error) {
	var transient []HealthState
	for _, s := range AllHealthStates() {
		if !s.IsAbsorbing() {
			transient = append(transient, s)
		}
	}
	n := len(transient)

	a := mat.NewDense(n, n, nil)
	for i, from := range transient {
		row := m.Row(from)
		for j, to := range transient {
			v := -row[to]
			if i == j {
				v += 1
			}
			a.Set(i, j, v)
		}
	}
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}

	var steps mat.VecDense
	if err := steps.SolveVec(a, mat.NewVecDense(n, ones)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotAbsorbing, err)
	}
	for i, s := range transient {
		if s == Well {
			return steps.AtVec(i) + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: WELL is not transient", ErrNotAbsorbing)
}
