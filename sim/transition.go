package sim

import (
	"fmt"
	"math"
)

// RowSumTolerance bounds |sum(row) - 1| for a row to be accepted.
const RowSumTolerance = 1e-9

// === Policy ===

// Policy selects which transition matrix a cohort is simulated under.
type Policy string

const (
	PolicyBaseline  Policy = "baseline"
	PolicyTreatment Policy = "treatment"
)

// AllPolicies lists the policies in report order.
func AllPolicies() []Policy {
	return []Policy{PolicyBaseline, PolicyTreatment}
}

// Label is the legend used for this policy's survival curve.
func (p Policy) Label() string {
	switch p {
	case PolicyBaseline:
		return "No Drug"
	case PolicyTreatment:
		return "With Drug"
	default:
		return string(p)
	}
}

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case PolicyBaseline, PolicyTreatment:
		return Policy(name), nil
	default:
		return "", fmt.Errorf("%w %q; valid: baseline, treatment", ErrUnknownPolicy, name)
	}
}

// === TransitionMatrix ===

// TransitionMatrix holds one probability row per source state, indexed by HealthState.
// It is a value type: copies never alias, so a matrix handed to a cohort cannot be
// changed underneath it.
type TransitionMatrix [NumHealthStates][NumHealthStates]float64

// absorbingRow is the DEATH row. It is never sampled; it exists so every row validates.
var absorbingRow = [NumHealthStates]float64{0, 0, 0, 1}

// NewTransitionMatrix builds a matrix from per-state rows. The DEATH row may be omitted
// and defaults to the absorbing identity row; every other state must be present.
// The result is validated before it is returned.
func NewTransitionMatrix(rows map[HealthState][]float64) (TransitionMatrix, error) {
	var m TransitionMatrix
	for _, s := range AllHealthStates() {
		row, ok := rows[s]
		if !ok {
			if s.IsAbsorbing() {
				m[s] = absorbingRow
				continue
			}
			return TransitionMatrix{}, fmt.Errorf("%w: missing row for %s", ErrInvalidTransitionRow, s)
		}
		if len(row) != NumHealthStates {
			return TransitionMatrix{}, fmt.Errorf("%w: row %s has %d entries, want %d",
				ErrInvalidTransitionRow, s, len(row), NumHealthStates)
		}
		copy(m[s][:], row)
	}
	for s := range rows {
		if !s.Valid() {
			return TransitionMatrix{}, fmt.Errorf("%w: row for %s", ErrInvalidHealthState, s)
		}
	}
	if err := m.Validate(); err != nil {
		return TransitionMatrix{}, err
	}
	return m, nil
}

// Row returns the outgoing probability vector for state s.
func (m TransitionMatrix) Row(s HealthState) []float64 {
	switch s {
	case Well, Stroke, PostStroke, Death:
		row := m[s]
		return row[:]
	default:
		panic(fmt.Sprintf("Row: unknown health state %d", int(s)))
	}
}

// Validate checks every row: entries finite and non-negative, sum within RowSumTolerance of 1.
func (m TransitionMatrix) Validate() error {
	for _, s := range AllHealthStates() {
		if err := ValidateRow(m.Row(s)); err != nil {
			return fmt.Errorf("row %s: %w", s, err)
		}
	}
	return nil
}

// ValidateRow checks a single probability vector.
func ValidateRow(row []float64) error {
	if len(row) == 0 {
		return fmt.Errorf("%w: empty row", ErrInvalidTransitionRow)
	}
	sum := 0.0
	for i, p := range row {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: entry %d must be a finite number, got %f", ErrInvalidTransitionRow, i, p)
		}
		if p < 0 {
			return fmt.Errorf("%w: entry %d must be non-negative, got %f", ErrInvalidTransitionRow, i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > RowSumTolerance {
		return fmt.Errorf("%w: entries sum to %.12f, want 1", ErrInvalidTransitionRow, sum)
	}
	return nil
}

// === Defaults ===

// BaselineMatrix is the no-treatment model.
func BaselineMatrix() TransitionMatrix {
	return TransitionMatrix{
		Well:       {0.75, 0.15, 0, 0.1},
		Stroke:     {0, 0, 1, 0},
		PostStroke: {0, 0.25, 0.55, 0.2},
		Death:      absorbingRow,
	}
}

// TreatmentMatrix differs from BaselineMatrix only in the POST_STROKE row:
// treatment lowers both stroke recurrence and death.
func TreatmentMatrix() TransitionMatrix {
	m := BaselineMatrix()
	m[PostStroke] = [NumHealthStates]float64{0, 0.1625, 0.701, 0.1365}
	return m
}

// DefaultMatrix returns a fresh copy of the built-in matrix for policy p.
func DefaultMatrix(p Policy) (TransitionMatrix, error) {
	switch p {
	case PolicyBaseline:
		return BaselineMatrix(), nil
	case PolicyTreatment:
		return TreatmentMatrix(), nil
	default:
		return TransitionMatrix{}, fmt.Errorf("%w %q", ErrUnknownPolicy, p)
	}
}
