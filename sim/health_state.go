package sim

import (
	"fmt"
	"strings"
)

// HealthState is a patient's position in the Markov model.
// Values are contiguous from zero so they double as row/column indices
// into a TransitionMatrix.
type HealthState int

const (
	Well HealthState = iota
	Stroke
	PostStroke
	Death
)

// NumHealthStates is the number of states in the model (and the width of every row).
const NumHealthStates = 4

// AllHealthStates lists every state in index order.
func AllHealthStates() []HealthState {
	return []HealthState{Well, Stroke, PostStroke, Death}
}

// String returns the canonical upper-case name used in config files and reports.
func (s HealthState) String() string {
	switch s {
	case Well:
		return "WELL"
	case Stroke:
		return "STROKE"
	case PostStroke:
		return "POST_STROKE"
	case Death:
		return "DEATH"
	default:
		return fmt.Sprintf("HealthState(%d)", int(s))
	}
}

// Valid reports whether s is one of the four model states.
func (s HealthState) Valid() bool {
	switch s {
	case Well, Stroke, PostStroke, Death:
		return true
	default:
		return false
	}
}

// IsAbsorbing reports whether the simulation halts on entering s.
// Panics on an unknown state: every state must be classified explicitly.
func (s HealthState) IsAbsorbing() bool {
	switch s {
	case Well, Stroke, PostStroke:
		return false
	case Death:
		return true
	default:
		panic(fmt.Sprintf("IsAbsorbing: unknown health state %d", int(s)))
	}
}

// ParseHealthState maps a state name (case-insensitive, "-" or "_" separators) to a HealthState.
func ParseHealthState(name string) (HealthState, error) {
	switch strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), "-", "_") {
	case "WELL":
		return Well, nil
	case "STROKE":
		return Stroke, nil
	case "POST_STROKE", "P_STROKE":
		return PostStroke, nil
	case "DEATH":
		return Death, nil
	default:
		return 0, fmt.Errorf("%w: %q; valid: WELL, STROKE, POST_STROKE, DEATH", ErrInvalidHealthState, name)
	}
}
