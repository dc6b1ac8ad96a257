package sim

import "fmt"

// PatientOutcome is the immutable result of one patient's simulation.
type PatientOutcome struct {
	PatientID int64
	// SurvivalTime is the number of elapsed steps plus one, whether the patient
	// was absorbed or censored at the horizon.
	SurvivalTime int
	// DwellSteps counts steps spent in the tracked state, credited to the step
	// that leaves (or stays in) that state.
	DwellSteps int
	FinalState HealthState
	// Censored is true when the horizon was reached before absorption.
	Censored bool
}

// TransitionModel is a validated matrix with one prebuilt sampler per source state.
// Immutable once built, so a single model is shared by every patient of a cohort.
type TransitionModel struct {
	matrix   TransitionMatrix
	samplers [NumHealthStates]*EmpiricalSampler
}

// NewTransitionModel validates m and prepares its samplers.
func NewTransitionModel(m TransitionMatrix) (*TransitionModel, error) {
	tm := &TransitionModel{matrix: m}
	for _, s := range AllHealthStates() {
		sampler, err := NewEmpiricalSampler(m.Row(s))
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", s, err)
		}
		tm.samplers[s] = sampler
	}
	return tm, nil
}

// Matrix returns a copy of the underlying matrix.
func (tm *TransitionModel) Matrix() TransitionMatrix {
	return tm.matrix
}

// Next samples the state that follows from using draw u.
func (tm *TransitionModel) Next(from HealthState, u float64) HealthState {
	switch from {
	case Well, Stroke, PostStroke, Death:
		return HealthState(tm.samplers[from].Sample(u))
	default:
		panic(fmt.Sprintf("Next: unknown health state %d", int(from)))
	}
}

// Patient is one simulated individual. Its random stream is created from its id
// at the start of Simulate, so calling Simulate again replays the same trajectory.
type Patient struct {
	id      int64
	model   *TransitionModel
	tracked HealthState
}

// NewPatient creates a patient with the given id, transition model and tracked dwell state.
func NewPatient(id int64, model *TransitionModel, tracked HealthState) *Patient {
	return &Patient{id: id, model: model, tracked: tracked}
}

// ID returns the patient id.
func (p *Patient) ID() int64 {
	return p.id
}

// Simulate runs the patient from WELL until DEATH or until horizon steps have elapsed.
func (p *Patient) Simulate(horizon int) PatientOutcome {
	rng := NewRandomStream(p.id)
	state := Well
	dwell := 0
	k := 0
	for !state.IsAbsorbing() && k < horizon {
		next := p.model.Next(state, rng.NextUniform())
		if state == p.tracked {
			dwell++
		}
		state = next
		k++
	}
	return PatientOutcome{
		PatientID:    p.id,
		SurvivalTime: k + 1,
		DwellSteps:   dwell,
		FinalState:   state,
		Censored:     !state.IsAbsorbing(),
	}
}
