package sim

import "errors"

// Configuration errors. All of them are raised before any patient is simulated.
var (
	ErrInvalidTransitionRow  = errors.New("invalid transition row")
	ErrInvalidPopulationSize = errors.New("invalid population size")
	ErrInvalidHorizon        = errors.New("invalid horizon")
	ErrInvalidHealthState    = errors.New("invalid health state")
	ErrUnknownPolicy         = errors.New("unknown policy")
	ErrCohortAlreadyRun      = errors.New("cohort already simulated")
)
