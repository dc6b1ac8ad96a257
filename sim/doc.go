// Package sim provides the discrete-time Markov cohort simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - health_state.go: the four model states and which one is absorbing
//   - transition.go: Policy, TransitionMatrix, row validation and the built-in matrices
//   - patient.go: one patient's step loop and its immutable PatientOutcome
//   - cohort.go: running a population of independent patients under one policy
//
// # Randomness
//
// Every patient owns a RandomStream seeded with its id, and ids are derived as
// cohortID*populationSize + index (see SimulationKey.PatientID). A patient's
// trajectory therefore does not depend on scheduling, so a cohort run with a
// worker pool is identical to a sequential run.
//
// # Reporting
//
// outcomes.go and comparison.go turn finished cohorts into summary statistics
// (sim/stats) and survival curves (sim/survival); report.go prints them and
// exports them as YAML for an external plotting tool. analytic.go gives the
// closed-form expected survival each simulated mean is checked against.
package sim
