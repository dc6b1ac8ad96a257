package sim

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cohort-sim/sim/stats"
	"github.com/inference-sim/cohort-sim/sim/survival"
)

// Labels handed to the external plotting tool along with the survival paths.
const (
	SurvivalPlotTitle  = "Survival curve"
	SurvivalPlotXLabel = "Simulation time step"
	SurvivalPlotYLabel = "Number of alive patients"
)

// Print writes the comparison report.
func (c *Comparison) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Cohort Survival Comparison ===")
	for _, o := range c.Outcomes() {
		o.Print(w)
	}
	fmt.Fprintf(w, "Mean Survival Difference (treatment - baseline): %.4f steps\n", c.MeanDifference())
}

// Print writes one cohort's section of the report.
func (o *CohortOutcomes) Print(w io.Writer) {
	confidence := 100 * (1 - o.Alpha)
	fmt.Fprintf(w, "--- %s (%s) ---\n", o.Policy, o.Policy.Label())
	fmt.Fprintf(w, "Cohort ID            : %d\n", o.CohortID)
	fmt.Fprintf(w, "Population           : %d\n", o.PopulationSize)
	fmt.Fprintf(w, "Horizon              : %d steps\n", o.Horizon)
	fmt.Fprintf(w, "Mean Survival        : %.4f steps\n", o.MeanSurvival)
	fmt.Fprintf(w, "%.0f%% t-CI of Mean    : %v\n", confidence, o.SurvivalCI)
	fmt.Fprintf(w, "%.0f%% Survival Range  : %v\n", confidence, o.SurvivalPI)
	fmt.Fprintf(w, "Expected (Analytic)  : %.4f steps\n", o.ExpectedSurvival)
	fmt.Fprintf(w, "Mean %s Dwell   : %.4f steps %v\n", o.TrackedState, o.MeanDwell, o.DwellCI)
	if t, ok := o.SurvivalCurve.MedianSurvivalTime(); ok {
		fmt.Fprintf(w, "Median Survival      : %d steps\n", t)
	} else {
		fmt.Fprintf(w, "Median Survival      : not reached\n")
	}
	fmt.Fprintf(w, "Censored at Horizon  : %d\n", o.Censored)
}

// === Results export ===

// Results is the YAML document written by SaveResults.
type Results struct {
	Plot    PlotSpec        `yaml:"plot"`
	Cohorts []CohortResults `yaml:"cohorts"`

	// MeanDifference is treatment minus baseline mean survival.
	MeanDifference float64 `yaml:"mean_difference"`
}

// PlotSpec carries the labels the plotting collaborator needs.
type PlotSpec struct {
	Title   string   `yaml:"title"`
	XLabel  string   `yaml:"x_label"`
	YLabel  string   `yaml:"y_label"`
	Legends []string `yaml:"legends"`
}

// CohortResults is one policy's exported summary and survival path.
type CohortResults struct {
	Policy           string           `yaml:"policy"`
	Label            string           `yaml:"label"`
	CohortID         int64            `yaml:"cohort_id"`
	PopulationSize   int              `yaml:"population"`
	Horizon          int              `yaml:"horizon"`
	Alpha            float64          `yaml:"alpha"`
	MeanSurvival     float64          `yaml:"mean_survival"`
	SurvivalCI       stats.Interval   `yaml:"survival_ci"`
	ExpectedSurvival float64          `yaml:"expected_survival"`
	TrackedState     string           `yaml:"tracked_state"`
	MeanDwell        float64          `yaml:"mean_dwell"`
	DwellCI          stats.Interval   `yaml:"dwell_ci"`
	Censored         int              `yaml:"censored"`
	SurvivalPath     []survival.Point `yaml:"survival_path"`
}

// Results builds the exportable document.
func (c *Comparison) Results() Results {
	r := Results{
		Plot: PlotSpec{
			Title:  SurvivalPlotTitle,
			XLabel: SurvivalPlotXLabel,
			YLabel: SurvivalPlotYLabel,
		},
		MeanDifference: c.MeanDifference(),
	}
	for _, o := range c.Outcomes() {
		r.Plot.Legends = append(r.Plot.Legends, o.SurvivalCurve.Name())
		r.Cohorts = append(r.Cohorts, CohortResults{
			Policy:           string(o.Policy),
			Label:            o.Policy.Label(),
			CohortID:         o.CohortID,
			PopulationSize:   o.PopulationSize,
			Horizon:          o.Horizon,
			Alpha:            o.Alpha,
			MeanSurvival:     o.MeanSurvival,
			SurvivalCI:       o.SurvivalCI,
			ExpectedSurvival: o.ExpectedSurvival,
			TrackedState:     o.TrackedState.String(),
			MeanDwell:        o.MeanDwell,
			DwellCI:          o.DwellCI,
			Censored:         o.Censored,
			SurvivalPath:     o.SurvivalCurve.Points(),
		})
	}
	return r
}

// SaveResults writes the comparison as YAML to path.
func (c *Comparison) SaveResults(path string) error {
	data, err := yaml.Marshal(c.Results())
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results to %s: %w", path, err)
	}
	logrus.Debugf("Successfully wrote results to '%s'", path)
	return nil
}
