package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cohort-sim/sim/stats"
	"github.com/inference-sim/cohort-sim/sim/survival"
)

// DefaultAlpha is the significance level for reported confidence intervals.
const DefaultAlpha = 0.05

// CohortOutcomes holds what is reported about a simulated cohort.
type CohortOutcomes struct {
	CohortID       int64
	Policy         Policy
	PopulationSize int
	Horizon        int
	Alpha          float64
	TrackedState   HealthState

	SurvivalTimes []int
	DwellCounts   []int

	MeanSurvival float64
	SurvivalCI   stats.Interval
	SurvivalPI   stats.Interval // percentile interval of individual survival times
	MeanDwell    float64
	DwellCI      stats.Interval
	Censored     int

	// ExpectedSurvival is the analytic mean survival ignoring the horizon;
	// NaN when DEATH is unreachable.
	ExpectedSurvival float64

	SurvivalCurve *survival.SurvivalPath
}

// NewCohortOutcomes extracts outcomes from a cohort that has been run.
// alpha is the significance level for both intervals.
func NewCohortOutcomes(c *Cohort, alpha float64) (*CohortOutcomes, error) {
	if !c.Ran() {
		return nil, fmt.Errorf("cohort %d (%s) has not been simulated", c.config.ID, c.config.Policy)
	}
	cfg := c.Config()
	out := &CohortOutcomes{
		CohortID:       cfg.ID,
		Policy:         cfg.Policy,
		PopulationSize: cfg.PopulationSize,
		Horizon:        cfg.Horizon,
		Alpha:          alpha,
		TrackedState:   cfg.TrackedState,
		SurvivalTimes:  c.SurvivalTimes(),
		DwellCounts:    c.DwellCounts(),
		Censored:       c.CensoredCount(),
	}

	var err error
	survivalStat := out.SurvivalStat()
	if out.MeanSurvival, err = survivalStat.Mean(); err != nil {
		return nil, err
	}
	if out.SurvivalPI, err = survivalStat.PercentileInterval(alpha); err != nil {
		return nil, err
	}

	dwellStat := out.DwellStat()
	if out.MeanDwell, err = dwellStat.Mean(); err != nil {
		return nil, err
	}

	// A single-patient cohort has no interval estimate; leave the CIs at the
	// mean rather than failing the whole report.
	if cfg.PopulationSize >= 2 {
		if out.SurvivalCI, err = survivalStat.TConfidenceInterval(alpha); err != nil {
			return nil, err
		}
		if out.DwellCI, err = dwellStat.TConfidenceInterval(alpha); err != nil {
			return nil, err
		}
	} else {
		logrus.Warnf("Cohort %d (%s): population of 1, confidence intervals not computed", cfg.ID, cfg.Policy)
		out.SurvivalCI = stats.Interval{Lower: out.MeanSurvival, Upper: out.MeanSurvival}
		out.DwellCI = stats.Interval{Lower: out.MeanDwell, Upper: out.MeanDwell}
	}

	if out.ExpectedSurvival, err = ExpectedSurvivalTime(cfg.Matrix); err != nil {
		logrus.Debugf("Cohort %d (%s): no analytic expectation: %v", cfg.ID, cfg.Policy, err)
		out.ExpectedSurvival = math.NaN()
	}

	// Only absorbed patients leave the curve; censored ones keep it above zero.
	out.SurvivalCurve, err = survival.NewSurvivalPath(cfg.Policy.Label(), cfg.PopulationSize, c.AbsorptionTimes())
	if err != nil {
		return nil, err
	}

	logrus.Debugf("Cohort %d (%s): mean survival %.4f %v, mean %s dwell %.4f",
		cfg.ID, cfg.Policy, out.MeanSurvival, out.SurvivalCI, cfg.TrackedState, out.MeanDwell)
	return out, nil
}

// SurvivalStat wraps the survival-time sample for further analysis.
func (o *CohortOutcomes) SurvivalStat() *stats.SummaryStat {
	return stats.FromInts(fmt.Sprintf("survival time (%s)", o.Policy), o.SurvivalTimes)
}

// DwellStat wraps the dwell-count sample.
func (o *CohortOutcomes) DwellStat() *stats.SummaryStat {
	return stats.FromInts(fmt.Sprintf("%s dwell steps (%s)", o.TrackedState, o.Policy), o.DwellCounts)
}
