// Package stats summarizes simulated samples: point estimates and interval
// estimates for the mean.
package stats

import (
	"errors"
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrEmptySample         = errors.New("empty sample")
	ErrInsufficientSample  = errors.New("insufficient sample: need at least 2 observations")
	ErrInvalidSignificance = errors.New("significance level must be in (0, 1)")
)

// Interval is a two-sided interval estimate.
type Interval struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
}

// Width returns Upper - Lower.
func (iv Interval) Width() float64 {
	return iv.Upper - iv.Lower
}

// Contains reports whether x lies in [Lower, Upper].
func (iv Interval) Contains(x float64) bool {
	return x >= iv.Lower && x <= iv.Upper
}

func (iv Interval) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", iv.Lower, iv.Upper)
}

// SummaryStat wraps a named sample. It never mutates the sample; every
// statistic is recomputed on demand.
type SummaryStat struct {
	name string
	data mstats.Float64Data
}

// NewSummaryStat copies sample into a new SummaryStat.
func NewSummaryStat(name string, sample []float64) *SummaryStat {
	data := make(mstats.Float64Data, len(sample))
	copy(data, sample)
	return &SummaryStat{name: name, data: data}
}

// FromInts builds a SummaryStat from an integer sample (survival times, dwell counts).
func FromInts(name string, sample []int) *SummaryStat {
	return &SummaryStat{name: name, data: mstats.LoadRawData(sample)}
}

// Name returns the label given at construction.
func (s *SummaryStat) Name() string {
	return s.name
}

// N is the sample size.
func (s *SummaryStat) N() int {
	return len(s.data)
}

// Mean is the arithmetic average.
func (s *SummaryStat) Mean() (float64, error) {
	if len(s.data) == 0 {
		return 0, fmt.Errorf("%s: %w", s.name, ErrEmptySample)
	}
	return mstats.Mean(s.data)
}

// Variance is the sample variance (divides by n-1).
func (s *SummaryStat) Variance() (float64, error) {
	if err := s.requireN(2); err != nil {
		return 0, err
	}
	return mstats.SampleVariance(s.data)
}

// StDev is the sample standard deviation (divides by n-1).
func (s *SummaryStat) StDev() (float64, error) {
	v, err := s.Variance()
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// Min returns the smallest observation.
func (s *SummaryStat) Min() (float64, error) {
	if len(s.data) == 0 {
		return 0, fmt.Errorf("%s: %w", s.name, ErrEmptySample)
	}
	return mstats.Min(s.data)
}

// Max returns the largest observation.
func (s *SummaryStat) Max() (float64, error) {
	if len(s.data) == 0 {
		return 0, fmt.Errorf("%s: %w", s.name, ErrEmptySample)
	}
	return mstats.Max(s.data)
}

// TConfidenceInterval returns mean ± t(1-alpha/2, n-1) * s/sqrt(n).
// A constant sample yields a zero-width interval at the mean.
func (s *SummaryStat) TConfidenceInterval(alpha float64) (Interval, error) {
	if err := validateAlpha(alpha); err != nil {
		return Interval{}, err
	}
	if err := s.requireN(2); err != nil {
		return Interval{}, err
	}
	mean, err := s.Mean()
	if err != nil {
		return Interval{}, err
	}
	sd, err := s.StDev()
	if err != nil {
		return Interval{}, err
	}
	n := float64(len(s.data))
	t := TCritical(alpha, n-1)
	margin := t * sd / math.Sqrt(n)
	return Interval{Lower: mean - margin, Upper: mean + margin}, nil
}

// PercentileInterval returns the (alpha/2, 1-alpha/2) empirical percentiles of
// the sample: the range expected to hold 100(1-alpha)% of observations.
func (s *SummaryStat) PercentileInterval(alpha float64) (Interval, error) {
	if err := validateAlpha(alpha); err != nil {
		return Interval{}, err
	}
	if len(s.data) == 0 {
		return Interval{}, fmt.Errorf("%s: %w", s.name, ErrEmptySample)
	}
	lower, err := mstats.Percentile(s.data, 100*alpha/2)
	if err != nil {
		// Percentile rank below the first observation in small samples.
		if lower, err = mstats.Min(s.data); err != nil {
			return Interval{}, fmt.Errorf("%s: lower percentile: %w", s.name, err)
		}
	}
	upper, err := mstats.Percentile(s.data, 100*(1-alpha/2))
	if err != nil {
		return Interval{}, fmt.Errorf("%s: upper percentile: %w", s.name, err)
	}
	return Interval{Lower: lower, Upper: upper}, nil
}

// TCritical is the two-sided Student's-t critical value t(1-alpha/2, df).
func TCritical(alpha, df float64) float64 {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - alpha/2)
}

func (s *SummaryStat) requireN(min int) error {
	if len(s.data) == 0 {
		return fmt.Errorf("%s: %w", s.name, ErrEmptySample)
	}
	if len(s.data) < min {
		return fmt.Errorf("%s: got %d observation(s): %w", s.name, len(s.data), ErrInsufficientSample)
	}
	return nil
}

func validateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return fmt.Errorf("%w, got %v", ErrInvalidSignificance, alpha)
	}
	return nil
}
