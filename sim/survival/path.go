// Package survival turns per-patient absorption times into the alive-count
// series plotted as a survival curve.
package survival

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidPopulation   = errors.New("initial population must be positive")
	ErrTooManyObservations = errors.New("more survival times than initial population")
	ErrNegativeTime        = errors.New("survival time must be non-negative")
)

// Point is one observation of the alive count.
type Point struct {
	Time  int `yaml:"time"`
	Alive int `yaml:"alive"`
}

// SurvivalPath is an immutable, non-increasing series of alive counts that
// starts at (0, initial population). Patients sharing a survival time are
// removed together in a single point.
type SurvivalPath struct {
	name    string
	initial int
	points  []Point
}

// NewSurvivalPath builds the series from survival times. Input order does not matter.
// Times equal to zero are folded into the starting point.
func NewSurvivalPath(name string, initialPopulation int, survivalTimes []int) (*SurvivalPath, error) {
	if initialPopulation <= 0 {
		return nil, fmt.Errorf("%s: %w, got %d", name, ErrInvalidPopulation, initialPopulation)
	}
	if len(survivalTimes) > initialPopulation {
		return nil, fmt.Errorf("%s: %w (%d > %d)", name, ErrTooManyObservations, len(survivalTimes), initialPopulation)
	}

	deaths := make(map[int]int)
	for i, t := range survivalTimes {
		if t < 0 {
			return nil, fmt.Errorf("%s: observation %d: %w, got %d", name, i, ErrNegativeTime, t)
		}
		deaths[t]++
	}
	times := make([]int, 0, len(deaths))
	for t := range deaths {
		times = append(times, t)
	}
	sort.Ints(times)

	alive := initialPopulation
	points := make([]Point, 0, len(times)+1)
	points = append(points, Point{Time: 0, Alive: alive})
	for _, t := range times {
		alive -= deaths[t]
		if t == 0 {
			points[0].Alive = alive
			continue
		}
		points = append(points, Point{Time: t, Alive: alive})
	}

	return &SurvivalPath{name: name, initial: initialPopulation, points: points}, nil
}

// Name is the series label (the plot legend).
func (p *SurvivalPath) Name() string {
	return p.name
}

// InitialPopulation is the alive count before any absorption.
func (p *SurvivalPath) InitialPopulation() int {
	return p.initial
}

// Points returns a copy of the series in time order.
func (p *SurvivalPath) Points() []Point {
	out := make([]Point, len(p.points))
	copy(out, p.points)
	return out
}

// Final is the last point of the series. Alive > 0 means some patients were censored.
func (p *SurvivalPath) Final() Point {
	return p.points[len(p.points)-1]
}

// AliveAt returns the alive count at time t, treating the series as a
// right-continuous step function. Times before 0 report the initial population.
func (p *SurvivalPath) AliveAt(t int) int {
	if t < 0 {
		return p.initial
	}
	// First point with Time > t; the answer is the one before it.
	i := sort.Search(len(p.points), func(i int) bool { return p.points[i].Time > t })
	return p.points[i-1].Alive
}

// MedianSurvivalTime is the first time at which at most half of the initial
// population is alive. ok is false if the curve never gets there.
func (p *SurvivalPath) MedianSurvivalTime() (t int, ok bool) {
	for _, pt := range p.points {
		if 2*pt.Alive <= p.initial {
			return pt.Time, true
		}
	}
	return 0, false
}
