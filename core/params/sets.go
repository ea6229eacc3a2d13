// Package params builds the index domains (sets) and the dense parameter
// space consumed by the decision-variable registry and constraint modules.
// Everything here is computed once per model and immutable afterwards.
package params

import (
	"math"

	"github.com/kilianp07/minigrid/config"
)

// HoursPerYear is the non-leap year length used to derive the period
// duration.
const HoursPerYear = 8760.0

// Sets holds the index domains of the optimization problem. Indices are
// positional; Years carries calendar years with Years[0] as the reference.
type Sets struct {
	ScenarioWeights []float64
	Years           []int
	Steps           []int
	StepDuration    int
	Periods         int
	// DeltaTime is the duration of one period in hours.
	DeltaTime        float64
	RenewableSources []string
	GeneratorTypes   []string
}

func (s *Sets) NumScenarios() int { return len(s.ScenarioWeights) }
func (s *Sets) NumYears() int     { return len(s.Years) }
func (s *Sets) NumSteps() int     { return len(s.Steps) }

// StepForYear maps a year index (0-based offset from the reference year) to
// its investment step. Steps are non-decreasing in the year index.
func (s *Sets) StepForYear(yearIdx int) int {
	return s.Steps[yearIdx/s.StepDuration]
}

// BuildSets derives the index domains from the validated configuration.
func BuildSets(cfg *config.Config) (*Sets, error) {
	weights := cfg.Project.ScenarioWeights
	var sum float64
	for _, w := range weights {
		if w < 0 {
			return nil, Errorf("project.scenario_weights", "negative weight %v", w)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		return nil, Errorf("project.scenario_weights", "weights sum to %v, want 1", sum)
	}

	years := make([]int, cfg.Project.Years)
	for i := range years {
		years[i] = cfg.Project.StartYear + i
	}
	dur := cfg.Advanced.StepDuration
	nSteps := (len(years) + dur - 1) / dur
	steps := make([]int, nSteps)
	for i := range steps {
		steps[i] = i
	}

	s := &Sets{
		ScenarioWeights:  append([]float64(nil), weights...),
		Years:            years,
		Steps:            steps,
		StepDuration:     dur,
		Periods:          cfg.Project.Periods,
		DeltaTime:        deltaTime(cfg.Project.Periods),
		RenewableSources: append([]string(nil), cfg.RES.Sources...),
	}
	if cfg.Generator.Enabled {
		s.GeneratorTypes = append([]string(nil), cfg.Generator.Types...)
	}
	return s, nil
}

// deltaTime returns the duration of one period in hours, rounded to
// microhour precision so hourly and sub-hourly resolutions stay exact.
func deltaTime(periods int) float64 {
	return math.Round(HoursPerYear/float64(periods)*1e6) / 1e6
}
