package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/minigrid/core/solver"
)

// Solver selects the optimization backend and its tuning knobs. Zero values
// defer to the per-backend defaults below.
type Solver struct {
	Backend        string  `json:"backend"`
	TimeLimit      float64 `json:"time_limit_seconds"`
	IterationLimit int     `json:"iteration_limit"`
	Tolerance      float64 `json:"tolerance"`
	MIPGap         float64 `json:"mip_gap"`
	Verbose        bool    `json:"verbose"`
}

func (s *Solver) SetDefaults() {
	if s.Backend == "" {
		s.Backend = "simplex"
	}
}

func (s Solver) Validate() error {
	if s.TimeLimit < 0 {
		return fmt.Errorf("time limit must not be negative, got %v", s.TimeLimit)
	}
	if s.IterationLimit < 0 {
		return fmt.Errorf("iteration limit must not be negative, got %d", s.IterationLimit)
	}
	return nil
}

// Options resolves the backend-specific tuning options for the chosen
// backend and problem class, then overlays user overrides.
func (s Solver) Options(milp bool) solver.Options {
	opts := backendDefaults(s.Backend, milp)
	if s.TimeLimit > 0 {
		opts.TimeLimit = time.Duration(s.TimeLimit * float64(time.Second))
	}
	if s.IterationLimit > 0 {
		opts.IterationLimit = s.IterationLimit
	}
	if s.Tolerance > 0 {
		opts.Tolerance = s.Tolerance
	}
	if s.MIPGap > 0 {
		opts.MIPGap = s.MIPGap
	}
	opts.Verbose = s.Verbose
	return opts
}

// backendDefaults mirrors the historical per-solver tuning profiles: barrier
// method with crossover for MILP runs on gurobi, plain time limits on glpk
// and scip, a tight pivot tolerance for the in-process simplex.
func backendDefaults(backend string, milp bool) solver.Options {
	switch backend {
	case "gurobi":
		if milp {
			return solver.Options{
				Tolerance: 1e-3,
				MIPGap:    1e-3,
				Extra: map[string]float64{
					"Method":         3,
					"BarHomogeneous": 1,
					"Crossover":      1,
					"MIPFocus":       1,
					"FeasibilityTol": 1e-4,
				},
			}
		}
		return solver.Options{
			Tolerance:      1e-4,
			IterationLimit: 10000,
			Extra: map[string]float64{
				"Method":         2,
				"BarHomogeneous": 0,
				"Crossover":      0,
				"FeasibilityTol": 1e-4,
			},
		}
	case "glpk":
		return solver.Options{TimeLimit: time.Minute}
	case "scip":
		return solver.Options{
			TimeLimit: 10 * time.Minute,
			Extra: map[string]float64{
				"presolving/maxrounds": 10,
				"separating/maxrounds": 10,
			},
		}
	case "highs":
		return solver.Options{Tolerance: 1e-7, MIPGap: 1e-4}
	default: // simplex and unknown backends
		return solver.Options{Tolerance: 1e-8}
	}
}
