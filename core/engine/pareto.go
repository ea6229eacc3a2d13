package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/kilianp07/minigrid/core/params"
	"github.com/kilianp07/minigrid/core/solution"
)

// Point is one entry of the cost/emissions trade-off curve.
type Point struct {
	// Threshold is the emissions cap imposed for this solve, kgCO2.
	Threshold float64
	// Cost is the minimal weighted cost under the cap.
	Cost     float64
	Solution *solution.Solution
}

// Pareto traces the cost/emissions trade-off with the epsilon-constraint
// method: two anchor solves bracket the emissions range, then the same built
// model is re-solved under progressively placed caps. Each cap is a scoped
// constraint, removed on every exit path, so a failed point cannot leak its
// threshold into later iterations.
//
// On a solver failure mid-sweep the points recorded so far are returned
// together with the error; the sweep itself is aborted.
func (e *Engine) Pareto(ctx context.Context, m *Model, numPoints int) ([]Point, error) {
	if numPoints < 2 {
		return nil, params.Errorf("advanced.multi_objective.num_points", "need at least 2 points, got %d", numPoints)
	}

	// Anchor 1: minimal cost, unconstrained emissions.
	m.Problem.SetObjective(m.CostObjective())
	res, err := e.solve(ctx, m, -1)
	if err != nil {
		return nil, fmt.Errorf("max-emissions anchor: %w", err)
	}
	maxCO2 := res.Values[m.Vars.TotalCO2.At(0)]

	// Anchor 2: minimal emissions, unconstrained cost.
	m.Problem.SetObjective(m.EmissionsObjective())
	res, err = e.solve(ctx, m, -1)
	if err != nil {
		return nil, fmt.Errorf("min-emissions anchor: %w", err)
	}
	minCO2 := res.Values[m.Vars.TotalCO2.At(0)]
	e.log.Infof("pareto anchors: min_co2=%.2f max_co2=%.2f", minCO2, maxCO2)

	step := (maxCO2 - minCO2) / float64(numPoints-1)
	points := make([]Point, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		threshold := minCO2 + float64(i)*step
		total := m.EmissionsObjective()
		err := m.Problem.WithConstraint(
			fmt.Sprintf("co2_threshold_%d", i), total, math.Inf(-1), threshold,
			func() error {
				m.Problem.SetObjective(m.CostObjective())
				res, err := e.solve(ctx, m, i)
				if err != nil {
					return err
				}
				points = append(points, Point{
					Threshold: threshold,
					Cost:      res.Objective,
					Solution:  harvest(m, res),
				})
				return nil
			})
		if err != nil {
			return points, fmt.Errorf("pareto point %d (threshold %.2f): %w", i, threshold, err)
		}
	}
	return points, nil
}
