// Package engine drives the optimization: it builds the model from the
// configuration, assembles the scalar objective, invokes the solver backend,
// and harvests the primal values into named labeled arrays. The Pareto
// driver in this package re-solves the same built model under a swept
// emissions cap.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/minigrid/config"
	"github.com/kilianp07/minigrid/core/logger"
	"github.com/kilianp07/minigrid/core/lp"
	"github.com/kilianp07/minigrid/core/metrics"
	"github.com/kilianp07/minigrid/core/params"
	"github.com/kilianp07/minigrid/core/solution"
	"github.com/kilianp07/minigrid/core/solver"
	"github.com/kilianp07/minigrid/core/system"
	"github.com/kilianp07/minigrid/core/tensor"
	infralogger "github.com/kilianp07/minigrid/infra/logger"
)

// Model is a built optimization problem: sets and parameters are immutable,
// variables and constraints persist across the solves of a Pareto sweep.
type Model struct {
	Problem *lp.Problem
	Vars    *system.Vars
	Space   *params.Space
}

// BuildModel assembles sets, parameters, variables and every enabled
// constraint module into a solvable problem.
func BuildModel(cfg *config.Config, in *params.Inputs) (*Model, error) {
	sp, err := params.Build(cfg, in)
	if err != nil {
		return nil, err
	}
	p := lp.New()
	v := system.BuildVars(p, sp)
	if err := system.Apply(&system.Build{P: p, V: v, S: sp}); err != nil {
		return nil, err
	}
	return &Model{Problem: p, Vars: v, Space: sp}, nil
}

// CostObjective returns the scenario-weighted scalar cost selected by the
// optimization goal: net present cost or non-actualized variable cost.
func (m *Model) CostObjective() *lp.Expr {
	e := lp.NewExpr()
	for s, w := range m.Space.Sets.ScenarioWeights {
		if m.Space.OptimizationGoal == config.GoalVariableCost {
			e.Add(m.Vars.VariableCostNonAct.At(s), w)
		} else {
			e.Add(m.Vars.ScenarioNPC.At(s), w)
		}
	}
	return e
}

// EmissionsObjective returns the scenario-weighted total CO2.
func (m *Model) EmissionsObjective() *lp.Expr {
	return lp.NewExpr().Add(m.Vars.TotalCO2.At(0), 1)
}

// Engine runs solves against a backend, recording one metrics entry per
// invocation. Solves are strictly sequential: every Pareto point mutates the
// shared constraint state of the model.
type Engine struct {
	backend solver.Backend
	opts    solver.Options
	log     logger.Logger
	sink    metrics.Sink
	runID   string
}

// New returns an engine bound to a backend. A nil sink disables metrics.
func New(backend solver.Backend, opts solver.Options, log logger.Logger, sink metrics.Sink) *Engine {
	if log == nil {
		log = infralogger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		backend: backend,
		opts:    opts,
		log:     log,
		sink:    sink,
		runID:   uuid.NewString(),
	}
}

// Solve minimizes the configured cost objective and harvests the solution.
func (e *Engine) Solve(ctx context.Context, m *Model) (*solution.Solution, error) {
	m.Problem.SetObjective(m.CostObjective())
	res, err := e.solve(ctx, m, -1)
	if err != nil {
		return nil, err
	}
	return harvest(m, res), nil
}

func (e *Engine) solve(ctx context.Context, m *Model, paretoPoint int) (*solver.Result, error) {
	start := time.Now()
	res, err := e.backend.Solve(ctx, m.Problem, e.opts)

	rec := metrics.SolveRecord{
		RunID:       e.runID,
		Backend:     e.backend.Name(),
		Duration:    time.Since(start),
		Rows:        m.Problem.NumRows(),
		Cols:        m.Problem.NumVars(),
		ParetoPoint: paretoPoint,
		Time:        time.Now(),
	}
	if err != nil {
		rec.Status = "error"
	} else {
		rec.Status = res.Status.String()
		rec.Objective = res.Objective
	}
	if serr := e.sink.RecordSolve(rec); serr != nil {
		e.log.Warnf("metrics sink: %v", serr)
	}
	if err != nil {
		return nil, err
	}
	e.log.Infof("solve done: status=%s objective=%.4f rows=%d cols=%d duration=%s",
		rec.Status, rec.Objective, rec.Rows, rec.Cols, rec.Duration)
	return res, nil
}

// harvest maps the primal values back into named labeled arrays. Absent
// subsystems contribute no keys.
func harvest(m *Model, res *solver.Result) *solution.Solution {
	sol := solution.New()
	v := m.Vars

	for _, q := range []struct {
		name  string
		group *lp.Group
	}{
		{"Renewable Units", v.ResUnits},
		{"Renewable Energy Production", v.ResProduction},
		{"Curtailment", v.Curtailment},
		{"Battery Units", v.BatteryUnits},
		{"Battery State of Charge", v.BatterySOC},
		{"Battery Inflow", v.BatteryInflow},
		{"Battery Outflow", v.BatteryOutflow},
		{"Generator Units", v.GeneratorUnits},
		{"Generator Energy Production", v.GeneratorEnergy},
		{"Generator Fuel Consumption", v.GeneratorFuel},
		{"Energy From Grid", v.GridImport},
		{"Energy To Grid", v.GridExport},
		{"Lost Load", v.LostLoad},
		{"TES State of Charge", v.TESSOC},
		{"TES Charge", v.TESCharge},
		{"TES Discharge", v.TESDischarge},
		{"TES Ice Production", v.TESProduction},
		{"Compressor Cooling Output", v.CompCooling},
		{"Scenario CO2 Emissions", v.ScenarioCO2},
		{"Investment Cost", v.InvestmentCost},
	} {
		if q.group == nil {
			continue
		}
		sol.Set(q.name, groupArray(q.group, res.Values))
	}

	weights := m.Space.Sets.ScenarioWeights
	var npc, varCost float64
	for s, w := range weights {
		npc += w * res.Values[v.ScenarioNPC.At(s)]
		varCost += w * res.Values[v.VariableCostNonAct.At(s)]
	}
	sol.Set("Net Present Cost", tensor.Scalar(npc))
	sol.Set("Total Variable Cost", tensor.Scalar(varCost))
	sol.Set("Total CO2 Emissions", tensor.Scalar(res.Values[v.TotalCO2.At(0)]))
	return sol
}

func groupArray(g *lp.Group, values []float64) *tensor.Array {
	dims := g.Dims()
	names := make([]string, len(dims))
	shape := make([]int, len(dims))
	for i, d := range dims {
		names[i] = d.Name
		shape[i] = d.Size
	}
	a := tensor.New(names, shape)
	data := a.Data()
	first := int(g.First())
	for i := 0; i < g.Len(); i++ {
		data[i] = values[first+i]
	}
	return a
}
