package scenarios

import (
	"context"
	"math"
	"testing"

	"github.com/kilianp07/minigrid/core/engine"
	"github.com/kilianp07/minigrid/core/solver"
)

// Run builds and solves one scenario through the in-process simplex backend
// and checks the optimum against the expectations.
func Run(t *testing.T, sc *Scenario) {
	t.Helper()

	m, err := engine.BuildModel(sc.Config, sc.Inputs())
	if err != nil {
		t.Fatalf("%s: build model: %v", sc.Name, err)
	}
	backend, err := solver.New(sc.Config.Solver.Backend)
	if err != nil {
		t.Fatalf("%s: backend: %v", sc.Name, err)
	}
	e := engine.New(backend, sc.Config.Solver.Options(sc.Config.Advanced.MILPFormulation), nil, nil)

	sol, err := e.Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("%s: solve: %v", sc.Name, err)
	}

	npc, ok := sol.Value("Net Present Cost")
	if !ok {
		t.Fatalf("%s: missing Net Present Cost", sc.Name)
	}
	if math.Abs(npc-sc.Expected.NetPresentCost) > sc.Expected.Tolerance {
		t.Errorf("%s: npc = %v, want %v", sc.Name, npc, sc.Expected.NetPresentCost)
	}
	co2, ok := sol.Value("Total CO2 Emissions")
	if !ok {
		t.Fatalf("%s: missing Total CO2 Emissions", sc.Name)
	}
	if math.Abs(co2-sc.Expected.TotalCO2) > sc.Expected.Tolerance {
		t.Errorf("%s: co2 = %v, want %v", sc.Name, co2, sc.Expected.TotalCO2)
	}
}
