package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
project:
  start_year: 2025
  years: 5
  periods: 4
  discount_rate: 0.08
  optimization_goal: npc
res:
  sources: [pv, wind]
  nominal_capacity: [1.2, 2.5]
  inverter_efficiency: [0.96, 0.95]
  lifetime: [20, 20]
  investment_cost: [1100, 1800]
  om_cost: [20, 35]
  unit_co2: [900, 600]
data:
  demand_file: demand.csv
  resource_file: resource.csv
solver:
  backend: simplex
  tolerance: 1e-9
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 2025, cfg.Project.StartYear)
	assert.Equal(t, 5, cfg.Project.Years)
	assert.Equal(t, []string{"pv", "wind"}, cfg.RES.Sources)
	assert.Equal(t, 1e-9, cfg.Solver.Tolerance)

	// Defaults fill what the file leaves out.
	assert.Equal(t, []float64{1}, cfg.Project.ScenarioWeights)
	assert.Equal(t, 5, cfg.Advanced.StepDuration)
	assert.Equal(t, 2.0, cfg.Advanced.BigMSafetyFactor)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MG_PROJECT__YEARS", "3")
	t.Setenv("MG_SOLVER__BACKEND", "highs")

	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Project.Years)
	assert.Equal(t, "highs", cfg.Solver.Backend)
}

func TestLoadJSON(t *testing.T) {
	body := `{"project":{"years":2,"periods":8760},"res":{"sources":["pv"],"nominal_capacity":[1]}}`
	cfg, err := Load(writeConfig(t, "config.json", body))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Project.Years)
	assert.Equal(t, "simplex", cfg.Solver.Backend)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", "x = 1"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidSection(t *testing.T) {
	cfg := sampleYAML + "\n"
	cfg += "advanced:\n  big_m_safety_factor: 0.5\n"
	_, err := Load(writeConfig(t, "config.yaml", cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "big-M safety factor")
}

func TestSolverOptions(t *testing.T) {
	s := Solver{Backend: "gurobi", TimeLimit: 30}
	opts := s.Options(true)
	assert.InDelta(t, 1e-3, opts.MIPGap, 1e-12)
	assert.Equal(t, float64(3), opts.Extra["Method"])
	assert.Equal(t, "30s", opts.TimeLimit.String())

	// Unknown backends fall back to the simplex profile.
	assert.InDelta(t, 1e-8, Solver{Backend: "other"}.Options(false).Tolerance, 1e-15)
}
