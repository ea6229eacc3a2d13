package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.Data.DemandFile = writeCSV(t, dir, "demand.csv", "10\n20\n30\n40\n")
	cfg.Data.ResourceFile = writeCSV(t, dir, "resource.csv", "0.1\n0.5\n0.8\n0.2\n")

	in, err := LoadInputs(cfg)
	require.NoError(t, err)
	assert.Equal(t, Table{{10, 20, 30, 40}}, in.Demand)
	require.Len(t, in.Resource, 1)
	assert.Equal(t, 0.8, in.Resource[0][0][2])
}

func TestLoadInputsColumnSplit(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.Project.ScenarioWeights = []float64{0.5, 0.5}
	cfg.RES.Sources = []string{"pv", "wind"}
	cfg.Data.DemandFile = writeCSV(t, dir, "demand.csv", "10,12\n20,22\n")
	// Four columns: pv scenarios then wind scenarios.
	cfg.Data.ResourceFile = writeCSV(t, dir, "resource.csv", "0.1,0.2,0.3,0.4\n0.5,0.6,0.7,0.8\n")

	in, err := LoadInputs(cfg)
	require.NoError(t, err)
	require.Len(t, in.Resource, 2)
	assert.Equal(t, 0.2, in.Resource[0][1][0])
	assert.Equal(t, 0.7, in.Resource[1][0][1])
}

func TestLoadInputsRejectsRaggedRows(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.Data.DemandFile = writeCSV(t, dir, "demand.csv", "10,12\n20\n")
	cfg.Data.ResourceFile = writeCSV(t, dir, "resource.csv", "0.1\n")

	_, err := LoadInputs(cfg)
	assert.Error(t, err)
}

func TestLoadInputsMissingFile(t *testing.T) {
	cfg := baseConfig()
	_, err := LoadInputs(cfg)
	assert.Error(t, err)
}
