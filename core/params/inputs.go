package params

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/kilianp07/minigrid/config"
)

// Table holds one time series per scenario: Table[s] is the sample column of
// scenario s. Columns shorter than the full horizon are tiled, provided the
// horizon length divides evenly by the column length.
type Table [][]float64

// Inputs carries the raw time-series tables supplied by the input
// collaborator. Optional tables stay nil when their subsystem is disabled.
type Inputs struct {
	Demand Table
	// Resource holds one table per renewable source.
	Resource         []Table
	Temperature      Table
	ThermalDemand    Table
	GridAvailability Table
	// FuelCost holds yearly fuel prices per generator type; each slice
	// length must divide the year count evenly.
	FuelCost [][]float64
}

// LoadInputs reads the CSV tables referenced by the configuration. Resource
// files carry one column per (source, scenario) pair, source-major.
func LoadInputs(cfg *config.Config) (*Inputs, error) {
	in := &Inputs{}
	var err error
	if in.Demand, err = readTable(cfg.Data.DemandFile); err != nil {
		return nil, fmt.Errorf("demand: %w", err)
	}
	cols, err := readTable(cfg.Data.ResourceFile)
	if err != nil {
		return nil, fmt.Errorf("resource: %w", err)
	}
	nScen := len(cfg.Project.ScenarioWeights)
	nSrc := len(cfg.RES.Sources)
	if len(cols) != nScen*nSrc {
		return nil, Errorf("data.resource_file", "%d columns, want %d (sources x scenarios)", len(cols), nScen*nSrc)
	}
	in.Resource = make([]Table, nSrc)
	for r := 0; r < nSrc; r++ {
		in.Resource[r] = Table(cols[r*nScen : (r+1)*nScen])
	}
	if cfg.TES.Enabled || cfg.Compressor.Enabled {
		if in.Temperature, err = readTable(cfg.Data.TemperatureFile); err != nil {
			return nil, fmt.Errorf("temperature: %w", err)
		}
		if in.ThermalDemand, err = readTable(cfg.Data.ThermalDemandFile); err != nil {
			return nil, fmt.Errorf("thermal demand: %w", err)
		}
	}
	if cfg.Grid.Enabled {
		if in.GridAvailability, err = readTable(cfg.Data.GridAvailabilityFile); err != nil {
			return nil, fmt.Errorf("grid availability: %w", err)
		}
	}
	if cfg.Generator.Enabled {
		fuel, err := readTable(cfg.Data.FuelCostFile)
		if err != nil {
			return nil, fmt.Errorf("fuel cost: %w", err)
		}
		if len(fuel) != len(cfg.Generator.Types) {
			return nil, Errorf("data.fuel_cost_file", "%d columns, want %d generator types", len(fuel), len(cfg.Generator.Types))
		}
		in.FuelCost = fuel
	}
	return in, nil
}

// readTable parses a headerless CSV of floats into column-major form.
func readTable(path string) (Table, error) {
	if path == "" {
		return nil, fmt.Errorf("no file configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	nCols := len(records[0])
	cols := make(Table, nCols)
	for i, rec := range records {
		if len(rec) != nCols {
			return nil, fmt.Errorf("%s: row %d has %d fields, want %d", path, i+1, len(rec), nCols)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d col %d: %w", path, i+1, j+1, err)
			}
			cols[j] = append(cols[j], v)
		}
	}
	return cols, nil
}
