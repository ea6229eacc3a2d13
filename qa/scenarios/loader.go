// Package scenarios runs whole-model regression scenarios described as YAML
// files: a configuration subtree, inline input series and the expected
// optimum. New system configurations get a scenario file instead of a
// hand-written integration test.
package scenarios

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/minigrid/config"
	"github.com/kilianp07/minigrid/core/params"
)

// Series carries inline time-series columns, one per scenario (resource:
// one entry per source).
type Series struct {
	Demand           []float64   `json:"demand"`
	Resource         [][]float64 `json:"resource"`
	Temperature      []float64   `json:"temperature"`
	ThermalDemand    []float64   `json:"thermal_demand"`
	GridAvailability []float64   `json:"grid_availability"`
	FuelCost         [][]float64 `json:"fuel_cost"`
}

// Expected names the optimum the solved scenario must reproduce.
type Expected struct {
	NetPresentCost float64 `json:"net_present_cost"`
	TotalCO2       float64 `json:"total_co2"`
	// Tolerance is the absolute tolerance on both values; defaults to 1e-6.
	Tolerance float64 `json:"tolerance"`
}

// Scenario is one regression case.
type Scenario struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Config      *config.Config `json:"-"`
	Series      Series         `json:"series"`
	Expected    Expected       `json:"expected"`
}

// Load reads a scenario file. The config subtree follows the main
// configuration schema and gets the same defaults applied.
func Load(path string) (*Scenario, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, err
	}
	var sc Scenario
	if err := k.UnmarshalWithConf("", &sc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	sc.Config = &config.Config{}
	if err := k.UnmarshalWithConf("config", sc.Config, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	sc.Config.SetDefaults()
	if err := sc.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Expected.Tolerance == 0 {
		sc.Expected.Tolerance = 1e-6
	}
	return &sc, nil
}

// Inputs converts the inline series into the tables the parameter builder
// expects. Single-scenario only.
func (sc *Scenario) Inputs() *params.Inputs {
	in := &params.Inputs{Demand: params.Table{sc.Series.Demand}}
	for _, col := range sc.Series.Resource {
		in.Resource = append(in.Resource, params.Table{col})
	}
	if sc.Series.Temperature != nil {
		in.Temperature = params.Table{sc.Series.Temperature}
	}
	if sc.Series.ThermalDemand != nil {
		in.ThermalDemand = params.Table{sc.Series.ThermalDemand}
	}
	if sc.Series.GridAvailability != nil {
		in.GridAvailability = params.Table{sc.Series.GridAvailability}
	}
	if sc.Series.FuelCost != nil {
		in.FuelCost = sc.Series.FuelCost
	}
	return in
}
