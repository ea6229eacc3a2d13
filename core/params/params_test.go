package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/minigrid/config"
)

func baseConfig() *config.Config {
	cfg := &config.Config{
		Project: config.Project{
			StartYear:       2026,
			Years:           2,
			Periods:         4,
			ScenarioWeights: []float64{1},
			DiscountRate:    0.05,
		},
		RES: config.RES{
			Sources:            []string{"pv"},
			NominalCapacity:    []float64{1},
			InverterEfficiency: []float64{0.95},
			Lifetime:           []float64{20},
			InvestmentCost:     []float64{1000},
			OMCost:             []float64{20},
			UnitCO2:            []float64{500},
		},
	}
	cfg.Project.SetDefaults()
	cfg.Advanced.SetDefaults(cfg.Project.Years)
	return cfg
}

func baseInputs() *Inputs {
	return &Inputs{
		Demand:   Table{{10, 20, 30, 40, 10, 20, 30, 50}},
		Resource: []Table{{{0.1, 0.5, 0.8, 0.2}}},
	}
}

func TestBuildSets(t *testing.T) {
	cfg := baseConfig()
	sets, err := BuildSets(cfg)
	require.NoError(t, err)

	assert.Equal(t, []int{2026, 2027}, sets.Years)
	assert.Equal(t, 1, sets.NumSteps())
	assert.Equal(t, 0, sets.StepForYear(1))
	assert.InDelta(t, 2190, sets.DeltaTime, 1e-9)
}

func TestBuildSetsExpansionSteps(t *testing.T) {
	cfg := baseConfig()
	cfg.Project.Years = 5
	cfg.Advanced.CapacityExpansion = true
	cfg.Advanced.StepDuration = 2
	sets, err := BuildSets(cfg)
	require.NoError(t, err)

	// 5 years in steps of 2: years 0-1, 2-3, 4.
	assert.Equal(t, 3, sets.NumSteps())
	assert.Equal(t, 0, sets.StepForYear(1))
	assert.Equal(t, 1, sets.StepForYear(2))
	assert.Equal(t, 2, sets.StepForYear(4))
}

func TestBuildSetsRejectsBadWeights(t *testing.T) {
	cfg := baseConfig()
	cfg.Project.ScenarioWeights = []float64{0.5, 0.4}
	_, err := BuildSets(cfg)

	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "project.scenario_weights", cerr.Field)
}

func TestDiscountRate(t *testing.T) {
	got, err := discountRate(0.08, waccInputs{})
	require.NoError(t, err)
	assert.Equal(t, 0.08, got)

	// 40% equity at 10%, 60% debt at 5% taxed 30%.
	got, err = discountRate(0, waccInputs{
		enabled: true, equityShare: 0.4, debtShare: 0.6,
		costOfDebt: 0.05, costOfEquity: 0.10, tax: 0.30,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.05*0.7*0.6+0.10*0.4, got, 1e-12)
}

func TestDiscountRatePureDebt(t *testing.T) {
	got, err := discountRate(0, waccInputs{
		enabled: true, equityShare: 0, debtShare: 1,
		costOfDebt: 0.06, tax: 0.25,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.045, got, 1e-12)
}

func TestDiscountRateRejectsBadShares(t *testing.T) {
	_, err := discountRate(0, waccInputs{enabled: true, equityShare: 0.5, debtShare: 0.6})
	var cerr *ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}

func TestBuildSpace(t *testing.T) {
	cfg := baseConfig()
	sp, err := Build(cfg, baseInputs())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 4}, sp.Demand.Shape())
	assert.Equal(t, 40.0, sp.Demand.At(0, 0, 3))
	assert.Equal(t, 50.0, sp.Demand.At(0, 1, 3))
	// Resource column tiles across both years.
	assert.Equal(t, 0.5, sp.Resource.At(0, 1, 0, 1))
	// Big-M: safety factor 2 on the yearly peak, no grid or compressor caps.
	assert.Equal(t, []float64{80, 100}, sp.BigM)
	assert.Nil(t, sp.Battery)
	assert.Nil(t, sp.Generator)
}

func TestBuildSpaceTilingMismatch(t *testing.T) {
	cfg := baseConfig()
	in := baseInputs()
	in.Demand = Table{{1, 2, 3}} // 3 does not divide the 8-period horizon

	_, err := Build(cfg, in)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "demand", cerr.Field)
}

func TestBuildSpaceTechArrayMismatch(t *testing.T) {
	cfg := baseConfig()
	cfg.RES.OMCost = nil

	_, err := Build(cfg, baseInputs())
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "res.om_cost", cerr.Field)
}

func TestBuildSpaceGenerator(t *testing.T) {
	cfg := baseConfig()
	cfg.Generator = config.Generator{
		Enabled:             true,
		Types:               []string{"diesel"},
		NominalCapacity:     []float64{50},
		NominalEfficiency:   []float64{0.3},
		FuelLHV:             []float64{9.89},
		FuelCO2:             []float64{2.68},
		InvestmentCost:      []float64{500},
		OMCost:              []float64{25},
		UnitCO2:             []float64{100},
		RectifierEfficiency: []float64{0.98},
		Lifetime:            []float64{20},
	}
	in := baseInputs()
	in.FuelCost = [][]float64{{1.5}} // constant across both years

	sp, err := Build(cfg, in)
	require.NoError(t, err)
	require.NotNil(t, sp.Generator)
	assert.Equal(t, 1.5, sp.FuelCost.At(1, 0))
}

func TestBuildSpacePartialLoadValidation(t *testing.T) {
	cfg := baseConfig()
	cfg.Generator = config.Generator{
		Enabled:               true,
		Types:                 []string{"diesel"},
		NominalCapacity:       []float64{50},
		NominalEfficiency:     []float64{0.3},
		FuelLHV:               []float64{9.89},
		FuelCO2:               []float64{2.68},
		InvestmentCost:        []float64{500},
		OMCost:                []float64{25},
		UnitCO2:               []float64{100},
		RectifierEfficiency:   []float64{0.98},
		Lifetime:              []float64{20},
		PartialLoad:           true,
		SampledRelativeOutput: []float64{0.3, 0.6, 1.0},
		SampledEfficiency:     [][]float64{{0.2, 0.28}}, // row too short
	}
	in := baseInputs()
	in.FuelCost = [][]float64{{1.5, 1.6}}

	_, err := Build(cfg, in)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "generator.sampled_efficiency", cerr.Field)
}

func TestBuildSpaceGridBigM(t *testing.T) {
	cfg := baseConfig()
	cfg.Grid = config.Grid{
		Enabled:                 true,
		ConnectionType:          config.GridPurchaseSell,
		MaxPower:                10,
		PurchaseCost:            0.2,
		SellPrice:               0.1,
		CO2Factor:               400,
		ToMicrogridEfficiency:   0.95,
		FromMicrogridEfficiency: 0.95,
	}
	in := baseInputs()
	in.GridAvailability = Table{{1, 1, 0, 1}}

	sp, err := Build(cfg, in)
	require.NoError(t, err)
	require.NotNil(t, sp.Grid)
	assert.InDelta(t, 0.4, sp.Grid.CO2Factor, 1e-12)
	assert.Equal(t, 0.0, sp.GridAvailability.At(0, 1, 2))
	// Grid energy cap (10 kW over the 2190 h period) joins the peak.
	wantM0 := 2 * (40 + 10*sp.Sets.DeltaTime)
	assert.InDelta(t, wantM0, sp.BigM[0], 1e-9)
}

func TestBuildSpaceParetoPoints(t *testing.T) {
	cfg := baseConfig()
	cfg.Advanced.MultiObjective.Enabled = true
	cfg.Advanced.MultiObjective.NumPoints = 1

	_, err := Build(cfg, baseInputs())
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
}

func TestBatteryReplacementCost(t *testing.T) {
	b := config.Battery{
		InvestmentCost:   600,
		ElectronicsShare: 0.2,
		Cycles:           3000,
		DepthOfDischarge: 0.8,
	}
	got := batteryReplacementCost(b)
	assert.InDelta(t, 600*0.8/(3000*2*0.8), got, 1e-12)
}

func TestExistingAvailable(t *testing.T) {
	assert.True(t, ExistingAvailable(5, 20, 15))
	assert.False(t, ExistingAvailable(5, 20, 16))
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := Errorf("demand", "bad length %d", 3)
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("want *ConfigurationError, got %T", err)
	}
	if cerr.Field != "demand" {
		t.Fatalf("field = %q", cerr.Field)
	}
	if cerr.Error() != "configuration: demand: bad length 3" {
		t.Fatalf("message = %q", cerr.Error())
	}
}
