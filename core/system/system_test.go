package system

import (
	"errors"
	"strings"
	"testing"

	"github.com/kilianp07/minigrid/config"
	"github.com/kilianp07/minigrid/core/lp"
	"github.com/kilianp07/minigrid/core/params"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Project: config.Project{
			StartYear:       0,
			Years:           1,
			Periods:         4,
			ScenarioWeights: []float64{1},
			DiscountRate:    0.1,
		},
		RES: config.RES{
			Sources:            []string{"pv"},
			NominalCapacity:    []float64{1},
			InverterEfficiency: []float64{1},
			Lifetime:           []float64{20},
			InvestmentCost:     []float64{1000},
			OMCost:             []float64{10},
			UnitCO2:            []float64{100},
		},
	}
	cfg.Project.SetDefaults()
	cfg.Advanced.SetDefaults(cfg.Project.Years)
	return cfg
}

func testInputs(cfg *config.Config) *params.Inputs {
	periods := cfg.Project.Periods * cfg.Project.Years
	demand := make([]float64, periods)
	resource := make([]float64, periods)
	for i := range demand {
		demand[i] = 100
		resource[i] = 1
	}
	in := &params.Inputs{
		Demand:   params.Table{demand},
		Resource: []params.Table{{resource}},
	}
	if cfg.TES.Enabled || cfg.Compressor.Enabled {
		thermal := make([]float64, periods)
		for i := range thermal {
			thermal[i] = 5
		}
		in.Temperature = params.Table{thermal}
		in.ThermalDemand = params.Table{thermal}
	}
	if cfg.Grid.Enabled {
		avail := make([]float64, periods)
		for i := range avail {
			avail[i] = 1
		}
		in.GridAvailability = params.Table{avail}
	}
	if cfg.Generator.Enabled {
		in.FuelCost = make([][]float64, len(cfg.Generator.Types))
		for i := range in.FuelCost {
			in.FuelCost[i] = []float64{1.5}
		}
	}
	return in
}

func buildModel(t *testing.T, mutate func(*config.Config)) (*Build, *lp.Snapshot) {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
		cfg.Project.SetDefaults()
		cfg.Advanced.SetDefaults(cfg.Project.Years)
	}
	sp, err := params.Build(cfg, testInputs(cfg))
	if err != nil {
		t.Fatalf("build space: %v", err)
	}
	p := lp.New()
	b := &Build{P: p, V: BuildVars(p, sp), S: sp}
	if err := Apply(b); err != nil {
		t.Fatalf("apply modules: %v", err)
	}
	return b, p.Snapshot()
}

func rowIndex(s *lp.Snapshot, name string) int {
	for i, n := range s.RowNames {
		if n == name {
			return i
		}
	}
	return -1
}

func countRows(s *lp.Snapshot, prefix string) int {
	n := 0
	for _, name := range s.RowNames {
		if strings.HasPrefix(name, prefix) {
			n++
		}
	}
	return n
}

func TestEnergyBalanceRowPerPeriod(t *testing.T) {
	b, snap := buildModel(t, nil)
	want := b.S.Sets.NumScenarios() * b.S.Sets.NumYears() * b.S.Sets.Periods
	if got := countRows(snap, "energy_balance["); got != want {
		t.Fatalf("energy balance rows = %d, want %d", got, want)
	}
	// No battery, generator, grid, TES or compressor rows for a bare config.
	for _, prefix := range []string{"battery_", "generator_", "grid_", "tes_", "compressor_"} {
		if got := countRows(snap, prefix); got != 0 {
			t.Fatalf("unexpected %s rows: %d", prefix, got)
		}
	}
}

func TestModuleGating(t *testing.T) {
	caps := CapabilitiesOf(&params.Space{Battery: &params.BatteryParams{}})
	if !caps.Has(CapBattery) {
		t.Fatal("battery capability missing")
	}
	if caps.Has(CapGenerator) || caps.Has(CapTES) {
		t.Fatal("unexpected capability")
	}
	if !caps.Has(0) {
		t.Fatal("empty requirement must always pass")
	}
}

func TestTESModeBinaryUnderLP(t *testing.T) {
	b, snap := buildModel(t, func(cfg *config.Config) {
		cfg.TES = config.TES{
			Enabled: true, Capacity: 1000, InitialSOC: 0.5,
			StorageEfficiency: 0.99, MaxChargeRate: 50, MaxDischargeRate: 50,
			COP: 3, QPerKg: 0.093, CompressorCapacityMax: 100,
			CompressorInvestmentCost: 300,
		}
	})
	if b.S.MILP {
		t.Fatal("test expects the LP formulation")
	}
	if !b.P.HasInteger() {
		t.Fatal("TES must force integer variables even under LP")
	}
	if got := b.P.Type(b.V.TESMode.At(0, 0, 0)); got != lp.Binary {
		t.Fatalf("tes mode type = %v, want binary", got)
	}
	if rowIndex(snap, "tes_charge_mode[0,0,0]") < 0 {
		t.Fatal("missing tes charge mode row")
	}
	if rowIndex(snap, "tes_energy_conservation[0]") < 0 {
		t.Fatal("missing tes energy conservation row")
	}
	want := b.S.Sets.Periods
	if got := countRows(snap, "thermal_balance["); got != want {
		t.Fatalf("thermal balance rows = %d, want %d", got, want)
	}
}

func coef(s *lp.Snapshot, row int, col lp.Var) (float64, bool) {
	for _, nz := range s.Matrix {
		if nz.Row == row && nz.Col == int(col) {
			return nz.Val, true
		}
	}
	return 0, false
}

func TestStorageYearBoundaryContinuity(t *testing.T) {
	b, snap := buildModel(t, func(cfg *config.Config) {
		cfg.Project.Years = 2
		cfg.Battery = config.Battery{
			Enabled: true, NominalCapacity: 10,
			ChargeEfficiency: 0.95, DischargeEfficiency: 0.95,
			InverterEffDCAC: 0.97, InverterEffACDC: 0.97,
			DepthOfDischarge: 0.8, ChargeTime: 4, DischargeTime: 4,
			InitialSOC: 1, InvestmentCost: 600, OMCost: 10,
			ElectronicsShare: 0.2, Cycles: 3000, UnitCO2: 50, Lifetime: 10,
		}
		cfg.TES = config.TES{
			Enabled: true, Capacity: 1000, InitialSOC: 0.5,
			StorageEfficiency: 0.99, MaxChargeRate: 50, MaxDischargeRate: 50,
			COP: 3, QPerKg: 0.093, CompressorCapacityMax: 100,
			CompressorInvestmentCost: 300,
		}
	})
	last := b.S.Sets.Periods - 1

	// Year 1 opens from year 0's last period, not from the initial fraction.
	row := rowIndex(snap, "battery_soc[0,1,0]")
	if row < 0 {
		t.Fatal("missing battery soc row")
	}
	if v, ok := coef(snap, row, b.V.BatterySOC.At(0, 0, last)); !ok || v != -1 {
		t.Fatalf("battery wraparound coefficient = %v (found %v), want -1", v, ok)
	}

	row = rowIndex(snap, "tes_soc[0,1,0]")
	if row < 0 {
		t.Fatal("missing tes soc row")
	}
	want := -b.S.TES.StorageEfficiency
	if v, ok := coef(snap, row, b.V.TESSOC.At(0, 0, last)); !ok || v != want {
		t.Fatalf("tes wraparound coefficient = %v (found %v), want %v", v, ok, want)
	}

	// First-ever period carries the initial stock on the rhs instead.
	first := rowIndex(snap, "tes_soc[0,0,0]")
	wantRHS := b.S.TES.StorageEfficiency * b.S.TES.Capacity * b.S.TES.InitialSOC
	if got := snap.RowLower[first]; got != wantRHS {
		t.Fatalf("initial tes rhs = %v, want %v", got, wantRHS)
	}
}

func TestTESCompressorElectricCap(t *testing.T) {
	b, snap := buildModel(t, func(cfg *config.Config) {
		cfg.TES = config.TES{
			Enabled: true, Capacity: 1000, InitialSOC: 0.5,
			StorageEfficiency: 0.99, MaxChargeRate: 50, MaxDischargeRate: 50,
			COP: 3, QPerKg: 0.093, CompressorCapacityMax: 100,
			CompressorInvestmentCost: 300,
		}
	})
	dt := b.S.Sets.DeltaTime

	// The capacity limits the electric draw itself, not the cooling output.
	row := rowIndex(snap, "tes_compressor_cap[0,0,0]")
	if row < 0 {
		t.Fatal("missing tes compressor cap row")
	}
	if v, ok := coef(snap, row, b.V.TESElectric.At(0, 0, 0)); !ok || v != 1 {
		t.Fatalf("electric coefficient = %v (found %v), want 1", v, ok)
	}
	if v, ok := coef(snap, row, b.V.TESCompCap.At(0)); !ok || v != -dt {
		t.Fatalf("capacity coefficient = %v (found %v), want %v", v, ok, -dt)
	}

	// Ice production is bounded by cap * COP / q_per_kg.
	row = rowIndex(snap, "tes_ice_production_cap[0,0,0]")
	if row < 0 {
		t.Fatal("missing ice production cap row")
	}
	if v, ok := coef(snap, row, b.V.TESProduction.At(0, 0, 0)); !ok || v != b.S.TES.QPerKg {
		t.Fatalf("production coefficient = %v (found %v), want %v", v, ok, b.S.TES.QPerKg)
	}
	if v, ok := coef(snap, row, b.V.TESCompCap.At(0)); !ok || v != -b.S.TES.COP {
		t.Fatalf("capacity coefficient = %v (found %v), want %v", v, ok, -b.S.TES.COP)
	}
}

func TestExpansionMonotoneRows(t *testing.T) {
	_, snap := buildModel(t, func(cfg *config.Config) {
		cfg.Project.Years = 4
		cfg.Advanced.CapacityExpansion = true
		cfg.Advanced.StepDuration = 2
	})
	if rowIndex(snap, "res_min_step_units[1,0]") < 0 {
		t.Fatal("missing monotone units row for step 1")
	}
}

func TestBrownfieldCliff(t *testing.T) {
	b, snap := buildModel(t, func(cfg *config.Config) {
		cfg.Project.Years = 6
		cfg.Advanced.Brownfield = true
		cfg.RES.ExistingCapacity = []float64{0}
		cfg.RES.ExistingYears = []float64{0}
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
			RectifierEfficiency: []float64{1},
			Lifetime:            []float64{10},
			ExistingCapacity:    []float64{30},
			ExistingYears:       []float64{8},
		}
	})
	dt := b.S.Sets.DeltaTime
	// Age 8 at the reference year, lifetime 10: available through year
	// index 2, gone from index 3 onward.
	early := rowIndex(snap, "generator_max_production[0,2,0,0]")
	late := rowIndex(snap, "generator_max_production[0,5,0,0]")
	if early < 0 || late < 0 {
		t.Fatal("missing generator max production rows")
	}
	if got := snap.RowUpper[early]; got != 30*dt {
		t.Fatalf("year 2 cap rhs = %v, want %v", got, 30*dt)
	}
	if got := snap.RowUpper[late]; got != 0 {
		t.Fatalf("year 5 cap rhs = %v, want 0", got)
	}
}

func TestDCSplitBigM(t *testing.T) {
	b, snap := buildModel(t, func(cfg *config.Config) {
		cfg.Advanced.MILPFormulation = true
		cfg.RES.ConnectedToBattery = []bool{true}
		cfg.Battery = config.Battery{
			Enabled: true, NominalCapacity: 10,
			ChargeEfficiency: 0.95, DischargeEfficiency: 0.95,
			InverterEffDCAC: 0.97, InverterEffACDC: 0.97,
			DepthOfDischarge: 0.8, ChargeTime: 4, DischargeTime: 4,
			InitialSOC: 1, InvestmentCost: 600, OMCost: 10,
			ElectronicsShare: 0.2, Cycles: 3000, UnitCO2: 50, Lifetime: 10,
		}
	})
	ri := rowIndex(snap, "dc_positive_mode[0,0,0]")
	if ri < 0 {
		t.Fatal("missing dc positive mode row")
	}
	m := b.S.BigM[0]
	found := false
	for _, nz := range snap.Matrix {
		if nz.Row == ri && nz.Val == -m {
			found = true
		}
	}
	if !found {
		t.Fatalf("big-M coefficient %v not found on dc mode row", -m)
	}
	if got := b.P.Type(b.V.ResUnits.At(0, 0)); got != lp.Integer {
		t.Fatalf("sizing type under MILP = %v, want integer", got)
	}
}

func TestGridConnectionYear(t *testing.T) {
	_, snap := buildModel(t, func(cfg *config.Config) {
		cfg.Project.Years = 2
		cfg.Grid = config.Grid{
			Enabled: true, ConnectionType: config.GridPurchaseSell,
			YearConnection: 1, MaxPower: 10, PurchaseCost: 0.2, SellPrice: 0.1,
			CO2Factor: 400, ToMicrogridEfficiency: 0.95, FromMicrogridEfficiency: 0.95,
		}
	})
	if rowIndex(snap, "no_grid_import[0,0,0]") < 0 {
		t.Fatal("import must be pinned to zero before the connection year")
	}
	if rowIndex(snap, "grid_import_max[0,1,0]") < 0 {
		t.Fatal("import cap missing after the connection year")
	}
	if rowIndex(snap, "grid_export_max[0,1,0]") < 0 {
		t.Fatal("export cap missing for purchase_sell")
	}
}

func TestAggregationError(t *testing.T) {
	cfg := testConfig()
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
		RectifierEfficiency: []float64{1},
		Lifetime:            []float64{20},
	}
	sp, err := params.Build(cfg, testInputs(cfg))
	if err != nil {
		t.Fatalf("build space: %v", err)
	}
	p := lp.New()
	v := BuildVars(p, sp)
	v.GeneratorFuel = nil // simulate a registry/capability mismatch

	err = applyCosts(&Build{P: p, V: v, S: sp})
	var aerr *AggregationError
	if !errors.As(err, &aerr) {
		t.Fatalf("want AggregationError, got %v", err)
	}
	if aerr.Missing != "generator_fuel_consumption" {
		t.Fatalf("missing = %q", aerr.Missing)
	}
}
