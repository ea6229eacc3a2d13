package params

import (
	"github.com/kilianp07/minigrid/config"
	"github.com/kilianp07/minigrid/core/tensor"
)

// Space is the typed parameter registry: every quantity the constraint
// modules consume, reshaped to its declared dimensions. It is built once per
// model and never mutated afterwards.
type Space struct {
	Sets *Sets

	MILP              bool
	Brownfield        bool
	CapacityExpansion bool
	MultiObjective    bool
	ParetoPoints      int
	OptimizationGoal  string

	RenewablePenetration float64
	LostLoadFraction     float64
	LostLoadSpecificCost float64
	DiscountRate         float64

	// BigM holds the per-year exclusivity constant used by every
	// flow-direction constraint outside TES (which derives its own from
	// storage capacity). One policy, applied everywhere.
	BigM []float64

	Demand           *tensor.Array // (scenarios, years, periods)
	Resource         *tensor.Array // (scenarios, years, sources, periods), per-unit production
	Temperature      *tensor.Array // (scenarios, years, periods)
	ThermalDemand    *tensor.Array // (scenarios, years, periods)
	GridAvailability *tensor.Array // (scenarios, years, periods), 0/1
	FuelCost         *tensor.Array // (years, generator_types)

	RES        ResParams
	Battery    *BatteryParams
	Generator  *GeneratorParams
	Grid       *GridParams
	TES        *TESParams
	Compressor *CompressorParams
}

// ResParams carries per-source constants, all indexed like Sets.RenewableSources.
type ResParams struct {
	NominalCapacity    []float64
	InverterEfficiency []float64
	Lifetime           []float64
	InvestmentCost     []float64
	OMCost             []float64
	UnitCO2            []float64
	ConnectedToBattery []bool
	ExistingCapacity   []float64
	ExistingYears      []float64
}

type BatteryParams struct {
	NominalCapacity     float64
	ChargeEfficiency    float64
	DischargeEfficiency float64
	InverterEffDCAC     float64
	InverterEffACDC     float64
	DepthOfDischarge    float64
	ChargeTime          float64
	DischargeTime       float64
	InitialSOC          float64
	InvestmentCost      float64
	OMCost              float64
	ReplacementCost     float64
	UnitCO2             float64
	Lifetime            float64
	ExistingCapacity    float64
	ExistingYears       float64
}

type GeneratorParams struct {
	NominalCapacity     []float64
	NominalEfficiency   []float64
	FuelLHV             []float64
	FuelCO2             []float64
	InvestmentCost      []float64
	OMCost              []float64
	UnitCO2             []float64
	RectifierEfficiency []float64
	Lifetime            []float64
	ExistingCapacity    []float64
	ExistingYears       []float64

	PartialLoad           bool
	SampledRelativeOutput []float64
	SampledEfficiency     [][]float64
}

type GridParams struct {
	ConnectionType          string
	YearConnection          int
	MaxPower                float64
	PurchaseCost            float64
	SellPrice               float64
	CO2Factor               float64 // kg/kWh, converted from g/kWh input
	ToMicrogridEfficiency   float64
	FromMicrogridEfficiency float64
}

// CanSell reports whether the connection allows feeding energy back.
func (g *GridParams) CanSell() bool { return g.ConnectionType == config.GridPurchaseSell }

type TESParams struct {
	Capacity                 float64
	InitialSOC               float64
	StorageEfficiency        float64
	MaxChargeRate            float64
	MaxDischargeRate         float64
	COP                      float64
	QPerKg                   float64
	CompressorCapacityMax    float64
	CompressorInvestmentCost float64
}

type CompressorParams struct {
	COP            float64
	CapacityMax    float64
	InvestmentCost float64
}

// ExistingAvailable implements the brownfield lifetime cliff: capacity of age
// existingYears at the reference year is still available in year index y iff
// existingYears + y <= lifetime. Once exceeded it drops out entirely.
func ExistingAvailable(existingYears, lifetime float64, yearIdx int) bool {
	return existingYears+float64(yearIdx) <= lifetime
}

// Build assembles the parameter space from validated settings and raw
// time-series tables. All semantic consistency checks live here and fail
// with a ConfigurationError before any variable or constraint exists.
func Build(cfg *config.Config, in *Inputs) (*Space, error) {
	sets, err := BuildSets(cfg)
	if err != nil {
		return nil, err
	}
	if err := checkTechArrays(cfg); err != nil {
		return nil, err
	}
	if cfg.Advanced.MultiObjective.Enabled && cfg.Advanced.MultiObjective.NumPoints < 2 {
		return nil, Errorf("advanced.multi_objective.num_points", "need at least 2 points, got %d", cfg.Advanced.MultiObjective.NumPoints)
	}

	dr, err := discountRate(cfg.Project.DiscountRate, waccInputs{
		enabled:      cfg.Advanced.WACC.Enabled,
		equityShare:  cfg.Advanced.WACC.EquityShare,
		debtShare:    cfg.Advanced.WACC.DebtShare,
		costOfDebt:   cfg.Advanced.WACC.CostOfDebt,
		costOfEquity: cfg.Advanced.WACC.CostOfEquity,
		tax:          cfg.Advanced.WACC.Tax,
	})
	if err != nil {
		return nil, err
	}

	sp := &Space{
		Sets:                 sets,
		MILP:                 cfg.Advanced.MILPFormulation,
		Brownfield:           cfg.Advanced.Brownfield,
		CapacityExpansion:    cfg.Advanced.CapacityExpansion,
		MultiObjective:       cfg.Advanced.MultiObjective.Enabled,
		ParetoPoints:         cfg.Advanced.MultiObjective.NumPoints,
		OptimizationGoal:     cfg.Project.OptimizationGoal,
		RenewablePenetration: cfg.Project.RenewablePenetration,
		LostLoadFraction:     cfg.Project.LostLoadFraction,
		LostLoadSpecificCost: cfg.Project.LostLoadSpecificCost,
		DiscountRate:         dr,
	}

	if sp.Demand, err = seriesTensor("demand", in.Demand, sets, nil); err != nil {
		return nil, err
	}
	if sp.Resource, err = resourceTensor(in.Resource, sets); err != nil {
		return nil, err
	}

	sp.RES = ResParams{
		NominalCapacity:    cfg.RES.NominalCapacity,
		InverterEfficiency: cfg.RES.InverterEfficiency,
		Lifetime:           cfg.RES.Lifetime,
		InvestmentCost:     cfg.RES.InvestmentCost,
		OMCost:             cfg.RES.OMCost,
		UnitCO2:            cfg.RES.UnitCO2,
		ConnectedToBattery: cfg.RES.ConnectedToBattery,
		ExistingCapacity:   cfg.RES.ExistingCapacity,
		ExistingYears:      cfg.RES.ExistingYears,
	}

	if cfg.Battery.Enabled {
		b := cfg.Battery
		sp.Battery = &BatteryParams{
			NominalCapacity:     b.NominalCapacity,
			ChargeEfficiency:    b.ChargeEfficiency,
			DischargeEfficiency: b.DischargeEfficiency,
			InverterEffDCAC:     b.InverterEffDCAC,
			InverterEffACDC:     b.InverterEffACDC,
			DepthOfDischarge:    b.DepthOfDischarge,
			ChargeTime:          b.ChargeTime,
			DischargeTime:       b.DischargeTime,
			InitialSOC:          b.InitialSOC,
			InvestmentCost:      b.InvestmentCost,
			OMCost:              b.OMCost,
			ReplacementCost:     batteryReplacementCost(b),
			UnitCO2:             b.UnitCO2,
			Lifetime:            b.Lifetime,
			ExistingCapacity:    b.ExistingCapacity,
			ExistingYears:       b.ExistingYears,
		}
	}

	if cfg.Generator.Enabled {
		g := cfg.Generator
		sp.Generator = &GeneratorParams{
			NominalCapacity:       g.NominalCapacity,
			NominalEfficiency:     g.NominalEfficiency,
			FuelLHV:               g.FuelLHV,
			FuelCO2:               g.FuelCO2,
			InvestmentCost:        g.InvestmentCost,
			OMCost:                g.OMCost,
			UnitCO2:               g.UnitCO2,
			RectifierEfficiency:   g.RectifierEfficiency,
			Lifetime:              g.Lifetime,
			ExistingCapacity:      g.ExistingCapacity,
			ExistingYears:         g.ExistingYears,
			PartialLoad:           g.PartialLoad,
			SampledRelativeOutput: g.SampledRelativeOutput,
			SampledEfficiency:     g.SampledEfficiency,
		}
		if sp.FuelCost, err = fuelCostTensor(in.FuelCost, sets); err != nil {
			return nil, err
		}
	}

	if cfg.Grid.Enabled {
		g := cfg.Grid
		sp.Grid = &GridParams{
			ConnectionType:          g.ConnectionType,
			YearConnection:          g.YearConnection,
			MaxPower:                g.MaxPower,
			PurchaseCost:            g.PurchaseCost,
			SellPrice:               g.SellPrice,
			CO2Factor:               g.CO2Factor / 1000, // g/kWh to kg/kWh
			ToMicrogridEfficiency:   g.ToMicrogridEfficiency,
			FromMicrogridEfficiency: g.FromMicrogridEfficiency,
		}
		if sp.GridAvailability, err = seriesTensor("grid_availability", in.GridAvailability, sets, nil); err != nil {
			return nil, err
		}
	}

	if cfg.TES.Enabled {
		t := cfg.TES
		sp.TES = &TESParams{
			Capacity:                 t.Capacity,
			InitialSOC:               t.InitialSOC,
			StorageEfficiency:        t.StorageEfficiency,
			MaxChargeRate:            t.MaxChargeRate,
			MaxDischargeRate:         t.MaxDischargeRate,
			COP:                      t.COP,
			QPerKg:                   t.QPerKg,
			CompressorCapacityMax:    t.CompressorCapacityMax,
			CompressorInvestmentCost: t.CompressorInvestmentCost,
		}
	}
	if cfg.Compressor.Enabled {
		c := cfg.Compressor
		sp.Compressor = &CompressorParams{
			COP:            c.COP,
			CapacityMax:    c.CapacityMax,
			InvestmentCost: c.InvestmentCost,
		}
	}
	if cfg.TES.Enabled || cfg.Compressor.Enabled {
		if sp.Temperature, err = seriesTensor("temperature", in.Temperature, sets, nil); err != nil {
			return nil, err
		}
		if sp.ThermalDemand, err = seriesTensor("thermal_demand", in.ThermalDemand, sets, nil); err != nil {
			return nil, err
		}
	}

	sp.BigM = bigMPolicy(sp, cfg.Advanced.BigMSafetyFactor)
	return sp, nil
}

// bigMPolicy picks one constant per year, large enough to dominate any
// feasible per-period flow it multiplies: the year's peak demand plus the
// hard flow caps of grid and cooling compressors, times the safety factor.
func bigMPolicy(sp *Space, safety float64) []float64 {
	sets := sp.Sets
	m := make([]float64, sets.NumYears())
	var caps float64
	if sp.Grid != nil {
		caps += sp.Grid.MaxPower * sets.DeltaTime
	}
	if sp.TES != nil {
		caps += sp.TES.CompressorCapacityMax * sets.DeltaTime
	}
	if sp.Compressor != nil {
		caps += sp.Compressor.CapacityMax * sets.DeltaTime
	}
	for y := range m {
		peak := 0.0
		for s := 0; s < sets.NumScenarios(); s++ {
			for t := 0; t < sets.Periods; t++ {
				if v := sp.Demand.At(s, y, t); v > peak {
					peak = v
				}
			}
		}
		m[y] = safety * (peak + caps)
	}
	return m
}

// batteryReplacementCost derives the unitary replacement cost from the
// storage share of the investment cost spread over the cycle life.
func batteryReplacementCost(b config.Battery) float64 {
	if b.Cycles == 0 || b.DepthOfDischarge == 0 {
		return 0
	}
	storageCost := b.InvestmentCost * (1 - b.ElectronicsShare)
	return storageCost / (b.Cycles * 2 * b.DepthOfDischarge)
}

func checkTechArrays(cfg *config.Config) error {
	n := len(cfg.RES.Sources)
	resArrays := map[string]int{
		"res.nominal_capacity":    len(cfg.RES.NominalCapacity),
		"res.inverter_efficiency": len(cfg.RES.InverterEfficiency),
		"res.lifetime":            len(cfg.RES.Lifetime),
		"res.investment_cost":     len(cfg.RES.InvestmentCost),
		"res.om_cost":             len(cfg.RES.OMCost),
		"res.unit_co2":            len(cfg.RES.UnitCO2),
	}
	for field, got := range resArrays {
		if got != n {
			return Errorf(field, "%d entries for %d sources", got, n)
		}
	}
	if got := len(cfg.RES.ConnectedToBattery); got != 0 && got != n {
		return Errorf("res.connected_to_battery", "%d entries for %d sources", got, n)
	}
	if cfg.Advanced.Brownfield {
		if len(cfg.RES.ExistingCapacity) != n || len(cfg.RES.ExistingYears) != n {
			return Errorf("res.existing_capacity", "brownfield needs existing capacity and age per source")
		}
	}
	if !cfg.Generator.Enabled {
		return nil
	}
	g := cfg.Generator
	ng := len(g.Types)
	if ng == 0 {
		return Errorf("generator.types", "generator enabled with no types")
	}
	genArrays := map[string]int{
		"generator.nominal_capacity":     len(g.NominalCapacity),
		"generator.nominal_efficiency":   len(g.NominalEfficiency),
		"generator.fuel_lhv":             len(g.FuelLHV),
		"generator.fuel_co2":             len(g.FuelCO2),
		"generator.investment_cost":      len(g.InvestmentCost),
		"generator.om_cost":              len(g.OMCost),
		"generator.unit_co2":             len(g.UnitCO2),
		"generator.rectifier_efficiency": len(g.RectifierEfficiency),
		"generator.lifetime":             len(g.Lifetime),
	}
	for field, got := range genArrays {
		if got != ng {
			return Errorf(field, "%d entries for %d types", got, ng)
		}
	}
	if cfg.Advanced.Brownfield {
		if len(g.ExistingCapacity) != ng || len(g.ExistingYears) != ng {
			return Errorf("generator.existing_capacity", "brownfield needs existing capacity and age per type")
		}
	}
	if g.PartialLoad {
		if len(g.SampledRelativeOutput) < 2 {
			return Errorf("generator.sampled_relative_output", "need at least 2 sample points, got %d", len(g.SampledRelativeOutput))
		}
		if len(g.SampledEfficiency) != ng {
			return Errorf("generator.sampled_efficiency", "%d rows for %d types", len(g.SampledEfficiency), ng)
		}
		for i, row := range g.SampledEfficiency {
			if len(row) != len(g.SampledRelativeOutput) {
				return Errorf("generator.sampled_efficiency", "type %d has %d samples, want %d", i, len(row), len(g.SampledRelativeOutput))
			}
		}
	}
	return nil
}
