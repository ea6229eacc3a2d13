package config

import "fmt"

// Optimization goals selectable for the scalar objective.
const (
	GoalNetPresentCost = "npc"
	GoalVariableCost   = "variable_cost"
)

// Grid connection types.
const (
	GridPurchaseOnly = "purchase"
	GridPurchaseSell = "purchase_sell"
)

// Project holds the top-level horizon and economic settings.
type Project struct {
	// StartYear is the first calendar year of the horizon (reference year).
	StartYear int `json:"start_year"`
	// Years is the number of consecutive years in the horizon.
	Years int `json:"years"`
	// Periods is the number of intra-year time slices (8760 for hourly).
	Periods int `json:"periods"`
	// ScenarioWeights carries one probability weight per scenario. A single
	// scenario with weight 1 is assumed when empty.
	ScenarioWeights []float64 `json:"scenario_weights"`
	// DiscountRate is used unless WACC financing is enabled.
	DiscountRate float64 `json:"discount_rate"`
	// OptimizationGoal selects the scalar objective: "npc" or "variable_cost".
	OptimizationGoal string `json:"optimization_goal"`
	// RenewablePenetration is the minimum renewable share of total yearly
	// production, 0 disables the constraint.
	RenewablePenetration float64 `json:"renewable_penetration"`
	// LostLoadFraction is the maximum share of demand that may go unserved,
	// 0 disables lost load entirely.
	LostLoadFraction     float64 `json:"lost_load_fraction"`
	LostLoadSpecificCost float64 `json:"lost_load_specific_cost"`
}

func (p *Project) SetDefaults() {
	if p.Years == 0 {
		p.Years = 1
	}
	if p.Periods == 0 {
		p.Periods = 8760
	}
	if len(p.ScenarioWeights) == 0 {
		p.ScenarioWeights = []float64{1}
	}
	if p.OptimizationGoal == "" {
		p.OptimizationGoal = GoalNetPresentCost
	}
}

func (p Project) Validate() error {
	if p.Years < 1 {
		return fmt.Errorf("years must be positive, got %d", p.Years)
	}
	if p.Periods < 1 {
		return fmt.Errorf("periods must be positive, got %d", p.Periods)
	}
	if p.OptimizationGoal != GoalNetPresentCost && p.OptimizationGoal != GoalVariableCost {
		return fmt.Errorf("unknown optimization goal %q", p.OptimizationGoal)
	}
	if p.LostLoadFraction < 0 || p.LostLoadFraction > 1 {
		return fmt.Errorf("lost load fraction %v out of [0,1]", p.LostLoadFraction)
	}
	if p.RenewablePenetration < 0 || p.RenewablePenetration > 1 {
		return fmt.Errorf("renewable penetration %v out of [0,1]", p.RenewablePenetration)
	}
	return nil
}

// WACC holds the weighted-average-cost-of-capital financing inputs.
type WACC struct {
	Enabled      bool    `json:"enabled"`
	EquityShare  float64 `json:"equity_share"`
	DebtShare    float64 `json:"debt_share"`
	CostOfDebt   float64 `json:"cost_of_debt"`
	CostOfEquity float64 `json:"cost_of_equity"`
	Tax          float64 `json:"tax"`
}

// MultiObjective configures the Pareto epsilon-constraint sweep.
type MultiObjective struct {
	Enabled bool `json:"enabled"`
	// NumPoints is the number of sweep points; must be at least 2.
	NumPoints int `json:"num_points"`
}

// Advanced holds formulation and expansion toggles.
type Advanced struct {
	// MILPFormulation enables binary mode variables for flow exclusivity.
	// Under the LP formulation exclusivity is relaxed to an additive split.
	MILPFormulation bool `json:"milp_formulation"`
	// Brownfield accounts for pre-existing capacity with known age.
	Brownfield bool `json:"brownfield"`
	// CapacityExpansion sizes capacity per investment step instead of once.
	CapacityExpansion bool `json:"capacity_expansion"`
	// StepDuration is the number of years covered by one investment step.
	StepDuration int `json:"step_duration"`
	// BigMSafetyFactor scales every big-M constant above the tightest valid
	// bound. Values below 1 are rejected.
	BigMSafetyFactor float64        `json:"big_m_safety_factor"`
	WACC             WACC           `json:"wacc"`
	MultiObjective   MultiObjective `json:"multi_objective"`
}

func (a *Advanced) SetDefaults(years int) {
	if a.StepDuration == 0 {
		if a.CapacityExpansion {
			a.StepDuration = 1
		} else {
			a.StepDuration = years
		}
	}
	if a.BigMSafetyFactor == 0 {
		a.BigMSafetyFactor = 2
	}
	if a.MultiObjective.Enabled && a.MultiObjective.NumPoints == 0 {
		a.MultiObjective.NumPoints = 5
	}
}

func (a Advanced) Validate() error {
	if a.StepDuration < 1 {
		return fmt.Errorf("step duration must be positive, got %d", a.StepDuration)
	}
	if a.BigMSafetyFactor < 1 {
		return fmt.Errorf("big-M safety factor %v below 1", a.BigMSafetyFactor)
	}
	return nil
}

// Data references the time-series input tables, one column per scenario
// (resource tables: one column per scenario and source).
type Data struct {
	DemandFile           string `json:"demand_file"`
	ResourceFile         string `json:"resource_file"`
	TemperatureFile      string `json:"temperature_file"`
	ThermalDemandFile    string `json:"thermal_demand_file"`
	FuelCostFile         string `json:"fuel_cost_file"`
	GridAvailabilityFile string `json:"grid_availability_file"`
}

// RES describes the renewable sources. All slices are per-source and must
// have the same length as Sources.
type RES struct {
	Sources            []string  `json:"sources"`
	NominalCapacity    []float64 `json:"nominal_capacity"`
	InverterEfficiency []float64 `json:"inverter_efficiency"`
	Lifetime           []float64 `json:"lifetime"`
	InvestmentCost     []float64 `json:"investment_cost"`
	OMCost             []float64 `json:"om_cost"`
	UnitCO2            []float64 `json:"unit_co2"`
	ConnectedToBattery []bool    `json:"connected_to_battery"`
	// Brownfield only.
	ExistingCapacity []float64 `json:"existing_capacity"`
	ExistingYears    []float64 `json:"existing_years"`
}

func (r RES) Validate() error {
	if len(r.Sources) == 0 {
		return fmt.Errorf("at least one renewable source is required")
	}
	return nil
}

// Battery describes the storage bank. Capacities are per unit.
type Battery struct {
	Enabled             bool    `json:"enabled"`
	NominalCapacity     float64 `json:"nominal_capacity"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	InverterEffDCAC     float64 `json:"inverter_eff_dc_ac"`
	InverterEffACDC     float64 `json:"inverter_eff_ac_dc"`
	DepthOfDischarge    float64 `json:"depth_of_discharge"`
	// ChargeTime and DischargeTime bound power as capacity/time, in hours.
	ChargeTime     float64 `json:"charge_time"`
	DischargeTime  float64 `json:"discharge_time"`
	InitialSOC     float64 `json:"initial_soc"`
	InvestmentCost float64 `json:"investment_cost"`
	OMCost         float64 `json:"om_cost"`
	// ElectronicsShare is the fraction of the investment cost attributable
	// to power electronics, excluded from the replacement cost.
	ElectronicsShare float64 `json:"electronics_share"`
	Cycles           float64 `json:"cycles"`
	UnitCO2          float64 `json:"unit_co2"`
	Lifetime         float64 `json:"lifetime"`
	ExistingCapacity float64 `json:"existing_capacity"`
	ExistingYears    float64 `json:"existing_years"`
}

// Generator describes the dispatchable generator types. All slices are
// per-type and must have the same length as Types.
type Generator struct {
	Enabled             bool      `json:"enabled"`
	Types               []string  `json:"types"`
	NominalCapacity     []float64 `json:"nominal_capacity"`
	NominalEfficiency   []float64 `json:"nominal_efficiency"`
	FuelLHV             []float64 `json:"fuel_lhv"`
	FuelCO2             []float64 `json:"fuel_co2"`
	InvestmentCost      []float64 `json:"investment_cost"`
	OMCost              []float64 `json:"om_cost"`
	UnitCO2             []float64 `json:"unit_co2"`
	RectifierEfficiency []float64 `json:"rectifier_efficiency"`
	Lifetime            []float64 `json:"lifetime"`
	ExistingCapacity    []float64 `json:"existing_capacity"`
	ExistingYears       []float64 `json:"existing_years"`
	// PartialLoad enables the piecewise-linear fuel curve built from the
	// sampled efficiency points below.
	PartialLoad bool `json:"partial_load"`
	// SampledRelativeOutput holds increasing relative output points shared
	// by all types; SampledEfficiency holds one row per type.
	SampledRelativeOutput []float64   `json:"sampled_relative_output"`
	SampledEfficiency     [][]float64 `json:"sampled_efficiency"`
}

// Grid describes the national grid tie.
type Grid struct {
	Enabled        bool    `json:"enabled"`
	ConnectionType string  `json:"connection_type"`
	YearConnection int     `json:"year_connection"`
	MaxPower       float64 `json:"max_power"`
	PurchaseCost   float64 `json:"purchase_cost"`
	SellPrice      float64 `json:"sell_price"`
	// CO2Factor is the grid emission intensity in g/kWh.
	CO2Factor               float64 `json:"co2_factor"`
	ToMicrogridEfficiency   float64 `json:"to_microgrid_efficiency"`
	FromMicrogridEfficiency float64 `json:"from_microgrid_efficiency"`
}

func (g Grid) Validate() error {
	if !g.Enabled {
		return nil
	}
	if g.ConnectionType != GridPurchaseOnly && g.ConnectionType != GridPurchaseSell {
		return fmt.Errorf("unknown grid connection type %q", g.ConnectionType)
	}
	if g.MaxPower <= 0 {
		return fmt.Errorf("grid max power must be positive, got %v", g.MaxPower)
	}
	return nil
}

// TES describes the ice thermal storage and its dedicated compressor.
type TES struct {
	Enabled bool `json:"enabled"`
	// Capacity is the storage size in kg of ice.
	Capacity          float64 `json:"capacity"`
	InitialSOC        float64 `json:"initial_soc"`
	StorageEfficiency float64 `json:"storage_efficiency"`
	MaxChargeRate     float64 `json:"max_charge_rate"`
	MaxDischargeRate  float64 `json:"max_discharge_rate"`
	COP               float64 `json:"cop"`
	// QPerKg is the specific cooling energy per kg of ice, kWh/kg.
	QPerKg                   float64 `json:"q_per_kg"`
	CompressorCapacityMax    float64 `json:"compressor_capacity_max"`
	CompressorInvestmentCost float64 `json:"compressor_investment_cost"`
}

// Compressor describes the direct-cooling electric compressor.
type Compressor struct {
	Enabled        bool    `json:"enabled"`
	COP            float64 `json:"cop"`
	CapacityMax    float64 `json:"capacity_max"`
	InvestmentCost float64 `json:"investment_cost"`
}
