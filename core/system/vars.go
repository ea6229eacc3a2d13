package system

import (
	"math"

	"github.com/kilianp07/minigrid/core/lp"
	"github.com/kilianp07/minigrid/core/params"
)

// Vars is the typed decision-variable registry. Every field is one variable
// group with an explicit index tuple; groups of disabled subsystems stay nil.
// Unknown names cannot exist: modules reach variables through these fields,
// never through string lookup.
type Vars struct {
	// Sizing, indexed by investment step (and technology where applicable).
	ResUnits       *lp.Group // (steps, sources)
	BatteryUnits   *lp.Group // (steps)
	GeneratorUnits *lp.Group // (steps, types)

	// Flows, indexed by (scenario, year[, tech], period), per-period energy.
	ResProduction  *lp.Group // (scenarios, years, sources, periods)
	Curtailment    *lp.Group // (scenarios, years, sources, periods)
	BatterySOC     *lp.Group // (scenarios, years, periods)
	BatteryInflow  *lp.Group
	BatteryOutflow *lp.Group

	// DC bus split, present when any source is DC-coupled to the battery.
	DCPositive *lp.Group
	DCNegative *lp.Group
	DCMode     *lp.Group // binary, MILP formulation only

	GeneratorEnergy *lp.Group // (scenarios, years, types, periods)
	GeneratorFuel   *lp.Group // (scenarios, years, types, periods)

	GridImport *lp.Group
	GridExport *lp.Group // purchase_sell connection only
	GridMode   *lp.Group // binary, MILP formulation only

	LostLoad *lp.Group

	// TES state is in kg of ice; charge/discharge are kg/h rates. The mode
	// variable is binary regardless of the LP/MILP toggle.
	TESSOC        *lp.Group
	TESCharge     *lp.Group
	TESDischarge  *lp.Group
	TESProduction *lp.Group
	TESElectric   *lp.Group
	TESMode       *lp.Group
	TESCompCap    *lp.Group // scalar, sized compressor feeding the TES, kW

	CompCooling  *lp.Group // direct compressor cooling output, per period
	CompElectric *lp.Group
	CompCap      *lp.Group // scalar, kW

	// Cost and emissions aggregates, tied to flows by equality rows.
	InvestmentCost     *lp.Group // scalar
	VariableCostAct    *lp.Group // (scenarios), discounted
	VariableCostNonAct *lp.Group // (scenarios)
	ScenarioNPC        *lp.Group // (scenarios)
	TechEmissions      *lp.Group // scalar, installation emissions
	FuelEmissions      *lp.Group // (scenarios)
	GridEmissions      *lp.Group // (scenarios)
	ScenarioCO2        *lp.Group // (scenarios)
	TotalCO2           *lp.Group // scalar, scenario-weighted
}

var inf = math.Inf(1)

// dcCoupled reports whether any renewable source is wired to the battery bus.
func dcCoupled(sp *params.Space) bool {
	if sp.Battery == nil {
		return false
	}
	for _, c := range sp.RES.ConnectedToBattery {
		if c {
			return true
		}
	}
	return false
}

// BuildVars declares every variable of the enabled subsystems on p. Bounds
// carry the sign constraints; separate non-negativity rows are never added.
func BuildVars(p *lp.Problem, sp *params.Space) *Vars {
	sets := sp.Sets
	scenarios := lp.Dim{Name: "scenarios", Size: sets.NumScenarios()}
	years := lp.Dim{Name: "years", Size: sets.NumYears()}
	steps := lp.Dim{Name: "steps", Size: sets.NumSteps()}
	periods := lp.Dim{Name: "periods", Size: sets.Periods}
	sources := lp.Dim{Name: "sources", Size: len(sets.RenewableSources)}

	sizing := lp.Continuous
	if sp.MILP {
		sizing = lp.Integer
	}
	flow := []lp.Dim{scenarios, years, periods}
	scalar := []lp.Dim{{Name: "value", Size: 1}}

	v := &Vars{
		ResUnits:      p.AddGroup("res_units", []lp.Dim{steps, sources}, 0, inf, sizing),
		ResProduction: p.AddGroup("res_energy_production", []lp.Dim{scenarios, years, sources, periods}, 0, inf, lp.Continuous),
		Curtailment:   p.AddGroup("curtailment", []lp.Dim{scenarios, years, sources, periods}, 0, inf, lp.Continuous),
	}

	if sp.Battery != nil {
		v.BatteryUnits = p.AddGroup("battery_units", []lp.Dim{steps}, 0, inf, sizing)
		v.BatterySOC = p.AddGroup("battery_soc", flow, 0, inf, lp.Continuous)
		v.BatteryInflow = p.AddGroup("battery_inflow", flow, 0, inf, lp.Continuous)
		v.BatteryOutflow = p.AddGroup("battery_outflow", flow, 0, inf, lp.Continuous)
		if dcCoupled(sp) {
			v.DCPositive = p.AddGroup("dc_system_energy_positive", flow, 0, inf, lp.Continuous)
			v.DCNegative = p.AddGroup("dc_system_energy_negative", flow, 0, inf, lp.Continuous)
			if sp.MILP {
				v.DCMode = p.AddGroup("single_flow_dc_system", flow, 0, 1, lp.Binary)
			}
		}
	}

	if sp.Generator != nil {
		types := lp.Dim{Name: "types", Size: len(sets.GeneratorTypes)}
		v.GeneratorUnits = p.AddGroup("generator_units", []lp.Dim{steps, types}, 0, inf, sizing)
		v.GeneratorEnergy = p.AddGroup("generator_energy_production", []lp.Dim{scenarios, years, types, periods}, 0, inf, lp.Continuous)
		v.GeneratorFuel = p.AddGroup("generator_fuel_consumption", []lp.Dim{scenarios, years, types, periods}, 0, inf, lp.Continuous)
	}

	if sp.Grid != nil {
		v.GridImport = p.AddGroup("energy_from_grid", flow, 0, inf, lp.Continuous)
		if sp.Grid.CanSell() {
			v.GridExport = p.AddGroup("energy_to_grid", flow, 0, inf, lp.Continuous)
		}
		if sp.MILP {
			v.GridMode = p.AddGroup("single_flow_grid", flow, 0, 1, lp.Binary)
		}
	}

	if sp.LostLoadFraction > 0 {
		v.LostLoad = p.AddGroup("lost_load", flow, 0, inf, lp.Continuous)
	}

	if sp.TES != nil {
		t := sp.TES
		v.TESSOC = p.AddGroup("tes_soc", flow, 0, t.Capacity, lp.Continuous)
		v.TESCharge = p.AddGroup("tes_charge", flow, 0, t.MaxChargeRate, lp.Continuous)
		v.TESDischarge = p.AddGroup("tes_discharge", flow, 0, t.MaxDischargeRate, lp.Continuous)
		v.TESProduction = p.AddGroup("tes_ice_production", flow, 0, inf, lp.Continuous)
		v.TESElectric = p.AddGroup("tes_electric_consumption", flow, 0, inf, lp.Continuous)
		// Hard exclusivity: binary even under the LP formulation.
		v.TESMode = p.AddGroup("tes_mode", flow, 0, 1, lp.Binary)
		v.TESCompCap = p.AddGroup("tes_compressor_capacity", scalar, 0, t.CompressorCapacityMax, lp.Continuous)
	}

	if sp.Compressor != nil {
		v.CompCooling = p.AddGroup("compressor_cooling_output", flow, 0, inf, lp.Continuous)
		v.CompElectric = p.AddGroup("compressor_electric_consumption", flow, 0, inf, lp.Continuous)
		v.CompCap = p.AddGroup("compressor_capacity", scalar, 0, sp.Compressor.CapacityMax, lp.Continuous)
	}

	scen := []lp.Dim{scenarios}
	v.InvestmentCost = p.AddGroup("investment_cost", scalar, 0, inf, lp.Continuous)
	v.VariableCostAct = p.AddGroup("scenario_variable_cost_act", scen, -inf, inf, lp.Continuous)
	v.VariableCostNonAct = p.AddGroup("scenario_variable_cost_nonact", scen, -inf, inf, lp.Continuous)
	v.ScenarioNPC = p.AddGroup("scenario_net_present_cost", scen, -inf, inf, lp.Continuous)
	v.TechEmissions = p.AddGroup("installation_emission", scalar, 0, inf, lp.Continuous)
	if sp.Generator != nil {
		v.FuelEmissions = p.AddGroup("fuel_emission", scen, 0, inf, lp.Continuous)
	}
	if sp.Grid != nil {
		v.GridEmissions = p.AddGroup("grid_emission", scen, 0, inf, lp.Continuous)
	}
	v.ScenarioCO2 = p.AddGroup("scenario_co2_emission", scen, 0, inf, lp.Continuous)
	v.TotalCO2 = p.AddGroup("total_co2_emission", scalar, 0, inf, lp.Continuous)
	return v
}
