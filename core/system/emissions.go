package system

import (
	"fmt"

	"github.com/kilianp07/minigrid/core/lp"
)

// applyEmissions ties the CO2 aggregates to the model: installation
// emissions on incremental capacity per step, fuel-combustion emissions,
// grid-import emissions, the per-scenario total, and the scenario-weighted
// total that the Pareto sweep constrains.
func applyEmissions(b *Build) error {
	if err := emissionRequirements(b); err != nil {
		return err
	}
	sets := b.S.Sets

	install := lp.NewExpr().Add(b.V.TechEmissions.At(0), 1)
	for r := range sets.RenewableSources {
		res := b.S.RES
		r := r
		addStepDeltas(install, func(st int) lp.Var { return b.V.ResUnits.At(st, r) }, sets.NumSteps(), func(int) float64 {
			return -res.NominalCapacity[r] * res.UnitCO2[r]
		})
	}
	if bat := b.S.Battery; bat != nil {
		addStepDeltas(install, func(st int) lp.Var { return b.V.BatteryUnits.At(st) }, sets.NumSteps(), func(int) float64 {
			return -bat.NominalCapacity * bat.UnitCO2
		})
	}
	if gen := b.S.Generator; gen != nil {
		for g := range sets.GeneratorTypes {
			g := g
			addStepDeltas(install, func(st int) lp.Var { return b.V.GeneratorUnits.At(st, g) }, sets.NumSteps(), func(int) float64 {
				return -gen.NominalCapacity[g] * gen.UnitCO2[g]
			})
		}
	}
	b.P.AddEq("installation_emission", install, 0)

	for s := 0; s < sets.NumScenarios(); s++ {
		scen := lp.NewExpr().
			Add(b.V.ScenarioCO2.At(s), 1).
			Add(b.V.TechEmissions.At(0), -1)

		if b.S.Generator != nil {
			fuel := lp.NewExpr().Add(b.V.FuelEmissions.At(s), 1)
			for y := 0; y < sets.NumYears(); y++ {
				for g := range sets.GeneratorTypes {
					for t := 0; t < sets.Periods; t++ {
						fuel.Add(b.V.GeneratorFuel.At(s, y, g, t), -b.S.Generator.FuelCO2[g])
					}
				}
			}
			b.P.AddEq(fmt.Sprintf("fuel_emission[%d]", s), fuel, 0)
			scen.Add(b.V.FuelEmissions.At(s), -1)
		}

		if b.S.Grid != nil {
			grid := lp.NewExpr().Add(b.V.GridEmissions.At(s), 1)
			for y := 0; y < sets.NumYears(); y++ {
				for t := 0; t < sets.Periods; t++ {
					grid.Add(b.V.GridImport.At(s, y, t), -b.S.Grid.CO2Factor)
				}
			}
			b.P.AddEq(fmt.Sprintf("grid_emission[%d]", s), grid, 0)
			scen.Add(b.V.GridEmissions.At(s), -1)
		}

		b.P.AddEq(fmt.Sprintf("scenario_co2_emission[%d]", s), scen, 0)
	}

	total := lp.NewExpr().Add(b.V.TotalCO2.At(0), 1)
	for s := 0; s < sets.NumScenarios(); s++ {
		total.Add(b.V.ScenarioCO2.At(s), -sets.ScenarioWeights[s])
	}
	b.P.AddEq("total_co2_emission", total, 0)
	return nil
}

func emissionRequirements(b *Build) error {
	if b.S.Generator != nil {
		if err := require("fuel emissions", "generator_fuel_consumption", b.V.GeneratorFuel); err != nil {
			return err
		}
		if err := require("fuel emissions", "fuel_emission", b.V.FuelEmissions); err != nil {
			return err
		}
	}
	if b.S.Grid != nil {
		if err := require("grid emissions", "energy_from_grid", b.V.GridImport); err != nil {
			return err
		}
		if err := require("grid emissions", "grid_emission", b.V.GridEmissions); err != nil {
			return err
		}
	}
	return nil
}
