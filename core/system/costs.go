package system

import (
	"fmt"
	"math"

	"github.com/kilianp07/minigrid/core/lp"
)

// operatingDiscount returns the actualization factor for operating costs of
// year index y (paid at the end of the year).
func operatingDiscount(rate float64, y int) float64 {
	return 1 / math.Pow(1+rate, float64(y+1))
}

// investmentDiscount returns the actualization factor for capacity committed
// at an investment step, discounted to the step's first year.
func investmentDiscount(rate float64, step, stepDuration int) float64 {
	return 1 / math.Pow(1+rate, float64(step*stepDuration))
}

// addStepDeltas appends the incremental-units terms of one technology across
// all steps: coef(step) applies to the capacity newly committed at that step.
func addStepDeltas(e *lp.Expr, units func(step int) lp.Var, steps int, coef func(step int) float64) {
	for st := 0; st < steps; st++ {
		c := coef(st)
		e.Add(units(st), c)
		if st > 0 {
			e.Add(units(st-1), -c)
		}
	}
}

// applyCosts ties the scalar cost aggregates to the sizing and flow
// variables: discounted investment, per-scenario variable costs in
// actualized and non-actualized variants, and the per-scenario net present
// cost. Salvage value is not modeled.
func applyCosts(b *Build) error {
	if err := costRequirements(b); err != nil {
		return err
	}
	sets := b.S.Sets
	rate := b.S.DiscountRate

	// Investment: incremental units per step, priced and discounted to the
	// step's first year. Sized compressors are committed at year zero.
	inv := lp.NewExpr().Add(b.V.InvestmentCost.At(0), 1)
	for r := range sets.RenewableSources {
		res := b.S.RES
		r := r
		addStepDeltas(inv, func(st int) lp.Var { return b.V.ResUnits.At(st, r) }, sets.NumSteps(), func(st int) float64 {
			return -res.NominalCapacity[r] * res.InvestmentCost[r] * investmentDiscount(rate, st, sets.StepDuration)
		})
	}
	if bat := b.S.Battery; bat != nil {
		addStepDeltas(inv, func(st int) lp.Var { return b.V.BatteryUnits.At(st) }, sets.NumSteps(), func(st int) float64 {
			return -bat.NominalCapacity * bat.InvestmentCost * investmentDiscount(rate, st, sets.StepDuration)
		})
	}
	if gen := b.S.Generator; gen != nil {
		for g := range sets.GeneratorTypes {
			g := g
			addStepDeltas(inv, func(st int) lp.Var { return b.V.GeneratorUnits.At(st, g) }, sets.NumSteps(), func(st int) float64 {
				return -gen.NominalCapacity[g] * gen.InvestmentCost[g] * investmentDiscount(rate, st, sets.StepDuration)
			})
		}
	}
	if tes := b.S.TES; tes != nil {
		inv.Add(b.V.TESCompCap.At(0), -tes.CompressorInvestmentCost)
	}
	if comp := b.S.Compressor; comp != nil {
		inv.Add(b.V.CompCap.At(0), -comp.InvestmentCost)
	}
	b.P.AddEq("investment_cost", inv, 0)

	for s := 0; s < sets.NumScenarios(); s++ {
		act := lp.NewExpr().Add(b.V.VariableCostAct.At(s), 1)
		nonact := lp.NewExpr().Add(b.V.VariableCostNonAct.At(s), 1)
		var actConst, nonactConst float64

		for y := 0; y < sets.NumYears(); y++ {
			df := operatingDiscount(rate, y)
			add := func(v lp.Var, coef float64) {
				nonact.Add(v, -coef)
				act.Add(v, -coef*df)
			}

			// O&M on installed capacity, including surviving existing assets.
			step := sets.StepForYear(y)
			for r := range sets.RenewableSources {
				res := b.S.RES
				add(b.V.ResUnits.At(step, r), res.NominalCapacity[r]*res.OMCost[r])
				var existing float64
				if b.S.Brownfield {
					existing = existingCapacity(b.S, res.ExistingCapacity[r], res.ExistingYears[r], res.Lifetime[r], y)
				}
				nonactConst += existing * res.OMCost[r]
				actConst += existing * res.OMCost[r] * df
			}
			if bat := b.S.Battery; bat != nil {
				add(b.V.BatteryUnits.At(step), bat.NominalCapacity*bat.OMCost)
				existing := existingCapacity(b.S, bat.ExistingCapacity, bat.ExistingYears, bat.Lifetime, y)
				nonactConst += existing * bat.OMCost
				actConst += existing * bat.OMCost * df
			}
			if gen := b.S.Generator; gen != nil {
				for g := range sets.GeneratorTypes {
					add(b.V.GeneratorUnits.At(step, g), gen.NominalCapacity[g]*gen.OMCost[g])
					var existing float64
					if b.S.Brownfield {
						existing = existingCapacity(b.S, gen.ExistingCapacity[g], gen.ExistingYears[g], gen.Lifetime[g], y)
					}
					nonactConst += existing * gen.OMCost[g]
					actConst += existing * gen.OMCost[g] * df
				}
			}

			for t := 0; t < sets.Periods; t++ {
				if b.S.Generator != nil {
					for g := range sets.GeneratorTypes {
						add(b.V.GeneratorFuel.At(s, y, g, t), b.S.FuelCost.At(y, g))
					}
				}
				if grid := b.S.Grid; grid != nil {
					add(b.V.GridImport.At(s, y, t), grid.PurchaseCost)
					if b.V.GridExport != nil {
						add(b.V.GridExport.At(s, y, t), -grid.SellPrice)
					}
				}
				if bat := b.S.Battery; bat != nil {
					add(b.V.BatteryInflow.At(s, y, t), bat.ReplacementCost)
					add(b.V.BatteryOutflow.At(s, y, t), bat.ReplacementCost)
				}
				if b.V.LostLoad != nil {
					add(b.V.LostLoad.At(s, y, t), b.S.LostLoadSpecificCost)
				}
			}
		}

		b.P.AddEq(fmt.Sprintf("scenario_variable_cost_act[%d]", s), act, actConst)
		b.P.AddEq(fmt.Sprintf("scenario_variable_cost_nonact[%d]", s), nonact, nonactConst)

		npc := lp.NewExpr().
			Add(b.V.ScenarioNPC.At(s), 1).
			Add(b.V.InvestmentCost.At(0), -1).
			Add(b.V.VariableCostAct.At(s), -1)
		b.P.AddEq(fmt.Sprintf("scenario_net_present_cost[%d]", s), npc, 0)
	}
	return nil
}

func costRequirements(b *Build) error {
	if b.S.Generator != nil {
		if err := require("fuel cost", "generator_fuel_consumption", b.V.GeneratorFuel); err != nil {
			return err
		}
	}
	if b.S.Grid != nil {
		if err := require("grid cost", "energy_from_grid", b.V.GridImport); err != nil {
			return err
		}
	}
	if b.S.Battery != nil {
		if err := require("battery replacement cost", "battery_inflow", b.V.BatteryInflow); err != nil {
			return err
		}
	}
	if b.S.LostLoadFraction > 0 {
		if err := require("lost load cost", "lost_load", b.V.LostLoad); err != nil {
			return err
		}
	}
	return nil
}
