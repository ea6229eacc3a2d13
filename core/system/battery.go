package system

import (
	"fmt"

	"github.com/kilianp07/minigrid/core/lp"
)

// batteryCapacity appends the installed battery capacity of year y to e with
// the given coefficient and returns the constant part (brownfield existing
// capacity, subject to the lifetime cliff).
func batteryCapacity(b *Build, e *lp.Expr, y int, coef float64) float64 {
	bat := b.S.Battery
	step := b.S.Sets.StepForYear(y)
	e.Add(b.V.BatteryUnits.At(step), coef*bat.NominalCapacity)
	return coef * existingCapacity(b.S, bat.ExistingCapacity, bat.ExistingYears, bat.Lifetime, y)
}

// applyBattery adds the state-of-charge recurrence with year-boundary
// wraparound, the SOC envelope derived from depth of discharge, the
// charge/discharge power limits, and monotone sizing under expansion.
func applyBattery(b *Build) error {
	sets := b.S.Sets
	bat := b.S.Battery

	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			for t := 0; t < sets.Periods; t++ {
				soc := lp.NewExpr().
					Add(b.V.BatterySOC.At(s, y, t), 1).
					Add(b.V.BatteryInflow.At(s, y, t), -bat.ChargeEfficiency).
					Add(b.V.BatteryOutflow.At(s, y, t), 1/bat.DischargeEfficiency)
				rhs := 0.0
				switch {
				case y == 0 && t == 0:
					// Synthetic previous state: the initial fraction of the
					// first year's installed capacity.
					rhs = batteryCapacity(b, soc, 0, -bat.InitialSOC)
				case t == 0:
					soc.Add(b.V.BatterySOC.At(s, y-1, sets.Periods-1), -1)
				default:
					soc.Add(b.V.BatterySOC.At(s, y, t-1), -1)
				}
				b.P.AddEq(fmt.Sprintf("battery_soc[%d,%d,%d]", s, y, t), soc, -rhs)

				hi := lp.NewExpr().Add(b.V.BatterySOC.At(s, y, t), 1)
				cHi := batteryCapacity(b, hi, y, -1)
				b.P.AddLe(fmt.Sprintf("battery_soc_max[%d,%d,%d]", s, y, t), hi, -cHi)

				lo := lp.NewExpr().Add(b.V.BatterySOC.At(s, y, t), 1)
				cLo := batteryCapacity(b, lo, y, -(1 - bat.DepthOfDischarge))
				b.P.AddGe(fmt.Sprintf("battery_soc_min[%d,%d,%d]", s, y, t), lo, -cLo)

				in := lp.NewExpr().Add(b.V.BatteryInflow.At(s, y, t), 1)
				cIn := batteryCapacity(b, in, y, -sets.DeltaTime/bat.ChargeTime)
				b.P.AddLe(fmt.Sprintf("battery_charge_power[%d,%d,%d]", s, y, t), in, -cIn)

				out := lp.NewExpr().Add(b.V.BatteryOutflow.At(s, y, t), 1)
				cOut := batteryCapacity(b, out, y, -sets.DeltaTime/bat.DischargeTime)
				b.P.AddLe(fmt.Sprintf("battery_discharge_power[%d,%d,%d]", s, y, t), out, -cOut)
			}
		}
	}

	if b.S.CapacityExpansion {
		for st := 1; st < sets.NumSteps(); st++ {
			e := lp.NewExpr().
				Add(b.V.BatteryUnits.At(st), 1).
				Add(b.V.BatteryUnits.At(st-1), -1)
			b.P.AddGe(fmt.Sprintf("battery_min_step_units[%d]", st), e, 0)
		}
	}
	return nil
}
