package system

import (
	"fmt"

	"github.com/kilianp07/minigrid/core/lp"
)

// applyEnergyBalance adds the per-period supply/demand equality, the DC bus
// split, the optional renewable-penetration floor, the lost-load cap, and
// the thermal balance when cooling subsystems are present.
//
// Conversion losses are folded into the balance coefficients directly:
// inbound flows carry efficiency, outbound flows carry 1/efficiency.
func applyEnergyBalance(b *Build) error {
	sets := b.S.Sets
	dc := dcCoupled(b.S)

	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			for t := 0; t < sets.Periods; t++ {
				e := lp.NewExpr()

				for r := range sets.RenewableSources {
					if dc && b.S.RES.ConnectedToBattery[r] {
						continue // enters through the DC bus split below
					}
					eta := b.S.RES.InverterEfficiency[r]
					e.Add(b.V.ResProduction.At(s, y, r, t), eta)
					e.Add(b.V.Curtailment.At(s, y, r, t), -eta)
				}

				if bat := b.S.Battery; bat != nil {
					if dc {
						e.Add(b.V.DCPositive.At(s, y, t), bat.InverterEffDCAC)
						e.Add(b.V.DCNegative.At(s, y, t), -1/bat.InverterEffACDC)
					} else {
						e.Add(b.V.BatteryOutflow.At(s, y, t), bat.InverterEffDCAC)
						e.Add(b.V.BatteryInflow.At(s, y, t), -1/bat.InverterEffACDC)
					}
				}

				if gen := b.S.Generator; gen != nil {
					for g := range sets.GeneratorTypes {
						e.Add(b.V.GeneratorEnergy.At(s, y, g, t), gen.RectifierEfficiency[g])
					}
				}

				if grid := b.S.Grid; grid != nil {
					e.Add(b.V.GridImport.At(s, y, t), grid.ToMicrogridEfficiency)
					if b.V.GridExport != nil {
						e.Add(b.V.GridExport.At(s, y, t), -1/grid.FromMicrogridEfficiency)
					}
				}

				if b.V.LostLoad != nil {
					e.Add(b.V.LostLoad.At(s, y, t), 1)
				}

				// Cooling compressors draw from the electric bus.
				if b.V.TESElectric != nil {
					e.Add(b.V.TESElectric.At(s, y, t), -1)
				}
				if b.V.CompElectric != nil {
					e.Add(b.V.CompElectric.At(s, y, t), -1)
				}

				b.P.AddEq(fmt.Sprintf("energy_balance[%d,%d,%d]", s, y, t), e, b.S.Demand.At(s, y, t))

				if dc {
					addDCBusSplit(b, s, y, t)
				}
			}
		}
	}

	if b.S.RenewablePenetration > 0 {
		addRenewablePenetration(b)
	}
	if b.V.LostLoad != nil {
		addLostLoadCap(b)
	}
	if b.S.TES != nil || b.S.Compressor != nil {
		addThermalBalance(b)
	}
	return nil
}

// addDCBusSplit links the net DC bus flow (battery plus DC-coupled sources)
// to its positive/negative parts. Under MILP the parts are mutually
// exclusive through a binary mode and the per-year big-M; under LP the
// additive split stands alone, an accepted looseness of the formulation.
func addDCBusSplit(b *Build, s, y, t int) {
	split := lp.NewExpr().
		Add(b.V.DCPositive.At(s, y, t), 1).
		Add(b.V.DCNegative.At(s, y, t), -1).
		Add(b.V.BatteryOutflow.At(s, y, t), -1).
		Add(b.V.BatteryInflow.At(s, y, t), 1)
	for r := range b.S.Sets.RenewableSources {
		if !b.S.RES.ConnectedToBattery[r] {
			continue
		}
		split.Add(b.V.ResProduction.At(s, y, r, t), -1)
		split.Add(b.V.Curtailment.At(s, y, r, t), 1)
	}
	b.P.AddEq(fmt.Sprintf("dc_split[%d,%d,%d]", s, y, t), split, 0)

	if b.V.DCMode != nil {
		m := b.S.BigM[y]
		pos := lp.NewExpr().
			Add(b.V.DCPositive.At(s, y, t), 1).
			Add(b.V.DCMode.At(s, y, t), -m)
		b.P.AddLe(fmt.Sprintf("dc_positive_mode[%d,%d,%d]", s, y, t), pos, 0)

		neg := lp.NewExpr().
			Add(b.V.DCNegative.At(s, y, t), 1).
			Add(b.V.DCMode.At(s, y, t), m)
		b.P.AddLe(fmt.Sprintf("dc_negative_mode[%d,%d,%d]", s, y, t), neg, m)
	}
}

// addRenewablePenetration enforces the yearly renewable share floor. Both
// sides are linear in the decision variables, so the self-referential bound
// reduces to one row per (scenario, year).
func addRenewablePenetration(b *Build) {
	sets := b.S.Sets
	pen := b.S.RenewablePenetration
	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			e := lp.NewExpr()
			for t := 0; t < sets.Periods; t++ {
				for r := range sets.RenewableSources {
					e.Add(b.V.ResProduction.At(s, y, r, t), 1-pen)
					e.Add(b.V.Curtailment.At(s, y, r, t), -(1 - pen))
				}
				if b.S.Generator != nil {
					for g := range sets.GeneratorTypes {
						e.Add(b.V.GeneratorEnergy.At(s, y, g, t), -pen)
					}
				}
				if b.S.Grid != nil {
					e.Add(b.V.GridImport.At(s, y, t), -pen)
				}
			}
			b.P.AddGe(fmt.Sprintf("renewable_penetration[%d,%d]", s, y), e, 0)
		}
	}
}

// addLostLoadCap bounds unserved energy by the allowed demand fraction,
// period by period.
func addLostLoadCap(b *Build) {
	sets := b.S.Sets
	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			for t := 0; t < sets.Periods; t++ {
				e := lp.NewExpr().Add(b.V.LostLoad.At(s, y, t), 1)
				b.P.AddLe(fmt.Sprintf("lost_load_cap[%d,%d,%d]", s, y, t), e,
					b.S.LostLoadFraction*b.S.Demand.At(s, y, t))
			}
		}
	}
}

// addThermalBalance matches cooling supply (TES discharge plus direct
// compressor output) to the thermal demand series, period by period.
func addThermalBalance(b *Build) {
	sets := b.S.Sets
	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			for t := 0; t < sets.Periods; t++ {
				e := lp.NewExpr()
				if tes := b.S.TES; tes != nil {
					e.Add(b.V.TESDischarge.At(s, y, t), tes.QPerKg)
				}
				if b.V.CompCooling != nil {
					e.Add(b.V.CompCooling.At(s, y, t), 1)
				}
				b.P.AddEq(fmt.Sprintf("thermal_balance[%d,%d,%d]", s, y, t), e,
					b.S.ThermalDemand.At(s, y, t))
			}
		}
	}
}
