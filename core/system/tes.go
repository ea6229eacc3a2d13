package system

import (
	"fmt"

	"github.com/kilianp07/minigrid/core/lp"
)

// applyTES adds the ice-storage state recurrence with year-boundary
// wraparound, the hard charge/discharge exclusivity, the compressor coupling
// and capacity cap, and the global energy-conservation check.
//
// State is in kg of ice, charge/discharge are kg/h rates, and electric
// consumption is per-period energy. Exclusivity uses a binary mode whatever
// the global formulation toggle: the TES subsystem always needs MILP.
func applyTES(b *Build) error {
	sets := b.S.Sets
	tes := b.S.TES
	dt := sets.DeltaTime
	// Tightest valid M for a rate bounded by what would overfill the store.
	m := tes.Capacity / dt

	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			for t := 0; t < sets.Periods; t++ {
				soc := lp.NewExpr().
					Add(b.V.TESSOC.At(s, y, t), 1).
					Add(b.V.TESCharge.At(s, y, t), -dt).
					Add(b.V.TESDischarge.At(s, y, t), dt)
				rhs := 0.0
				switch {
				case y == 0 && t == 0:
					rhs = tes.StorageEfficiency * tes.Capacity * tes.InitialSOC
				case t == 0:
					soc.Add(b.V.TESSOC.At(s, y-1, sets.Periods-1), -tes.StorageEfficiency)
				default:
					soc.Add(b.V.TESSOC.At(s, y, t-1), -tes.StorageEfficiency)
				}
				b.P.AddEq(fmt.Sprintf("tes_soc[%d,%d,%d]", s, y, t), soc, rhs)

				charge := lp.NewExpr().
					Add(b.V.TESCharge.At(s, y, t), 1).
					Add(b.V.TESMode.At(s, y, t), -m)
				b.P.AddLe(fmt.Sprintf("tes_charge_mode[%d,%d,%d]", s, y, t), charge, 0)

				discharge := lp.NewExpr().
					Add(b.V.TESDischarge.At(s, y, t), 1).
					Add(b.V.TESMode.At(s, y, t), m)
				b.P.AddLe(fmt.Sprintf("tes_discharge_mode[%d,%d,%d]", s, y, t), discharge, m)

				// production * q_per_kg * dt == electric * COP
				cop := lp.NewExpr().
					Add(b.V.TESProduction.At(s, y, t), tes.QPerKg*dt).
					Add(b.V.TESElectric.At(s, y, t), -tes.COP)
				b.P.AddEq(fmt.Sprintf("tes_cop[%d,%d,%d]", s, y, t), cop, 0)

				// All produced ice enters storage.
				link := lp.NewExpr().
					Add(b.V.TESCharge.At(s, y, t), 1).
					Add(b.V.TESProduction.At(s, y, t), -1)
				b.P.AddEq(fmt.Sprintf("tes_charge_is_production[%d,%d,%d]", s, y, t), link, 0)

				// The TES compressor cannot draw more than its sized
				// electric capacity.
				cap := lp.NewExpr().
					Add(b.V.TESElectric.At(s, y, t), 1).
					Add(b.V.TESCompCap.At(0), -dt)
				b.P.AddLe(fmt.Sprintf("tes_compressor_cap[%d,%d,%d]", s, y, t), cap, 0)

				// m_prod <= cap * COP / q_per_kg
				ice := lp.NewExpr().
					Add(b.V.TESProduction.At(s, y, t), tes.QPerKg).
					Add(b.V.TESCompCap.At(0), -tes.COP)
				b.P.AddLe(fmt.Sprintf("tes_ice_production_cap[%d,%d,%d]", s, y, t), ice, 0)
			}
		}

		// Cumulative discharge can never exceed cumulative production plus
		// the initial stock.
		conserve := lp.NewExpr()
		for y := 0; y < sets.NumYears(); y++ {
			for t := 0; t < sets.Periods; t++ {
				conserve.Add(b.V.TESDischarge.At(s, y, t), dt)
				conserve.Add(b.V.TESProduction.At(s, y, t), -dt)
			}
		}
		b.P.AddLe(fmt.Sprintf("tes_energy_conservation[%d]", s), conserve,
			tes.Capacity*tes.InitialSOC)
	}
	return nil
}
