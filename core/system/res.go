package system

import (
	"fmt"

	"github.com/kilianp07/minigrid/core/lp"
	"github.com/kilianp07/minigrid/core/params"
)

// existingCapacity returns the brownfield capacity still available in year y,
// applying the lifetime cliff.
func existingCapacity(sp *params.Space, capacity, age, lifetime float64, y int) float64 {
	if !sp.Brownfield {
		return 0
	}
	if !params.ExistingAvailable(age, lifetime, y) {
		return 0
	}
	return capacity
}

// applyRenewables ties production to sized capacity and resource
// availability, keeps curtailment below production, and enforces monotone
// sizing under capacity expansion.
func applyRenewables(b *Build) error {
	sets := b.S.Sets
	res := b.S.RES
	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			step := sets.StepForYear(y)
			for r := range sets.RenewableSources {
				var existing float64
				if b.S.Brownfield {
					existing = existingCapacity(b.S, res.ExistingCapacity[r], res.ExistingYears[r], res.Lifetime[r], y)
				}
				for t := 0; t < sets.Periods; t++ {
					avail := b.S.Resource.At(s, y, r, t)
					e := lp.NewExpr().
						Add(b.V.ResProduction.At(s, y, r, t), 1).
						Add(b.V.ResUnits.At(step, r), -avail*res.NominalCapacity[r])
					b.P.AddEq(fmt.Sprintf("res_production[%d,%d,%d,%d]", s, y, r, t), e, avail*existing)

					net := lp.NewExpr().
						Add(b.V.ResProduction.At(s, y, r, t), 1).
						Add(b.V.Curtailment.At(s, y, r, t), -1)
					b.P.AddGe(fmt.Sprintf("res_net_positive[%d,%d,%d,%d]", s, y, r, t), net, 0)
				}
			}
		}
	}
	if b.S.CapacityExpansion {
		for st := 1; st < sets.NumSteps(); st++ {
			for r := range sets.RenewableSources {
				e := lp.NewExpr().
					Add(b.V.ResUnits.At(st, r), 1).
					Add(b.V.ResUnits.At(st-1, r), -1)
				b.P.AddGe(fmt.Sprintf("res_min_step_units[%d,%d]", st, r), e, 0)
			}
		}
	}
	return nil
}
