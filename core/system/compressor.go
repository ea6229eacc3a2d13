package system

import (
	"fmt"

	"github.com/kilianp07/minigrid/core/lp"
)

// applyCompressor ties direct cooling output to electric consumption by the
// fixed COP and caps it by the sized compressor capacity.
func applyCompressor(b *Build) error {
	sets := b.S.Sets
	comp := b.S.Compressor
	dt := sets.DeltaTime

	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			for t := 0; t < sets.Periods; t++ {
				// cooling * dt == electric * COP
				cop := lp.NewExpr().
					Add(b.V.CompCooling.At(s, y, t), dt).
					Add(b.V.CompElectric.At(s, y, t), -comp.COP)
				b.P.AddEq(fmt.Sprintf("compressor_cop[%d,%d,%d]", s, y, t), cop, 0)

				cap := lp.NewExpr().
					Add(b.V.CompCooling.At(s, y, t), 1).
					Add(b.V.CompCap.At(0), -1)
				b.P.AddLe(fmt.Sprintf("compressor_cap[%d,%d,%d]", s, y, t), cap, 0)
			}
		}
	}
	return nil
}
