package system

import (
	"fmt"

	"github.com/kilianp07/minigrid/core/lp"
)

// applyGrid bounds import and export by the connection capacity and the
// availability series, forces both to zero before the connection year, and
// makes them mutually exclusive under MILP through the single-flow binary.
func applyGrid(b *Build) error {
	sets := b.S.Sets
	grid := b.S.Grid

	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			connected := sets.Years[y] >= grid.YearConnection
			for t := 0; t < sets.Periods; t++ {
				imp := lp.NewExpr().Add(b.V.GridImport.At(s, y, t), 1)
				if !connected {
					b.P.AddEq(fmt.Sprintf("no_grid_import[%d,%d,%d]", s, y, t), imp, 0)
					if b.V.GridExport != nil {
						exp := lp.NewExpr().Add(b.V.GridExport.At(s, y, t), 1)
						b.P.AddEq(fmt.Sprintf("no_grid_export[%d,%d,%d]", s, y, t), exp, 0)
					}
					continue
				}

				cap := b.S.GridAvailability.At(s, y, t) * grid.MaxPower * sets.DeltaTime
				if b.V.GridMode != nil {
					imp.Add(b.V.GridMode.At(s, y, t), -cap)
					b.P.AddLe(fmt.Sprintf("grid_import_max[%d,%d,%d]", s, y, t), imp, 0)
				} else {
					b.P.AddLe(fmt.Sprintf("grid_import_max[%d,%d,%d]", s, y, t), imp, cap)
				}

				if b.V.GridExport != nil {
					exp := lp.NewExpr().Add(b.V.GridExport.At(s, y, t), 1)
					if b.V.GridMode != nil {
						exp.Add(b.V.GridMode.At(s, y, t), cap)
						b.P.AddLe(fmt.Sprintf("grid_export_max[%d,%d,%d]", s, y, t), exp, cap)
					} else {
						b.P.AddLe(fmt.Sprintf("grid_export_max[%d,%d,%d]", s, y, t), exp, cap)
					}
				}
			}
		}
	}
	return nil
}
