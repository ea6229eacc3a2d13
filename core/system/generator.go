package system

import (
	"fmt"

	"github.com/kilianp07/minigrid/core/lp"
)

// applyGenerator caps production by installed capacity, ties fuel consumption
// to production (nominal ratio or piecewise secant envelope), and enforces
// monotone sizing under expansion.
func applyGenerator(b *Build) error {
	sets := b.S.Sets
	gen := b.S.Generator

	for s := 0; s < sets.NumScenarios(); s++ {
		for y := 0; y < sets.NumYears(); y++ {
			step := sets.StepForYear(y)
			for g := range sets.GeneratorTypes {
				var existing float64
				if b.S.Brownfield {
					existing = existingCapacity(b.S, gen.ExistingCapacity[g], gen.ExistingYears[g], gen.Lifetime[g], y)
				}
				for t := 0; t < sets.Periods; t++ {
					max := lp.NewExpr().
						Add(b.V.GeneratorEnergy.At(s, y, g, t), 1).
						Add(b.V.GeneratorUnits.At(step, g), -gen.NominalCapacity[g]*sets.DeltaTime)
					b.P.AddLe(fmt.Sprintf("generator_max_production[%d,%d,%d,%d]", s, y, g, t), max, existing*sets.DeltaTime)

					if gen.PartialLoad {
						addFuelSecants(b, s, y, g, t, step)
					} else {
						ratio := 1 / (gen.NominalEfficiency[g] * gen.FuelLHV[g])
						fuel := lp.NewExpr().
							Add(b.V.GeneratorFuel.At(s, y, g, t), 1).
							Add(b.V.GeneratorEnergy.At(s, y, g, t), -ratio)
						b.P.AddEq(fmt.Sprintf("generator_fuel[%d,%d,%d,%d]", s, y, g, t), fuel, 0)
					}
				}
			}
		}
	}

	if b.S.CapacityExpansion {
		for st := 1; st < sets.NumSteps(); st++ {
			for g := range sets.GeneratorTypes {
				e := lp.NewExpr().
					Add(b.V.GeneratorUnits.At(st, g), 1).
					Add(b.V.GeneratorUnits.At(st-1, g), -1)
				b.P.AddGe(fmt.Sprintf("generator_min_step_units[%d,%d]", st, g), e, 0)
			}
		}
	}
	return nil
}

// addFuelSecants lower-bounds fuel consumption with one secant per adjacent
// pair of sampled (relative output, efficiency) points. The binding secant
// at the optimum is the convex lower envelope of the sampled curve, without
// segment-selection variables.
func addFuelSecants(b *Build, s, y, g, t, step int) {
	sets := b.S.Sets
	gen := b.S.Generator
	rel := gen.SampledRelativeOutput
	eff := gen.SampledEfficiency[g]

	for seg := 0; seg < len(rel)-1; seg++ {
		// Per-unit energy and fuel at the segment's sampled endpoints.
		p0 := rel[seg] * gen.NominalCapacity[g] * sets.DeltaTime
		p1 := rel[seg+1] * gen.NominalCapacity[g] * sets.DeltaTime
		fc0 := p0 / (eff[seg] * gen.FuelLHV[g])
		fc1 := p1 / (eff[seg+1] * gen.FuelLHV[g])

		slope := 0.0
		if p1 != p0 {
			slope = (fc1 - fc0) / (p1 - p0)
		}

		// fuel >= slope*(energy - p0*units) + fc0*units
		e := lp.NewExpr().
			Add(b.V.GeneratorFuel.At(s, y, g, t), 1).
			Add(b.V.GeneratorEnergy.At(s, y, g, t), -slope).
			Add(b.V.GeneratorUnits.At(step, g), slope*p0-fc0)
		b.P.AddGe(fmt.Sprintf("generator_partial_load[%d,%d,%d,%d,%d]", seg, s, y, g, t), e, 0)
	}
}
