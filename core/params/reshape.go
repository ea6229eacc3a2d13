package params

import "github.com/kilianp07/minigrid/core/tensor"

// seriesTensor reshapes a per-scenario time series into a (scenario, year,
// period) array. A column shorter than the full horizon is tiled, provided
// its length divides the horizon evenly; empty or ragged input fails.
func seriesTensor(field string, t Table, sets *Sets, transform func(float64) float64) (*tensor.Array, error) {
	if len(t) == 0 {
		return nil, Errorf(field, "missing time series")
	}
	if len(t) != sets.NumScenarios() {
		return nil, Errorf(field, "%d columns for %d scenarios", len(t), sets.NumScenarios())
	}
	horizon := sets.NumYears() * sets.Periods
	out := tensor.New(
		[]string{"scenarios", "years", "periods"},
		[]int{sets.NumScenarios(), sets.NumYears(), sets.Periods},
	)
	for s, col := range t {
		if len(col) == 0 || horizon%len(col) != 0 {
			return nil, Errorf(field, "scenario %d has %d values, cannot tile to horizon %d", s, len(col), horizon)
		}
		for y := 0; y < sets.NumYears(); y++ {
			for p := 0; p < sets.Periods; p++ {
				v := col[(y*sets.Periods+p)%len(col)]
				if transform != nil {
					v = transform(v)
				}
				out.Set(v, s, y, p)
			}
		}
	}
	return out, nil
}

// resourceTensor stacks one table per renewable source into a (scenario,
// year, source, period) array.
func resourceTensor(tables []Table, sets *Sets) (*tensor.Array, error) {
	nr := len(sets.RenewableSources)
	if len(tables) != nr {
		return nil, Errorf("resource", "%d tables for %d sources", len(tables), nr)
	}
	out := tensor.New(
		[]string{"scenarios", "years", "sources", "periods"},
		[]int{sets.NumScenarios(), sets.NumYears(), nr, sets.Periods},
	)
	horizon := sets.NumYears() * sets.Periods
	for r, t := range tables {
		if len(t) != sets.NumScenarios() {
			return nil, Errorf("resource", "source %d has %d columns for %d scenarios", r, len(t), sets.NumScenarios())
		}
		for s, col := range t {
			if len(col) == 0 || horizon%len(col) != 0 {
				return nil, Errorf("resource", "source %d scenario %d has %d values, cannot tile to horizon %d", r, s, len(col), horizon)
			}
			for y := 0; y < sets.NumYears(); y++ {
				for p := 0; p < sets.Periods; p++ {
					out.Set(col[(y*sets.Periods+p)%len(col)], s, y, r, p)
				}
			}
		}
	}
	return out, nil
}

// fuelCostTensor reshapes per-type yearly fuel prices into a (year, type)
// array. A single value per type is held constant across years.
func fuelCostTensor(cols [][]float64, sets *Sets) (*tensor.Array, error) {
	out := tensor.New([]string{"years", "types"}, []int{sets.NumYears(), len(cols)})
	for g, col := range cols {
		if len(col) == 0 || sets.NumYears()%len(col) != 0 {
			return nil, Errorf("fuel_cost", "type %d has %d values for %d years", g, len(col), sets.NumYears())
		}
		for y := 0; y < sets.NumYears(); y++ {
			out.Set(col[y%len(col)], y, g)
		}
	}
	return out, nil
}
