package params

import "math"

// discountRate resolves the project discount rate: the user-supplied
// constant, or the weighted average cost of capital when WACC financing is
// enabled. With no equity the rate collapses to the after-tax cost of debt.
func discountRate(rate float64, w waccInputs) (float64, error) {
	if !w.enabled {
		return rate, nil
	}
	if math.Abs(w.equityShare+w.debtShare-1) > 1e-9 {
		return 0, Errorf("advanced.wacc", "equity share %v + debt share %v must sum to 1", w.equityShare, w.debtShare)
	}
	if w.equityShare == 0 {
		return w.costOfDebt * (1 - w.tax), nil
	}
	leverage := w.debtShare / w.equityShare
	return w.costOfDebt*(1-w.tax)*leverage/(1+leverage) + w.costOfEquity/(1+leverage), nil
}

type waccInputs struct {
	enabled      bool
	equityShare  float64
	debtShare    float64
	costOfDebt   float64
	costOfEquity float64
	tax          float64
}
