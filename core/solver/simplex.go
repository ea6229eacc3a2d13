package solver

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/minigrid/core/lp"
)

func init() {
	Register("simplex", func() (Backend, error) { return &Simplex{}, nil })
}

// Simplex is the in-process LP backend built on gonum's simplex
// implementation. It handles continuous problems only; formulations with
// binary mode variables (MILP, or any project using thermal storage) need an
// external MILP backend.
type Simplex struct{}

func (Simplex) Name() string { return "simplex" }

const defaultSimplexTol = 1e-8

// Solve converts the snapshot to standard form (x split into positive and
// negative parts, slack variables per inequality) and runs the simplex.
func (s *Simplex) Solve(ctx context.Context, p *lp.Problem, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.HasInteger() {
		return nil, &UnavailableError{Backend: s.Name(), Reason: "integer variables not supported"}
	}
	snap := p.Snapshot()
	n := len(snap.ColCost)
	if n == 0 {
		return &Result{Status: StatusOptimal, Objective: snap.Offset}, nil
	}

	rows := standardRows(snap)
	nSlack := 0
	for _, r := range rows {
		if !r.eq {
			nSlack++
		}
	}
	cols := 2*n + nSlack

	cStd := make([]float64, cols)
	for j, c := range snap.ColCost {
		cStd[j] = c
		cStd[n+j] = -c
	}
	aStd := mat.NewDense(len(rows), cols, nil)
	bStd := make([]float64, len(rows))
	slack := 0
	for i, r := range rows {
		for _, t := range r.terms {
			aStd.Set(i, t.Col, aStd.At(i, t.Col)+t.Val)
			aStd.Set(i, n+t.Col, aStd.At(i, n+t.Col)-t.Val)
		}
		if !r.eq {
			aStd.Set(i, 2*n+slack, 1)
			slack++
		}
		bStd[i] = r.rhs
	}

	tol := opts.Tolerance
	if tol <= 0 {
		tol = defaultSimplexTol
	}
	optF, optX, err := gonumlp.Simplex(cStd, aStd, bStd, tol, nil)
	if err != nil {
		switch {
		case errors.Is(err, gonumlp.ErrInfeasible):
			return nil, &InfeasibleError{Backend: s.Name(), Status: StatusInfeasible, Detail: err.Error()}
		case errors.Is(err, gonumlp.ErrUnbounded):
			return nil, &InfeasibleError{Backend: s.Name(), Status: StatusUnbounded, Detail: err.Error()}
		default:
			return nil, &InfeasibleError{Backend: s.Name(), Status: StatusUnknown, Detail: err.Error()}
		}
	}

	values := make([]float64, n)
	for j := range values {
		values[j] = optX[j] - optX[n+j]
	}
	return &Result{
		Status:    StatusOptimal,
		Objective: optF + snap.Offset,
		Values:    values,
	}, nil
}

type stdRow struct {
	terms []lp.Nonzero
	rhs   float64
	eq    bool
}

// standardRows flattens range rows and finite variable bounds into "<= rhs"
// and "== rhs" rows over the original columns. The split into positive and
// negative parts happens afterwards, so every coefficient appears once here.
func standardRows(snap *lp.Snapshot) []stdRow {
	byRow := make([][]lp.Nonzero, len(snap.RowLower))
	for _, nz := range snap.Matrix {
		byRow[nz.Row] = append(byRow[nz.Row], nz)
	}
	var rows []stdRow
	for i := range snap.RowLower {
		lo, hi := snap.RowLower[i], snap.RowUpper[i]
		terms := byRow[i]
		switch {
		case lo == hi:
			rows = append(rows, stdRow{terms: terms, rhs: lo, eq: true})
		default:
			if !math.IsInf(hi, 1) {
				rows = append(rows, stdRow{terms: terms, rhs: hi})
			}
			if !math.IsInf(lo, -1) {
				rows = append(rows, stdRow{terms: negate(terms), rhs: -lo})
			}
		}
	}
	// Variable bounds become rows because the standard-form split treats
	// every original variable as free.
	for j := range snap.ColLower {
		lo, hi := snap.ColLower[j], snap.ColUpper[j]
		unit := []lp.Nonzero{{Col: j, Val: 1}}
		switch {
		case lo == hi:
			rows = append(rows, stdRow{terms: unit, rhs: lo, eq: true})
		default:
			if !math.IsInf(hi, 1) {
				rows = append(rows, stdRow{terms: unit, rhs: hi})
			}
			if !math.IsInf(lo, -1) {
				rows = append(rows, stdRow{terms: negate(unit), rhs: -lo})
			}
		}
	}
	return rows
}

func negate(terms []lp.Nonzero) []lp.Nonzero {
	out := make([]lp.Nonzero, len(terms))
	for i, t := range terms {
		out[i] = lp.Nonzero{Row: t.Row, Col: t.Col, Val: -t.Val}
	}
	return out
}
