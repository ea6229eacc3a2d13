// Package lp holds the abstract linear/mixed-integer problem assembled by the
// constraint modules: decision variables with bounds and integrality, named
// range constraints, and a scalar linear objective. Backends consume a
// compacted Snapshot; they never see removed rows.
package lp

import (
	"fmt"
	"math"
)

// VarType flags the integrality of a decision variable.
type VarType uint8

const (
	Continuous VarType = iota
	Binary
	Integer
)

// Var identifies a decision variable (its column index).
type Var int

// ConstraintID is a stable handle to an added constraint row. Handles stay
// valid across removals of other rows.
type ConstraintID int

type row struct {
	name    string
	lower   float64
	upper   float64
	terms   []Term
	removed bool
}

// Problem is a mutable optimization problem. Variables are added once at
// build time; constraints may be added and removed between solves, which is
// how the Pareto sweep tightens the emissions cap without rebuilding.
type Problem struct {
	varNames []string
	lower    []float64
	upper    []float64
	vtypes   []VarType

	rows     []row
	nRemoved int

	objTerms map[Var]float64
	objConst float64
}

// New returns an empty problem.
func New() *Problem {
	return &Problem{objTerms: make(map[Var]float64)}
}

// AddVar declares a variable with explicit bounds. Non-negativity belongs in
// the bounds, not in a separate constraint row.
func (p *Problem) AddVar(name string, lo, hi float64, t VarType) Var {
	p.varNames = append(p.varNames, name)
	p.lower = append(p.lower, lo)
	p.upper = append(p.upper, hi)
	p.vtypes = append(p.vtypes, t)
	return Var(len(p.varNames) - 1)
}

// AddBinary declares a 0/1 mode variable.
func (p *Problem) AddBinary(name string) Var {
	return p.AddVar(name, 0, 1, Binary)
}

// NumVars returns the number of declared variables.
func (p *Problem) NumVars() int { return len(p.varNames) }

// NumRows returns the number of active (non-removed) constraint rows.
func (p *Problem) NumRows() int { return len(p.rows) - p.nRemoved }

// VarName returns the declared name of v.
func (p *Problem) VarName(v Var) string { return p.varNames[v] }

// Bounds returns the declared bounds of v.
func (p *Problem) Bounds(v Var) (lo, hi float64) { return p.lower[v], p.upper[v] }

// Type returns the integrality flag of v.
func (p *Problem) Type(v Var) VarType { return p.vtypes[v] }

// HasInteger reports whether any variable is binary or integer, i.e. whether
// the problem requires a MILP-capable backend.
func (p *Problem) HasInteger() bool {
	for _, t := range p.vtypes {
		if t != Continuous {
			return true
		}
	}
	return false
}

func (p *Problem) addRow(name string, e *Expr, lo, hi float64) ConstraintID {
	e.compact()
	// Fold the expression constant into the row bounds.
	if e.Const != 0 {
		if !math.IsInf(lo, -1) {
			lo -= e.Const
		}
		if !math.IsInf(hi, 1) {
			hi -= e.Const
		}
	}
	p.rows = append(p.rows, row{name: name, lower: lo, upper: hi, terms: e.Terms})
	return ConstraintID(len(p.rows) - 1)
}

// AddRange adds lo <= expr <= hi.
func (p *Problem) AddRange(name string, e *Expr, lo, hi float64) ConstraintID {
	return p.addRow(name, e, lo, hi)
}

// AddEq adds expr == rhs.
func (p *Problem) AddEq(name string, e *Expr, rhs float64) ConstraintID {
	return p.addRow(name, e, rhs, rhs)
}

// AddLe adds expr <= rhs.
func (p *Problem) AddLe(name string, e *Expr, rhs float64) ConstraintID {
	return p.addRow(name, e, math.Inf(-1), rhs)
}

// AddGe adds expr >= rhs.
func (p *Problem) AddGe(name string, e *Expr, rhs float64) ConstraintID {
	return p.addRow(name, e, rhs, math.Inf(1))
}

// Remove deactivates a constraint row. The handle must come from a previous
// Add call on this problem and must not already be removed.
func (p *Problem) Remove(id ConstraintID) error {
	if id < 0 || int(id) >= len(p.rows) {
		return fmt.Errorf("lp: unknown constraint %d", id)
	}
	if p.rows[id].removed {
		return fmt.Errorf("lp: constraint %q already removed", p.rows[id].name)
	}
	p.rows[id].removed = true
	p.nRemoved++
	return nil
}

// WithConstraint adds a temporary row, runs fn, and removes the row on every
// exit path including errors and panics. The Pareto driver relies on this so
// a failed sweep point cannot leak its threshold into later iterations.
func (p *Problem) WithConstraint(name string, e *Expr, lo, hi float64, fn func() error) error {
	id := p.addRow(name, e, lo, hi)
	defer func() {
		if err := p.Remove(id); err != nil {
			// Removal of a just-added row can only fail on double removal,
			// which would be a bug in fn.
			panic(err)
		}
	}()
	return fn()
}

// SetObjective replaces the scalar objective with minimize(expr). Calling it
// again re-targets the same built problem, as the Pareto driver does when it
// alternates between cost and emissions.
func (p *Problem) SetObjective(e *Expr) {
	e.compact()
	p.objTerms = make(map[Var]float64, len(e.Terms))
	for _, t := range e.Terms {
		p.objTerms[t.Var] = t.Coef
	}
	p.objConst = e.Const
}

// Nonzero is a sparse constraint-matrix entry.
type Nonzero struct {
	Row int
	Col int
	Val float64
}

// Snapshot is the immutable view of the problem handed to a backend: active
// rows only, renumbered densely, with duplicate terms already merged.
type Snapshot struct {
	ColCost  []float64
	ColLower []float64
	ColUpper []float64
	ColTypes []VarType
	Offset   float64

	RowLower []float64
	RowUpper []float64
	RowNames []string
	Matrix   []Nonzero
}

// Snapshot compacts the problem for a solve.
func (p *Problem) Snapshot() *Snapshot {
	n := p.NumVars()
	s := &Snapshot{
		ColCost:  make([]float64, n),
		ColLower: append([]float64(nil), p.lower...),
		ColUpper: append([]float64(nil), p.upper...),
		ColTypes: append([]VarType(nil), p.vtypes...),
		Offset:   p.objConst,
	}
	for v, c := range p.objTerms {
		s.ColCost[v] = c
	}
	for _, r := range p.rows {
		if r.removed {
			continue
		}
		ri := len(s.RowLower)
		s.RowLower = append(s.RowLower, r.lower)
		s.RowUpper = append(s.RowUpper, r.upper)
		s.RowNames = append(s.RowNames, r.name)
		for _, t := range r.terms {
			s.Matrix = append(s.Matrix, Nonzero{Row: ri, Col: int(t.Var), Val: t.Coef})
		}
	}
	return s
}
