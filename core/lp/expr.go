package lp

import "sort"

// Term is a single coefficient on a decision variable.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression: sum of terms plus a constant.
type Expr struct {
	Terms []Term
	Const float64
}

// NewExpr returns an empty expression.
func NewExpr() *Expr { return &Expr{} }

// Add appends coef*v to the expression.
func (e *Expr) Add(v Var, coef float64) *Expr {
	e.Terms = append(e.Terms, Term{Var: v, Coef: coef})
	return e
}

// AddExpr appends every term and the constant of o.
func (e *Expr) AddExpr(o *Expr) *Expr {
	e.Terms = append(e.Terms, o.Terms...)
	e.Const += o.Const
	return e
}

// AddConst shifts the expression by c.
func (e *Expr) AddConst(c float64) *Expr {
	e.Const += c
	return e
}

// Scale multiplies every term and the constant by f.
func (e *Expr) Scale(f float64) *Expr {
	for i := range e.Terms {
		e.Terms[i].Coef *= f
	}
	e.Const *= f
	return e
}

// compact sorts terms by variable and merges duplicates, dropping zero
// coefficients. Constraint rows are compacted on insertion so backends never
// see duplicate matrix entries.
func (e *Expr) compact() {
	if len(e.Terms) < 2 {
		return
	}
	sort.Slice(e.Terms, func(i, j int) bool { return e.Terms[i].Var < e.Terms[j].Var })
	out := e.Terms[:0]
	for _, t := range e.Terms {
		if n := len(out); n > 0 && out[n-1].Var == t.Var {
			out[n-1].Coef += t.Coef
			continue
		}
		out = append(out, t)
	}
	n := 0
	for _, t := range out {
		if t.Coef != 0 {
			out[n] = t
			n++
		}
	}
	e.Terms = out[:n]
}
