package solver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/minigrid/core/lp"
)

func solve(t *testing.T, p *lp.Problem) *Result {
	t.Helper()
	b, err := New("simplex")
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	res, err := b.Solve(context.Background(), p, Options{})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	return res
}

func TestSimplexBoundedMinimum(t *testing.T) {
	// min -x - 2y s.t. x + y <= 4, x <= 3, y <= 3  =>  x=1..3? optimum at
	// y=3, x=1 with objective -7.
	p := lp.New()
	x := p.AddVar("x", 0, 3, lp.Continuous)
	y := p.AddVar("y", 0, 3, lp.Continuous)
	p.AddLe("cap", lp.NewExpr().Add(x, 1).Add(y, 1), 4)
	p.SetObjective(lp.NewExpr().Add(x, -1).Add(y, -2))

	res := solve(t, p)
	if math.Abs(res.Objective-(-7)) > 1e-6 {
		t.Fatalf("objective = %v, want -7", res.Objective)
	}
	if math.Abs(res.Values[y]-3) > 1e-6 {
		t.Fatalf("y = %v, want 3", res.Values[y])
	}
}

func TestSimplexEqualityAndNegativeVariable(t *testing.T) {
	// min x + y s.t. x - y == 2, -5 <= y <= 5, 0 <= x. Optimum y = -5? No:
	// x = 2 + y >= 0 requires y >= -2, objective x+y = 2+2y minimized at
	// y = -2, x = 0, objective -2.
	p := lp.New()
	x := p.AddVar("x", 0, math.Inf(1), lp.Continuous)
	y := p.AddVar("y", -5, 5, lp.Continuous)
	p.AddEq("link", lp.NewExpr().Add(x, 1).Add(y, -1), 2)
	p.SetObjective(lp.NewExpr().Add(x, 1).Add(y, 1))

	res := solve(t, p)
	if math.Abs(res.Objective-(-2)) > 1e-6 {
		t.Fatalf("objective = %v, want -2", res.Objective)
	}
	if math.Abs(res.Values[y]-(-2)) > 1e-6 {
		t.Fatalf("y = %v, want -2", res.Values[y])
	}
}

func TestSimplexInfeasible(t *testing.T) {
	p := lp.New()
	x := p.AddVar("x", 0, 1, lp.Continuous)
	p.AddGe("impossible", lp.NewExpr().Add(x, 1), 2)
	p.SetObjective(lp.NewExpr().Add(x, 1))

	b, _ := New("simplex")
	_, err := b.Solve(context.Background(), p, Options{})
	var ie *InfeasibleError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want InfeasibleError", err)
	}
	if ie.Status != StatusInfeasible {
		t.Fatalf("status = %v", ie.Status)
	}
}

func TestSimplexUnbounded(t *testing.T) {
	p := lp.New()
	x := p.AddVar("x", 0, math.Inf(1), lp.Continuous)
	p.SetObjective(lp.NewExpr().Add(x, -1))

	b, _ := New("simplex")
	_, err := b.Solve(context.Background(), p, Options{})
	var ie *InfeasibleError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want InfeasibleError", err)
	}
	if ie.Status != StatusUnbounded {
		t.Fatalf("status = %v", ie.Status)
	}
}

func TestSimplexRejectsIntegers(t *testing.T) {
	p := lp.New()
	p.AddBinary("mode")
	b, _ := New("simplex")
	_, err := b.Solve(context.Background(), p, Options{})
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnavailableError", err)
	}
}

func TestUnknownBackend(t *testing.T) {
	_, err := New("gurobi")
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UnavailableError", err)
	}
	if ue.Backend != "gurobi" {
		t.Fatalf("backend = %q", ue.Backend)
	}
}

func TestObjectiveOffsetCarried(t *testing.T) {
	p := lp.New()
	x := p.AddVar("x", 1, 1, lp.Continuous)
	p.SetObjective(lp.NewExpr().Add(x, 2).AddConst(10))
	res := solve(t, p)
	if math.Abs(res.Objective-12) > 1e-6 {
		t.Fatalf("objective = %v, want 12", res.Objective)
	}
}
