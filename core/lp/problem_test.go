package lp

import (
	"errors"
	"math"
	"testing"
)

func TestExprCompactMergesDuplicates(t *testing.T) {
	p := New()
	x := p.AddVar("x", 0, 10, Continuous)
	y := p.AddVar("y", 0, 10, Continuous)

	e := NewExpr().Add(x, 1).Add(y, 2).Add(x, 3).Add(y, -2)
	p.AddEq("c", e, 4)

	s := p.Snapshot()
	if len(s.Matrix) != 1 {
		t.Fatalf("expected 1 nonzero after merge, got %v", s.Matrix)
	}
	if s.Matrix[0].Col != int(x) || s.Matrix[0].Val != 4 {
		t.Fatalf("unexpected entry %+v", s.Matrix[0])
	}
}

func TestConstantFoldedIntoBounds(t *testing.T) {
	p := New()
	x := p.AddVar("x", 0, 10, Continuous)
	p.AddLe("c", NewExpr().Add(x, 1).AddConst(3), 5)
	s := p.Snapshot()
	if s.RowUpper[0] != 2 {
		t.Fatalf("rhs = %v, want 2", s.RowUpper[0])
	}
	if !math.IsInf(s.RowLower[0], -1) {
		t.Fatalf("lower = %v, want -inf", s.RowLower[0])
	}
}

func TestRemoveCompactsSnapshot(t *testing.T) {
	p := New()
	x := p.AddVar("x", 0, 1, Continuous)
	a := p.AddLe("a", NewExpr().Add(x, 1), 1)
	p.AddLe("b", NewExpr().Add(x, 2), 2)

	if err := p.Remove(a); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if p.NumRows() != 1 {
		t.Fatalf("active rows = %d", p.NumRows())
	}
	s := p.Snapshot()
	if len(s.RowNames) != 1 || s.RowNames[0] != "b" {
		t.Fatalf("snapshot rows = %v", s.RowNames)
	}
	if s.Matrix[0].Row != 0 {
		t.Fatalf("row not renumbered: %+v", s.Matrix[0])
	}
	if err := p.Remove(a); err == nil {
		t.Fatalf("double removal not rejected")
	}
}

func TestWithConstraintRemovesOnError(t *testing.T) {
	p := New()
	x := p.AddVar("x", 0, 1, Continuous)
	boom := errors.New("boom")
	err := p.WithConstraint("tmp", NewExpr().Add(x, 1), 0, 1, func() error {
		if p.NumRows() != 1 {
			t.Fatalf("temporary row missing")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if p.NumRows() != 0 {
		t.Fatalf("temporary row leaked")
	}
}

func TestWithConstraintRemovesOnPanic(t *testing.T) {
	p := New()
	x := p.AddVar("x", 0, 1, Continuous)
	func() {
		defer func() { _ = recover() }()
		_ = p.WithConstraint("tmp", NewExpr().Add(x, 1), 0, 1, func() error {
			panic("boom")
		})
	}()
	if p.NumRows() != 0 {
		t.Fatalf("temporary row leaked after panic")
	}
}

func TestGroupIndexing(t *testing.T) {
	p := New()
	g := p.AddGroup("soc", []Dim{{"years", 2}, {"periods", 3}}, 0, 5, Continuous)
	if g.Len() != 6 {
		t.Fatalf("len = %d", g.Len())
	}
	if g.At(0, 0) != g.First() {
		t.Fatalf("first mismatch")
	}
	if g.At(1, 0)-g.At(0, 0) != 3 {
		t.Fatalf("row-major stride broken")
	}
	if p.VarName(g.At(1, 2)) != "soc[1,2]" {
		t.Fatalf("name = %q", p.VarName(g.At(1, 2)))
	}
}

func TestHasInteger(t *testing.T) {
	p := New()
	p.AddVar("x", 0, 1, Continuous)
	if p.HasInteger() {
		t.Fatalf("continuous-only problem flagged as integer")
	}
	p.AddBinary("mode")
	if !p.HasInteger() {
		t.Fatalf("binary variable not detected")
	}
}

func TestObjectiveIntoSnapshot(t *testing.T) {
	p := New()
	x := p.AddVar("x", 0, 1, Continuous)
	y := p.AddVar("y", 0, 1, Continuous)
	p.SetObjective(NewExpr().Add(x, 2).Add(y, -1).AddConst(7))
	s := p.Snapshot()
	if s.ColCost[x] != 2 || s.ColCost[y] != -1 || s.Offset != 7 {
		t.Fatalf("cost = %v offset = %v", s.ColCost, s.Offset)
	}
	// Re-targeting replaces, not accumulates.
	p.SetObjective(NewExpr().Add(y, 5))
	s = p.Snapshot()
	if s.ColCost[x] != 0 || s.ColCost[y] != 5 || s.Offset != 0 {
		t.Fatalf("retarget failed: %v %v", s.ColCost, s.Offset)
	}
}
