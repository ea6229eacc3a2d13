package lp

import (
	"fmt"
	"strings"
)

// Dim names one index domain of a variable group.
type Dim struct {
	Name string
	Size int
}

// Group is a block of variables sharing bounds and integrality, indexed by an
// explicit tuple of dimensions. Groups back the typed decision-variable
// registry: every subsystem variable ("res_units", "tes_soc", ...) is one
// group, and solution harvesting walks groups to rebuild labeled arrays.
type Group struct {
	name    string
	dims    []Dim
	strides []int
	first   Var
	n       int
}

// AddGroup declares len = product(dims) variables in one contiguous block.
func (p *Problem) AddGroup(name string, dims []Dim, lo, hi float64, t VarType) *Group {
	n := 1
	strides := make([]int, len(dims))
	for i := len(dims) - 1; i >= 0; i-- {
		if dims[i].Size <= 0 {
			panic(fmt.Sprintf("lp: group %q dim %q has non-positive size %d", name, dims[i].Name, dims[i].Size))
		}
		strides[i] = n
		n *= dims[i].Size
	}
	g := &Group{
		name:    name,
		dims:    append([]Dim(nil), dims...),
		strides: strides,
		first:   Var(p.NumVars()),
		n:       n,
	}
	var sb strings.Builder
	idx := make([]int, len(dims))
	for i := 0; i < n; i++ {
		sb.Reset()
		sb.WriteString(name)
		sb.WriteByte('[')
		for d := range idx {
			if d > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "%d", idx[d])
		}
		sb.WriteByte(']')
		p.AddVar(sb.String(), lo, hi, t)
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < dims[d].Size {
				break
			}
			idx[d] = 0
		}
	}
	return g
}

// At returns the variable at the given indices, one per dimension.
func (g *Group) At(idx ...int) Var {
	if len(idx) != len(g.dims) {
		panic(fmt.Sprintf("lp: group %q: %d indices for %d dims", g.name, len(idx), len(g.dims)))
	}
	off := 0
	for i, j := range idx {
		if j < 0 || j >= g.dims[i].Size {
			panic(fmt.Sprintf("lp: group %q: index %d out of range for dim %q (size %d)", g.name, j, g.dims[i].Name, g.dims[i].Size))
		}
		off += j * g.strides[i]
	}
	return g.first + Var(off)
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Dims returns the index dimensions.
func (g *Group) Dims() []Dim { return g.dims }

// Len returns the number of variables in the group.
func (g *Group) Len() int { return g.n }

// First returns the first variable of the block; the block is contiguous.
func (g *Group) First() Var { return g.first }
