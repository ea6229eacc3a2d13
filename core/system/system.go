// Package system declares the decision variables and constraint modules of
// the mini-grid model. Each physical or economic subsystem contributes one
// module; the build driver applies a module iff every capability it requires
// is enabled, replacing scattered feature checks with a single table.
package system

import (
	"github.com/kilianp07/minigrid/core/lp"
	"github.com/kilianp07/minigrid/core/params"
)

// Capability names an optional subsystem of the model. Capabilities compose
// as a bitmask.
type Capability uint16

const (
	CapBattery Capability = 1 << iota
	CapGenerator
	CapGrid
	CapTES
	CapCompressor
	CapLostLoad
)

// Has reports whether every capability in want is present in c.
func (c Capability) Has(want Capability) bool { return c&want == want }

// CapabilitiesOf derives the enabled capability set from the parameter space.
func CapabilitiesOf(sp *params.Space) Capability {
	var c Capability
	if sp.Battery != nil {
		c |= CapBattery
	}
	if sp.Generator != nil {
		c |= CapGenerator
	}
	if sp.Grid != nil {
		c |= CapGrid
	}
	if sp.TES != nil {
		c |= CapTES
	}
	if sp.Compressor != nil {
		c |= CapCompressor
	}
	if sp.LostLoadFraction > 0 {
		c |= CapLostLoad
	}
	return c
}

// Build carries the shared state every constraint module works on.
type Build struct {
	P *lp.Problem
	V *Vars
	S *params.Space
}

// Module is one constraint contributor. Apply adds rows to b.P; it must not
// declare variables, those all exist before the first module runs.
type Module struct {
	Name     string
	Requires Capability
	Apply    func(b *Build) error
}

// Modules returns the registration table in application order. The order
// only matters for readability of the assembled problem; no module depends
// on another's rows.
func Modules() []Module {
	return []Module{
		{Name: "renewables", Apply: applyRenewables},
		{Name: "energy_balance", Apply: applyEnergyBalance},
		{Name: "battery", Requires: CapBattery, Apply: applyBattery},
		{Name: "generator", Requires: CapGenerator, Apply: applyGenerator},
		{Name: "grid", Requires: CapGrid, Apply: applyGrid},
		{Name: "tes", Requires: CapTES, Apply: applyTES},
		{Name: "compressor", Requires: CapCompressor, Apply: applyCompressor},
		{Name: "costs", Apply: applyCosts},
		{Name: "emissions", Apply: applyEmissions},
	}
}

// Apply runs every module whose required capabilities are enabled.
func Apply(b *Build) error {
	caps := CapabilitiesOf(b.S)
	for _, m := range Modules() {
		if !caps.Has(m.Requires) {
			continue
		}
		if err := m.Apply(b); err != nil {
			return err
		}
	}
	return nil
}
