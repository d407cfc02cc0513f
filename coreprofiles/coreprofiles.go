// Package coreprofiles implements PlasmaState (CoreProfiles.TimeSlice):
// the typed container for per-species density and temperature plus
// poloidal flux and conductivity, on a shared radialgrid.RadialGrid (spec
// §3 PlasmaState). Following design-notes §9 "property-on-first-access,
// cached thereafter" guidance, PlasmaState is a plain struct of
// fun1d.Function1D fields rather than a dynamic attribute tree.
package coreprofiles

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/tokasim/fun1d"
	"github.com/cpmech/tokasim/radialgrid"
	"github.com/cpmech/tokasim/species"
)

// SpeciesProfile is the per-species part of a PlasmaState (spec §3:
// "per species: density n_s(rho), temperature T_s(rho)").
type SpeciesProfile struct {
	Species species.Species
	Density fun1d.Function1D // n_s(rho_tor_norm), m^-3
	Temp    fun1d.Function1D // T_s(rho_tor_norm), eV
}

// TimeSlice is one instant of the evolving plasma state (spec §3
// PlasmaState / CoreProfiles.TimeSlice).
type TimeSlice struct {
	Time float64
	Grid *radialgrid.RadialGrid

	Psi                   fun1d.Function1D // psi(rho_tor_norm), Wb/rad
	ConductivityParallel  fun1d.Function1D // sigma_parallel(rho_tor_norm), S/m [NEW: SPEC_FULL §13]

	bySpecies map[string]SpeciesProfile
	order     []string // insertion order, preserved for deterministic iteration
}

// New builds an empty TimeSlice on the given grid at time t.
func New(t float64, grid *radialgrid.RadialGrid) *TimeSlice {
	return &TimeSlice{
		Time:      t,
		Grid:      grid,
		bySpecies: make(map[string]SpeciesProfile),
	}
}

// SetSpecies installs (or replaces) the density/temperature profile for sp.
func (o *TimeSlice) SetSpecies(sp species.Species, n, T fun1d.Function1D) {
	if _, exists := o.bySpecies[sp.Label]; !exists {
		o.order = append(o.order, sp.Label)
	}
	o.bySpecies[sp.Label] = SpeciesProfile{Species: sp, Density: n, Temp: T}
}

// Species returns the profile for label, or an error if not present.
func (o *TimeSlice) Species(label string) (SpeciesProfile, error) {
	p, ok := o.bySpecies[label]
	if !ok {
		return SpeciesProfile{}, chk.Err("coreprofiles: Species: no profile installed for %q", label)
	}
	return p, nil
}

// AllSpecies returns every installed species profile in insertion order.
func (o *TimeSlice) AllSpecies() []SpeciesProfile {
	out := make([]SpeciesProfile, len(o.order))
	for i, label := range o.order {
		out[i] = o.bySpecies[label]
	}
	return out
}

// SpeciesTable returns the species.Table of every installed species, in
// insertion order, for charge-neutrality checks (spec §8 scenario 6).
func (o *TimeSlice) SpeciesTable() species.Table {
	t := make(species.Table, len(o.order))
	for i, label := range o.order {
		t[i] = o.bySpecies[label].Species
	}
	return t
}

// CheckInvariants validates the non-negativity and monotone-psi invariants
// of spec §3/§8 by sampling nCheck+1 evenly spaced points (nCheck defaults
// to 64) across the grid.
func (o *TimeSlice) CheckInvariants(nCheck int) error {
	if nCheck <= 0 {
		nCheck = 64
	}
	x0, x1 := o.Grid.RhoTorNorm[0], o.Grid.RhoTorNorm[len(o.Grid.RhoTorNorm)-1]
	psiAxis := o.Grid.PsiAxis
	psiBoundary := o.Grid.PsiBoundary
	for i := 0; i <= nCheck; i++ {
		x := x0 + (x1-x0)*float64(i)/float64(nCheck)
		for _, label := range o.order {
			p := o.bySpecies[label]
			n, err := p.Density.Eval(x)
			if err != nil {
				return chk.Err("coreprofiles: CheckInvariants: species %q density: %v", label, err)
			}
			if n < 0 {
				return chk.Err("coreprofiles: CheckInvariants: species %q density negative (%g) at rho_norm=%g", label, n, x)
			}
			T, err := p.Temp.Eval(x)
			if err != nil {
				return chk.Err("coreprofiles: CheckInvariants: species %q temperature: %v", label, err)
			}
			if T < 0 {
				return chk.Err("coreprofiles: CheckInvariants: species %q temperature negative (%g) at rho_norm=%g", label, T, x)
			}
		}
		if o.Psi != nil {
			psi, err := o.Psi.Eval(x)
			if err != nil {
				return chk.Err("coreprofiles: CheckInvariants: psi: %v", err)
			}
			if (psi-psiAxis)*(psiBoundary-psiAxis) < -1e-9*(psiBoundary-psiAxis)*(psiBoundary-psiAxis) {
				return chk.Err("coreprofiles: CheckInvariants: psi(%g)=%g not monotone between axis=%g and boundary=%g", x, psi, psiAxis, psiBoundary)
			}
		}
	}
	return nil
}

// Clone returns a shallow copy of o (Function1D values are immutable
// expression trees, so sharing them across the copy is safe; spec §5:
// "previous-slice profiles y^m remain immutable").
func (o *TimeSlice) Clone() *TimeSlice {
	c := New(o.Time, o.Grid)
	c.Psi = o.Psi
	c.ConductivityParallel = o.ConductivityParallel
	for _, label := range o.order {
		c.bySpecies[label] = o.bySpecies[label]
		c.order = append(c.order, label)
	}
	return c
}
