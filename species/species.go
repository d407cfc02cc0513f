// Package species implements the Species table and AtomicData reaction-rate
// lookup (spec §3 Species, §4 notes). Following the design-notes "global
// mutable state" guidance, the built-in species/reaction tables are
// process-wide immutable values initialised once in init(), never mutated
// afterward (DESIGN.md).
package species

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Species is a tagged plasma species (spec §3: "tagged by label ... with
// z_ion, mass, and optional impurity flag").
type Species struct {
	Label    string  // e.g. "e", "D", "T", "He", "Be", "Ar", "alpha"
	ZIon     float64 // charge number (electrons: -1)
	MassAMU  float64 // mass in atomic mass units (electrons: ~1/1823)
	Impurity bool
}

// electron, builtin fuel and impurity species (fixed at package init,
// immutable thereafter).
var (
	Electron = Species{Label: "e", ZIon: -1, MassAMU: 1.0 / 1822.888486, Impurity: false}
	Deuteron = Species{Label: "D", ZIon: 1, MassAMU: 2.014102, Impurity: false}
	Triton   = Species{Label: "T", ZIon: 1, MassAMU: 3.016049, Impurity: false}
	Helium4  = Species{Label: "He", ZIon: 2, MassAMU: 4.002602, Impurity: false}
	Alpha    = Species{Label: "alpha", ZIon: 2, MassAMU: 4.002602, Impurity: false}
	Berylium = Species{Label: "Be", ZIon: 4, MassAMU: 9.012183, Impurity: true}
	Argon    = Species{Label: "Ar", ZIon: 18, MassAMU: 39.948, Impurity: true}
)

var builtinByLabel map[string]Species

func init() {
	builtinByLabel = map[string]Species{
		Electron.Label: Electron,
		Deuteron.Label: Deuteron,
		Triton.Label:   Triton,
		Helium4.Label:  Helium4,
		Berylium.Label: Berylium,
		Argon.Label:    Argon,
	}
}

// Lookup returns the built-in species with the given label, or an error if
// unknown (callers needing a custom species construct a Species literal
// directly; Lookup only serves the common built-in fuel/impurity set).
func Lookup(label string) (Species, error) {
	s, ok := builtinByLabel[label]
	if !ok {
		return Species{}, chk.Err("species: Lookup: unknown built-in species label %q", label)
	}
	return s, nil
}

// Table is an ordered list of species participating in one CoreProfiles
// time slice. CheckNeutrality verifies charge neutrality over all its
// species, impurities included, within a stated tolerance (spec §3 PlasmaState
// invariant) given their densities at one radial node.
type Table []Species

// CheckNeutrality returns the charge-weighted sum sum_s z_s*n_s over all
// species in t (impurities included, per spec §8 scenario 6) and reports
// whether it is within tol of zero relative to the electron density nE.
func (t Table) CheckNeutrality(densities map[string]float64, nE, tol float64) (residual float64, ok bool, err error) {
	if nE <= 0 {
		return 0, false, chk.Err("species: CheckNeutrality: electron density must be positive, got %g", nE)
	}
	for _, s := range t {
		n, has := densities[s.Label]
		if !has {
			return 0, false, chk.Err("species: CheckNeutrality: missing density for species %q", s.Label)
		}
		residual += s.ZIon * n
	}
	return residual, math.Abs(residual) <= tol*nE, nil
}

// NonImpurities returns the subset of t that are not flagged as impurities.
func (t Table) NonImpurities() Table {
	var out Table
	for _, s := range t {
		if !s.Impurity {
			out = append(out, s)
		}
	}
	return out
}

// Impurities returns the subset of t flagged as impurities.
func (t Table) Impurities() Table {
	var out Table
	for _, s := range t {
		if s.Impurity {
			out = append(out, s)
		}
	}
	return out
}
