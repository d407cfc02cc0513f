// Package radialgrid implements RadialGrid: the canonical 1-D radial
// coordinate carrier shared by the equilibrium analyzer and the BVP
// transport solver (spec §4.6). It stores psi_norm, rho_tor_norm, rho_tor
// and psi as mutually consistent arrays under one mapping, and supports
// remeshing onto a new primary coordinate via fun1d resampling, the same
// idiom fytok's RadialGrid.remesh uses (DESIGN.md).
package radialgrid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tokasim/fun1d"
)

// RadialGrid holds the four mutually-consistent 1-D coordinates plus the
// scalar anchors (psi_axis, psi_boundary, rho_tor_boundary) needed to map
// between them (spec §3 RadialGrid invariants).
type RadialGrid struct {
	PsiAxis        float64
	PsiBoundary    float64
	RhoTorBoundary float64

	PsiNorm     []float64 // New's input coordinate, strictly increasing in [0,1]
	RhoTorNorm  []float64
	RhoTor      []float64
	Psi         []float64

	// psiOfRhoNorm / rhoNormOfPsi are the mapping functions used by remesh.
	psiOfRhoNorm fun1d.Function1D
	rhoNormOfPsi fun1d.Function1D
}

// CompatTol is the default tolerance for Compatible's element-wise
// closeness check (spec §4.6).
const CompatTol = 1e-9

// New builds a RadialGrid from psiNorm (strictly increasing, psiNorm[0]=0,
// psiNorm[n-1]=1) plus the anchors. rhoTor is derived from phi(psiNorm) by
// the caller (equilibrium package) and supplied directly since only the
// equilibrium analyzer knows q(psi_norm).
func New(psiNorm []float64, rhoTor []float64, psiAxis, psiBoundary, rhoTorBoundary float64) (*RadialGrid, error) {
	n := len(psiNorm)
	if n < 2 {
		return nil, chk.Err("radialgrid: New: need at least 2 knots, got %d", n)
	}
	if len(rhoTor) != n {
		return nil, chk.Err("radialgrid: New: len(rhoTor)=%d != len(psiNorm)=%d", len(rhoTor), n)
	}
	for i := 1; i < n; i++ {
		if psiNorm[i] <= psiNorm[i-1] {
			return nil, chk.Err("radialgrid: New: psiNorm not strictly increasing at %d", i)
		}
	}
	if math.Abs(psiNorm[0]) > 1e-9 || math.Abs(psiNorm[n-1]-1) > 1e-9 {
		return nil, chk.Err("radialgrid: New: psiNorm must span [0,1], got [%g,%g]", psiNorm[0], psiNorm[n-1])
	}
	if rhoTorBoundary <= 0 {
		return nil, chk.Err("radialgrid: New: rhoTorBoundary must be positive, got %g", rhoTorBoundary)
	}

	rhoNorm := make([]float64, n)
	psi := make([]float64, n)
	for i := range psiNorm {
		rhoNorm[i] = rhoTor[i] / rhoTorBoundary
		psi[i] = psiAxis + psiNorm[i]*(psiBoundary-psiAxis)
	}

	psiOfRhoNorm, err := fun1d.New(rhoNorm, psiNorm)
	if err != nil {
		return nil, chk.Err("radialgrid: New: psi(rho_norm) mapping: %v", err)
	}
	rhoNormOfPsi, err := fun1d.New(psiNorm, rhoNorm)
	if err != nil {
		return nil, chk.Err("radialgrid: New: rho_norm(psi_norm) mapping: %v", err)
	}

	return &RadialGrid{
		PsiAxis:        psiAxis,
		PsiBoundary:    psiBoundary,
		RhoTorBoundary: rhoTorBoundary,
		PsiNorm:        append([]float64(nil), psiNorm...),
		RhoTorNorm:     rhoNorm,
		RhoTor:         append([]float64(nil), rhoTor...),
		Psi:            psi,
		psiOfRhoNorm:   psiOfRhoNorm,
		rhoNormOfPsi:   rhoNormOfPsi,
	}, nil
}

// Uniform builds a RadialGrid on n uniformly spaced rho_tor_norm nodes,
// given the psi_norm(rho_tor_norm) mapping supplied by the equilibrium
// analyzer (rho_tor is taken as rho_tor_norm*rhoTorBoundary). This is the grid the BVP solver assembles
// its collocation mesh on (spec §4.7: x = rho_tor_norm in [0,1]).
func Uniform(n int, psiAxis, psiBoundary, rhoTorBoundary float64, rhoNormToPsiNorm fun1d.Function1D) (*RadialGrid, error) {
	if n < 2 {
		return nil, chk.Err("radialgrid: Uniform: need at least 2 nodes, got %d", n)
	}
	rhoNorm := utl.LinSpace(0, 1, n)
	psiNorm := make([]float64, n)
	rhoTor := make([]float64, n)
	for i, x := range rhoNorm {
		p, err := rhoNormToPsiNorm.Eval(x)
		if err != nil {
			return nil, chk.Err("radialgrid: Uniform: mapping rho_norm=%g: %v", x, err)
		}
		psiNorm[i] = p
		rhoTor[i] = x * rhoTorBoundary
	}
	// clamp endpoints exactly to avoid New's [0,1] span check tripping on fp noise
	psiNorm[0] = 0
	psiNorm[n-1] = 1
	return New(psiNorm, rhoTor, psiAxis, psiBoundary, rhoTorBoundary)
}

// Remesh returns a new RadialGrid whose arrays are resampled onto the
// rho_tor_norm array newRhoNorm by evaluating the stored psi_norm(rho_tor_norm)
// mapping there, following fytok's RadialGrid.remesh idiom (DESIGN.md).
func (o *RadialGrid) Remesh(newRhoNorm []float64, label string) (*RadialGrid, error) {
	n := len(newRhoNorm)
	if n < 2 {
		return nil, chk.Err("radialgrid: Remesh(%s): need at least 2 nodes, got %d", label, n)
	}
	psiNorm := make([]float64, n)
	rhoTor := make([]float64, n)
	for i, x := range newRhoNorm {
		p, err := o.psiOfRhoNorm.Eval(x)
		if err != nil {
			return nil, chk.Err("radialgrid: Remesh(%s): %v", label, err)
		}
		psiNorm[i] = p
		rhoTor[i] = x * o.RhoTorBoundary
	}
	psiNorm[0] = 0
	psiNorm[n-1] = 1
	return New(psiNorm, rhoTor, o.PsiAxis, o.PsiBoundary, o.RhoTorBoundary)
}

// PsiNormOfRhoNorm returns the psi_norm(rho_tor_norm) mapping as a Function1D.
func (o *RadialGrid) PsiNormOfRhoNorm() fun1d.Function1D { return o.psiOfRhoNorm }

// RhoNormOfPsiNorm returns the rho_tor_norm(psi_norm) mapping as a Function1D.
func (o *RadialGrid) RhoNormOfPsiNorm() fun1d.Function1D { return o.rhoNormOfPsi }

// Compatible reports whether o and other share the same primary coordinate
// (rho_tor_norm) array element-wise within tol (tol<=0 uses CompatTol),
// per spec §4.6: "compatible for arithmetic only when their primary
// coordinate arrays are element-wise close".
func (o *RadialGrid) Compatible(other *RadialGrid, tol float64) bool {
	if tol <= 0 {
		tol = CompatTol
	}
	if len(o.RhoTorNorm) != len(other.RhoTorNorm) {
		return false
	}
	for i := range o.RhoTorNorm {
		if math.Abs(o.RhoTorNorm[i]-other.RhoTorNorm[i]) > tol {
			return false
		}
	}
	return true
}

// N returns the number of radial nodes.
func (o *RadialGrid) N() int { return len(o.PsiNorm) }
