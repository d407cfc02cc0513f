// Package equilibrium implements the MagneticSurfaceAnalyzer: given a
// poloidal-flux Field2D, fpol(psi_norm) and device scalars R0, B0, it
// reconstructs the flux-surface coordinate system and every 1-D
// flux-surface-averaged quantity the transport solver consumes (spec
// §4.5). Grounded on fytok's MagneticCoordSystem.py for the exact formulas
// (DESIGN.md); the surface-integral quadrature shape follows gofem's
// ele/diffusion integration-point loop structure.
package equilibrium

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tokasim/contour"
	"github.com/cpmech/tokasim/critpoint"
	"github.com/cpmech/tokasim/field2d"
	"github.com/cpmech/tokasim/fun1d"
)

// FluxSurface is a closed (or open separatrix) curve in the poloidal plane
// parametrized by normalized poloidal angle theta in [0,1] (spec §3).
type FluxSurface struct {
	PsiNorm float64
	Psi     float64
	Theta   []float64 // strictly increasing, in [0,1]
	R, Z    []float64 // same length as Theta
	Closed  bool
	OnAxis  bool // degenerate surface at psi_norm=0 (spec §3: "special-cased in integrals")
}

// Options tunes the analyzer's construction.
type Options struct {
	NSurfaces int  // number of psi_norm knots in [0,1], including 0 and 1 (default 65)
	Cocos     int  // COCOS index (default 11, spec §4.5 "Sign/COCOS convention")
}

func (o Options) withDefaults() Options {
	if o.NSurfaces <= 0 {
		o.NSurfaces = 65
	}
	if o.Cocos == 0 {
		o.Cocos = 11
	}
	return o
}

// MagneticSurfaceSystem carries psi_axis, psi_boundary, the family of
// FluxSurfaces, and all derived 1-D profiles (spec §3).
type MagneticSurfaceSystem struct {
	Field *field2d.Field2D // non-owning reference (spec §3 Ownership)

	Axis    critpoint.OXPoint
	XPoint  *critpoint.OXPoint // primary separatrix X-point, nil if limited
	R0, B0  float64
	Cocos   Convention

	PsiAxis     float64
	PsiBoundary float64

	PsiNorm  []float64 // shared knot vector for every 1-D profile
	Surfaces []*FluxSurface

	Fpol        fun1d.Function1D
	FFPrime     fun1d.Function1D
	DVolumeDPsi fun1d.Function1D // V'
	Q           fun1d.Function1D
	Phi         fun1d.Function1D
	RhoTor      fun1d.Function1D
	RhoTorNorm  fun1d.Function1D
	DPsiDRhoTor fun1d.Function1D
	DRhoTorDPsi fun1d.Function1D

	Gm1, Gm2, Gm3, Gm4, Gm5, Gm6, Gm7, Gm8, Gm9 fun1d.Function1D
	TrappedFraction                             fun1d.Function1D

	RhoTorBoundary float64
}

// Build runs the full analyzer pipeline: O/X-point detection, flux-surface
// family extraction, and every derived 1-D profile (spec §4.5).
// fpolPsiNorm is fpol sampled on a knot vector in psi_norm; it is resampled
// onto the analyzer's own psi_norm grid if the knot vectors differ, and
// build fails if it has fewer than 4 knots (spec §4.5 Failure semantics).
func Build(f *field2d.Field2D, fpolPsiNorm fun1d.Function1D, r0, b0 float64, opts Options) (*MagneticSurfaceSystem, error) {
	opts = opts.withDefaults()
	cocos, err := LookupCOCOS(opts.Cocos)
	if err != nil {
		return nil, err
	}
	if fx0, fx1 := fpolPsiNorm.Domain(); fx0 != 0 || fx1 != 1 {
		return nil, chk.Err("equilibrium: Build: fpol must be given on psi_norm in [0,1], got [%g,%g]", fx0, fx1)
	}
	if knots, ok := fun1d.Knots(fpolPsiNorm); ok && len(knots) < 4 {
		return nil, chk.Err("equilibrium: Build: fpol has %d knots, need at least 4", len(knots))
	}

	oPoints, xPoints, err := critpoint.Find(f, critpoint.Options{})
	if err != nil {
		return nil, chk.Err("equilibrium: Build: critical-point search: %v", err)
	}
	axis := oPoints[0]
	var xp *critpoint.OXPoint
	if len(xPoints) > 0 {
		x := xPoints[0]
		xp = &x
	}

	psiAxis := axis.Psi
	var psiBoundary float64
	if xp != nil {
		psiBoundary = xp.Psi
	} else {
		// limiter-defined boundary: no separatrix exists (spec §8 scenario
		// 1: "zero X-points"), so fall back to the field value at the
		// outboard midplane edge of the bounding box.
		_, rmax, zmin, zmax := f.BoundingBox()
		psiBoundary, err = f.Psi(rmax, 0.5*(zmin+zmax))
		if err != nil {
			return nil, chk.Err("equilibrium: Build: limiter boundary fallback: %v", err)
		}
	}

	psiNorm := utl.LinSpace(0, 1, opts.NSurfaces)

	fpolOnGrid, err := fpolPsiNorm.Resample(psiNorm)
	if err != nil {
		return nil, chk.Err("equilibrium: Build: resampling fpol onto analyzer grid: %v", err)
	}

	surfaces := make([]*FluxSurface, len(psiNorm))
	for k, pn := range psiNorm {
		psiLevel := psiAxis + pn*(psiBoundary-psiAxis)
		if k == 0 {
			surfaces[k] = &FluxSurface{PsiNorm: 0, Psi: psiAxis, OnAxis: true, Closed: true,
				Theta: []float64{0, 1}, R: []float64{axis.R, axis.R}, Z: []float64{axis.Z, axis.Z}}
			continue
		}
		fs, err := findSurface(f, psiLevel, pn, &axis, xp, k == len(psiNorm)-1)
		if err != nil {
			return nil, chk.Err("equilibrium: Build: surface at psi_norm=%g: %v", pn, err)
		}
		surfaces[k] = fs
	}

	sys := &MagneticSurfaceSystem{
		Field: f, Axis: axis, XPoint: xp, R0: r0, B0: b0, Cocos: cocos,
		PsiAxis: psiAxis, PsiBoundary: psiBoundary,
		PsiNorm: psiNorm, Surfaces: surfaces,
		Fpol: fpolOnGrid,
	}
	if err := sys.buildProfiles(); err != nil {
		return nil, err
	}
	return sys, nil
}

// findSurface traces the contour at the given level (keeping only the
// polyline enclosing encloseO when non-nil, spec §4.5 "enclose_o=true"),
// splices in the exact X-point for the separatrix (spec §4.4), and
// reparametrizes theta into [0,1].
func findSurface(f *field2d.Field2D, psiLevel, psiNorm float64, encloseO *critpoint.OXPoint, xp *critpoint.OXPoint, isSeparatrix bool) (*FluxSurface, error) {
	lines, err := contour.Trace(f, []float64{psiLevel}, encloseO)
	if err != nil {
		return nil, chk.Err("contour trace: %v", err)
	}
	if len(lines[0]) == 0 {
		return nil, chk.Err("no closed contour found at level %g", psiLevel)
	}
	line := lines[0][0]
	if isSeparatrix && xp != nil {
		contour.SpliceXPoint(&line, *xp)
	}
	n := len(line.Points)
	R := make([]float64, n)
	Z := make([]float64, n)
	theta := make([]float64, n)
	for i, p := range line.Points {
		R[i] = p.R
		Z[i] = p.Z
		theta[i] = float64(i) / float64(n-1)
	}
	return &FluxSurface{PsiNorm: psiNorm, Psi: psiLevel, Theta: theta, R: R, Z: Z, Closed: line.Closed}, nil
}
