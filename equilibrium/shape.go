package equilibrium

import (
	"github.com/cpmech/gosl/chk"
)

// ShapeProperty is the geometric description of one flux surface (spec
// §4.5 shape_property: "geometric_axis (R,Z), minor_radius, elongation
// (+upper,+lower), triangularity (+upper,+lower), r_inboard, r_outboard").
// Supplemented per SPEC_FULL.md §13 (fytok's MagneticCoordSystem.py splits
// elongation/triangularity by half-plane about the geometric axis).
type ShapeProperty struct {
	GeometricAxisR, GeometricAxisZ         float64
	MinorRadius                            float64
	ElongationUpper, ElongationLower       float64
	TriangularityUpper, TriangularityLower float64
	RInboard, ROutboard                    float64
}

// ShapeProperty returns the geometric description of the surface nearest
// psiNorm (surfaces are pre-computed on the analyzer's own psi_norm grid;
// this interpolates geometry by locating the two bracketing surfaces and
// linearly blending their geometric descriptors -- sufficiently smooth
// since adjacent surfaces differ little in shape).
func (o *MagneticSurfaceSystem) ShapeProperty(psiNorm float64) (ShapeProperty, error) {
	if psiNorm < 0 || psiNorm > 1 {
		return ShapeProperty{}, chk.Err("equilibrium: ShapeProperty: psi_norm=%g outside [0,1]", psiNorm)
	}
	lo, hi, t := o.bracketPsiNorm(psiNorm)
	spLo, err := shapeOf(o.Surfaces[lo])
	if err != nil {
		return ShapeProperty{}, err
	}
	if lo == hi {
		return spLo, nil
	}
	spHi, err := shapeOf(o.Surfaces[hi])
	if err != nil {
		return ShapeProperty{}, err
	}
	return blend(spLo, spHi, t), nil
}

func (o *MagneticSurfaceSystem) bracketPsiNorm(psiNorm float64) (lo, hi int, t float64) {
	n := len(o.PsiNorm)
	for i := 1; i < n; i++ {
		if psiNorm <= o.PsiNorm[i] {
			lo, hi = i-1, i
			denom := o.PsiNorm[i] - o.PsiNorm[i-1]
			if denom > 0 {
				t = (psiNorm - o.PsiNorm[i-1]) / denom
			}
			return
		}
	}
	return n - 1, n - 1, 0
}

func blend(a, b ShapeProperty, t float64) ShapeProperty {
	l := func(x, y float64) float64 { return x + t*(y-x) }
	return ShapeProperty{
		GeometricAxisR:      l(a.GeometricAxisR, b.GeometricAxisR),
		GeometricAxisZ:      l(a.GeometricAxisZ, b.GeometricAxisZ),
		MinorRadius:         l(a.MinorRadius, b.MinorRadius),
		ElongationUpper:     l(a.ElongationUpper, b.ElongationUpper),
		ElongationLower:     l(a.ElongationLower, b.ElongationLower),
		TriangularityUpper:  l(a.TriangularityUpper, b.TriangularityUpper),
		TriangularityLower:  l(a.TriangularityLower, b.TriangularityLower),
		RInboard:            l(a.RInboard, b.RInboard),
		ROutboard:           l(a.ROutboard, b.ROutboard),
	}
}

// shapeOf computes the geometric descriptors of one flux surface directly
// from its (R,Z) polyline.
func shapeOf(fs *FluxSurface) (ShapeProperty, error) {
	if fs.OnAxis {
		return ShapeProperty{
			GeometricAxisR: fs.R[0], GeometricAxisZ: fs.Z[0],
			MinorRadius: 0, RInboard: fs.R[0], ROutboard: fs.R[0],
		}, nil
	}
	n := len(fs.R)
	if n < 3 {
		return ShapeProperty{}, chk.Err("equilibrium: shapeOf: surface at psi_norm=%g has <3 points", fs.PsiNorm)
	}
	rMin, rMax := fs.R[0], fs.R[0]
	zMin, zMax := fs.Z[0], fs.Z[0]
	iZMax, iZMin := 0, 0
	for i := 1; i < n; i++ {
		if fs.R[i] < rMin {
			rMin = fs.R[i]
		}
		if fs.R[i] > rMax {
			rMax = fs.R[i]
		}
		if fs.Z[i] > zMax {
			zMax = fs.Z[i]
			iZMax = i
		}
		if fs.Z[i] < zMin {
			zMin = fs.Z[i]
			iZMin = i
		}
	}
	Rgeo := 0.5 * (rMin + rMax)
	Zgeo := 0.5 * (zMin + zMax)
	a := 0.5 * (rMax - rMin)
	if a <= 0 {
		return ShapeProperty{}, chk.Err("equilibrium: shapeOf: degenerate minor radius at psi_norm=%g", fs.PsiNorm)
	}
	sp := ShapeProperty{
		GeometricAxisR: Rgeo, GeometricAxisZ: Zgeo,
		MinorRadius:        a,
		ElongationUpper:    (zMax - Zgeo) / a,
		ElongationLower:    (Zgeo - zMin) / a,
		TriangularityUpper: (Rgeo - fs.R[iZMax]) / a,
		TriangularityLower: (Rgeo - fs.R[iZMin]) / a,
		RInboard:           rMin,
		ROutboard:          rMax,
	}
	return sp, nil
}
