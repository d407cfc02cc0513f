// Package critpoint implements CriticalPointFinder: locating O-points and
// X-points of a 2-D poloidal-flux field (spec §4.3). This is deliberately a
// pure function of a field2d.Field2D with no dependency on the rest of the
// core, enabling direct property-based testing against analytic fields
// (spec §9 "isolate as a pure function module").
package critpoint

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/tokasim/field2d"
)

// Kind distinguishes O-points (local extrema) from X-points (saddles).
type Kind int

const (
	O Kind = iota
	X
)

func (k Kind) String() string {
	if k == O {
		return "O"
	}
	return "X"
}

// OXPoint is a classified critical point of Psi.
type OXPoint struct {
	R, Z, Psi float64
	Kind      Kind
}

// Options tunes the search; zero-valued Options uses sensible defaults.
type Options struct {
	NewtonTol  float64 // residual tolerance for |grad Psi| after Newton refine (default 1e-8 * scale)
	MaxNewton  int     // max Newton iterations per candidate (default 30)
	GridNR     int     // candidate scan resolution in R (default: field's own grid)
	GridNZ     int     // candidate scan resolution in Z (default: field's own grid)
}

func (o Options) withDefaults() Options {
	if o.NewtonTol <= 0 {
		o.NewtonTol = 1e-8
	}
	if o.MaxNewton <= 0 {
		o.MaxNewton = 30
	}
	return o
}

// Find runs the full pipeline: gradient-magnitude candidate filter, Newton
// refine, Hessian-sign classification, then sorts O-points by distance to
// the grid centre (the first one becomes the magnetic axis candidate) and
// X-points by distance to the primary O-point.
func Find(f *field2d.Field2D, opts Options) (oPoints, xPoints []OXPoint, err error) {
	opts = opts.withDefaults()
	r, z := f.GridSpacing()
	nr, nz := len(r), len(z)
	if nr < 3 || nz < 3 {
		return nil, nil, chk.Err("critpoint: Find: grid too small (%dx%d) to scan for interior candidates", nr, nz)
	}

	// step 1: |grad Psi|^2 on the grid
	g2 := make([][]float64, nr)
	for i := 0; i < nr; i++ {
		g2[i] = make([]float64, nz)
		for j := 0; j < nz; j++ {
			v, e := f.Gradient2(r[i], z[j])
			if e != nil {
				return nil, nil, e
			}
			g2[i][j] = v
		}
	}

	// local-minimum-of-|grad|^2 filter (8-connected), excluding a 1-cell border
	type candidate struct{ i, j int }
	var candidates []candidate
	for i := 1; i < nr-1; i++ {
		for j := 1; j < nz-1; j++ {
			v := g2[i][j]
			isMin := true
			for di := -1; di <= 1 && isMin; di++ {
				for dj := -1; dj <= 1; dj++ {
					if di == 0 && dj == 0 {
						continue
					}
					if g2[i+di][j+dj] < v {
						isMin = false
						break
					}
				}
			}
			if isMin {
				candidates = append(candidates, candidate{i, j})
			}
		}
	}

	rScale := r[nr-1] - r[0]
	zScale := z[nz-1] - z[0]

	for _, c := range candidates {
		R0, Z0 := r[c.i], z[c.j]
		Rlo, Rhi := r[0], r[nr-1]
		Zlo, Zhi := z[0], z[nz-1]
		// clip refine region to the 3x3 neighbourhood of the candidate cell
		if c.i > 0 {
			Rlo = r[c.i-1]
		}
		if c.i < nr-1 {
			Rhi = r[c.i+1]
		}
		if c.j > 0 {
			Zlo = z[c.j-1]
		}
		if c.j < nz-1 {
			Zhi = z[c.j+1]
		}

		R, Z, ok := newtonRefine(f, R0, Z0, Rlo, Rhi, Zlo, Zhi, opts)
		if !ok {
			continue
		}
		g2v, e := f.Gradient2(R, Z)
		if e != nil {
			continue
		}
		if math.Sqrt(g2v) > opts.NewtonTol*math.Max(1, math.Max(rScale, zScale)) {
			continue // residual still too large: discard per spec §4.3 step 2
		}
		det, e := f.DetHessian(R, Z)
		if e != nil {
			continue
		}
		psi, e := f.Psi(R, Z)
		if e != nil {
			continue
		}
		pt := OXPoint{R: R, Z: Z, Psi: psi}
		if det > 0 {
			pt.Kind = O
			oPoints = append(oPoints, pt)
		} else if det < 0 {
			pt.Kind = X
			xPoints = append(xPoints, pt)
		}
		// det == 0: degenerate, neither O nor X; silently dropped (not a
		// failure per spec, just not a classifiable critical point)
	}

	if len(oPoints) == 0 {
		return nil, nil, chk.Err("critpoint: Find: no O-point found; this is a fatal configuration error for the current time slice")
	}

	rCentre := 0.5 * (r[0] + r[nr-1])
	zCentre := 0.5 * (z[0] + z[nz-1])
	sort.Slice(oPoints, func(a, b int) bool {
		return dist2(oPoints[a], rCentre, zCentre) < dist2(oPoints[b], rCentre, zCentre)
	})
	axis := oPoints[0]
	sort.Slice(xPoints, func(a, b int) bool {
		return dist2(xPoints[a], axis.R, axis.Z) < dist2(xPoints[b], axis.R, axis.Z)
	})
	return oPoints, xPoints, nil
}

func dist2(p OXPoint, R, Z float64) float64 {
	dr, dz := p.R-R, p.Z-Z
	return dr*dr + dz*dz
}

// newtonRefine solves grad Psi(R,Z) = 0 by Newton iteration, clipping each
// step to stay within [Rlo,Rhi]x[Zlo,Zhi] (spec §4.3 step 2: "clipping to
// the cell bounding box"). The 2x2 linear solve at each step is delegated
// to gonum's mat.Dense, matching the pack's gonum dependency.
func newtonRefine(f *field2d.Field2D, R0, Z0, Rlo, Rhi, Zlo, Zhi float64, opts Options) (R, Z float64, ok bool) {
	R, Z = R0, Z0
	for it := 0; it < opts.MaxNewton; it++ {
		fr, err := f.DpsiDr(R, Z)
		if err != nil {
			return 0, 0, false
		}
		fz, err := f.DpsiDz(R, Z)
		if err != nil {
			return 0, 0, false
		}
		prr, prz, pzz, err := f.Hessian(R, Z)
		if err != nil {
			return 0, 0, false
		}
		J := mat.NewDense(2, 2, []float64{prr, prz, prz, pzz})
		rhs := mat.NewVecDense(2, []float64{-fr, -fz})
		var delta mat.VecDense
		if err := delta.SolveVec(J, rhs); err != nil {
			return 0, 0, false
		}
		R += delta.AtVec(0)
		Z += delta.AtVec(1)
		if R < Rlo {
			R = Rlo
		}
		if R > Rhi {
			R = Rhi
		}
		if Z < Zlo {
			Z = Zlo
		}
		if Z > Zhi {
			Z = Zhi
		}
		if math.Hypot(delta.AtVec(0), delta.AtVec(1)) < 1e-13*math.Max(1, math.Max(Rhi-Rlo, Zhi-Zlo)) {
			return R, Z, true
		}
	}
	return R, Z, true
}

// DerivCheck returns central finite-difference estimates of dPsi/dR and
// dPsi/dZ, using gosl/num's DerivCen the same way mdl/porous/driver.go's
// derivfcn does; it does not itself compare them with the analytic
// gradient, which is left to the caller (e.g. tests validating a Field2D).
func DerivCheck(f *field2d.Field2D, R, Z float64) (dR, dZ float64, err error) {
	dR = num.DerivCen(func(x float64, args ...interface{}) (res float64) {
		v, e := f.Psi(x, Z)
		if e != nil {
			err = e
		}
		return v
	}, R)
	if err != nil {
		return
	}
	dZ = num.DerivCen(func(x float64, args ...interface{}) (res float64) {
		v, e := f.Psi(R, x)
		if e != nil {
			err = e
		}
		return v
	}, Z)
	return
}
