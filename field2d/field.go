// Package field2d implements Field2D: a smooth 2-D scalar field on a
// rectilinear (R,Z) grid, with value and partial-derivative queries up to
// second order. The interpolant is built from repeated 1-D cubic splines
// (fun1d.Function1D) rather than a hand-rolled bicubic patch, reusing the
// same smooth-interpolant machinery the core already needs for Function1D
// profiles (see DESIGN.md).
package field2d

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/tokasim/fun1d"
)

// Field2D is a smooth scalar Psi(R,Z) on a rectilinear grid. Immutable
// after construction (spec §4.1: "no internal state changes after
// construction").
type Field2D struct {
	r, z []float64
	rows []fun1d.Function1D // rows[j] interpolates Psi(., Z[j]) over R
}

// New builds a Field2D from a strictly monotone rectilinear grid and a
// row-major value matrix psi[i][j] = Psi(R[i], Z[j]).
func New(r, z []float64, psi [][]float64) (*Field2D, error) {
	if len(r) < 2 || len(z) < 2 {
		return nil, chk.Err("field2d: New: grid too small (need >=2 points per axis), got %d x %d", len(r), len(z))
	}
	if len(psi) != len(r) {
		return nil, chk.Err("field2d: New: psi has %d rows, want %d (len(r))", len(psi), len(r))
	}
	for i, row := range psi {
		if len(row) != len(z) {
			return nil, chk.Err("field2d: New: psi row %d has %d values, want %d (len(z))", i, len(row), len(z))
		}
	}
	for i := 1; i < len(r); i++ {
		if r[i] <= r[i-1] {
			return nil, chk.Err("field2d: New: R grid not strictly increasing at i=%d", i)
		}
	}
	for j := 1; j < len(z); j++ {
		if z[j] <= z[j-1] {
			return nil, chk.Err("field2d: New: Z grid not strictly increasing at j=%d", j)
		}
	}

	// column-major rows: rowsByZ[j] = spline of Psi(R, Z[j]) over R
	o := &Field2D{
		r:    append([]float64(nil), r...),
		z:    append([]float64(nil), z...),
		rows: make([]fun1d.Function1D, len(z)),
	}
	for j := range z {
		col := make([]float64, len(r))
		for i := range r {
			col[i] = psi[i][j]
		}
		f, err := fun1d.New(r, col)
		if err != nil {
			return nil, chk.Err("field2d: New: row spline at Z[%d]=%g: %v", j, z[j], err)
		}
		o.rows[j] = f
	}
	return o, nil
}

// BoundingBox returns (Rmin, Rmax, Zmin, Zmax).
func (o *Field2D) BoundingBox() (rmin, rmax, zmin, zmax float64) {
	return o.r[0], o.r[len(o.r)-1], o.z[0], o.z[len(o.z)-1]
}

// GridSpacing returns the (non-uniform) R and Z grids backing the field.
func (o *Field2D) GridSpacing() (rGrid, zGrid []float64) {
	return append([]float64(nil), o.r...), append([]float64(nil), o.z...)
}

func (o *Field2D) inBounds(R, Z float64) error {
	rmin, rmax, zmin, zmax := o.BoundingBox()
	if R < rmin-1e-9 || R > rmax+1e-9 || Z < zmin-1e-9 || Z > zmax+1e-9 {
		return chk.Err("field2d: evaluation point (R=%g,Z=%g) outside bounding box [%g,%g]x[%g,%g]", R, Z, rmin, rmax, zmin, zmax)
	}
	return nil
}

// columnAt samples fn at R for every Z row and builds a spline over Z.
func (o *Field2D) columnAt(R float64, fn func(fun1d.Function1D) fun1d.Function1D) (fun1d.Function1D, error) {
	vals := make([]float64, len(o.z))
	for j, row := range o.rows {
		f := row
		if fn != nil {
			f = fn(row)
		}
		v, err := f.Eval(R)
		if err != nil {
			return nil, err
		}
		vals[j] = v
	}
	return fun1d.New(o.z, vals)
}

func identity(f fun1d.Function1D) fun1d.Function1D   { return f }
func firstDeriv(f fun1d.Function1D) fun1d.Function1D { return f.Derivative() }
func secondDeriv(f fun1d.Function1D) fun1d.Function1D { return f.Derivative().Derivative() }

// Psi returns Psi(R,Z).
func (o *Field2D) Psi(R, Z float64) (float64, error) {
	if err := o.inBounds(R, Z); err != nil {
		return 0, err
	}
	col, err := o.columnAt(R, identity)
	if err != nil {
		return 0, err
	}
	return col.Eval(Z)
}

// DpsiDr returns dPsi/dR at (R,Z).
func (o *Field2D) DpsiDr(R, Z float64) (float64, error) {
	if err := o.inBounds(R, Z); err != nil {
		return 0, err
	}
	col, err := o.columnAt(R, firstDeriv)
	if err != nil {
		return 0, err
	}
	return col.Eval(Z)
}

// DpsiDz returns dPsi/dZ at (R,Z).
func (o *Field2D) DpsiDz(R, Z float64) (float64, error) {
	if err := o.inBounds(R, Z); err != nil {
		return 0, err
	}
	col, err := o.columnAt(R, identity)
	if err != nil {
		return 0, err
	}
	return col.Derivative().Eval(Z)
}

// D2psiDr2 returns d2Psi/dR2 at (R,Z).
func (o *Field2D) D2psiDr2(R, Z float64) (float64, error) {
	if err := o.inBounds(R, Z); err != nil {
		return 0, err
	}
	col, err := o.columnAt(R, secondDeriv)
	if err != nil {
		return 0, err
	}
	return col.Eval(Z)
}

// D2psiDz2 returns d2Psi/dZ2 at (R,Z).
func (o *Field2D) D2psiDz2(R, Z float64) (float64, error) {
	if err := o.inBounds(R, Z); err != nil {
		return 0, err
	}
	col, err := o.columnAt(R, identity)
	if err != nil {
		return 0, err
	}
	return col.Derivative().Derivative().Eval(Z)
}

// D2psiDrDz returns the mixed partial d2Psi/dRdZ at (R,Z).
func (o *Field2D) D2psiDrDz(R, Z float64) (float64, error) {
	if err := o.inBounds(R, Z); err != nil {
		return 0, err
	}
	col, err := o.columnAt(R, firstDeriv)
	if err != nil {
		return 0, err
	}
	return col.Derivative().Eval(Z)
}

// Gradient2 returns |grad Psi|^2 = (dPsi/dR)^2 + (dPsi/dZ)^2 at (R,Z).
func (o *Field2D) Gradient2(R, Z float64) (float64, error) {
	dr, err := o.DpsiDr(R, Z)
	if err != nil {
		return 0, err
	}
	dz, err := o.DpsiDz(R, Z)
	if err != nil {
		return 0, err
	}
	return dr*dr + dz*dz, nil
}

// Hessian returns the 2x2 Hessian [[Prr,Prz],[Prz,Pzz]] at (R,Z).
func (o *Field2D) Hessian(R, Z float64) (prr, prz, pzz float64, err error) {
	prr, err = o.D2psiDr2(R, Z)
	if err != nil {
		return
	}
	prz, err = o.D2psiDrDz(R, Z)
	if err != nil {
		return
	}
	pzz, err = o.D2psiDz2(R, Z)
	return
}

// DetHessian returns det(Hess Psi) = Prr*Pzz - Prz^2.
func (o *Field2D) DetHessian(R, Z float64) (float64, error) {
	prr, prz, pzz, err := o.Hessian(R, Z)
	if err != nil {
		return 0, err
	}
	return prr*pzz - prz*prz, nil
}
