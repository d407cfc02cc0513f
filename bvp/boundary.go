package bvp

import (
	"github.com/cpmech/gosl/chk"
)

// BCKind enumerates the boundary-condition taxonomy applied at x=1 (spec
// §4.7: "Boundary conditions (uniform taxonomy, indexed 1..6)"). The axis
// condition g(0)=0 is universal and outside this taxonomy; see Equation.
type BCKind int

const (
	Dirichlet      BCKind = 1 // value prescribed
	FluxPrescribed BCKind = 2 // flux prescribed (e.g. total toroidal current I_p)
	LoopVoltage    BCKind = 3 // d(y)/dt prescribed at the edge
	ScaleLength    BCKind = 4 // y' = -y/L
	GenericLinear  BCKind = 5 // a1*y' + a2*y = a3
	NotSolved      BCKind = 6 // equation's rows elided; profile carried over unchanged
)

// BoundaryCondition is one equation's outer-edge (x=1) condition.
type BoundaryCondition struct {
	Kind       BCKind
	A1, A2, A3 float64 // meaning depends on Kind
}

// Residual returns the boundary residual at x=1 given the last two mesh
// nodes' unknowns, and its partials with respect to y at the last node,
// g at the last node, and y at the second-to-last node (the only three
// unknowns any taxonomy entry below references). yPrevLast and dt are
// needed by LoopVoltage; hLast by ScaleLength and GenericLinear.
func (bc BoundaryCondition) Residual(yLast, gLast, ySecondLast, yPrevLast, hLast, dt float64) (r, dYLast, dGLast, dYSecondLast float64, err error) {
	switch bc.Kind {
	case Dirichlet:
		return yLast - bc.A3, 1, 0, 0, nil
	case FluxPrescribed:
		// g is the conservative flux-like variable (spec §4.7); A3 is the
		// prescribed flux, so the boundary condition is g(1) = A3.
		return gLast - bc.A3, 0, 1, 0, nil
	case LoopVoltage:
		if dt <= 0 {
			return 0, 0, 0, 0, chk.Err("bvp: LoopVoltage boundary condition requires dt>0, got %g", dt)
		}
		return (yLast-yPrevLast)/dt - bc.A3, 1 / dt, 0, 0, nil
	case ScaleLength:
		if bc.A3 == 0 {
			return 0, 0, 0, 0, chk.Err("bvp: ScaleLength boundary condition requires a nonzero scale length")
		}
		return (yLast - ySecondLast) + (hLast/bc.A3)*yLast, 1 + hLast/bc.A3, 0, -1, nil
	case GenericLinear:
		if hLast <= 0 {
			return 0, 0, 0, 0, chk.Err("bvp: GenericLinear boundary condition requires hLast>0")
		}
		return bc.A1*(yLast-ySecondLast)/hLast + bc.A2*yLast - bc.A3, bc.A1/hLast + bc.A2, 0, -bc.A1 / hLast, nil
	case NotSolved:
		return 0, 0, 0, 0, nil
	default:
		return 0, 0, 0, 0, chk.Err("bvp: unknown boundary-condition kind %d", bc.Kind)
	}
}
