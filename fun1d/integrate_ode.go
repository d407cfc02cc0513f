package fun1d

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/ode"
)

// AntiderivativeStiff integrates f over its own knot vector with a stiff
// single-step IVP solver (Radau5), one segment per knot interval, instead
// of the quadrature rule used by Function1D.Antiderivative. This mirrors
// ana/colpresfluid.go's ColumnFluidPressure.Init/.CalcNum: dY/dT = f(T),
// Y(0)=y0, advanced over a unit pseudo-variable T per segment via
// ode.ODE.Solve with a numerical (nil) Jacobian. Used by the equilibrium
// package to integrate phi(psi_norm) = integral of q, where q can vary
// sharply near a separatrix and a stiffly-stable step is preferred over a
// fixed composite rule. A non-knotted f is instead materialised on a
// sample mesh and integrated by quadrature, without Radau5.
func AntiderivativeStiff(f Function1D) (Function1D, error) {
	k, ok := f.(*knotted)
	if !ok {
		return materialiseAndIntegrate(f), nil
	}
	n := len(k.x)
	Y := make([]float64, n)
	Y[0] = 0
	for i := 1; i < n; i++ {
		x0, x1 := k.x[i-1], k.x[i]
		dx := x1 - x0
		fcn := func(fv []float64, dT, T float64, y []float64, args ...interface{}) error {
			v, err := f.Eval(x0 + T*dx)
			if err != nil {
				return err
			}
			fv[0] = v * dx
			return nil
		}
		var sol ode.ODE
		silent := true
		sol.Init("Radau5", 1, fcn, nil, nil, nil, silent)
		sol.SetTol(1e-10, 1e-8)
		sol.Distr = false
		y := []float64{0}
		if err := sol.Solve(y, 0, 1, 1, silent); err != nil {
			return nil, chk.Err("fun1d: AntiderivativeStiff: segment [%g,%g]: %v", x0, x1, err)
		}
		Y[i] = Y[i-1] + y[0]
	}
	return New(k.x, Y)
}
