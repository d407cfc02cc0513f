package bvp

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/tokasim/fun1d"
)

// Equation is one of the four canonical 1-D transport equations (current
// diffusion, per-species particle transport, electron energy, per-species
// ion energy; spec §4.7), reduced to the shared first-order pair (y, g)
// form, g being the conservative flux-like variable Γ = B(x)*y - D(x)*y':
//
//	dy/dx = (B(x)*y - g) / (D(x) + HyperDiffusion)
//	dg/dx = S(x) - E(x)*y - A(x)*(y - y_prev)/dt
//
// A is the time-derivative weight (V', V'*n_s, (3/2)*n_s*V'^{5/3}), B the
// convective/pinch coefficient (v_s; the caller folds the (Bdot0/2B0)
// grid-motion advection term into B when relevant, spec §4.7 keeps this as
// one combined coefficient rather than two), D the diffusivity (D_s, chi_s,
// the current-diffusion geometric coefficient F*V'*<|grad rho/R|^2>/(4pi^2*mu0*B0*rho)),
// E an implicit linear sink (S_s,imp, Q_s,imp), S the explicit source
// (S_s,exp, Q_s,exp, -V'/(2*pi*rho)*j_ni).
type Equation struct {
	Name string

	A, B, D, E, S  fun1d.Function1D
	HyperDiffusion float64 // stabilization added to D (spec §4.7, default 1e-4)

	BC BoundaryCondition

	// YPrev, GPrev are the previous time-slice's (y,g) on the same mesh,
	// used both as the initial guess (spec §4.7 step 2) and by the implicit
	// time-derivative term and LoopVoltage boundary condition.
	YPrev, GPrev []float64
}

// DefaultHyperDiffusion is the spec's default stabilization coefficient
// (spec §4.7, §9 Open Question: "no rationale is given ... default to the
// same value").
const DefaultHyperDiffusion = 1e-4

// Validate checks that the equation's coefficient functions cover the
// mesh domain and that YPrev/GPrev are sized to match.
func (eq *Equation) Validate(x []float64) error {
	n := len(x)
	if len(eq.YPrev) != n || len(eq.GPrev) != n {
		return chk.Err("bvp: equation %q: YPrev/GPrev length must match mesh (%d), got %d/%d", eq.Name, n, len(eq.YPrev), len(eq.GPrev))
	}
	if eq.BC.Kind == NotSolved {
		return nil
	}
	for _, f := range []fun1d.Function1D{eq.A, eq.B, eq.D, eq.E, eq.S} {
		if f == nil {
			return chk.Err("bvp: equation %q: coefficient functions must all be set (got a nil one)", eq.Name)
		}
		x0, x1 := f.Domain()
		if x[0] < x0-1e-9 || x[n-1] > x1+1e-9 {
			return chk.Err("bvp: equation %q: coefficient domain [%g,%g] does not cover mesh [%g,%g]", eq.Name, x0, x1, x[0], x[n-1])
		}
	}
	return nil
}
