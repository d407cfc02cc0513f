package bvp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tokasim/fun1d"
)

// Test_pure_diffusion_step_response exercises spec §8 scenario 3: uniform
// D_e=0.5 m^2/s, v_e=0, S_e=0, boundary n_e(1)=5e19, initial
// n_e(rho)=5e19*exp(10*(rho^2-1)). After one Δt=0.1s step the returned
// profile should have a small residual and not have blown up in shape.
func Test_pure_diffusion_step_response(tst *testing.T) {
	n := 64
	x := utl.LinSpace(0, 1, n)
	dt := 0.1

	yPrev := make([]float64, n)
	gPrev := make([]float64, n)
	for i, xi := range x {
		yPrev[i] = 5e19 * math.Exp(10*(xi*xi-1))
	}

	zero := fun1d.Constant(0, 1, 0)
	d := fun1d.Constant(0, 1, 0.5)
	a := fun1d.Constant(0, 1, 1.0)

	eq := &Equation{
		Name: "n_e", A: a, B: zero, D: d, E: zero, S: zero,
		HyperDiffusion: DefaultHyperDiffusion,
		BC:             BoundaryCondition{Kind: Dirichlet, A3: 5e19},
		YPrev:          yPrev, GPrev: gPrev,
	}

	prob, err := New(x, dt)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := prob.BindEquation(eq); err != nil {
		tst.Fatalf("BindEquation failed: %v", err)
	}
	if prob.State() != CoefficientsBound {
		tst.Errorf("state=%s, want CoefficientsBound", prob.State())
	}

	res, err := prob.Solve()
	if err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}
	if prob.State() != Converged {
		tst.Errorf("state=%s, want Converged (max residual=%g)", prob.State(), prob.MaxResidual())
	}
	if res.RMSResidual[0] > 1e-3 {
		tst.Errorf("RMS residual=%g, want <1e-3", res.RMSResidual[0])
	}
	y := res.Y[0]
	if math.Abs(y[n-1]-5e19) > 1e-6*5e19 {
		tst.Errorf("boundary value=%g, want 5e19", y[n-1])
	}
	for i, v := range y {
		if v <= 0 {
			tst.Errorf("n_e[%d]=%g, want positive (spec §8 Positivity invariant)", i, v)
		}
	}
	// one diffusive step should not overshoot the boundary value anywhere
	for i, v := range y {
		if v > 5e19*1.05 {
			tst.Errorf("n_e[%d]=%g overshoots boundary value 5e19", i, v)
		}
	}
}

// Test_current_diffusion_hold exercises spec §8 scenario 5: a steady
// current profile should be preserved by the solver across a single time
// step. psi = x^2 with the uniform source S = -2*(D+HyperDiffusion) is an
// exact steady state of the box-scheme equations (g = -2*(D+HyperDiffusion)*x,
// so g(0)=0 on the axis).
func Test_current_diffusion_hold(tst *testing.T) {
	n := 32
	x := utl.LinSpace(0, 1, n)
	dt := 1.0

	psiAxis, psiBoundary := 0.0, 1.0
	yPrev := make([]float64, n)
	gPrev := make([]float64, n)
	for i, xi := range x {
		yPrev[i] = psiAxis + xi*xi*(psiBoundary-psiAxis)
	}

	zero := fun1d.Constant(0, 1, 0)
	d := fun1d.Constant(0, 1, 1.0)
	a := fun1d.Constant(0, 1, 1.0)

	eq := &Equation{
		Name: "psi", A: a, B: zero, D: d, E: zero, S: fun1d.Constant(0, 1, -2*(1+DefaultHyperDiffusion)),
		HyperDiffusion: DefaultHyperDiffusion,
		BC:             BoundaryCondition{Kind: Dirichlet, A3: psiBoundary},
		YPrev:          yPrev, GPrev: gPrev,
	}

	prob, err := New(x, dt)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := prob.BindEquation(eq); err != nil {
		tst.Fatalf("BindEquation failed: %v", err)
	}
	res, err := prob.Solve()
	if err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}
	for i, v := range res.Y[0] {
		if math.Abs(v-yPrev[i]) > 1e-6 {
			tst.Errorf("psi[%d]=%g, want %g (steady profile should hold)", i, v, yPrev[i])
		}
	}
}

// Test_not_solved_boundary_condition_carries_profile_unchanged exercises
// boundary-condition kind 6 (spec §4.7: "equation's rows elided; profile
// carried over unchanged") without invoking the Newton loop at all.
func Test_not_solved_boundary_condition_carries_profile_unchanged(tst *testing.T) {
	n := 8
	x := utl.LinSpace(0, 1, n)
	yPrev := make([]float64, n)
	gPrev := make([]float64, n)
	for i := range x {
		yPrev[i] = float64(i)
		gPrev[i] = -float64(i)
	}
	eq := &Equation{Name: "frozen", BC: BoundaryCondition{Kind: NotSolved}, YPrev: yPrev, GPrev: gPrev}

	prob, err := New(x, 0.1)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if err := prob.BindEquation(eq); err != nil {
		tst.Fatalf("BindEquation failed: %v", err)
	}
	res, err := prob.Solve()
	if err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}
	for i := range x {
		if res.Y[0][i] != yPrev[i] || res.G[0][i] != gPrev[i] {
			tst.Errorf("node %d: got (%g,%g), want unchanged (%g,%g)", i, res.Y[0][i], res.G[0][i], yPrev[i], gPrev[i])
		}
	}
}

func Test_mesh_too_small_rejected(tst *testing.T) {
	if _, err := New([]float64{0.3}, 0.1); err == nil {
		tst.Errorf("expected error for single-node mesh")
	}
}
