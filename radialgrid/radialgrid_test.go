package radialgrid

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tokasim/fun1d"
)

func Test_New_rejects_short_or_malformed_input(tst *testing.T) {
	if _, err := New([]float64{0}, []float64{0}, 0, 1, 1); err == nil {
		tst.Errorf("expected an error for a single-knot grid")
	}
	if _, err := New([]float64{0, 0.5, 1}, []float64{0, 1}, 0, 1, 1); err == nil {
		tst.Errorf("expected an error for mismatched psiNorm/rhoTor lengths")
	}
	if _, err := New([]float64{0, 0.5, 0.4, 1}, []float64{0, 0.3, 0.6, 1}, 0, 1, 1); err == nil {
		tst.Errorf("expected an error for non-monotone psiNorm")
	}
	if _, err := New([]float64{0.1, 0.5, 1}, []float64{0, 0.5, 1}, 0, 1, 1); err == nil {
		tst.Errorf("expected an error when psiNorm does not span [0,1]")
	}
	if _, err := New([]float64{0, 0.5, 1}, []float64{0, 0.5, 1}, 0, 1, -1); err == nil {
		tst.Errorf("expected an error for non-positive rhoTorBoundary")
	}
}

func Test_New_builds_consistent_coordinates(tst *testing.T) {
	psiNorm := utl.LinSpace(0, 1, 11)
	rhoTor := make([]float64, 11)
	for i, p := range psiNorm {
		rhoTor[i] = math.Sqrt(p) // a smooth, monotone, non-identity mapping
	}
	g, err := New(psiNorm, rhoTor, 1.0, 3.0, 1.0)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if g.N() != 11 {
		tst.Errorf("N()=%d, want 11", g.N())
	}
	for i := range g.RhoTorNorm {
		if math.Abs(g.RhoTorNorm[i]-rhoTor[i]) > 1e-12 {
			tst.Errorf("RhoTorNorm[%d]=%g, want %g (rhoTorBoundary=1)", i, g.RhoTorNorm[i], rhoTor[i])
		}
		wantPsi := 1.0 + psiNorm[i]*(3.0-1.0)
		if math.Abs(g.Psi[i]-wantPsi) > 1e-9 {
			tst.Errorf("Psi[%d]=%g, want %g", i, g.Psi[i], wantPsi)
		}
	}
}

func Test_Uniform_and_round_trip_mappings(tst *testing.T) {
	// psi_norm(rho_norm) = rho_norm^2, a smooth monotone mapping with a
	// closed-form inverse, so the round trip can be checked exactly.
	square, err := fun1d.New(utl.LinSpace(0, 1, 21), squared(utl.LinSpace(0, 1, 21)))
	if err != nil {
		tst.Fatalf("fun1d.New failed: %v", err)
	}
	g, err := Uniform(41, 0, 1, 2.5, square)
	if err != nil {
		tst.Fatalf("Uniform failed: %v", err)
	}
	if g.N() != 41 {
		tst.Errorf("N()=%d, want 41", g.N())
	}
	for i, rn := range g.RhoTorNorm {
		pn, err := g.PsiNormOfRhoNorm().Eval(rn)
		if err != nil {
			tst.Fatalf("PsiNormOfRhoNorm.Eval failed: %v", err)
		}
		if math.Abs(pn-g.PsiNorm[i]) > 1e-6 {
			tst.Errorf("PsiNormOfRhoNorm(%g)=%g, want %g", rn, pn, g.PsiNorm[i])
		}
		back, err := g.RhoNormOfPsiNorm().Eval(pn)
		if err != nil {
			tst.Fatalf("RhoNormOfPsiNorm.Eval failed: %v", err)
		}
		if math.Abs(back-rn) > 1e-3 {
			tst.Errorf("round trip rho_norm=%g -> psi_norm=%g -> rho_norm=%g", rn, pn, back)
		}
	}
}

func Test_Remesh_preserves_anchors(tst *testing.T) {
	psiNorm := utl.LinSpace(0, 1, 21)
	rhoTor := squared(psiNorm)
	g, err := New(psiNorm, rhoTor, 0, 1, 1)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	finer, err := g.Remesh(utl.LinSpace(0, 1, 81), "finer")
	if err != nil {
		tst.Fatalf("Remesh failed: %v", err)
	}
	if finer.N() != 81 {
		tst.Errorf("N()=%d, want 81", finer.N())
	}
	if finer.PsiAxis != g.PsiAxis || finer.PsiBoundary != g.PsiBoundary || finer.RhoTorBoundary != g.RhoTorBoundary {
		tst.Errorf("Remesh should preserve the scalar anchors")
	}
}

func Test_Compatible(tst *testing.T) {
	psiNorm := utl.LinSpace(0, 1, 11)
	g1, err := New(psiNorm, psiNorm, 0, 1, 1)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	g2, err := New(psiNorm, psiNorm, 0, 1, 1)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if !g1.Compatible(g2, 0) {
		tst.Errorf("identical grids should be Compatible")
	}
	g3, err := New(utl.LinSpace(0, 1, 7), utl.LinSpace(0, 1, 7), 0, 1, 1)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if g1.Compatible(g3, 0) {
		tst.Errorf("grids with different node counts should not be Compatible")
	}
}

func squared(x []float64) []float64 {
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = xi * xi
	}
	return y
}
