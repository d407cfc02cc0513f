package critpoint

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tokasim/field2d"
)

func buildDisk(tst *testing.T, n int, r0, a float64) *field2d.Field2D {
	r := utl.LinSpace(r0-3*a, r0+3*a, n)
	z := utl.LinSpace(-3*a, 3*a, n)
	psi := make([][]float64, n)
	for i, ri := range r {
		psi[i] = make([]float64, n)
		for j, zj := range z {
			psi[i][j] = ((ri-r0)*(ri-r0) + zj*zj) / (a * a)
		}
	}
	f, err := field2d.New(r, z, psi)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	return f
}

func Test_disk_has_exactly_one_o_point_no_x_points(tst *testing.T) {
	r0, a := 6.2, 2.0
	f := buildDisk(tst, 101, r0, a)
	oPoints, xPoints, err := Find(f, Options{})
	if err != nil {
		tst.Fatalf("Find failed: %v", err)
	}
	if len(oPoints) != 1 {
		tst.Fatalf("got %d O-points, want 1", len(oPoints))
	}
	if len(xPoints) != 0 {
		tst.Errorf("got %d X-points, want 0", len(xPoints))
	}
	axis := oPoints[0]
	if math.Abs(axis.R-r0) > 0.05 || math.Abs(axis.Z) > 0.05 {
		tst.Errorf("O-point at (%g,%g), want near (%g,0)", axis.R, axis.Z, r0)
	}
	if math.Abs(axis.Psi) > 1e-3 {
		tst.Errorf("Psi at O-point = %g, want ~0", axis.Psi)
	}
}

// saddle builds Psi = (R-R0)^2/a^2 - Z^2/a^2, a classic saddle at (R0,0).
func buildSaddle(tst *testing.T, n int, r0, a float64) *field2d.Field2D {
	r := utl.LinSpace(r0-3*a, r0+3*a, n)
	z := utl.LinSpace(-3*a, 3*a, n)
	psi := make([][]float64, n)
	for i, ri := range r {
		psi[i] = make([]float64, n)
		for j, zj := range z {
			psi[i][j] = (ri-r0)*(ri-r0)/(a*a) - zj*zj/(a*a)
		}
	}
	f, err := field2d.New(r, z, psi)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	return f
}

func Test_saddle_without_o_point_fails(tst *testing.T) {
	r0, a := 6.2, 2.0
	f := buildSaddle(tst, 101, r0, a)
	// a pure saddle has no O-point; Find should error accordingly.
	_, _, err := Find(f, Options{})
	if err == nil {
		tst.Errorf("expected ConfigurationError-style failure: a pure saddle has no O-point")
	}
}

func Test_deriv_check_matches_analytic(tst *testing.T) {
	r0, a := 6.2, 2.0
	f := buildDisk(tst, 81, r0, a)
	dR, dZ, err := DerivCheck(f, r0+0.5, 0.3)
	if err != nil {
		tst.Fatalf("DerivCheck failed: %v", err)
	}
	wantDR := 2 * 0.5 / (a * a)
	wantDZ := 2 * 0.3 / (a * a)
	if math.Abs(dR-wantDR) > 1e-2 {
		tst.Errorf("dR=%g, want ~%g", dR, wantDR)
	}
	if math.Abs(dZ-wantDZ) > 1e-2 {
		tst.Errorf("dZ=%g, want ~%g", dZ, wantDZ)
	}
}
