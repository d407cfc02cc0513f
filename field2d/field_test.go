package field2d

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/utl"
)

// buildDisk constructs the analytic axisymmetric disk from spec §8 scenario 1:
// Psi(R,Z) = ((R-R0)^2 + Z^2) / a^2.
func buildDisk(tst *testing.T, nr, nz int, r0, a float64) *Field2D {
	r := utl.LinSpace(r0-3*a, r0+3*a, nr)
	z := utl.LinSpace(-3*a, 3*a, nz)
	psi := make([][]float64, nr)
	for i, ri := range r {
		psi[i] = make([]float64, nz)
		for j, zj := range z {
			psi[i][j] = ((ri-r0)*(ri-r0) + zj*zj) / (a * a)
		}
	}
	f, err := New(r, z, psi)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	return f
}

func Test_disk_value_and_gradient_at_axis(tst *testing.T) {
	r0, a := 6.2, 2.0
	f := buildDisk(tst, 81, 81, r0, a)
	v, err := f.Psi(r0, 0)
	if err != nil {
		tst.Fatalf("Psi failed: %v", err)
	}
	if math.Abs(v) > 1e-6 {
		tst.Errorf("Psi(axis)=%g, want ~0", v)
	}
	g2, err := f.Gradient2(r0, 0)
	if err != nil {
		tst.Fatalf("Gradient2 failed: %v", err)
	}
	if math.Abs(g2) > 1e-6 {
		tst.Errorf("|grad Psi|^2(axis)=%g, want ~0", g2)
	}
}

func Test_disk_hessian_positive_definite_at_axis(tst *testing.T) {
	r0, a := 6.2, 2.0
	f := buildDisk(tst, 81, 81, r0, a)
	det, err := f.DetHessian(r0, 0)
	if err != nil {
		tst.Fatalf("DetHessian failed: %v", err)
	}
	if det <= 0 {
		tst.Errorf("det(Hess) at O-point candidate = %g, want > 0", det)
	}
}

func Test_out_of_bounds_fails(tst *testing.T) {
	f := buildDisk(tst, 21, 21, 6.2, 2.0)
	rmin, rmax, _, _ := f.BoundingBox()
	if _, err := f.Psi(rmax+10, 0); err == nil {
		tst.Errorf("expected error querying outside bounding box")
	}
	_ = rmin
}
