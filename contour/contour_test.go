package contour

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tokasim/critpoint"
	"github.com/cpmech/tokasim/field2d"
)

func buildDisk(tst *testing.T, r0, a float64) *field2d.Field2D {
	r := utl.LinSpace(r0-3*a, r0+3*a, 129)
	z := utl.LinSpace(-3*a, 3*a, 129)
	psi := make([][]float64, len(r))
	for i, ri := range r {
		psi[i] = make([]float64, len(z))
		for j, zj := range z {
			psi[i][j] = ((ri-r0)*(ri-r0) + zj*zj) / (a * a)
		}
	}
	f, err := field2d.New(r, z, psi)
	if err != nil {
		tst.Fatalf("field2d.New failed: %v", err)
	}
	return f
}

func Test_Trace_circle_level_set_radius(tst *testing.T) {
	r0, a := 6.2, 2.0
	f := buildDisk(tst, r0, a)
	level := 0.25 // Psi=0.25 -> (R-R0)^2+Z^2 = 0.25*a^2, radius 0.5*a

	lines, err := Trace(f, []float64{level}, &critpoint.OXPoint{R: r0, Z: 0, Psi: 0})
	if err != nil {
		tst.Fatalf("Trace failed: %v", err)
	}
	if len(lines[0]) != 1 {
		tst.Fatalf("expected exactly one enclosing polyline, got %d", len(lines[0]))
	}
	line := lines[0][0]
	if !line.Closed {
		tst.Errorf("level set of a smooth disk should be closed")
	}
	wantRadius := 0.5 * a
	for _, p := range line.Points {
		rad := math.Hypot(p.R-r0, p.Z)
		if math.Abs(rad-wantRadius) > 0.05*wantRadius {
			tst.Errorf("point (%g,%g) has radius %g, want ~%g", p.R, p.Z, rad, wantRadius)
		}
	}
}

func Test_Trace_without_enclose_point_returns_all_polylines(tst *testing.T) {
	r0, a := 6.2, 2.0
	f := buildDisk(tst, r0, a)
	lines, err := Trace(f, []float64{0.25}, nil)
	if err != nil {
		tst.Fatalf("Trace failed: %v", err)
	}
	if len(lines[0]) == 0 {
		tst.Fatalf("expected at least one polyline when o is nil")
	}
}
