package fun1d

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/utl"
)

func Test_eval_quadratic(tst *testing.T) {
	x := utl.LinSpace(0, 1, 21)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = xi * xi
	}
	f, err := New(x, y)
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	for _, xi := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		v := f.MustEval(xi)
		if math.Abs(v-xi*xi) > 1e-3 {
			tst.Errorf("f(%g)=%g, want ~%g", xi, v, xi*xi)
		}
	}
}

func Test_eval_out_of_domain(tst *testing.T) {
	f := MustNew([]float64{0, 1}, []float64{0, 1})
	if _, err := f.Eval(1.5); err == nil {
		tst.Errorf("expected DataError for x outside domain")
	}
}

func Test_derivative_round_trip(tst *testing.T) {
	x := utl.LinSpace(0, 2*math.Pi, 201)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = math.Sin(xi)
	}
	f := MustNew(x, y)
	df := f.Derivative()
	for _, xi := range []float64{0.5, 1.5, 3.0, 5.0} {
		got := df.MustEval(xi)
		want := math.Cos(xi)
		if math.Abs(got-want) > 1e-2 {
			tst.Errorf("df(%g)=%g, want ~%g", xi, got, want)
		}
	}
}

func Test_antiderivative_then_derivative(tst *testing.T) {
	x := utl.LinSpace(0, 1, 101)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = 1 + 2*xi
	}
	f := MustNew(x, y)
	F := f.Antiderivative()
	x0, _ := F.Domain()
	if v := F.MustEval(x0); math.Abs(v) > 1e-9 {
		tst.Errorf("antiderivative at x0 = %g, want 0", v)
	}
	dF := F.Derivative()
	for _, xi := range []float64{0.1, 0.5, 0.9} {
		got := dF.MustEval(xi)
		want := f.MustEval(xi)
		if math.Abs(got-want) > 1e-2 {
			tst.Errorf("(F)'(%g)=%g, want ~%g", xi, got, want)
		}
	}
}

func Test_antiderivative_monotone_for_nonnegative_integrand(tst *testing.T) {
	x := utl.LinSpace(0, 1, 51)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = xi * xi
	}
	f := MustNew(x, y)
	F := f.Antiderivative()
	prev := math.Inf(-1)
	for _, xi := range x {
		v := F.MustEval(xi)
		if v < prev-1e-12 {
			tst.Errorf("antiderivative not monotone non-decreasing at x=%g", xi)
		}
		prev = v
	}
}

func Test_arithmetic(tst *testing.T) {
	f := MustNew([]float64{0, 1}, []float64{0, 1})
	g := MustNew([]float64{0, 1}, []float64{1, 1})
	sum := f.Add(g)
	if v := sum.MustEval(0.5); math.Abs(v-1.5) > 1e-9 {
		tst.Errorf("sum(0.5)=%g, want 1.5", v)
	}
	prod := f.Mul(g)
	if v := prod.MustEval(0.5); math.Abs(v-0.5) > 1e-9 {
		tst.Errorf("prod(0.5)=%g, want 0.5", v)
	}
	scaled := f.Scale(3.0)
	if v := scaled.MustEval(1.0); math.Abs(v-3.0) > 1e-9 {
		tst.Errorf("scaled(1)=%g, want 3", v)
	}
}

func Test_piecewise_disjoint_complete(tst *testing.T) {
	left := Constant(0, 1, -1)
	right := Constant(0, 1, 1)
	preds := []Predicate{
		func(x float64) bool { return x < 0.5 },
		func(x float64) bool { return x >= 0.5 },
	}
	f, err := NewPiecewise(0, 1, preds, []Function1D{left, right}, 200)
	if err != nil {
		tst.Fatalf("NewPiecewise failed: %v", err)
	}
	if v := f.MustEval(0.1); v != -1 {
		tst.Errorf("f(0.1)=%g, want -1", v)
	}
	if v := f.MustEval(0.9); v != 1 {
		tst.Errorf("f(0.9)=%g, want 1", v)
	}
}

func Test_piecewise_non_disjoint_rejected(tst *testing.T) {
	left := Constant(0, 1, -1)
	right := Constant(0, 1, 1)
	preds := []Predicate{
		func(x float64) bool { return x <= 0.6 },
		func(x float64) bool { return x >= 0.4 },
	}
	_, err := NewPiecewise(0, 1, preds, []Function1D{left, right}, 200)
	if err == nil {
		tst.Errorf("expected usage error for overlapping predicates")
	}
}

func Test_piecewise_incomplete_rejected(tst *testing.T) {
	left := Constant(0, 1, -1)
	right := Constant(0, 1, 1)
	preds := []Predicate{
		func(x float64) bool { return x < 0.3 },
		func(x float64) bool { return x > 0.7 },
	}
	_, err := NewPiecewise(0, 1, preds, []Function1D{left, right}, 200)
	if err == nil {
		tst.Errorf("expected usage error for incomplete predicates")
	}
}

func Test_resample(tst *testing.T) {
	x := utl.LinSpace(0, 1, 11)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = xi
	}
	f := MustNew(x, y)
	newKnots := utl.LinSpace(0, 1, 5)
	g, err := f.Resample(newKnots)
	if err != nil {
		tst.Fatalf("Resample failed: %v", err)
	}
	if v := g.MustEval(0.5); math.Abs(v-0.5) > 1e-6 {
		tst.Errorf("resampled g(0.5)=%g, want 0.5", v)
	}
}

func Test_pullback_monotone(tst *testing.T) {
	f := MustNew([]float64{0, 1}, []float64{0, 1}) // f(y) = y
	g := MustNew([]float64{0, 2}, []float64{0, 1}) // g(t) = t/2
	h, err := NewPullback(f, g, 50)
	if err != nil {
		tst.Fatalf("NewPullback failed: %v", err)
	}
	if v := h.MustEval(1.0); math.Abs(v-0.5) > 1e-9 {
		tst.Errorf("h(1)=%g, want 0.5", v)
	}
}

func Test_pullback_nonmonotone_rejected(tst *testing.T) {
	f := MustNew([]float64{-1, 1}, []float64{-1, 1})
	g := MustNew([]float64{0, 1, 2}, []float64{0, 1, 0})
	_, err := NewPullback(f, g, 50)
	if err == nil {
		tst.Errorf("expected error for non-monotone g")
	}
}
