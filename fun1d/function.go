// Package fun1d implements Function1D: a 1-D interpolant over a domain
// [x0,x1] supporting evaluation, differentiation, antidifferentiation,
// pointwise arithmetic, piecewise construction, resampling and pullback.
//
// Following the teacher's (gofem/gosl) convention, arithmetic combinators
// build an expression tree of small structs implementing the Function1D
// interface; materialisation onto a concrete mesh only happens where
// numerics actually require it (Antiderivative, Resample).
package fun1d

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Function1D maps x in [x0,x1] to a scalar y, together with the operations
// needed to assemble and manipulate the radial profiles used throughout the
// core (geometry coefficients, densities, temperatures, fluxes).
type Function1D interface {
	// Eval returns y(x). x outside [x0,x1] is a DataError.
	Eval(x float64) (float64, error)

	// MustEval is Eval but panics on a DataError; reserved for callers that
	// have already range-checked x (residual assembly inner loops).
	MustEval(x float64) float64

	// Domain returns [x0, x1].
	Domain() (x0, x1 float64)

	// Derivative returns dy/dx as a new Function1D.
	Derivative() Function1D

	// Antiderivative returns Y(x) = integral_{x0}^{x} y(x') dx', Y(x0) = 0.
	Antiderivative() Function1D

	// Add, Sub, Mul return new Function1Ds combining this with another,
	// pointwise, over the intersection of the two domains.
	Add(g Function1D) Function1D
	Sub(g Function1D) Function1D
	Mul(g Function1D) Function1D

	// Scale and Offset apply y -> c*y and y -> y+c.
	Scale(c float64) Function1D
	Offset(c float64) Function1D

	// Resample returns a new Function1D sharing values at the new knot
	// vector (which must be strictly increasing and within [x0,x1]).
	Resample(knots []float64) (Function1D, error)
}

// knotted is the concrete base representation: values sampled at a strictly
// increasing knot vector, interpolated with a natural cubic spline. All
// other Function1D implementations reduce to this at the materialisation
// boundary (Antiderivative, Resample of a composite).
type knotted struct {
	x []float64 // knots, strictly increasing
	y []float64 // values at knots

	// cubic spline second-derivative coefficients (computed lazily, once)
	m []float64
}

// New builds a Function1D from a strictly increasing knot vector and values
// sampled at those knots.
func New(x, y []float64) (Function1D, error) {
	if len(x) != len(y) {
		return nil, chk.Err("fun1d: New: len(x)=%d != len(y)=%d", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, chk.Err("fun1d: New: need at least 2 knots, got %d", len(x))
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return nil, chk.Err("fun1d: New: knot vector is not strictly increasing at index %d (%g <= %g)", i, x[i], x[i-1])
		}
	}
	xc := append([]float64(nil), x...)
	yc := append([]float64(nil), y...)
	return &knotted{x: xc, y: yc}, nil
}

// MustNew is New but panics on error; reserved for built-in tables.
func MustNew(x, y []float64) Function1D {
	f, err := New(x, y)
	if err != nil {
		chk.Panic("fun1d.MustNew: %v", err)
	}
	return f
}

// Knots returns the underlying knot vector of f if f was built directly by
// New/MustNew (a *knotted), and false otherwise. Used by callers that must
// validate knot count before accepting a caller-supplied profile (spec
// §4.5: "if it has fewer than 4 knots, the build fails").
func Knots(f Function1D) ([]float64, bool) {
	k, ok := f.(*knotted)
	if !ok {
		return nil, false
	}
	return append([]float64(nil), k.x...), true
}

// Constant returns a Function1D equal to c everywhere on [x0,x1].
func Constant(x0, x1, c float64) Function1D {
	return MustNew([]float64{x0, x1}, []float64{c, c})
}

func (o *knotted) Domain() (float64, float64) { return o.x[0], o.x[len(o.x)-1] }

func (o *knotted) Eval(x float64) (float64, error) {
	x0, x1 := o.Domain()
	if x < x0-1e-12 || x > x1+1e-12 {
		return 0, chk.Err("fun1d: Eval: x=%g outside domain [%g,%g]", x, x0, x1)
	}
	i := o.bracket(x)
	return o.evalSeg(i, x), nil
}

func (o *knotted) MustEval(x float64) float64 {
	y, err := o.Eval(x)
	if err != nil {
		chk.Panic("fun1d.MustEval: %v", err)
	}
	return y
}

// bracket returns the index i such that x in [x[i], x[i+1]] (clamped at
// the ends to tolerate floating-point edge values).
func (o *knotted) bracket(x float64) int {
	n := len(o.x)
	if x <= o.x[0] {
		return 0
	}
	if x >= o.x[n-1] {
		return n - 2
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if o.x[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// ensureSpline computes natural cubic spline second derivatives once
// (tridiagonal solve), following the classic Numerical-Recipes algorithm.
func (o *knotted) ensureSpline() {
	if o.m != nil {
		return
	}
	n := len(o.x)
	o.m = make([]float64, n)
	if n < 3 {
		return // linear interpolation: zero curvature
	}
	u := make([]float64, n)
	for i := 1; i < n-1; i++ {
		sig := (o.x[i] - o.x[i-1]) / (o.x[i+1] - o.x[i-1])
		p := sig*o.m[i-1] + 2.0
		o.m[i] = (sig - 1.0) / p
		d := (o.y[i+1]-o.y[i])/(o.x[i+1]-o.x[i]) - (o.y[i]-o.y[i-1])/(o.x[i]-o.x[i-1])
		u[i] = (6.0*d/(o.x[i+1]-o.x[i-1]) - sig*u[i-1]) / p
	}
	o.m[n-1] = 0
	for k := n - 2; k >= 0; k-- {
		o.m[k] = o.m[k]*o.m[k+1] + u[k]
	}
}

// evalSeg evaluates the cubic spline segment [x[i],x[i+1]] at x.
func (o *knotted) evalSeg(i int, x float64) float64 {
	o.ensureSpline()
	h := o.x[i+1] - o.x[i]
	a := (o.x[i+1] - x) / h
	b := (x - o.x[i]) / h
	return a*o.y[i] + b*o.y[i+1] +
		((a*a*a-a)*o.m[i]+(b*b*b-b)*o.m[i+1])*(h*h)/6.0
}

// evalSegDeriv evaluates d/dx of the cubic spline segment [x[i],x[i+1]].
func (o *knotted) evalSegDeriv(i int, x float64) float64 {
	o.ensureSpline()
	h := o.x[i+1] - o.x[i]
	a := (o.x[i+1] - x) / h
	b := (x - o.x[i]) / h
	return (o.y[i+1]-o.y[i])/h -
		(3*a*a-1)*h*o.m[i]/6.0 +
		(3*b*b-1)*h*o.m[i+1]/6.0
}

func (o *knotted) Derivative() Function1D {
	o.ensureSpline()
	dy := make([]float64, len(o.x))
	for k, xk := range o.x {
		i := o.bracket(xk)
		dy[k] = o.evalSegDeriv(i, xk)
	}
	return MustNew(o.x, dy)
}

// Antiderivative integrates via cumulative Simpson/trapezoid quadrature on
// the existing knot vector (fine enough since the knot vector is already
// the working mesh) and refits a spline through the cumulative values.
// AntiderivativeStiff offers a Radau5 IVP integration of a knotted function
// instead; non-knotted nodes are materialised and integrated by quadrature.
func (o *knotted) Antiderivative() Function1D {
	n := len(o.x)
	Y := make([]float64, n)
	Y[0] = 0
	for i := 1; i < n; i++ {
		h := o.x[i] - o.x[i-1]
		// composite Simpson using the midpoint of the spline segment
		xm := 0.5 * (o.x[i-1] + o.x[i])
		ym := o.evalSeg(i-1, xm)
		Y[i] = Y[i-1] + h/6.0*(o.y[i-1]+4*ym+o.y[i])
	}
	return MustNew(o.x, Y)
}

func (o *knotted) Add(g Function1D) Function1D { return newBinary(o, g, opAdd) }
func (o *knotted) Sub(g Function1D) Function1D { return newBinary(o, g, opSub) }
func (o *knotted) Mul(g Function1D) Function1D { return newBinary(o, g, opMul) }

func (o *knotted) Scale(c float64) Function1D {
	yy := make([]float64, len(o.y))
	for i, v := range o.y {
		yy[i] = c * v
	}
	return MustNew(o.x, yy)
}

func (o *knotted) Offset(c float64) Function1D {
	yy := make([]float64, len(o.y))
	for i, v := range o.y {
		yy[i] = v + c
	}
	return MustNew(o.x, yy)
}

func (o *knotted) Resample(knots []float64) (Function1D, error) {
	return resampleGeneric(o, knots)
}

// resampleGeneric materialises f at the given knots, erroring if any knot
// falls outside f's domain.
func resampleGeneric(f Function1D, knots []float64) (Function1D, error) {
	x0, x1 := f.Domain()
	yy := make([]float64, len(knots))
	for i, xk := range knots {
		if xk < x0-1e-9 || xk > x1+1e-9 {
			return nil, chk.Err("fun1d: Resample: knot %g outside domain [%g,%g]", xk, x0, x1)
		}
		xc := math.Min(math.Max(xk, x0), x1)
		y, err := f.Eval(xc)
		if err != nil {
			return nil, err
		}
		yy[i] = y
	}
	return New(knots, yy)
}
