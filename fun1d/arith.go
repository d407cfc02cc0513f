package fun1d

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

type opKind int

const (
	opAdd opKind = iota
	opSub
	opMul
)

// binary is an expression-tree node combining two Function1Ds pointwise.
// Evaluation is lazy (no grid materialisation); see DESIGN.md.
type binary struct {
	l, r Function1D
	op   opKind
}

func newBinary(l, r Function1D, op opKind) Function1D {
	return &binary{l: l, r: r, op: op}
}

func (o *binary) Domain() (float64, float64) {
	l0, l1 := o.l.Domain()
	r0, r1 := o.r.Domain()
	return math.Max(l0, r0), math.Min(l1, r1)
}

func (o *binary) Eval(x float64) (float64, error) {
	lv, err := o.l.Eval(x)
	if err != nil {
		return 0, err
	}
	rv, err := o.r.Eval(x)
	if err != nil {
		return 0, err
	}
	switch o.op {
	case opAdd:
		return lv + rv, nil
	case opSub:
		return lv - rv, nil
	case opMul:
		return lv * rv, nil
	}
	panic("fun1d: unreachable op")
}

func (o *binary) MustEval(x float64) float64 {
	y, err := o.Eval(x)
	if err != nil {
		chk.Panic("fun1d.MustEval: %v", err)
	}
	return y
}

// Derivative applies the sum/difference/product rule structurally.
func (o *binary) Derivative() Function1D {
	switch o.op {
	case opAdd:
		return newBinary(o.l.Derivative(), o.r.Derivative(), opAdd)
	case opSub:
		return newBinary(o.l.Derivative(), o.r.Derivative(), opSub)
	case opMul:
		// (l*r)' = l'*r + l*r'
		t1 := newBinary(o.l.Derivative(), o.r, opMul)
		t2 := newBinary(o.l, o.r.Derivative(), opMul)
		return newBinary(t1, t2, opAdd)
	}
	panic("fun1d: unreachable op")
}

// Antiderivative materialises this node onto a mesh and integrates
// numerically; exact symbolic antidifferentiation of an arbitrary product
// is not attempted (matches the teacher's "materialise at the numerics
// boundary" idiom, see DESIGN.md).
func (o *binary) Antiderivative() Function1D {
	return materialiseAndIntegrate(o)
}

func (o *binary) Add(g Function1D) Function1D { return newBinary(o, g, opAdd) }
func (o *binary) Sub(g Function1D) Function1D { return newBinary(o, g, opSub) }
func (o *binary) Mul(g Function1D) Function1D { return newBinary(o, g, opMul) }

func (o *binary) Scale(c float64) Function1D  { return newBinary(o, Constant(domainLo(o), domainHi(o), c), opMul) }
func (o *binary) Offset(c float64) Function1D { return newBinary(o, Constant(domainLo(o), domainHi(o), c), opAdd) }

func (o *binary) Resample(knots []float64) (Function1D, error) { return resampleGeneric(o, knots) }

func domainLo(f Function1D) float64 { x0, _ := f.Domain(); return x0 }
func domainHi(f Function1D) float64 { _, x1 := f.Domain(); return x1 }

// materialiseAndIntegrate samples f on its own domain at a fine fixed mesh
// (defaulting to 513 points, matching the grid resolution used elsewhere in
// the core's analytic test scenario) and cumulatively integrates.
func materialiseAndIntegrate(f Function1D) Function1D {
	const n = 513
	x0, x1 := f.Domain()
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = x0 + (x1-x0)*float64(i)/float64(n-1)
		y[i] = f.MustEval(x[i])
	}
	base := MustNew(x, y).(*knotted)
	return base.Antiderivative()
}
