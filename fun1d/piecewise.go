package fun1d

import (
	"github.com/cpmech/gosl/chk"
)

// Predicate selects which sub-function of a Piecewise applies at x.
type Predicate func(x float64) bool

// piecewise evaluates to pieces[k].Eval(x) for the unique k with preds[k](x)
// true. Disjointness/completeness is validated once at construction time by
// sampling the domain (spec §4.2: "it is a usage error for the predicates
// to be non-disjoint or incomplete... such errors are reported explicitly").
type piecewise struct {
	preds  []Predicate
	pieces []Function1D
	x0, x1 float64
}

// NewPiecewise builds a piecewise Function1D over [x0,x1]. len(preds) must
// equal len(pieces); preds must partition [x0,x1] (validated by sampling
// nCheck points, default 2000 if nCheck<=0).
func NewPiecewise(x0, x1 float64, preds []Predicate, pieces []Function1D, nCheck int) (Function1D, error) {
	if len(preds) != len(pieces) {
		return nil, chk.Err("fun1d: NewPiecewise: len(preds)=%d != len(pieces)=%d", len(preds), len(pieces))
	}
	if len(preds) == 0 {
		return nil, chk.Err("fun1d: NewPiecewise: need at least one (predicate, function) pair")
	}
	if x1 <= x0 {
		return nil, chk.Err("fun1d: NewPiecewise: invalid domain [%g,%g]", x0, x1)
	}
	if nCheck <= 0 {
		nCheck = 2000
	}
	for i := 0; i <= nCheck; i++ {
		x := x0 + (x1-x0)*float64(i)/float64(nCheck)
		nMatch := 0
		for _, p := range preds {
			if p(x) {
				nMatch++
			}
		}
		if nMatch == 0 {
			return nil, chk.Err("fun1d: NewPiecewise: predicates incomplete at x=%g (no predicate true)", x)
		}
		if nMatch > 1 {
			return nil, chk.Err("fun1d: NewPiecewise: predicates non-disjoint at x=%g (%d predicates true)", x, nMatch)
		}
	}
	return &piecewise{
		preds:  append([]Predicate(nil), preds...),
		pieces: append([]Function1D(nil), pieces...),
		x0:     x0, x1: x1,
	}, nil
}

func (o *piecewise) Domain() (float64, float64) { return o.x0, o.x1 }

func (o *piecewise) selectedIndex(x float64) (int, error) {
	for k, p := range o.preds {
		if p(x) {
			return k, nil
		}
	}
	return -1, chk.Err("fun1d: piecewise: no predicate matches x=%g (is x outside [%g,%g]?)", x, o.x0, o.x1)
}

func (o *piecewise) Eval(x float64) (float64, error) {
	if x < o.x0-1e-12 || x > o.x1+1e-12 {
		return 0, chk.Err("fun1d: piecewise Eval: x=%g outside domain [%g,%g]", x, o.x0, o.x1)
	}
	k, err := o.selectedIndex(x)
	if err != nil {
		return 0, err
	}
	return o.pieces[k].Eval(x)
}

func (o *piecewise) MustEval(x float64) float64 {
	y, err := o.Eval(x)
	if err != nil {
		chk.Panic("fun1d.MustEval: %v", err)
	}
	return y
}

// Derivative differentiates each piece independently; continuity of the
// derivative across breakpoints is not guaranteed or assumed, matching the
// piecewise definitions the core actually uses (e.g. coefficient functions
// with a deliberate kink at x=0.96, scenario 4 in spec §8).
func (o *piecewise) Derivative() Function1D {
	dpieces := make([]Function1D, len(o.pieces))
	for i, p := range o.pieces {
		dpieces[i] = p.Derivative()
	}
	f, err := NewPiecewise(o.x0, o.x1, o.preds, dpieces, 50)
	if err != nil {
		chk.Panic("fun1d: piecewise Derivative: %v", err)
	}
	return f
}

// Antiderivative materialises and integrates cumulatively so the result is
// continuous across breakpoints even though the source pieces are not.
func (o *piecewise) Antiderivative() Function1D { return materialiseAndIntegrate(o) }

func (o *piecewise) Add(g Function1D) Function1D { return newBinary(o, g, opAdd) }
func (o *piecewise) Sub(g Function1D) Function1D { return newBinary(o, g, opSub) }
func (o *piecewise) Mul(g Function1D) Function1D { return newBinary(o, g, opMul) }
func (o *piecewise) Scale(c float64) Function1D  { return newBinary(o, Constant(o.x0, o.x1, c), opMul) }
func (o *piecewise) Offset(c float64) Function1D { return newBinary(o, Constant(o.x0, o.x1, c), opAdd) }

func (o *piecewise) Resample(knots []float64) (Function1D, error) { return resampleGeneric(o, knots) }
