package fun1d

import "github.com/cpmech/gosl/chk"

// Pullback composes f with a monotone change of variable g: returns
// h(t) = f(g(t)) for t in g's domain. g must be monotone (checked by
// sampling); used e.g. to express a profile given on psi_norm as a profile
// on rho_tor_norm once the mapping between the two is known.
type pullback struct {
	f, g Function1D
}

// NewPullback validates that g is monotone over nCheck samples (default 200
// if nCheck<=0) before composing.
func NewPullback(f, g Function1D, nCheck int) (Function1D, error) {
	if nCheck <= 0 {
		nCheck = 200
	}
	t0, t1 := g.Domain()
	prev, err := g.Eval(t0)
	if err != nil {
		return nil, err
	}
	sign := 0
	for i := 1; i <= nCheck; i++ {
		t := t0 + (t1-t0)*float64(i)/float64(nCheck)
		v, err := g.Eval(t)
		if err != nil {
			return nil, err
		}
		d := v - prev
		switch {
		case d > 0 && sign < 0, d < 0 && sign > 0:
			return nil, chk.Err("fun1d: Pullback: g is not monotone on [%g,%g]", t0, t1)
		case d > 0:
			sign = 1
		case d < 0:
			sign = -1
		}
		prev = v
	}
	fx0, fx1 := f.Domain()
	gv0, err := g.Eval(t0)
	if err != nil {
		return nil, err
	}
	gv1, err := g.Eval(t1)
	if err != nil {
		return nil, err
	}
	lo, hi := gv0, gv1
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < fx0-1e-9 || hi > fx1+1e-9 {
		return nil, chk.Err("fun1d: Pullback: range of g [%g,%g] exceeds domain of f [%g,%g]", lo, hi, fx0, fx1)
	}
	return &pullback{f: f, g: g}, nil
}

func (o *pullback) Domain() (float64, float64) { return o.g.Domain() }

func (o *pullback) Eval(t float64) (float64, error) {
	gv, err := o.g.Eval(t)
	if err != nil {
		return 0, err
	}
	return o.f.Eval(gv)
}

func (o *pullback) MustEval(t float64) float64 {
	y, err := o.Eval(t)
	if err != nil {
		chk.Panic("fun1d.MustEval: %v", err)
	}
	return y
}

// Derivative applies the chain rule: h'(t) = f'(g(t)) * g'(t).
func (o *pullback) Derivative() Function1D {
	dfog := &pullback{f: o.f.Derivative(), g: o.g}
	return newBinary(dfog, o.g.Derivative(), opMul)
}

func (o *pullback) Antiderivative() Function1D { return materialiseAndIntegrate(o) }

func (o *pullback) Add(g Function1D) Function1D { return newBinary(o, g, opAdd) }
func (o *pullback) Sub(g Function1D) Function1D { return newBinary(o, g, opSub) }
func (o *pullback) Mul(g Function1D) Function1D { return newBinary(o, g, opMul) }
func (o *pullback) Scale(c float64) Function1D {
	t0, t1 := o.Domain()
	return newBinary(o, Constant(t0, t1, c), opMul)
}
func (o *pullback) Offset(c float64) Function1D {
	t0, t1 := o.Domain()
	return newBinary(o, Constant(t0, t1, c), opAdd)
}
func (o *pullback) Resample(knots []float64) (Function1D, error) { return resampleGeneric(o, knots) }
