package equilibrium

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/tokasim/fun1d"
)

// buildProfiles computes every 1-D derived profile over o.PsiNorm (spec
// §4.5). Two passes: the first computes V', q, fpol-derived quantities and
// the metric-independent gm's plus the "raw" (pre-rho-scaling) |grad
// psi|-weighted averages; the second derives phi, rho_tor, rho_tor_norm,
// dpsi/drho_tor, drho_tor/dpsi and uses them to scale the raw averages into
// gm2, gm3, gm6, gm7.
func (o *MagneticSurfaceSystem) buildProfiles() error {
	n := len(o.PsiNorm)
	vprime := make([]float64, n)
	q := make([]float64, n)
	gm1 := make([]float64, n)
	gm4 := make([]float64, n)
	gm5 := make([]float64, n)
	gm8 := make([]float64, n)
	gm9 := make([]float64, n)
	gm2raw := make([]float64, n)
	gm3raw := make([]float64, n)
	gm6raw := make([]float64, n)
	gm7raw := make([]float64, n)

	for k, fs := range o.Surfaces {
		fpolK := o.Fpol.MustEval(o.PsiNorm[k])

		one := func(R, Z float64) float64 { return 1 }
		invR2 := func(R, Z float64) float64 { return 1 / (R * R) }
		invR := func(R, Z float64) float64 { return 1 / R }
		rIdent := func(R, Z float64) float64 { return R }
		gradPsi2 := func(R, Z float64) float64 { v, _ := o.Field.Gradient2(R, Z); return v }
		gradPsiAbs := func(R, Z float64) float64 { v, _ := o.Field.Gradient2(R, Z); return math.Sqrt(v) }
		invB2 := func(R, Z float64) float64 { v, _ := o.btot2(R, Z, fpolK); return 1 / v }
		b2 := func(R, Z float64) float64 { v, _ := o.btot2(R, Z, fpolK); return v }
		gradPsi2OverB2 := func(R, Z float64) float64 {
			g2, _ := o.Field.Gradient2(R, Z)
			bb, _ := o.btot2(R, Z, fpolK)
			return g2 / bb
		}
		gradPsi2OverR2 := func(R, Z float64) float64 {
			g2, _ := o.Field.Gradient2(R, Z)
			return g2 / (R * R)
		}

		vp, err := o.SurfaceIntegrate(fs, one)
		if err != nil {
			return chk.Err("equilibrium: buildProfiles: V' at psi_norm=%g: %v", fs.PsiNorm, err)
		}
		vp *= 2 * math.Pi
		vprime[k] = vp

		iq, err := o.SurfaceIntegrate(fs, invR2)
		if err != nil {
			return err
		}
		q[k] = fpolK / (2 * math.Pi) * iq

		avg := func(alpha func(R, Z float64) float64) (float64, error) { return o.surfaceAverageWithVprime(fs, vp, alpha) }

		var e error
		if gm1[k], e = avg(invR2); e != nil {
			return e
		}
		if gm4[k], e = avg(invB2); e != nil {
			return e
		}
		if gm5[k], e = avg(b2); e != nil {
			return e
		}
		if gm8[k], e = avg(rIdent); e != nil {
			return e
		}
		if gm9[k], e = avg(invR); e != nil {
			return e
		}
		if gm2raw[k], e = avg(gradPsi2OverR2); e != nil {
			return e
		}
		if gm3raw[k], e = avg(gradPsi2); e != nil {
			return e
		}
		if gm6raw[k], e = avg(gradPsi2OverB2); e != nil {
			return e
		}
		if gm7raw[k], e = avg(gradPsiAbs); e != nil {
			return e
		}
	}

	o.DVolumeDPsi = fun1d.MustNew(o.PsiNorm, vprime)
	qFun := fun1d.MustNew(o.PsiNorm, q)
	o.Q = qFun
	o.Gm1 = fun1d.MustNew(o.PsiNorm, gm1)
	o.Gm4 = fun1d.MustNew(o.PsiNorm, gm4)
	o.Gm5 = fun1d.MustNew(o.PsiNorm, gm5)
	o.Gm8 = fun1d.MustNew(o.PsiNorm, gm8)
	o.Gm9 = fun1d.MustNew(o.PsiNorm, gm9)

	// FFPrime := fpol * d(fpol)/dpsi
	dFpolDPsiNorm := o.Fpol.Derivative()
	ffprime := make([]float64, n)
	for k, pn := range o.PsiNorm {
		dfdpn := dFpolDPsiNorm.MustEval(pn)
		ffprime[k] = o.Fpol.MustEval(pn) * dfdpn / (o.PsiBoundary - o.PsiAxis)
	}
	o.FFPrime = fun1d.MustNew(o.PsiNorm, ffprime)

	// phi(psi_norm) = (psi_boundary-psi_axis) * antiderivative_{psi_norm}(q).
	// q can vary sharply near a separatrix, so the stiff single-step
	// continuation (fun1d.AntiderivativeStiff) is used here in place of the
	// fixed composite quadrature rule.
	phiNorm, err := fun1d.AntiderivativeStiff(qFun)
	if err != nil {
		return chk.Err("equilibrium: buildProfiles: phi(psi_norm) integration: %v", err)
	}
	phi := make([]float64, n)
	for k, pn := range o.PsiNorm {
		phi[k] = (o.PsiBoundary - o.PsiAxis) * phiNorm.MustEval(pn)
	}
	o.Phi = fun1d.MustNew(o.PsiNorm, phi)

	rhoTor := make([]float64, n)
	for k := range o.PsiNorm {
		v := phi[k] / (math.Pi * math.Abs(o.B0))
		if v < 0 {
			v = 0
		}
		rhoTor[k] = math.Sqrt(v)
	}
	o.RhoTor = fun1d.MustNew(o.PsiNorm, rhoTor)
	o.RhoTorBoundary = rhoTor[n-1]

	rhoTorNorm := make([]float64, n)
	for k := range rhoTor {
		rhoTorNorm[k] = rhoTor[k] / o.RhoTorBoundary
	}
	rhoTorNorm[0] = 0
	rhoTorNorm[n-1] = 1
	o.RhoTorNorm = fun1d.MustNew(o.PsiNorm, rhoTorNorm)

	// drho_tor/dpsi = (1/(psi_b-psi_a)) * d(rho_tor)/d(psi_norm); the axis
	// node is singular (Bpol=0 there), so it is set by one-sided linear
	// extrapolation from the two nearest interior nodes instead (spec §7:
	// "one-sided extrapolation on the near-axis point").
	dRhoDPsiNormFun := o.RhoTor.Derivative()
	drhodpsi := make([]float64, n)
	for k, pn := range o.PsiNorm {
		drhodpsi[k] = dRhoDPsiNormFun.MustEval(pn) / (o.PsiBoundary - o.PsiAxis)
	}
	if n >= 3 {
		drhodpsi[0] = drhodpsi[1] - (drhodpsi[2]-drhodpsi[1])*(o.PsiNorm[1]-o.PsiNorm[0])/(o.PsiNorm[2]-o.PsiNorm[1])
	}
	o.DRhoTorDPsi = fun1d.MustNew(o.PsiNorm, drhodpsi)

	dpsidrho := make([]float64, n)
	for k, d := range drhodpsi {
		if math.Abs(d) < 1e-300 {
			dpsidrho[k] = 0
			continue
		}
		dpsidrho[k] = 1 / d
	}
	o.DPsiDRhoTor = fun1d.MustNew(o.PsiNorm, dpsidrho)

	gm2 := make([]float64, n)
	gm3 := make([]float64, n)
	gm6 := make([]float64, n)
	gm7 := make([]float64, n)
	for k := range o.PsiNorm {
		dr := drhodpsi[k]
		gm2[k] = gm2raw[k] * dr * dr
		gm3[k] = gm3raw[k] * dr * dr
		gm6[k] = gm6raw[k] * dr * dr
		gm7[k] = gm7raw[k] * math.Abs(dr)
	}
	o.Gm2 = fun1d.MustNew(o.PsiNorm, gm2)
	o.Gm3 = fun1d.MustNew(o.PsiNorm, gm3)
	o.Gm6 = fun1d.MustNew(o.PsiNorm, gm6)
	o.Gm7 = fun1d.MustNew(o.PsiNorm, gm7)

	// trapped fraction default model (spec §4.5): 1 - (1-eps)^2/sqrt(1-eps^2) * 1/(1+1.46*sqrt(eps))
	trapped := make([]float64, n)
	for k, rho := range rhoTor {
		eps := rho / o.R0
		if eps >= 1 {
			eps = 1 - 1e-9
		}
		trapped[k] = 1 - (1-eps)*(1-eps)/math.Sqrt(1-eps*eps)*1/(1+1.46*math.Sqrt(eps))
	}
	o.TrappedFraction = fun1d.MustNew(o.PsiNorm, trapped)

	return nil
}
