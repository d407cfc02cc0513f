package equilibrium

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/tokasim/critpoint"
)

// axisVprime is the analytic V' limit at the magnetic axis (spec §4.5:
// "On the axis (psi_norm=0), V' is taken as the analytic limit
// 2*pi*R0^2/|det Hess Psi|^{1/2}").
func (o *MagneticSurfaceSystem) axisVprime() (float64, error) {
	det, err := o.Field.DetHessian(o.Axis.R, o.Axis.Z)
	if err != nil {
		return 0, err
	}
	if det <= 0 {
		return 0, chk.Err("equilibrium: axisVprime: non-positive det(Hess) at axis (%g)", det)
	}
	return 2 * math.Pi * o.R0 * o.R0 / math.Sqrt(det), nil
}

// SurfaceIntegrate computes the integral(alpha * R/|grad Psi| dl) along the
// surface (spec §4.5). On the degenerate axis surface, the integrand is
// evaluated as alpha(R0,Z_axis) times the analytic V'/2pi limit rather
// than by quadrature (spec §4.5), avoiding the 1/|grad Psi| singularity.
func (o *MagneticSurfaceSystem) SurfaceIntegrate(fs *FluxSurface, alpha func(R, Z float64) float64) (float64, error) {
	if fs.OnAxis {
		vp, err := o.axisVprime()
		if err != nil {
			return 0, err
		}
		return alpha(o.R0, o.Axis.Z) * vp / (2 * math.Pi), nil
	}
	n := len(fs.R)
	if n < 2 {
		return 0, chk.Err("equilibrium: SurfaceIntegrate: surface at psi_norm=%g has <2 points", fs.PsiNorm)
	}
	sum := 0.0
	for i := 0; i+1 < n; i++ {
		R0, Z0 := fs.R[i], fs.Z[i]
		R1, Z1 := fs.R[i+1], fs.Z[i+1]
		Rm, Zm := 0.5*(R0+R1), 0.5*(Z0+Z1)
		dl := math.Hypot(R1-R0, Z1-Z0)
		g2, err := o.Field.Gradient2(Rm, Zm)
		if err != nil {
			return 0, chk.Err("equilibrium: SurfaceIntegrate: at psi_norm=%g: %v", fs.PsiNorm, err)
		}
		gradPsi := math.Sqrt(g2)
		if gradPsi < 1e-300 {
			return 0, chk.Err("equilibrium: SurfaceIntegrate: |grad Psi| underflow at (%g,%g) on psi_norm=%g surface", Rm, Zm, fs.PsiNorm)
		}
		sum += alpha(Rm, Zm) * (Rm / gradPsi) * dl
	}
	return sum, nil
}

// surfaceAverageWithVprime returns SurfaceIntegrate(alpha) / V' given an
// already-known V' (used internally by buildProfiles, which computes V'
// before the DVolumeDPsi profile exists).
func (o *MagneticSurfaceSystem) surfaceAverageWithVprime(fs *FluxSurface, vprime float64, alpha func(R, Z float64) float64) (float64, error) {
	if vprime == 0 {
		return 0, chk.Err("equilibrium: SurfaceAverage: V'=0 at psi_norm=%g", fs.PsiNorm)
	}
	num, err := o.SurfaceIntegrate(fs, alpha)
	if err != nil {
		return 0, err
	}
	return num / vprime, nil
}

// SurfaceAverage returns SurfaceIntegrate(alpha) / V' (spec §4.5), looking
// V' up from the already-built DVolumeDPsi profile.
func (o *MagneticSurfaceSystem) SurfaceAverage(fs *FluxSurface, alpha func(R, Z float64) float64) (float64, error) {
	vp, err := o.DVolumeDPsi.Eval(fs.PsiNorm)
	if err != nil {
		return 0, chk.Err("equilibrium: SurfaceAverage: V' lookup at psi_norm=%g: %v", fs.PsiNorm, err)
	}
	return o.surfaceAverageWithVprime(fs, vp, alpha)
}

// FindSurface returns the single FluxSurface at the given psi level,
// optionally keeping only the polyline enclosing the magnetic axis (spec
// §4.5 public contract: "find_surface(psi_level, enclose_o=true)").
func (o *MagneticSurfaceSystem) FindSurface(psiLevel float64, encloseO bool) (*FluxSurface, error) {
	var axisPtr *critpoint.OXPoint
	if encloseO {
		axisPtr = &o.Axis
	}
	psiNorm := (psiLevel - o.PsiAxis) / (o.PsiBoundary - o.PsiAxis)
	isSeparatrix := o.XPoint != nil && math.Abs(psiLevel-o.XPoint.Psi) < 1e-9*math.Abs(o.PsiBoundary-o.PsiAxis)
	var xp *critpoint.OXPoint
	if isSeparatrix {
		xp = o.XPoint
	}
	return findSurface(o.Field, psiLevel, psiNorm, axisPtr, xp, isSeparatrix && axisPtr != nil)
}

// bpol2 returns Bp^2 = |grad Psi|^2 / R^2.
func (o *MagneticSurfaceSystem) bpol2(R, Z float64) (float64, error) {
	g2, err := o.Field.Gradient2(R, Z)
	if err != nil {
		return 0, err
	}
	return g2 / (R * R), nil
}

// btot2 returns B^2 = Bp^2 + (fpol/R)^2 given fpol at this surface.
func (o *MagneticSurfaceSystem) btot2(R, Z, fpol float64) (float64, error) {
	bp2, err := o.bpol2(R, Z)
	if err != nil {
		return 0, err
	}
	bt := fpol / R
	return bp2 + bt*bt, nil
}
