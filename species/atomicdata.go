package species

import "math"

// AtomicData is the reaction-rate/radiation lookup table (spec §2
// AtomicData: "Reaction rates, radiation, species table lookup"). It is a
// process-wide immutable table seeded once at package init with the
// Bosch-Hale D-T fusion reactivity parametrization, matching the role
// fytok's neoclassical.py physics tables play: an external-but-bundled
// closed-form supplement (SPEC_FULL.md §13).
type AtomicData struct {
	// boschHale D-T parametrization coefficients (Bosch & Hale, Nucl.
	// Fusion 32 (1992) 611, table VII, D(T,n)alpha reaction).
	bg     float64
	mc2    float64
	c      [7]float64
}

// Default is the package-wide immutable AtomicData instance.
var Default = AtomicData{
	bg:  34.3827,
	mc2: 1124656.0,
	c:   [7]float64{1.17302e-9, 1.51361e-2, 7.51886e-2, 4.60643e-3, 1.35e-2, -1.0675e-4, 1.366e-5},
}

// DTReactivitySigmaV returns <sigma*v> [m^3/s] for the D(T,n)alpha reaction
// at ion temperature Ti [keV], via the Bosch-Hale parametrization, valid
// for 0.2 keV <= Ti <= 100 keV.
func (a AtomicData) DTReactivitySigmaV(tiKeV float64) float64 {
	if tiKeV <= 0 {
		return 0
	}
	c := a.c
	theta := tiKeV / (1 - (tiKeV*(c[1]+tiKeV*(c[3]+tiKeV*c[5])))/(1+tiKeV*(c[2]+tiKeV*(c[4]+tiKeV*c[6]))))
	xi := math.Pow(a.bg*a.bg/(4*theta), 1.0/3.0)
	sigmaV := c[0] * theta * math.Sqrt(xi/(a.mc2*tiKeV*tiKeV*tiKeV)) * math.Exp(-3*xi)
	// Bosch-Hale returns cm^3/s; convert to m^3/s
	return sigmaV * 1e-6
}

// FusionPowerDensity returns the D-T fusion power density [W/m^3] given the
// deuteron and triton densities [m^-3] and a common ion temperature [keV],
// using E_fusion = 17.6 MeV per reaction (alpha + neutron).
func (a AtomicData) FusionPowerDensity(nD, nT, tiKeV float64) float64 {
	const eFusionJ = 17.6e6 * 1.602176634e-19
	return nD * nT * a.DTReactivitySigmaV(tiKeV) * eFusionJ
}

// BremsstrahlungRadiationDensity returns a simple electron-ion
// bremsstrahlung power density [W/m^3] estimate, P = 5.35e-37 * Zeff * ne^2
// * sqrt(Te[keV]) (NRL formulary, SI-scaled), used as the radiation model
// consumed via the uniform coefficient interface when no dedicated
// radiation module is wired (spec §1: radiation is an external collaborator).
func (a AtomicData) BremsstrahlungRadiationDensity(ne, zEff, teKeV float64) float64 {
	if teKeV <= 0 {
		return 0
	}
	return 5.35e-37 * zEff * ne * ne * math.Sqrt(teKeV)
}
