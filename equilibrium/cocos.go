package equilibrium

import "github.com/cpmech/gosl/chk"

// Convention is one row of the COCOS (Sauter & Medvedev 2013) sign/2pi
// lookup table (spec §4.5 "Sign/COCOS convention"). The analyzer computes
// every internal quantity assuming COCOS 11 (sigmaBp=+1, sigmaRphiZ=+1,
// sigmaRhoThetaPhi=+1, exp_Bp=0 i.e. psi already per-radian). Build looks
// the requested convention up and stores it; the sign flips computed by
// SignFlipsToInternal are not applied to the input field, F or q anywhere.
type Convention struct {
	Index            int
	SigmaBp          float64 // sign of Bp = sigma_Bp * (grad psi x grad phi)/(2pi)^exp_Bp
	SigmaRphiZ       float64 // +1 if (R,phi,Z) is right-handed, -1 if (R,Z,phi) is
	SigmaRhoThetaPhi float64 // +1 if (rho,theta,phi) is right-handed
	ExpBp            int     // 0 or 1: whether psi carries an extra 2*pi factor
}

// cocosTable enumerates the 16 standard COCOS conventions (1-8, 11-18); the
// internal working convention is always 11.
var cocosTable = map[int]Convention{
	1:  {1, +1, +1, +1, 1},
	2:  {2, +1, -1, +1, 1},
	3:  {3, -1, +1, -1, 1},
	4:  {4, -1, -1, -1, 1},
	5:  {5, +1, +1, -1, 1},
	6:  {6, +1, -1, -1, 1},
	7:  {7, -1, +1, +1, 1},
	8:  {8, -1, -1, +1, 1},
	11: {11, +1, +1, +1, 0},
	12: {12, +1, -1, +1, 0},
	13: {13, -1, +1, -1, 0},
	14: {14, -1, -1, -1, 0},
	15: {15, +1, +1, -1, 0},
	16: {16, +1, -1, -1, 0},
	17: {17, -1, +1, +1, 0},
	18: {18, -1, -1, +1, 0},
}

// LookupCOCOS returns the Convention for the given COCOS index.
func LookupCOCOS(index int) (Convention, error) {
	c, ok := cocosTable[index]
	if !ok {
		return Convention{}, chk.Err("equilibrium: LookupCOCOS: unsupported COCOS index %d", index)
	}
	return c, nil
}

// SignFlipsToInternal returns the (q, psi) sign multipliers needed to
// convert a quantity expressed in convention c into the analyzer's
// internal COCOS-11 working convention.
func (c Convention) SignFlipsToInternal() (signQ, signPsi float64) {
	internal := cocosTable[11]
	signQ = c.SigmaBp * c.SigmaRhoThetaPhi * internal.SigmaBp * internal.SigmaRhoThetaPhi
	signPsi = c.SigmaBp * internal.SigmaBp
	return
}
