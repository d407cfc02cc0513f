package tokamak

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tokasim/fun1d"
)

// Display renders the named profile ("psi", or a species label, which
// selects that species' density) to an image file under dirout (spec §6 "display(what, out)"),
// following mdl/conduct's Plot/SaveD idiom (DESIGN.md). This is an optional
// convenience, not part of the numerical core.
func (o *Tokamak) Display(what, dirout, fname string) error {
	f, label, err := o.profileByName(what)
	if err != nil {
		return newError(ConfigurationError, "display: unknown profile name", err)
	}
	if err := os.MkdirAll(dirout, 0755); err != nil {
		return newError(ConfigurationError, "display: creating output directory", err)
	}
	np := 129
	x0, x1 := f.Domain()
	X := utl.LinSpace(x0, x1, np)
	Y := make([]float64, np)
	for i, xi := range X {
		v, err := f.Eval(xi)
		if err != nil {
			return newError(NumericError, "display: sampling profile", err)
		}
		Y[i] = v
	}
	plt.Plot(X, Y, "'b-', clip_on=0")
	plt.Gll("$\\rho_{tor,norm}$", "$"+label+"$", "")
	plt.SaveD(dirout, fname)
	io.Pf("wrote %s\n", filepath.Join(dirout, fname))
	return nil
}

func (o *Tokamak) profileByName(what string) (fun1d.Function1D, string, error) {
	if o.Profiles == nil {
		return nil, "", errNoProfiles
	}
	if what == "psi" {
		if o.Profiles.Psi == nil {
			return nil, "", errNoPsiProfile
		}
		return o.Profiles.Psi, "\\psi", nil
	}
	sp, err := o.Profiles.Species(what)
	if err != nil {
		return nil, "", err
	}
	return sp.Density, "n_{" + what + "}", nil
}
