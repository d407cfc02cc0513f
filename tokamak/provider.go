package tokamak

import (
	"context"

	"github.com/cpmech/tokasim/field2d"
	"github.com/cpmech/tokasim/fun1d"
)

// EquilibriumProvider is the external collaborator that yields a new
// poloidal-flux field and its associated 1-D profiles at a requested time
// (spec §4.8a "Request equilibrium update (external collaborator)"; spec
// §6 "a live provider that, for each time, yields a Field2D plus the 1-D
// arrays"). Either a file-backed GEQDSK reader or a live coupled-code feed
// implements this; the core places no constraint beyond the signature.
type EquilibriumProvider interface {
	// Equilibrium returns the poloidal-flux field, fpol(psi_norm), and the
	// device scalars R0,B0 at time t. Reading external data is synchronous
	// from the core's point of view (spec §5 "Suspension points: none
	// inside the numerical core").
	Equilibrium(ctx context.Context, t float64) (field *field2d.Field2D, fpol fun1d.Function1D, r0, b0 float64, err error)
}
