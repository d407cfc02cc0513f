// Package tokamak implements the Tokamak orchestrator: the Picard loop
// coupling the equilibrium, source, transport and BVP-solver collaborators
// into one converged time slice per refresh (spec §4.8). Grounded on
// gofem's fem/main.go Main.Run stage loop (progress messages via gosl/io,
// defer-wrapped exit handling) and fem/solver.go's narrow Solver interface
// (DESIGN.md).
package tokamak

import (
	"context"
	"errors"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/tokasim/bvp"
	"github.com/cpmech/tokasim/coreprofiles"
	"github.com/cpmech/tokasim/coresources"
	"github.com/cpmech/tokasim/coretransport"
	"github.com/cpmech/tokasim/equilibrium"
	"github.com/cpmech/tokasim/fun1d"
	"github.com/cpmech/tokasim/radialgrid"
)

var errNotConverged = errors.New("picard iteration exceeded K_max without converging")

// DefaultKMax, DefaultTol are the Picard loop's out-of-the-box limits
// (spec §4.8 "For iteration k = 1...K_max").
const (
	DefaultKMax        = 20
	DefaultTol         = 1e-6
	DefaultRadialNodes = 65
)

// Tokamak owns the Picard loop and every collaborator it drives. It is the
// single owner of CoreProfiles, Equilibrium and the solver's inputs; each
// child holds, at most, a non-owning read-only reference back (spec §9
// "Cyclic ownership ... Tokamak owning all three").
type Tokamak struct {
	Provider   EquilibriumProvider
	Sources    []coresources.Source
	Transports []coretransport.Transport

	NRadialNodes   int
	KMax           int
	Tol            float64
	HyperDiffusion float64
	Verbose        bool

	// Constraints, when non-nil, overrides the Dirichlet boundary value
	// used for a species during the next solve (spec §6 "update
	// (constraints)"); Update clears it after its solve.
	Constraints map[string]float64

	Equilibrium *equilibrium.MagneticSurfaceSystem
	Grid        *radialgrid.RadialGrid
	Profiles    *coreprofiles.TimeSlice
}

// New returns a Tokamak wired to provider with the given initial profiles.
func New(provider EquilibriumProvider, initial *coreprofiles.TimeSlice) *Tokamak {
	return &Tokamak{
		Provider: provider, Profiles: initial,
		NRadialNodes: DefaultRadialNodes, KMax: DefaultKMax, Tol: DefaultTol,
		HyperDiffusion: bvp.DefaultHyperDiffusion,
	}
}

// RefreshResult is one time slice's Picard-loop outcome (spec §4.8).
type RefreshResult struct {
	Time        float64
	Profiles    *coreprofiles.TimeSlice
	Converged   bool
	Iterations  int
	MaxResidual float64
}

// Refresh advances to time t, running the Picard loop to convergence or
// K_max iterations (spec §4.8 steps 1-4).
func (o *Tokamak) Refresh(ctx context.Context, t float64) (*RefreshResult, error) {
	// step 2: snapshot current profiles as y^m (spec §5: "previous-slice
	// profiles y^m remain immutable; only the working copy is mutated").
	yM := o.Profiles.Clone()
	working := o.Profiles.Clone()

	var lastResidual float64
	converged := false
	iterations := 0

	for k := 1; k <= o.KMax; k++ {
		select {
		case <-ctx.Done():
			return nil, newError(CouplingError, "refresh: cancellation requested between Picard iterations", ctx.Err())
		default:
		}
		iterations = k

		// a. equilibrium rebuild
		field, fpol, r0, b0, err := o.Provider.Equilibrium(ctx, t)
		if err != nil {
			return nil, newError(ConfigurationError, "equilibrium provider", err)
		}
		sys, err := equilibrium.Build(field, fpol, r0, b0, equilibrium.Options{})
		if err != nil {
			return nil, newError(GeometryError, "equilibrium rebuild", err)
		}
		o.Equilibrium = sys

		psiNormOfRhoNorm, err := invertRhoTorNorm(sys)
		if err != nil {
			return nil, newError(GeometryError, "inverting rho_tor_norm(psi_norm)", err)
		}
		grid, err := radialgrid.Uniform(o.radialNodes(), sys.PsiAxis, sys.PsiBoundary, sys.RhoTorBoundary, psiNormOfRhoNorm)
		if err != nil {
			return nil, newError(GeometryError, "radial grid construction", err)
		}
		o.Grid = grid

		// b. refresh each CoreSources.Source
		sourceSet, err := o.refreshSources(working)
		if err != nil {
			return nil, newError(DataError, "source refresh", err)
		}

		// c. refresh each CoreTransport.Model
		coeffSet, err := o.refreshTransports(working)
		if err != nil {
			return nil, newError(DataError, "transport refresh", err)
		}

		// d. call BVPTransportSolver
		dt := t - yM.Time
		if dt <= 0 {
			dt = 1.0
		}
		next, residual, err := o.solveStep(working, yM.Time+dt, dt, sourceSet, coeffSet)
		if err != nil {
			return nil, newError(NumericError, "bvp solve", err)
		}

		lastResidual = residual
		if o.Verbose {
			io.Pf("refresh t=%g it=%d residual=%g\n", t, k, residual)
		}

		// e. accept or iterate
		working = next
		if residual < o.Tol {
			converged = true
			break
		}
	}

	working.Time = t
	if !converged {
		return &RefreshResult{Time: t, Profiles: working, Converged: false, Iterations: iterations, MaxResidual: lastResidual},
			newError(CouplingError, "picard loop did not converge within K_max", errNotConverged)
	}

	o.Profiles = working
	return &RefreshResult{Time: t, Profiles: working, Converged: true, Iterations: iterations, MaxResidual: lastResidual}, nil
}

// Update performs one one-shot equilibrium-plus-transport Picard solve with
// the given constraints, without advancing the stored profile's time (spec
// §6 "update(constraints)").
func (o *Tokamak) Update(ctx context.Context, constraints map[string]float64) (*RefreshResult, error) {
	o.Constraints = constraints
	defer func() { o.Constraints = nil }()
	return o.Refresh(ctx, o.Profiles.Time)
}

// invertRhoTorNorm builds psi_norm(rho_tor_norm) by sampling the analyzer's
// rho_tor_norm(psi_norm) on its own knot vector and swapping the axes (the
// same construction radialgrid.New uses internally for its psiOfRhoNorm
// field); the equilibrium package only hands back the forward mapping, so
// the orchestrator inverts it once per Picard iteration before it can hand
// radialgrid.Uniform a rho_tor_norm-indexed mesh.
func invertRhoTorNorm(sys *equilibrium.MagneticSurfaceSystem) (fun1d.Function1D, error) {
	rhoNorm := make([]float64, len(sys.PsiNorm))
	for i, pn := range sys.PsiNorm {
		v, err := sys.RhoTorNorm.Eval(pn)
		if err != nil {
			return nil, err
		}
		rhoNorm[i] = v
	}
	return fun1d.New(rhoNorm, sys.PsiNorm)
}

func (o *Tokamak) radialNodes() int {
	if o.NRadialNodes > 0 {
		return o.NRadialNodes
	}
	return DefaultRadialNodes
}
