package tokamak

import (
	"math"
	"sync"

	"github.com/cpmech/tokasim/bvp"
	"github.com/cpmech/tokasim/coreprofiles"
	"github.com/cpmech/tokasim/coresources"
	"github.com/cpmech/tokasim/coretransport"
	"github.com/cpmech/tokasim/fun1d"
)

// mu0 is the vacuum permeability (spec §4.7's current-diffusion equation),
// the same SI value `mdl/porous`-style models in the pack keep as an
// untyped package constant rather than threading through gosl/rnd or a
// physical-constants library the pack never imports.
const mu0 = 4 * math.Pi * 1e-7

// axisEps floors the rho_tor_norm coordinate used as a divisor by the
// current-diffusion geometric coefficients (1/rho terms), which are
// singular at the magnetic axis; following profiles.go's one-sided
// extrapolation at the axis node, the axis value is taken from its nearest
// interior neighbour rather than evaluated at rho=0 directly.
const axisEps = 1e-6

// refreshSources runs every registered Source concurrently (spec §5:
// "source/transport model refresh ... are pure functions of the current
// slice and may be evaluated concurrently into independent result
// containers") and folds their contributions into one SourceSet.
func (o *Tokamak) refreshSources(profiles *coreprofiles.TimeSlice) (*coresources.SourceSet, error) {
	merged := coresources.NewSourceSet()
	if len(o.Sources) == 0 {
		return merged, nil
	}
	results := make([]*coresources.SourceSet, len(o.Sources))
	errs := make([]error, len(o.Sources))
	var wg sync.WaitGroup
	for i, src := range o.Sources {
		wg.Add(1)
		go func(i int, src coresources.Source) {
			defer wg.Done()
			results[i], errs[i] = src.Refresh(profiles)
		}(i, src)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, err
		}
		merged.Add(results[i])
	}
	return merged, nil
}

// refreshTransports is refreshSources' transport-side counterpart.
func (o *Tokamak) refreshTransports(profiles *coreprofiles.TimeSlice) (*coretransport.CoefficientSet, error) {
	merged := coretransport.NewCoefficientSet()
	if len(o.Transports) == 0 {
		return merged, nil
	}
	results := make([]*coretransport.CoefficientSet, len(o.Transports))
	errs := make([]error, len(o.Transports))
	var wg sync.WaitGroup
	for i, tr := range o.Transports {
		wg.Add(1)
		go func(i int, tr coretransport.Transport) {
			defer wg.Done()
			results[i], errs[i] = tr.Refresh(profiles)
		}(i, tr)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, err
		}
		merged.Merge(results[i])
	}
	return merged, nil
}

// toMeshCoordinate pulls f, indexed by psi_norm as every equilibrium-derived
// profile is, back onto the BVP mesh's rho_tor_norm coordinate via the
// radial grid's psi_norm(rho_tor_norm) mapping (fun1d.Pullback), the same
// composition idiom the equilibrium package itself uses internally when it
// builds derived profiles on a shared knot vector.
func (o *Tokamak) toMeshCoordinate(f fun1d.Function1D) (fun1d.Function1D, error) {
	return fun1d.NewPullback(f, o.Grid.PsiNormOfRhoNorm(), 0)
}

// bindingKind tags each equation bound into solveStep's one BVPProblem
// (spec §4.7's four canonical equations: current diffusion, per-species
// particle transport, per-species energy transport) so the post-solve pass
// knows which TimeSlice field each row's (y,g) result belongs to.
type bindingKind int

const (
	bindingPsi bindingKind = iota
	bindingParticle
	bindingEnergy
)

type binding struct {
	kind bindingKind
	sp   coreprofiles.SpeciesProfile
}

// solveStep assembles one BVPProblem holding the current-diffusion equation,
// every non-impurity species' particle-transport equation and every
// non-impurity species' energy-transport equation (spec §4.7: "THE CORE"),
// and solves it, returning the next working TimeSlice plus the solver's
// worst per-equation RMS residual (the quantity the Picard loop in Refresh
// checks for convergence).
//
// Impurity densities and temperatures are carried over unchanged (spec's
// per-species equations apply to the fuel/electron species the transport
// and source registries actually model). The current-diffusion equation
// itself falls back to bvp.NotSolved -- carrying psi over unchanged -- when
// no source model has contributed a parallel conductivity yet or no prior
// psi profile exists to seed it from; a species' energy equation falls back
// the same way when no registered Transport model reports Energy-channel
// coefficients for it.
func (o *Tokamak) solveStep(working *coreprofiles.TimeSlice, tNext, dt float64, sources *coresources.SourceSet, coeffs *coretransport.CoefficientSet) (*coreprofiles.TimeSlice, float64, error) {
	mesh := o.Grid.RhoTorNorm

	vPrimePsiNorm := o.Equilibrium.DVolumeDPsi
	vPrime, err := o.toMeshCoordinate(vPrimePsiNorm)
	if err != nil {
		return nil, 0, err
	}

	prob, err := bvp.New(mesh, dt)
	if err != nil {
		return nil, 0, err
	}

	var psiYPrev []float64
	if working.Psi != nil {
		if psiYPrev, err = sampleOnMesh(working.Psi, mesh); err != nil {
			return nil, 0, err
		}
	} else {
		psiYPrev = make([]float64, len(mesh))
	}

	sigma := sources.ConductivityParallel
	if sigma == nil {
		sigma = working.ConductivityParallel
	}

	var bindings []binding
	if working.Psi != nil && sigma != nil {
		eq, err := o.buildCurrentDiffusionEquation(mesh, psiYPrev, sigma, sources.JParallel, vPrime)
		if err != nil {
			return nil, 0, err
		}
		if err := prob.BindEquation(eq); err != nil {
			return nil, 0, err
		}
	} else {
		if err := prob.BindEquation(notSolvedEquation("psi", mesh, psiYPrev)); err != nil {
			return nil, 0, err
		}
	}
	bindings = append(bindings, binding{kind: bindingPsi})

	next := coreprofiles.New(tNext, o.Grid)
	order := working.AllSpecies()
	var evolved []coreprofiles.SpeciesProfile
	for _, sp := range order {
		if sp.Species.Impurity {
			next.SetSpecies(sp.Species, sp.Density, sp.Temp)
			continue
		}
		evolved = append(evolved, sp)

		yPrev, err := sampleOnMesh(sp.Density, mesh)
		if err != nil {
			return nil, 0, err
		}
		gPrev := make([]float64, len(mesh))

		d, v := fun1d.Constant(0, 1, 0), fun1d.Constant(0, 1, 0)
		if cc, ok := coeffs.Get(sp.Species.Label, coretransport.Particle); ok {
			d, v = cc.D, cc.V
		}
		s := fun1d.Constant(0, 1, 0)
		if sf, ok := sources.Particle[sp.Species.Label]; ok {
			s = sf
		}

		boundaryValue := yPrev[len(yPrev)-1]
		if o.Constraints != nil {
			if c, ok := o.Constraints[sp.Species.Label]; ok {
				boundaryValue = c
			}
		}

		eq := &bvp.Equation{
			Name:           sp.Species.Label,
			A:              vPrime,
			B:              v,
			D:              d,
			E:              fun1d.Constant(0, 1, 0),
			S:              s,
			HyperDiffusion: o.hyperDiffusion(),
			BC:             bvp.BoundaryCondition{Kind: bvp.Dirichlet, A3: boundaryValue},
			YPrev:          yPrev,
			GPrev:          gPrev,
		}
		if err := prob.BindEquation(eq); err != nil {
			return nil, 0, err
		}
		bindings = append(bindings, binding{kind: bindingParticle, sp: sp})
	}

	for _, sp := range evolved {
		tPrev, err := sampleOnMesh(sp.Temp, mesh)
		if err != nil {
			return nil, 0, err
		}
		boundaryValue := tPrev[len(tPrev)-1]
		if o.Constraints != nil {
			if c, ok := o.Constraints[sp.Species.Label+"_T"]; ok {
				boundaryValue = c
			}
		}

		cc, ok := coeffs.Get(sp.Species.Label, coretransport.Energy)
		if !ok {
			if err := prob.BindEquation(notSolvedEquation(sp.Species.Label+"_T", mesh, tPrev)); err != nil {
				return nil, 0, err
			}
			bindings = append(bindings, binding{kind: bindingEnergy, sp: sp})
			continue
		}

		var q fun1d.Function1D
		if qf, ok := sources.Energy[sp.Species.Label]; ok {
			q = qf
		}
		eq, err := o.buildEnergyEquation(sp, cc, q, vPrime, mesh, tPrev, boundaryValue)
		if err != nil {
			return nil, 0, err
		}
		if err := prob.BindEquation(eq); err != nil {
			return nil, 0, err
		}
		bindings = append(bindings, binding{kind: bindingEnergy, sp: sp})
	}

	res, err := prob.Solve()
	if err != nil {
		return nil, 0, err
	}

	densities := make(map[string]fun1d.Function1D, len(evolved))
	temps := make(map[string]fun1d.Function1D, len(evolved))
	for i, b := range bindings {
		switch b.kind {
		case bindingPsi:
			psiFun, err := fun1d.New(mesh, res.Y[i])
			if err != nil {
				return nil, 0, err
			}
			next.Psi = psiFun
			next.ConductivityParallel = sigma
		case bindingParticle:
			nFun, err := fun1d.New(mesh, res.Y[i])
			if err != nil {
				return nil, 0, err
			}
			densities[b.sp.Species.Label] = nFun
		case bindingEnergy:
			tFun, err := fun1d.New(mesh, res.Y[i])
			if err != nil {
				return nil, 0, err
			}
			temps[b.sp.Species.Label] = tFun
		}
	}
	for _, sp := range evolved {
		next.SetSpecies(sp.Species, densities[sp.Species.Label], temps[sp.Species.Label])
	}

	return next, res.MaxResidual, nil
}

// buildCurrentDiffusionEquation assembles the psi equation (spec §4.7
// "Current diffusion") in bvp.Equation's shared (y,g) form: A=sigma_parallel,
// B=0 (the Bdot0/2B0 grid-motion term Equation's doc comment allows folding
// into B has nothing to fold in here, since the equilibrium is rebuilt fresh
// every Picard iteration rather than advected), E=0,
// D = F*V'*gm2/(4*pi^2*mu0*B0*rho), S = -(V'/(2*pi*rho))*j_ni, with rho
// read directly off the rho_tor_norm mesh (the same simplification the
// particle/energy equations already make by treating the BVP's x coordinate
// as rho without an explicit rho_tor_boundary rescaling).
func (o *Tokamak) buildCurrentDiffusionEquation(mesh, psiYPrev []float64, sigma, jNi, vPrime fun1d.Function1D) (*bvp.Equation, error) {
	fpol, err := o.toMeshCoordinate(o.Equilibrium.Fpol)
	if err != nil {
		return nil, err
	}
	gm2, err := o.toMeshCoordinate(o.Equilibrium.Gm2)
	if err != nil {
		return nil, err
	}

	n := len(mesh)
	dVals := make([]float64, n)
	sVals := make([]float64, n)
	for i, x := range mesh {
		xr := x
		if xr < axisEps {
			xr = axisEps
		}
		f := fpol.MustEval(x)
		g2 := gm2.MustEval(x)
		vp := vPrime.MustEval(x)
		dVals[i] = f * vp * g2 / (4 * math.Pi * math.Pi * mu0 * o.Equilibrium.B0 * xr)
		j := 0.0
		if jNi != nil {
			j = jNi.MustEval(x)
		}
		sVals[i] = -(vp / (2 * math.Pi * xr)) * j
	}
	dVals[0] = dVals[1]
	sVals[0] = sVals[1]

	d, err := fun1d.New(mesh, dVals)
	if err != nil {
		return nil, err
	}
	s, err := fun1d.New(mesh, sVals)
	if err != nil {
		return nil, err
	}

	return &bvp.Equation{
		Name:           "psi",
		A:              sigma,
		B:              fun1d.Constant(mesh[0], mesh[n-1], 0),
		D:              d,
		E:              fun1d.Constant(mesh[0], mesh[n-1], 0),
		S:              s,
		HyperDiffusion: o.hyperDiffusion(),
		BC:             bvp.BoundaryCondition{Kind: bvp.Dirichlet, A3: psiYPrev[n-1]},
		YPrev:          psiYPrev,
		GPrev:          make([]float64, n),
	}, nil
}

// buildEnergyEquation assembles one species' energy-transport equation
// (spec §4.7 "Energy transport (per species)"), y=T_s,
// A=1.5*n_s*V'^{5/3} (bvp.Equation's own doc comment names this exact
// accumulator), B and D taken from the transport model's Energy-channel
// coefficients (v_s, chi_s), S=Q_s, E=0 -- the same S_exp/S_imp-to-one-term,
// Bdot0-dropping simplification the particle equation above already makes,
// applied to the energy channel instead of the particle channel.
func (o *Tokamak) buildEnergyEquation(sp coreprofiles.SpeciesProfile, cc coretransport.ChannelCoeffs, q, vPrime fun1d.Function1D, mesh, tPrev []float64, boundaryValue float64) (*bvp.Equation, error) {
	n := len(mesh)
	nVals, err := sampleOnMesh(sp.Density, mesh)
	if err != nil {
		return nil, err
	}
	aVals := make([]float64, n)
	for i, nv := range nVals {
		vp := vPrime.MustEval(mesh[i])
		aVals[i] = 1.5 * nv * math.Pow(vp, 5.0/3.0)
	}
	a, err := fun1d.New(mesh, aVals)
	if err != nil {
		return nil, err
	}

	d, v := cc.D, cc.V
	if d == nil {
		d = fun1d.Constant(mesh[0], mesh[n-1], 0)
	}
	if v == nil {
		v = fun1d.Constant(mesh[0], mesh[n-1], 0)
	}
	s := q
	if s == nil {
		s = fun1d.Constant(mesh[0], mesh[n-1], 0)
	}

	return &bvp.Equation{
		Name:           sp.Species.Label + "_T",
		A:              a,
		B:              v,
		D:              d,
		E:              fun1d.Constant(mesh[0], mesh[n-1], 0),
		S:              s,
		HyperDiffusion: o.hyperDiffusion(),
		BC:             bvp.BoundaryCondition{Kind: bvp.Dirichlet, A3: boundaryValue},
		YPrev:          tPrev,
		GPrev:          make([]float64, n),
	}, nil
}

// notSolvedEquation elides a row from the shared BVPProblem (spec §4.7
// boundary-condition kind 6): bvp.Solve carries YPrev forward unchanged for
// it without evaluating any coefficient function.
func notSolvedEquation(name string, mesh, yPrev []float64) *bvp.Equation {
	return &bvp.Equation{
		Name:  name,
		BC:    bvp.BoundaryCondition{Kind: bvp.NotSolved},
		YPrev: yPrev,
		GPrev: make([]float64, len(mesh)),
	}
}

func (o *Tokamak) hyperDiffusion() float64 {
	if o.HyperDiffusion != 0 {
		return o.HyperDiffusion
	}
	return bvp.DefaultHyperDiffusion
}

func sampleOnMesh(f fun1d.Function1D, mesh []float64) ([]float64, error) {
	out := make([]float64, len(mesh))
	for i, x := range mesh {
		v, err := f.Eval(x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
