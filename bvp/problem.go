// Package bvp implements the BVPTransportSolver: assembly and Newton
// collocation solve of the coupled 1-D transport equations (current,
// particle, electron energy, ion energy) on x = rho_tor_norm in [0,1]
// (spec §4.7). Grounded on PaddySchmidt-gofem's fem/s_implicit.go
// run_iterations Newton loop shape (assemble residual, check largest
// |residual|, assemble Jacobian, factor and solve, update, repeat to a
// max-iteration bound) and the teacher's la.Triplet/la.LinSol assembly
// idiom (fem/domain.go), per DESIGN.md.
package bvp

import (
	"github.com/cpmech/gosl/chk"
)

// State is the per-time-step solver state machine (spec §4.7 "State
// machine (per time step)").
type State int

const (
	Idle State = iota
	CoefficientsBound
	SystemAssembled
	Solving
	Converged
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case CoefficientsBound:
		return "CoefficientsBound"
	case SystemAssembled:
		return "SystemAssembled"
	case Solving:
		return "Solving"
	case Converged:
		return "Converged"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// BVPProblem is the assembled, language-neutral description the solver
// works from (spec §3 BVPProblem): a shared mesh, one Equation per active
// transport channel, and convergence/resource limits.
type BVPProblem struct {
	X  []float64 // mesh (rho_tor_norm), strictly increasing, X[0]=0, X[n-1]=1
	Dt float64

	Equations []*Equation

	MaxNodes      int // node-count cap (spec §5, default 250-1000)
	MaxIterations int // per-equation Newton iteration cap
	AbsTol        float64
	RelTol        float64

	state           State
	lastMaxResidual float64
}

// DefaultMaxNodes, DefaultMaxIterations, DefaultAbsTol, DefaultRelTol are
// the solver's out-of-the-box limits (spec §5 "node-count cap (default
// 250-1000)").
const (
	DefaultMaxNodes      = 1000
	DefaultMaxIterations = 50
	DefaultAbsTol        = 1e-8
	DefaultRelTol        = 1e-6
)

// New builds an Idle BVPProblem on mesh x at time step dt.
func New(x []float64, dt float64) (*BVPProblem, error) {
	n := len(x)
	if n < 2 {
		return nil, chk.Err("bvp: New: mesh needs at least 2 nodes, got %d", n)
	}
	for i := 1; i < n; i++ {
		if x[i] <= x[i-1] {
			return nil, chk.Err("bvp: New: mesh not strictly increasing at index %d", i)
		}
	}
	if dt <= 0 {
		return nil, chk.Err("bvp: New: dt must be positive, got %g", dt)
	}
	return &BVPProblem{
		X: append([]float64(nil), x...), Dt: dt,
		MaxNodes: DefaultMaxNodes, MaxIterations: DefaultMaxIterations,
		AbsTol: DefaultAbsTol, RelTol: DefaultRelTol,
		state: Idle,
	}, nil
}

// BindEquation attaches an active equation to the problem (spec §4.7 step
// 1: "Bind coefficient functions for each active equation"), transitioning
// Idle/CoefficientsBound -> CoefficientsBound.
func (o *BVPProblem) BindEquation(eq *Equation) error {
	if o.state != Idle && o.state != CoefficientsBound {
		return chk.Err("bvp: BindEquation: problem is in state %s, expected Idle or CoefficientsBound", o.state)
	}
	if err := eq.Validate(o.X); err != nil {
		return err
	}
	o.Equations = append(o.Equations, eq)
	o.state = CoefficientsBound
	return nil
}

// State returns the current solver state.
func (o *BVPProblem) State() State { return o.state }

// MaxResidual returns the largest per-equation RMS residual from the most
// recent Solve call.
func (o *BVPProblem) MaxResidual() float64 { return o.lastMaxResidual }
