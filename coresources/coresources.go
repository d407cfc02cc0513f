// Package coresources implements SourceSet (CoreSources.Source, spec §3)
// and the Source interface/registry. Individual transport/source physics
// (neoclassical, NBI, RF, fusion, radiation) stay external collaborators
// (spec §1); this package only defines the narrow interface they implement
// and the registry that dispatches to them, following the teacher's
// name-indexed model-registry idiom (mdl/gen.New, DESIGN.md).
package coresources

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/tokasim/coreprofiles"
	"github.com/cpmech/tokasim/fun1d"
)

// SourceSet is the per-species/per-channel output of one Source.Refresh
// (spec §3 SourceSet: "per species: particle source S_s(rho), energy
// source Q_s(rho); plus j_parallel, conductivity_parallel").
type SourceSet struct {
	Particle             map[string]fun1d.Function1D // S_s(rho) per species label, m^-3 s^-1
	Energy               map[string]fun1d.Function1D // Q_s(rho) per species label, W m^-3
	JParallel            fun1d.Function1D            // A/m^2
	ConductivityParallel fun1d.Function1D            // S/m (may be nil: not every source contributes it)
}

// NewSourceSet returns an empty SourceSet with initialised maps.
func NewSourceSet() *SourceSet {
	return &SourceSet{
		Particle: make(map[string]fun1d.Function1D),
		Energy:   make(map[string]fun1d.Function1D),
	}
}

// Add accumulates (sums) another SourceSet's contributions into o, which is
// how the Tokamak orchestrator combines the refresh output of every
// registered Source into one SourceSet per Picard iteration (spec §4.8b).
// ConductivityParallel is not summed: a non-nil value in other replaces o's.
func (o *SourceSet) Add(other *SourceSet) {
	for label, f := range other.Particle {
		if cur, ok := o.Particle[label]; ok {
			o.Particle[label] = cur.Add(f)
		} else {
			o.Particle[label] = f
		}
	}
	for label, f := range other.Energy {
		if cur, ok := o.Energy[label]; ok {
			o.Energy[label] = cur.Add(f)
		} else {
			o.Energy[label] = f
		}
	}
	if other.JParallel != nil {
		if o.JParallel != nil {
			o.JParallel = o.JParallel.Add(other.JParallel)
		} else {
			o.JParallel = other.JParallel
		}
	}
	if other.ConductivityParallel != nil {
		o.ConductivityParallel = other.ConductivityParallel
	}
}

// Source is the narrow interface every source/physics module implements
// (spec §9 "Solver/model registry": "keep the dispatch surface narrow
// (refresh, fetch)").
type Source interface {
	// Name identifies this source in the registry and in diagnostics.
	Name() string
	// Refresh reads the current profiles and returns a new SourceSet. Pure
	// function of profiles (spec §5: "pure functions of the current slice").
	Refresh(profiles *coreprofiles.TimeSlice) (*SourceSet, error)
}

// allocators is the name-indexed registry, mirroring mdl/gen's
// `allocators map[string]func() Model` (DESIGN.md).
var allocators = make(map[string]func() Source)

// Register installs a Source allocator under name; called from each
// source module's init(), exactly like mdl/gen's SetAllocator idiom.
// Panics (configuration-time error, spec §7 ConfigurationError) if name is
// already registered.
func Register(name string, alloc func() Source) {
	if _, exists := allocators[name]; exists {
		chk.Panic("coresources: Register: source %q already registered", name)
	}
	allocators[name] = alloc
}

// New instantiates the Source registered under name.
func New(name string) (Source, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("coresources: New: unknown source %q", name)
	}
	return alloc(), nil
}

func init() {
	Register("dummy", func() Source { return &dummySource{} })
}

// dummySource returns zero S/Q/j_parallel everywhere, ported in spirit from
// fymodules/transport/core_sources/dummy.py (SPEC_FULL.md §13): the
// registry's default no-op placeholder, used when no physics source is
// configured and in unit tests exercising the Picard loop's plumbing
// without real physics.
type dummySource struct{}

func (dummySource) Name() string { return "dummy" }

func (dummySource) Refresh(profiles *coreprofiles.TimeSlice) (*SourceSet, error) {
	ss := NewSourceSet()
	x0, x1 := profiles.Grid.RhoTorNorm[0], profiles.Grid.RhoTorNorm[len(profiles.Grid.RhoTorNorm)-1]
	zero := fun1d.Constant(x0, x1, 0)
	for _, sp := range profiles.AllSpecies() {
		ss.Particle[sp.Species.Label] = zero
		ss.Energy[sp.Species.Label] = zero
	}
	ss.JParallel = zero
	return ss, nil
}
