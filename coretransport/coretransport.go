// Package coretransport implements CoefficientSet (CoreTransport.Model,
// spec §3) and the Transport interface/registry, mirroring coresources'
// structure (narrow interface, name-indexed registry, DESIGN.md).
package coretransport

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/cpmech/tokasim/coreprofiles"
	"github.com/cpmech/tokasim/fun1d"
)

// Channel distinguishes the particle and energy transport channels a
// Transport model may supply diffusivity/pinch/flux for (spec §3
// CoefficientSet: "per species and per channel (particles, energy)").
type Channel int

const (
	Particle Channel = iota
	Energy
)

// ChannelCoeffs is one species/channel's transport coefficients. Flux is
// non-nil only when the model prescribes a flux directly rather than a
// diffusivity/pinch pair (spec §3: "flux(rho) when prescribed").
type ChannelCoeffs struct {
	D    fun1d.Function1D // diffusivity d(rho)
	V    fun1d.Function1D // pinch v(rho)
	Flux fun1d.Function1D // prescribed flux(rho), nil unless the model prescribes it
}

// CoefficientSet is the per-species, per-channel output of one
// Transport.Refresh call (spec §3: "Lifecycle: created by each transport
// model on demand per time slice").
type CoefficientSet struct {
	bySpeciesChannel map[string]map[Channel]ChannelCoeffs
}

// NewCoefficientSet returns an empty CoefficientSet.
func NewCoefficientSet() *CoefficientSet {
	return &CoefficientSet{bySpeciesChannel: make(map[string]map[Channel]ChannelCoeffs)}
}

// Set installs coefficients for one species/channel, overwriting any prior
// contribution for that (species,channel) pair.
func (o *CoefficientSet) Set(speciesLabel string, ch Channel, c ChannelCoeffs) {
	m, ok := o.bySpeciesChannel[speciesLabel]
	if !ok {
		m = make(map[Channel]ChannelCoeffs)
		o.bySpeciesChannel[speciesLabel] = m
	}
	m[ch] = c
}

// Get returns the coefficients for one species/channel, with false if
// none were ever installed (tokamak's solveStep then uses D=0,V=0 for the
// particle channel and leaves the energy equation unsolved).
func (o *CoefficientSet) Get(speciesLabel string, ch Channel) (ChannelCoeffs, bool) {
	m, ok := o.bySpeciesChannel[speciesLabel]
	if !ok {
		return ChannelCoeffs{}, false
	}
	c, ok := m[ch]
	return c, ok
}

// Merge folds other's contributions into o, last-writer-wins per
// (species,channel), matching how the Tokamak orchestrator combines
// multiple registered Transport models' outputs (spec §4.8c).
func (o *CoefficientSet) Merge(other *CoefficientSet) {
	for label, m := range other.bySpeciesChannel {
		for ch, c := range m {
			o.Set(label, ch, c)
		}
	}
}

// Transport is the narrow interface every transport model implements
// (spec §9 "keep the dispatch surface narrow (refresh, fetch)").
type Transport interface {
	Name() string
	Refresh(profiles *coreprofiles.TimeSlice) (*CoefficientSet, error)
}

var allocators = make(map[string]func() Transport)

// Register installs a Transport allocator under name (configuration-time
// panic on duplicate registration, mirroring coresources.Register).
func Register(name string, alloc func() Transport) {
	if _, exists := allocators[name]; exists {
		chk.Panic("coretransport: Register: transport %q already registered", name)
	}
	allocators[name] = alloc
}

// New instantiates the Transport registered under name.
func New(name string) (Transport, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("coretransport: New: unknown transport %q", name)
	}
	return alloc(), nil
}

func init() {
	Register("constant", func() Transport { return &ConstantTransport{D: 1.0, V: 0.0} })
}

// ConstantTransport is a uniform-coefficient placeholder transport model
// (D, V constant in rho for every species/channel), the transport-side
// analogue of coresources' dummy source: used as the registry default and
// in tests exercising the pure-diffusion scenario (spec §8 scenario 3).
type ConstantTransport struct {
	D, V float64
}

// Init binds o's coefficients from a named-parameter list the way
// mdl/diffusion/m1.go's M1.Init binds its model constants: each field is
// connected to the parameter of the matching name via fun.Prms.Connect,
// leaving any unconnected field at its current (zero) value.
func (o *ConstantTransport) Init(prms fun.Prms) error {
	prms.Connect(&o.D, "D", "uniform diffusivity")
	prms.Connect(&o.V, "V", "uniform pinch velocity")
	return nil
}

func (o *ConstantTransport) Name() string { return "constant" }

func (o *ConstantTransport) Refresh(profiles *coreprofiles.TimeSlice) (*CoefficientSet, error) {
	cs := NewCoefficientSet()
	x0, x1 := profiles.Grid.RhoTorNorm[0], profiles.Grid.RhoTorNorm[len(profiles.Grid.RhoTorNorm)-1]
	d := fun1d.Constant(x0, x1, o.D)
	v := fun1d.Constant(x0, x1, o.V)
	for _, sp := range profiles.AllSpecies() {
		cs.Set(sp.Species.Label, Particle, ChannelCoeffs{D: d, V: v})
		cs.Set(sp.Species.Label, Energy, ChannelCoeffs{D: d, V: v})
	}
	return cs, nil
}
