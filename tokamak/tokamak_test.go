package tokamak

import (
	"context"
	"testing"

	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tokasim/coreprofiles"
	"github.com/cpmech/tokasim/coresources"
	"github.com/cpmech/tokasim/coretransport"
	"github.com/cpmech/tokasim/field2d"
	"github.com/cpmech/tokasim/fun1d"
	"github.com/cpmech/tokasim/radialgrid"
	"github.com/cpmech/tokasim/species"
)

// fixedDiskProvider serves the analytic disk equilibrium from the
// equilibrium package's own scenario-1 test at every requested time, the
// simplest stand-in for a live EquilibriumProvider (spec §6).
type fixedDiskProvider struct {
	field      *field2d.Field2D
	fpol       fun1d.Function1D
	r0, b0     float64
	calls      int
}

func (p *fixedDiskProvider) Equilibrium(ctx context.Context, t float64) (*field2d.Field2D, fun1d.Function1D, float64, float64, error) {
	p.calls++
	return p.field, p.fpol, p.r0, p.b0, nil
}

func buildDiskProvider(tst *testing.T) *fixedDiskProvider {
	r0, a, b0 := 6.2, 2.0, 5.3
	r := utl.LinSpace(r0-3*a, r0+3*a, 97)
	z := utl.LinSpace(-3*a, 3*a, 193)
	psi := make([][]float64, len(r))
	for i, ri := range r {
		psi[i] = make([]float64, len(z))
		for j, zj := range z {
			psi[i][j] = ((ri-r0)*(ri-r0) + zj*zj) / (a * a)
		}
	}
	f, err := field2d.New(r, z, psi)
	if err != nil {
		tst.Fatalf("field2d.New: %v", err)
	}
	fpol := fun1d.MustNew([]float64{0, 1.0 / 3, 2.0 / 3, 1}, []float64{r0 * b0, r0 * b0, r0 * b0, r0 * b0})
	return &fixedDiskProvider{field: f, fpol: fpol, r0: r0, b0: b0}
}

// buildInitialProfiles constructs a flat-ish electron density profile on a
// placeholder grid; Refresh's first iteration replaces o.Grid with one
// derived from the real equilibrium before evolving it.
func buildInitialProfiles(tst *testing.T) *coreprofiles.TimeSlice {
	n := 33
	x := utl.LinSpace(0, 1, n)
	ne := make([]float64, n)
	for i, xi := range x {
		ne[i] = 5e19 * (1 - 0.5*xi*xi)
	}
	neFun, err := fun1d.New(x, ne)
	if err != nil {
		tst.Fatalf("fun1d.New: %v", err)
	}
	flatT, err := fun1d.New(x, make([]float64, n))
	if err != nil {
		tst.Fatalf("fun1d.New: %v", err)
	}
	grid, err := radialgrid.New(x, x, 0, 1, 1)
	if err != nil {
		tst.Fatalf("radialgrid.New: %v", err)
	}
	profiles := coreprofiles.New(0, grid)
	profiles.SetSpecies(species.Electron, neFun, flatT)
	return profiles
}

func Test_refresh_converges_with_constant_transport(tst *testing.T) {
	provider := buildDiskProvider(tst)
	profiles := buildInitialProfiles(tst)

	tok := New(provider, profiles)
	tok.NRadialNodes = 25
	tok.Transports = []coretransport.Transport{&coretransport.ConstantTransport{D: 0.5, V: 0}}
	tok.Sources = []coresources.Source{}

	res, err := tok.Refresh(context.Background(), 1.0)
	if err != nil {
		tst.Fatalf("Refresh failed: %v", err)
	}
	if !res.Converged {
		tst.Errorf("expected convergence within K_max=%d, got %d iterations, residual=%g", tok.KMax, res.Iterations, res.MaxResidual)
	}
	if err := res.Profiles.CheckInvariants(0); err != nil {
		tst.Errorf("post-refresh invariants failed: %v", err)
	}
	if provider.calls == 0 {
		tst.Errorf("expected the equilibrium provider to be consulted at least once")
	}
}

func Test_refresh_honors_cancellation(tst *testing.T) {
	provider := buildDiskProvider(tst)
	profiles := buildInitialProfiles(tst)
	tok := New(provider, profiles)
	tok.Transports = []coretransport.Transport{&coretransport.ConstantTransport{D: 0.5, V: 0}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tok.Refresh(ctx, 1.0)
	if err == nil {
		tst.Fatalf("expected cancellation error, got nil")
	}
}

func Test_update_applies_constraint_as_boundary_value(tst *testing.T) {
	provider := buildDiskProvider(tst)
	profiles := buildInitialProfiles(tst)
	tok := New(provider, profiles)
	tok.NRadialNodes = 25
	tok.Transports = []coretransport.Transport{&coretransport.ConstantTransport{D: 0.5, V: 0}}

	res, err := tok.Update(context.Background(), map[string]float64{species.Electron.Label: 7e19})
	if err != nil {
		tst.Fatalf("Update failed: %v", err)
	}
	sp, err := res.Profiles.Species(species.Electron.Label)
	if err != nil {
		tst.Fatalf("Species lookup failed: %v", err)
	}
	mesh := res.Profiles.Grid.RhoTorNorm
	edge, err := sp.Density.Eval(mesh[len(mesh)-1])
	if err != nil {
		tst.Fatalf("edge Eval failed: %v", err)
	}
	if diff := edge - 7e19; diff > 1e10 || diff < -1e10 {
		tst.Errorf("edge density %g did not track the constraint 7e19", edge)
	}
}
