package coresources

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/tokasim/coreprofiles"
	"github.com/cpmech/tokasim/fun1d"
	"github.com/cpmech/tokasim/radialgrid"
	"github.com/cpmech/tokasim/species"
)

func buildProfiles(tst *testing.T) *coreprofiles.TimeSlice {
	x := utl.LinSpace(0, 1, 11)
	grid, err := radialgrid.New(x, x, 0, 1, 1)
	if err != nil {
		tst.Fatalf("radialgrid.New failed: %v", err)
	}
	slice := coreprofiles.New(0, grid)
	flat := fun1d.Constant(0, 1, 1e19)
	slice.SetSpecies(species.Electron, flat, flat)
	slice.SetSpecies(species.Deuteron, flat, flat)
	return slice
}

func Test_New_known_and_unknown_source(tst *testing.T) {
	src, err := New("dummy")
	if err != nil {
		tst.Fatalf("New(dummy) failed: %v", err)
	}
	if src.Name() != "dummy" {
		tst.Errorf("Name()=%q, want %q", src.Name(), "dummy")
	}
	if _, err := New("no-such-source"); err == nil {
		tst.Errorf("expected an error for an unregistered source")
	}
}

func Test_Register_panics_on_duplicate(tst *testing.T) {
	defer func() {
		if recover() == nil {
			tst.Errorf("expected Register to panic on a duplicate name")
		}
	}()
	Register("dummy", func() Source { return &dummySource{} })
}

func Test_dummySource_Refresh_is_zero_everywhere(tst *testing.T) {
	profiles := buildProfiles(tst)
	src := &dummySource{}
	ss, err := src.Refresh(profiles)
	if err != nil {
		tst.Fatalf("Refresh failed: %v", err)
	}
	for _, label := range []string{"e", "D"} {
		f, ok := ss.Particle[label]
		if !ok {
			tst.Fatalf("missing particle source for %q", label)
		}
		v, err := f.Eval(0.5)
		if err != nil {
			tst.Fatalf("Eval failed: %v", err)
		}
		if v != 0 {
			tst.Errorf("dummy source should be zero, got %g for %q", v, label)
		}
	}
}

func Test_SourceSet_Add_accumulates_per_species(tst *testing.T) {
	a := NewSourceSet()
	b := NewSourceSet()
	a.Particle["e"] = fun1d.Constant(0, 1, 1.0)
	b.Particle["e"] = fun1d.Constant(0, 1, 2.0)
	b.Particle["D"] = fun1d.Constant(0, 1, 3.0)
	a.Add(b)

	ve, err := a.Particle["e"].Eval(0.5)
	if err != nil {
		tst.Fatalf("Eval failed: %v", err)
	}
	if math.Abs(ve-3.0) > 1e-12 {
		tst.Errorf("Particle[e]=%g after Add, want 3", ve)
	}
	if _, ok := a.Particle["D"]; !ok {
		tst.Errorf("Add should introduce a new species entry from other")
	}
}
