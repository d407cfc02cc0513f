// Command tokasim is the orchestrator's CLI-equivalent surface (spec §6):
// refresh(t), update(constraints), display(what, output) mapped onto three
// subcommands. Modeled on gofem's single flat main.go (flag.Parse, a
// colourized banner via gosl/io, chk.Panic on fatal misconfiguration)
// rather than the teacher's MPI-aware startup, since this core has no
// distributed-memory concern (DESIGN.md).
package main

import (
	"context"
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/tokasim/coreprofiles"
	"github.com/cpmech/tokasim/coresources"
	"github.com/cpmech/tokasim/coretransport"
	"github.com/cpmech/tokasim/radialgrid"
	"github.com/cpmech/tokasim/species"
	"github.com/cpmech/tokasim/tokamak"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "refresh":
		err = runRefresh(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "display":
		err = runDisplay(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		io.PfRed("ERROR: %v\n", err)
		if terr, ok := err.(*tokamak.Error); ok {
			io.Pf("code.output_flag = %s\n", terr.Kind)
		}
		os.Exit(1)
	}
}

func usage() {
	io.Pf("usage: tokasim <refresh|update|display> [flags]\n")
	io.Pf("  refresh -t <time> -scenario <path> -equilibrium <path>\n")
	io.Pf("  update  -constraints <path> -scenario <path> -equilibrium <path>\n")
	io.Pf("  display -what <profile> -out <dir> -scenario <path> -equilibrium <path>\n")
}

// buildInitial loads a scenario table and returns an initial TimeSlice on a
// placeholder radial grid (Refresh/Update replace it with the real
// equilibrium-derived grid on the first Picard iteration).
func buildInitial(scenarioPath string) (*coreprofiles.TimeSlice, error) {
	sc, err := coreprofiles.LoadScenario(scenarioPath)
	if err != nil {
		return nil, err
	}
	sc.Sort()
	ne, err := sc.NeProfile()
	if err != nil {
		return nil, err
	}
	te, err := sc.TeProfile()
	if err != nil {
		return nil, err
	}
	ti, err := sc.TiProfile()
	if err != nil {
		return nil, err
	}
	nd, err := sc.NDProfile()
	if err != nil {
		return nil, err
	}
	nt, err := sc.NTProfile()
	if err != nil {
		return nil, err
	}

	x := make([]float64, len(sc.Rows))
	for i, r := range sc.Rows {
		x[i] = r.RhoTorNorm
	}
	grid, err := radialgrid.New(x, x, 0, 1, 1)
	if err != nil {
		return nil, err
	}

	slice := coreprofiles.New(0, grid)
	slice.SetSpecies(species.Electron, ne, te)
	slice.SetSpecies(species.Deuteron, nd, ti)
	slice.SetSpecies(species.Triton, nt, ti)
	return slice, nil
}

func newTokamak(scenarioPath, equilibriumPath string) (*tokamak.Tokamak, error) {
	profiles, err := buildInitial(scenarioPath)
	if err != nil {
		return nil, err
	}
	cfg, err := loadEquilibriumConfig(equilibriumPath)
	if err != nil {
		return nil, err
	}
	provider, err := newFileProvider(cfg)
	if err != nil {
		return nil, err
	}
	tok := tokamak.New(provider, profiles)
	transport := &coretransport.ConstantTransport{}
	if err := transport.Init(fun.Prms{
		&fun.Prm{N: "D", V: 0.5},
		&fun.Prm{N: "V", V: 0},
	}); err != nil {
		return nil, err
	}
	tok.Transports = []coretransport.Transport{transport}
	tok.Sources = []coresources.Source{}
	return tok, nil
}

func runRefresh(args []string) error {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	t := fs.Float64("t", 0, "time to advance to")
	scenario := fs.String("scenario", "", "scenario table path (.json/.yaml/.csv)")
	equil := fs.String("equilibrium", "", "equilibrium config path (.json/.yaml)")
	verbose := fs.Bool("v", false, "verbose Picard-iteration progress")
	fs.Parse(args)
	if *scenario == "" || *equil == "" {
		return chk.Err("refresh: -scenario and -equilibrium are required")
	}
	tok, err := newTokamak(*scenario, *equil)
	if err != nil {
		return err
	}
	tok.Verbose = *verbose
	res, err := tok.Refresh(context.Background(), *t)
	if err != nil {
		return err
	}
	io.Pf("refresh t=%g converged=%v iterations=%d residual=%g\n", res.Time, res.Converged, res.Iterations, res.MaxResidual)
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	scenario := fs.String("scenario", "", "scenario table path (.json/.yaml/.csv)")
	equil := fs.String("equilibrium", "", "equilibrium config path (.json/.yaml)")
	constraintsPath := fs.String("constraints", "", "constraints file (.json/.yaml): map of species label to boundary value")
	fs.Parse(args)
	if *scenario == "" || *equil == "" {
		return chk.Err("update: -scenario and -equilibrium are required")
	}
	tok, err := newTokamak(*scenario, *equil)
	if err != nil {
		return err
	}
	constraints, err := loadConstraints(*constraintsPath)
	if err != nil {
		return err
	}
	res, err := tok.Update(context.Background(), constraints)
	if err != nil {
		return err
	}
	io.Pf("update converged=%v iterations=%d residual=%g\n", res.Converged, res.Iterations, res.MaxResidual)
	return nil
}

func runDisplay(args []string) error {
	fs := flag.NewFlagSet("display", flag.ExitOnError)
	scenario := fs.String("scenario", "", "scenario table path (.json/.yaml/.csv)")
	equil := fs.String("equilibrium", "", "equilibrium config path (.json/.yaml)")
	what := fs.String("what", "e", "profile to render: a species label or 'psi'")
	out := fs.String("out", ".", "output directory")
	t := fs.Float64("t", 0, "time to refresh to before rendering")
	fs.Parse(args)
	if *scenario == "" || *equil == "" {
		return chk.Err("display: -scenario and -equilibrium are required")
	}
	tok, err := newTokamak(*scenario, *equil)
	if err != nil {
		return err
	}
	if _, err := tok.Refresh(context.Background(), *t); err != nil {
		return err
	}
	return tok.Display(*what, *out, "tokasim_"+*what+".png")
}
