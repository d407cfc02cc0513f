package main

import (
	"context"

	"github.com/cpmech/tokasim/field2d"
	"github.com/cpmech/tokasim/fun1d"
)

// fileProvider implements tokamak.EquilibriumProvider over a static
// equilibriumConfig, built once in newFileProvider and handed back unchanged
// at every call since Field2D/Function1D values are immutable (spec §6's file-backed
// adapter case: the equilibrium does not itself evolve within one CLI
// invocation).
type fileProvider struct {
	field  *field2d.Field2D
	fpol   fun1d.Function1D
	r0, b0 float64
}

func newFileProvider(cfg *equilibriumConfig) (*fileProvider, error) {
	f, fpol, err := cfg.build()
	if err != nil {
		return nil, err
	}
	return &fileProvider{field: f, fpol: fpol, r0: cfg.R0, b0: cfg.B0}, nil
}

func (p *fileProvider) Equilibrium(ctx context.Context, t float64) (*field2d.Field2D, fun1d.Function1D, float64, float64, error) {
	return p.field, p.fpol, p.r0, p.b0, nil
}
