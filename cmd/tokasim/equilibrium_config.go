package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gopkg.in/yaml.v3"

	"github.com/cpmech/tokasim/field2d"
	"github.com/cpmech/tokasim/fun1d"
)

// equilibriumConfig is the file-backed equilibrium adapter's neutral
// interchange form (spec §6: "a live provider that, for each time, yields a
// Field2D plus the 1-D arrays"; device description "a simple attribute-tree
// form"). Two shapes are accepted: an explicit (R,Z,Psi) grid plus fpol
// knots, or the analytic disk shorthand used throughout the test suite
// (spec §8 scenario 1), useful for smoke-testing a configuration without a
// real equilibrium reconstruction on hand. A full binary/text GEQDSK reader
// is not implemented here (DESIGN.md): the adapter boundary the core
// depends on is EquilibriumProvider, not any one file format.
type equilibriumConfig struct {
	R0 float64 `json:"r0" yaml:"r0"`
	B0 float64 `json:"b0" yaml:"b0"`

	Disk *diskConfig `json:"disk,omitempty" yaml:"disk,omitempty"`

	R          []float64   `json:"r,omitempty" yaml:"r,omitempty"`
	Z          []float64   `json:"z,omitempty" yaml:"z,omitempty"`
	Psi        [][]float64 `json:"psi,omitempty" yaml:"psi,omitempty"`
	FpolKnots  []float64   `json:"fpol_psi_norm,omitempty" yaml:"fpol_psi_norm,omitempty"`
	FpolValues []float64   `json:"fpol,omitempty" yaml:"fpol,omitempty"`
}

// diskConfig parametrizes the analytic disk Psi(R,Z) = ((R-R0)^2+Z^2)/a^2
// (spec §8 scenario 1), with fpol held at the vacuum value R0*B0.
type diskConfig struct {
	A  float64 `json:"a" yaml:"a"`
	NR int     `json:"nr,omitempty" yaml:"nr,omitempty"`
	NZ int     `json:"nz,omitempty" yaml:"nz,omitempty"`
}

func loadEquilibriumConfig(path string) (*equilibriumConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("loading equilibrium config %s: %v", path, err)
	}
	var cfg equilibriumConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return nil, chk.Err("unsupported equilibrium config extension %q (want .json, .yaml/.yml)", ext)
	}
	if err != nil {
		return nil, chk.Err("parsing equilibrium config %s: %v", path, err)
	}
	return &cfg, nil
}

// build materializes the Field2D and fpol profile the config describes.
func (c *equilibriumConfig) build() (*field2d.Field2D, fun1d.Function1D, error) {
	if c.Disk != nil {
		return c.buildDisk()
	}
	if len(c.R) < 2 || len(c.Z) < 2 || len(c.Psi) == 0 {
		return nil, nil, chk.Err("equilibrium config: need either a 'disk' block or explicit r/z/psi arrays")
	}
	f, err := field2d.New(c.R, c.Z, c.Psi)
	if err != nil {
		return nil, nil, err
	}
	if len(c.FpolKnots) < 2 || len(c.FpolValues) != len(c.FpolKnots) {
		return nil, nil, chk.Err("equilibrium config: fpol_psi_norm/fpol must be given and equal length")
	}
	fpol, err := fun1d.New(c.FpolKnots, c.FpolValues)
	if err != nil {
		return nil, nil, err
	}
	return f, fpol, nil
}

func (c *equilibriumConfig) buildDisk() (*field2d.Field2D, fun1d.Function1D, error) {
	d := c.Disk
	nr, nz := d.NR, d.NZ
	if nr <= 0 {
		nr = 129
	}
	if nz <= 0 {
		nz = 257
	}
	r := utl.LinSpace(c.R0-3*d.A, c.R0+3*d.A, nr)
	z := utl.LinSpace(-3*d.A, 3*d.A, nz)
	psi := make([][]float64, nr)
	for i, ri := range r {
		psi[i] = make([]float64, nz)
		for j, zj := range z {
			psi[i][j] = ((ri-c.R0)*(ri-c.R0) + zj*zj) / (d.A * d.A)
		}
	}
	f, err := field2d.New(r, z, psi)
	if err != nil {
		return nil, nil, err
	}
	fpolVal := c.R0 * c.B0
	fpol := fun1d.MustNew([]float64{0, 1.0 / 3, 2.0 / 3, 1}, []float64{fpolVal, fpolVal, fpolVal, fpolVal})
	return f, fpol, nil
}
